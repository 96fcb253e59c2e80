package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newUsageCmd() *cobra.Command {
	var args UsageRankingArgs
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Rank species by average usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, closeDeps, err := openDeps(true)
			if err != nil {
				return err
			}
			defer closeDeps()
			out, err := buildUsageRanking(cmd.Context(), d, args)
			if err != nil {
				return err
			}
			return printOutput(cmd, out)
		},
	}
	cmd.Flags().IntVarP(&args.Limit, "limit", "n", 20, "number of species (0 = all)")
	cmd.Flags().BoolVar(&args.Series, "series", false, "include monthly usage of the listed species")
	return cmd
}

func newTeammatesCmd() *cobra.Command {
	var (
		args      TeammateArgs
		threshold float64
	)
	cmd := &cobra.Command{
		Use:   "teammates SPECIES...",
		Short: "Recommend teammates for a team",
		Args:  cobra.RangeArgs(1, 4),
		RunE: func(cmd *cobra.Command, species []string) error {
			d, closeDeps, err := openDeps(true)
			if err != nil {
				return err
			}
			defer closeDeps()
			args.Team = species
			if cmd.Flags().Changed("threshold") {
				args.Threshold = &threshold
			}
			out, err := buildTeammateRecommendations(cmd.Context(), d, args)
			if err != nil {
				return err
			}
			return printOutput(cmd, out)
		},
	}
	cmd.Flags().StringSliceVar(&args.Opponents, "against", nil, "opposing team species (excluded from results)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.5, "minimum average usage as a fraction")
	cmd.Flags().IntVarP(&args.Limit, "limit", "n", 0, "maximum recommendations (0 = all)")
	return cmd
}

func newSpeciesQueryCmd(use, short string, run func(cmd *cobra.Command, d Deps, args SpeciesQueryArgs) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " SPECIES",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, species []string) error {
			d, closeDeps, err := openDeps(true)
			if err != nil {
				return err
			}
			defer closeDeps()
			return run(cmd, d, SpeciesQueryArgs{Species: species[0]})
		},
	}
}

func newSetupCmd() *cobra.Command {
	return newSpeciesQueryCmd("setup", "Most used abilities, items, moves and spreads", func(cmd *cobra.Command, d Deps, args SpeciesQueryArgs) error {
		out, err := buildSetupRecommendations(cmd.Context(), d, args)
		if err != nil {
			return err
		}
		return printOutput(cmd, out)
	})
}

func newCountersCmd() *cobra.Command {
	return newSpeciesQueryCmd("counters", "Strongest counters and favorable matchups", func(cmd *cobra.Command, d Deps, args SpeciesQueryArgs) error {
		out, err := buildCounterMatchups(cmd.Context(), d, args)
		if err != nil {
			return err
		}
		return printOutput(cmd, out)
	})
}

func newViabilityCmd() *cobra.Command {
	var allGenerations bool
	cmd := &cobra.Command{
		Use:   "viability SPECIES",
		Short: "Tier a species across the formats it appears in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, species []string) error {
			d, closeDeps, err := openDeps(true)
			if err != nil {
				return err
			}
			defer closeDeps()
			args := ViabilityArgs{Species: species[0], From: queryFrom, To: queryTo}
			if !allGenerations {
				args.Generation = queryGeneration
			}
			if cmd.Flags().Changed("rating") {
				args.Rating = &queryRating
			}
			out, err := buildFormatViability(cmd.Context(), d, args)
			if err != nil {
				return err
			}
			return printOutput(cmd, out)
		},
	}
	cmd.Flags().BoolVar(&allGenerations, "all-generations", false, "classify formats of every generation")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var args BuildStatsArgs
	cmd := &cobra.Command{
		Use:   "stats SPECIES",
		Short: "Level 50 stats for a nature and EV spread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, species []string) error {
			d, closeDeps, err := openDeps(false)
			if err != nil {
				return err
			}
			defer closeDeps()
			args.Species = species[0]
			out, err := buildBuildStats(cmd.Context(), d, args)
			if err != nil {
				return err
			}
			return printOutput(cmd, out)
		},
	}
	cmd.Flags().StringVar(&args.Nature, "nature", "", "nature (default Hardy)")
	cmd.Flags().StringToIntVar(&args.EVs, "evs", nil, "EV spread, e.g. atk=252,spe=252,hp=4")
	return cmd
}

func newEVCmd() *cobra.Command {
	var args AllocateEVArgs
	cmd := &cobra.Command{
		Use:   "ev STAT VALUE",
		Short: "Set one stat's EVs within the 510 budget",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, pos []string) error {
			v, err := strconv.Atoi(pos[1])
			if err != nil {
				return fmt.Errorf("invalid EV value %q", pos[1])
			}
			args.Stat, args.Value = pos[0], v
			out, err := buildAllocateEV(args)
			if err != nil {
				return err
			}
			return printOutput(cmd, out)
		},
	}
	cmd.Flags().StringToIntVar(&args.EVs, "evs", nil, "current spread, e.g. hp=252,def=252")
	return cmd
}

func newTypesCmd() *cobra.Command {
	var (
		attacking string
		matrix    bool
	)
	cmd := &cobra.Command{
		Use:   "types [DEFENDING...]",
		Short: "Type effectiveness against one or two defending types",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, defending []string) error {
			if matrix {
				return printOutput(cmd, buildTypeMatrix())
			}
			if len(defending) == 1 && strings.Contains(defending[0], "/") {
				defending = strings.Split(defending[0], "/")
			}
			out, err := buildTypeEffectiveness(TypeEffectivenessArgs{Attacking: attacking, Defending: defending})
			if err != nil {
				return err
			}
			return printOutput(cmd, out)
		},
	}
	cmd.Flags().StringVar(&attacking, "attacking", "", "attacking type (default: list all)")
	cmd.Flags().BoolVar(&matrix, "matrix", false, "print the full type chart")
	return cmd
}

func newCoverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coverage MEMBER...",
		Short: "Team type coverage; members are species or types like fire/flying",
		Args:  cobra.RangeArgs(1, 4),
		RunE: func(cmd *cobra.Command, members []string) error {
			d, closeDeps, err := openDeps(false)
			if err != nil {
				return err
			}
			defer closeDeps()
			out, err := buildTeamCoverage(cmd.Context(), d, TeamCoverageArgs{Team: members})
			if err != nil {
				return err
			}
			return printOutput(cmd, out)
		},
	}
}

func newCompareCmd() *cobra.Command {
	var teamA, teamB []string
	cmd := &cobra.Command{
		Use:   "compare --a SPECIES,... --b SPECIES,...",
		Short: "Compare the averaged stats of two teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, closeDeps, err := openDeps(false)
			if err != nil {
				return err
			}
			defer closeDeps()
			a, err := parseMembers(teamA)
			if err != nil {
				return err
			}
			b, err := parseMembers(teamB)
			if err != nil {
				return err
			}
			out, err := buildTeamCompare(cmd.Context(), d, TeamCompareArgs{TeamA: a, TeamB: b})
			if err != nil {
				return err
			}
			return printOutput(cmd, out)
		},
	}
	cmd.Flags().StringSliceVar(&teamA, "a", nil, "first team, e.g. Garchomp@Jolly,Clefable")
	cmd.Flags().StringSliceVar(&teamB, "b", nil, "second team")
	return cmd
}

// parseMembers reads "Species" or "Species@Nature" entries.
func parseMembers(specs []string) ([]MemberArgs, error) {
	out := make([]MemberArgs, 0, len(specs))
	for _, s := range specs {
		name, nature, _ := strings.Cut(strings.TrimSpace(s), "@")
		if name == "" {
			return nil, fmt.Errorf("empty team member in %q", s)
		}
		out = append(out, MemberArgs{Species: name, Nature: nature})
	}
	return out, nil
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List imported generations, formats and months",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, closeDeps, err := openDeps(true)
			if err != nil {
				return err
			}
			defer closeDeps()
			out, err := buildFormats(cmd.Context(), d)
			if err != nil {
				return err
			}
			return printOutput(cmd, out)
		},
	}
}
