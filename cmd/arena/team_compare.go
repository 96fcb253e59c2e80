package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/render"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/stats"
)

// MemberArgs describe one team slot. Without nature or EVs the member is
// compared on a neutral, EV-less build.
type MemberArgs struct {
	Species string         `json:"species" jsonschema:"Species name"`
	Nature  string         `json:"nature,omitempty" jsonschema:"Nature name"`
	EVs     map[string]int `json:"evs,omitempty" jsonschema:"EVs per stat"`
}

// TeamCompareArgs are the input arguments for the team_compare tool.
type TeamCompareArgs struct {
	TeamA []MemberArgs `json:"team_a" jsonschema:"Up to four members of the first team (required)"`
	TeamB []MemberArgs `json:"team_b" jsonschema:"Up to four members of the second team (required)"`
}

// TeamCompareOutput is the output of the team_compare tool.
type TeamCompareOutput struct {
	TeamA      []string         `json:"team_a" yaml:"team_a"`
	TeamB      []string         `json:"team_b" yaml:"team_b"`
	Comparison stats.Comparison `json:"comparison" yaml:"comparison"`
}

func buildTeamCompare(ctx context.Context, d Deps, args TeamCompareArgs) (TeamCompareOutput, error) {
	if len(args.TeamA) == 0 || len(args.TeamB) == 0 {
		return TeamCompareOutput{}, fmt.Errorf("team_a and team_b are required")
	}
	if err := d.requireSpecies(); err != nil {
		return TeamCompareOutput{}, err
	}
	a, err := buildTeam(ctx, d, args.TeamA)
	if err != nil {
		return TeamCompareOutput{}, fmt.Errorf("team_a: %w", err)
	}
	b, err := buildTeam(ctx, d, args.TeamB)
	if err != nil {
		return TeamCompareOutput{}, fmt.Errorf("team_b: %w", err)
	}
	return TeamCompareOutput{TeamA: a.Names(), TeamB: b.Names(), Comparison: stats.CompareTeams(a, b)}, nil
}

// buildTeam fills the slots in order, looking species up in parallel.
func buildTeam(ctx context.Context, d Deps, members []MemberArgs) (model.Team, error) {
	team := model.NewTeam()
	if len(members) > model.TeamSize {
		return team, fmt.Errorf("%d members, at most %d allowed", len(members), model.TeamSize)
	}
	names := make([]string, 0, len(members))
	for i, m := range members {
		name := strings.TrimSpace(m.Species)
		if name == "" {
			return team, fmt.Errorf("slot %d: species is required", i+1)
		}
		names = append(names, name)
	}
	profiles, err := d.Species.Profiles(ctx, names, d.Parallel)
	if err != nil {
		return team, err
	}
	for i, m := range members {
		p := profiles[i]
		team[i].Species = &p
		if m.Nature == "" && len(m.EVs) == 0 {
			continue
		}
		nature, err := parseNature(m.Nature)
		if err != nil {
			return team, fmt.Errorf("slot %d: %w", i+1, err)
		}
		evs, err := parseSpread(m.EVs)
		if err != nil {
			return team, fmt.Errorf("slot %d: %w", i+1, err)
		}
		team[i].Build = &model.Build{Species: p, Nature: nature, EVs: evs}
	}
	return team, nil
}

func (o TeamCompareOutput) tables() []render.Table {
	c := o.Comparison
	if c.NoData {
		return []render.Table{{Title: "Team comparison", Empty: "both teams need at least one member"}}
	}
	t := render.Table{
		Title:   "Team comparison: " + joinNames(o.TeamA) + " vs " + joinNames(o.TeamB),
		Headers: []string{"Stat", "Team A", "Team B", "Diff %"},
		Right:   map[int]bool{1: true, 2: true, 3: true},
	}
	for _, k := range model.StatKeys {
		t.Rows = append(t.Rows, []string{string(k), render.Int(c.TeamA.Get(k)), render.Int(c.TeamB.Get(k)), render.Signed(c.DiffPercent[k], 1)})
	}
	edges := render.Table{
		Title: "Advantage (positive favors team A)",
		Rows: [][]string{
			{"physical", render.Signed(c.PhysicalEdge, 1)},
			{"special", render.Signed(c.SpecialEdge, 1)},
		},
		Right: map[int]bool{1: true},
	}
	return []render.Table{t, edges}
}
