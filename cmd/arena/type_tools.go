package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/render"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/typechart"
)

// TypeEffectivenessArgs are the input arguments for the type_effectiveness
// tool.
type TypeEffectivenessArgs struct {
	Attacking string   `json:"attacking,omitempty" jsonschema:"Attacking type; omit to list every type's multiplier"`
	Defending []string `json:"defending" jsonschema:"Defending types, one or two (required)"`
}

// TypeEffectivenessOutput is the output of the type_effectiveness tool.
type TypeEffectivenessOutput struct {
	Defending  []typechart.Type `json:"defending" yaml:"defending"`
	Attacking  typechart.Type   `json:"attacking,omitempty" yaml:"attacking,omitempty"`
	Multiplier *float64         `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
	Matchups   []TypeMultiplier `json:"matchups,omitempty" yaml:"matchups,omitempty"`
}

type TypeMultiplier struct {
	Type       typechart.Type `json:"type" yaml:"type"`
	Multiplier float64        `json:"multiplier" yaml:"multiplier"`
}

func buildTypeEffectiveness(args TypeEffectivenessArgs) (TypeEffectivenessOutput, error) {
	defs, err := typechart.ParseTypes(cleanNames(args.Defending))
	if err != nil {
		return TypeEffectivenessOutput{}, err
	}
	if len(defs) == 0 {
		return TypeEffectivenessOutput{}, fmt.Errorf("defending is required")
	}
	if err := typechart.ValidateDefender(defs); err != nil {
		return TypeEffectivenessOutput{}, fmt.Errorf("defending: %w", err)
	}
	out := TypeEffectivenessOutput{Defending: defs}
	if strings.TrimSpace(args.Attacking) != "" {
		atk, err := typechart.ParseType(args.Attacking)
		if err != nil {
			return TypeEffectivenessOutput{}, err
		}
		m, err := typechart.MultiTypeDefenseMultiplier(atk, defs)
		if err != nil {
			return TypeEffectivenessOutput{}, err
		}
		out.Attacking = atk
		out.Multiplier = &m
		return out, nil
	}
	for _, atk := range typechart.All {
		m, err := typechart.MultiTypeDefenseMultiplier(atk, defs)
		if err != nil {
			return TypeEffectivenessOutput{}, err
		}
		out.Matchups = append(out.Matchups, TypeMultiplier{Type: atk, Multiplier: m})
	}
	sort.SliceStable(out.Matchups, func(i, j int) bool {
		return out.Matchups[i].Multiplier > out.Matchups[j].Multiplier
	})
	return out, nil
}

func (o TypeEffectivenessOutput) tables() []render.Table {
	title := "vs " + typeList(o.Defending)
	if o.Multiplier != nil {
		return []render.Table{{Title: string(o.Attacking) + " " + title, Rows: [][]string{{render.Multiplier(*o.Multiplier)}}}}
	}
	t := render.Table{Title: title, Headers: []string{"Attacking", "Multiplier"}, Right: map[int]bool{1: true}}
	for _, m := range o.Matchups {
		t.Rows = append(t.Rows, []string{string(m.Type), render.Multiplier(m.Multiplier)})
	}
	return []render.Table{t}
}

// TeamCoverageArgs are the input arguments for the team_coverage tool. Each
// member is a species name resolved through the species API, or a type list
// such as "fire/flying".
type TeamCoverageArgs struct {
	Team []string `json:"team" jsonschema:"Up to four species names or slash-separated type lists (required)"`
}

type CoverageMember struct {
	Name  string           `json:"name" yaml:"name"`
	Types []typechart.Type `json:"types" yaml:"types"`
}

// TeamCoverageOutput is the output of the team_coverage tool. Weak lists
// types no member takes neutral or resisted damage from; Unanswered lists
// types no member hits super effectively with its own types.
type TeamCoverageOutput struct {
	Members    []CoverageMember        `json:"members" yaml:"members"`
	Coverage   []typechart.CoverageRow `json:"coverage" yaml:"coverage"`
	Weak       []typechart.Type        `json:"weak" yaml:"weak"`
	Unanswered []typechart.Type        `json:"unanswered" yaml:"unanswered"`
}

func buildTeamCoverage(ctx context.Context, d Deps, args TeamCoverageArgs) (TeamCoverageOutput, error) {
	names := cleanNames(args.Team)
	if len(names) == 0 {
		return TeamCoverageOutput{}, fmt.Errorf("team is required")
	}
	if len(names) > model.TeamSize {
		return TeamCoverageOutput{}, fmt.Errorf("team has %d members, at most %d allowed", len(names), model.TeamSize)
	}
	out := TeamCoverageOutput{Weak: []typechart.Type{}, Unanswered: []typechart.Type{}}
	team := make([][]typechart.Type, 0, len(names))
	for _, name := range names {
		types, err := memberTypes(ctx, d, name)
		if err != nil {
			return TeamCoverageOutput{}, err
		}
		out.Members = append(out.Members, CoverageMember{Name: name, Types: types})
		team = append(team, types)
	}
	rows, err := typechart.TeamCoverage(team)
	if err != nil {
		return TeamCoverageOutput{}, err
	}
	out.Coverage = rows
	for _, r := range rows {
		if r.Defensive > 1 {
			out.Weak = append(out.Weak, r.Type)
		}
		if r.Offensive <= 1 {
			out.Unanswered = append(out.Unanswered, r.Type)
		}
	}
	return out, nil
}

// memberTypes treats "fire/flying" and single type names as literal types
// and anything else as a species.
func memberTypes(ctx context.Context, d Deps, name string) ([]typechart.Type, error) {
	if types, err := typechart.ParseTypes(strings.Split(name, "/")); err == nil {
		if err := typechart.ValidateDefender(types); err != nil {
			return nil, fmt.Errorf("member %q: %w", name, err)
		}
		return types, nil
	}
	if err := d.requireSpecies(); err != nil {
		return nil, err
	}
	p, err := d.Species.SpeciesProfile(ctx, name)
	if err != nil {
		return nil, err
	}
	return p.Types, nil
}

func (o TeamCoverageOutput) tables() []render.Table {
	members := render.Table{Title: "Team", Headers: []string{"Member", "Types"}}
	for _, m := range o.Members {
		members.Rows = append(members.Rows, []string{m.Name, typeList(m.Types)})
	}
	cov := render.Table{
		Title:   "Coverage",
		Headers: []string{"Type", "Best offense", "Best defense"},
		Right:   map[int]bool{1: true, 2: true},
	}
	for _, r := range o.Coverage {
		cov.Rows = append(cov.Rows, []string{string(r.Type), render.Multiplier(r.Offensive), render.Multiplier(r.Defensive)})
	}
	return []render.Table{members, cov}
}

func typeList(types []typechart.Type) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, "/")
}

// TypeMatrixOutput is the full attacker by defender chart.
type TypeMatrixOutput struct {
	Types  []typechart.Type `json:"types" yaml:"types"`
	Matrix [][]float64      `json:"matrix" yaml:"matrix"`
}

func buildTypeMatrix() TypeMatrixOutput {
	return TypeMatrixOutput{Types: typechart.All, Matrix: typechart.Matrix()}
}

func (o TypeMatrixOutput) tables() []render.Table {
	t := render.Table{Title: "attacker \\ defender", Headers: []string{""}, Right: map[int]bool{}}
	for i, typ := range o.Types {
		t.Headers = append(t.Headers, string(typ)[:3])
		t.Right[i+1] = true
	}
	for i, row := range o.Matrix {
		cells := []string{string(o.Types[i])}
		for _, m := range row {
			cell := render.Float(m, 1)
			if m == 1 {
				cell = "."
			}
			cells = append(cells, cell)
		}
		t.Rows = append(t.Rows, cells)
	}
	return []render.Table{t}
}
