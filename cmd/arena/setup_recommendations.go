package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/render"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/teammates"
)

// SpeciesQueryArgs select one species in one format bucket.
type SpeciesQueryArgs struct {
	Species      string `json:"species" jsonschema:"Species name, e.g. Garchomp (required)"`
	Generation   string `json:"generation,omitempty" jsonschema:"Generation, e.g. gen9 (default from config)"`
	BattleFormat string `json:"battle_format,omitempty" jsonschema:"Battle format, e.g. ou (default from config)"`
	Rating       *int   `json:"rating,omitempty" jsonschema:"Rating bucket; -1 for all"`
	From         string `json:"from,omitempty" jsonschema:"First month YYYY-MM (inclusive)"`
	To           string `json:"to,omitempty" jsonschema:"Last month YYYY-MM (inclusive)"`
}

// SetupOutput is the output of the setup_recommendations tool.
type SetupOutput struct {
	Species string          `json:"species" yaml:"species"`
	Setup   teammates.Setup `json:"setup" yaml:"setup"`
}

func buildSetupRecommendations(ctx context.Context, d Deps, args SpeciesQueryArgs) (SetupOutput, error) {
	species := strings.TrimSpace(args.Species)
	if species == "" {
		return SetupOutput{}, fmt.Errorf("species is required")
	}
	if err := d.requireDB(); err != nil {
		return SetupOutput{}, err
	}
	sel, err := d.selector(args.Generation, args.BattleFormat, args.Rating, args.From, args.To)
	if err != nil {
		return SetupOutput{}, err
	}
	rows, err := d.DB.SetupRows(ctx, species, sel)
	if err != nil {
		return SetupOutput{}, err
	}
	return SetupOutput{Species: species, Setup: teammates.RecommendSetup(rows)}, nil
}

func (o SetupOutput) tables() []render.Table {
	s := o.Setup
	if s.NoData {
		return []render.Table{{Title: o.Species + " setup", Empty: "no setup data"}}
	}
	summary := render.Table{
		Title: o.Species + " setup",
		Rows: [][]string{
			{"Ability", s.Ability},
			{"Item", s.Item},
			{"Moves", strings.Join(s.Moveset, ", ")},
		},
	}
	if s.TopSpread != nil {
		summary.Rows = append(summary.Rows, []string{"Spread", s.TopSpread.Nature + " " + spreadString(s.TopSpread.EVs)})
	}
	out := []render.Table{summary}
	for _, part := range []struct {
		title string
		rows  []teammates.Usage
	}{
		{"Abilities", s.Abilities},
		{"Items", s.Items},
		{"Moves", s.Moves},
		{"Tera types", s.TeraTypes},
	} {
		if len(part.rows) == 0 {
			continue
		}
		t := render.Table{Title: part.title, Headers: []string{"Name", "Avg usage", "Months"}, Right: map[int]bool{1: true, 2: true}}
		for _, u := range part.rows {
			t.Rows = append(t.Rows, []string{u.Name, render.Percent(u.AvgUsage), render.Int(u.Months)})
		}
		out = append(out, t)
	}
	if len(s.Spreads) > 0 {
		t := render.Table{Title: "Spreads", Headers: []string{"Nature", "EVs", "Avg usage"}, Right: map[int]bool{2: true}}
		for _, sp := range s.Spreads {
			t.Rows = append(t.Rows, []string{sp.Nature, spreadString(sp.EVs), render.Percent(sp.AvgUsage)})
		}
		out = append(out, t)
	}
	return out
}

// spreadString renders an EV spread the way teambuilders do: "252/0/4/0/0/252".
func spreadString(evs model.EVSpread) string {
	parts := make([]string, 0, len(model.StatKeys))
	for _, k := range model.StatKeys {
		parts = append(parts, render.Int(evs.Get(k)))
	}
	return strings.Join(parts, "/")
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
