package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/render"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/store"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/viability"
)

// ViabilityArgs are the input arguments for the format_viability tool. The
// battle format is not filtered on; every format the species appears in is
// classified.
type ViabilityArgs struct {
	Species    string `json:"species" jsonschema:"Species name (required)"`
	Generation string `json:"generation,omitempty" jsonschema:"Restrict to one generation, e.g. gen9"`
	Rating     *int   `json:"rating,omitempty" jsonschema:"Rating bucket; -1 (default) uses the highest ceiling across ratings"`
	From       string `json:"from,omitempty" jsonschema:"First month YYYY-MM (inclusive)"`
	To         string `json:"to,omitempty" jsonschema:"Last month YYYY-MM (inclusive)"`
}

// ViabilityOutput is the output of the format_viability tool.
type ViabilityOutput struct {
	Species string            `json:"species" yaml:"species"`
	Summary viability.Summary `json:"summary" yaml:"summary"`
}

func buildFormatViability(ctx context.Context, d Deps, args ViabilityArgs) (ViabilityOutput, error) {
	species := strings.TrimSpace(args.Species)
	if species == "" {
		return ViabilityOutput{}, fmt.Errorf("species is required")
	}
	if err := d.requireDB(); err != nil {
		return ViabilityOutput{}, err
	}
	sel := store.Selector{
		Generation: strings.ToLower(strings.TrimSpace(args.Generation)),
		From:       strings.TrimSpace(args.From),
		To:         strings.TrimSpace(args.To),
	}
	if args.Rating != nil && *args.Rating >= 0 {
		r := uint32(*args.Rating)
		sel.Rating = &r
	}
	if err := sel.Validate(); err != nil {
		return ViabilityOutput{}, err
	}
	rows, err := d.DB.ViabilityRows(ctx, species, sel)
	if err != nil {
		return ViabilityOutput{}, err
	}
	return ViabilityOutput{Species: species, Summary: viability.Classify(rows)}, nil
}

func (o ViabilityOutput) tables() []render.Table {
	s := o.Summary
	if s.NoData {
		return []render.Table{{Title: o.Species + " viability", Empty: "no viability data"}}
	}
	formats := render.Table{
		Title:   o.Species + " viability",
		Headers: []string{"Format", "Ceiling", "Tier", "Month"},
		Right:   map[int]bool{1: true},
	}
	for _, f := range s.Formats {
		formats.Rows = append(formats.Rows, []string{f.Format, render.Float(f.Score, 0), string(f.Tier), f.YearMonth})
	}
	dist := render.Table{
		Title:   "Tier distribution (" + render.Int(s.UniqueFormats) + " formats, avg tier " + render.Float(s.AverageTierValue, 2) + ")",
		Headers: []string{"Tier", "Formats", "Share"},
		Right:   map[int]bool{1: true, 2: true},
	}
	for _, sh := range s.Distribution {
		dist.Rows = append(dist.Rows, []string{string(sh.Tier), render.Int(sh.Count), render.Float(sh.Percent, 1) + "%"})
	}
	if s.Best != nil && s.Worst != nil {
		dist.Rows = append(dist.Rows,
			[]string{"best", joinNames(s.Best.Formats), string(s.Best.Tier)},
			[]string{"worst", joinNames(s.Worst.Formats), string(s.Worst.Tier)},
		)
	}
	return []render.Table{formats, dist}
}
