package main

import (
	"context"
	"strings"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/render"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/store"
)

type FormatsArgs struct{}

// FormatsOutput lists the format buckets present in the database.
type FormatsOutput struct {
	Formats []store.FormatInfo `json:"formats" yaml:"formats"`
}

func buildFormats(ctx context.Context, d Deps) (FormatsOutput, error) {
	if err := d.requireDB(); err != nil {
		return FormatsOutput{}, err
	}
	formats, err := d.DB.Formats(ctx)
	if err != nil {
		return FormatsOutput{}, err
	}
	return FormatsOutput{Formats: formats}, nil
}

func (o FormatsOutput) tables() []render.Table {
	t := render.Table{
		Title:   "Formats",
		Headers: []string{"Generation", "Format", "Ratings", "First", "Last", "Months"},
		Right:   map[int]bool{5: true},
		Empty:   "no usage data imported",
	}
	for _, f := range o.Formats {
		ratings := make([]string, 0, len(f.Ratings))
		for _, r := range f.Ratings {
			ratings = append(ratings, render.Int(int(r)))
		}
		t.Rows = append(t.Rows, []string{f.Generation, f.BattleFormat, strings.Join(ratings, ","), f.First, f.Last, render.Int(f.Months)})
	}
	return []render.Table{t}
}
