package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/matchup"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/render"
)

// CounterOutput is the output of the counter_matchups tool.
type CounterOutput struct {
	Species string         `json:"species" yaml:"species"`
	Result  matchup.Result `json:"result" yaml:"result"`
}

func buildCounterMatchups(ctx context.Context, d Deps, args SpeciesQueryArgs) (CounterOutput, error) {
	species := strings.TrimSpace(args.Species)
	if species == "" {
		return CounterOutput{}, fmt.Errorf("species is required")
	}
	if err := d.requireDB(); err != nil {
		return CounterOutput{}, err
	}
	sel, err := d.selector(args.Generation, args.BattleFormat, args.Rating, args.From, args.To)
	if err != nil {
		return CounterOutput{}, err
	}
	rows, err := d.DB.CounterRows(ctx, species, sel)
	if err != nil {
		return CounterOutput{}, err
	}
	return CounterOutput{Species: species, Result: matchup.Analyze(rows)}, nil
}

func (o CounterOutput) tables() []render.Table {
	if o.Result.NoData {
		return []render.Table{{Title: o.Species + " matchups", Empty: "no counter data"}}
	}
	section := func(title string, entries []matchup.Entry) render.Table {
		t := render.Table{
			Title:   title,
			Headers: []string{"Opponent", "Lose rate", "KO", "Switch"},
			Right:   map[int]bool{1: true, 2: true, 3: true},
		}
		for _, e := range entries {
			t.Rows = append(t.Rows, []string{e.Opponent, render.Percent(e.LoseRate), render.Percent(e.KOPercent), render.Percent(e.SwitchPercent)})
		}
		return t
	}
	return []render.Table{
		section(o.Species+" counters ("+o.Result.Snapshot+")", o.Result.StrongestCounters),
		section("Favorable matchups", o.Result.FavorableMatchups),
	}
}
