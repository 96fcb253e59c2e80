package main

import (
	"context"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/render"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/usage"
)

// UsageRankingArgs are the input arguments for the usage_ranking tool.
type UsageRankingArgs struct {
	Generation   string `json:"generation,omitempty" jsonschema:"Generation, e.g. gen9 (default from config)"`
	BattleFormat string `json:"battle_format,omitempty" jsonschema:"Battle format, e.g. ou (default from config)"`
	Rating       *int   `json:"rating,omitempty" jsonschema:"Rating bucket, e.g. 0 or 1695; -1 for all"`
	From         string `json:"from,omitempty" jsonschema:"First month YYYY-MM (inclusive)"`
	To           string `json:"to,omitempty" jsonschema:"Last month YYYY-MM (inclusive)"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Number of species to return (default 20, 0 = all)"`
	Series       bool   `json:"series,omitempty" jsonschema:"Include the monthly usage series of the returned species"`
}

// UsageRankingOutput is the output of the usage_ranking tool.
type UsageRankingOutput struct {
	Generation   string        `json:"generation" yaml:"generation"`
	BattleFormat string        `json:"battle_format" yaml:"battle_format"`
	Rating       *uint32       `json:"rating,omitempty" yaml:"rating,omitempty"`
	From         string        `json:"from,omitempty" yaml:"from,omitempty"`
	To           string        `json:"to,omitempty" yaml:"to,omitempty"`
	RowsRead     int           `json:"rows_read" yaml:"rows_read"`
	Ranked       int           `json:"ranked" yaml:"ranked"`
	Ranking      usage.Ranking `json:"ranking" yaml:"ranking"`
	Series       []usage.Point `json:"series,omitempty" yaml:"series,omitempty"`
}

func buildUsageRanking(ctx context.Context, d Deps, args UsageRankingArgs) (UsageRankingOutput, error) {
	if err := d.requireDB(); err != nil {
		return UsageRankingOutput{}, err
	}
	sel, err := d.selector(args.Generation, args.BattleFormat, args.Rating, args.From, args.To)
	if err != nil {
		return UsageRankingOutput{}, err
	}
	rows, err := d.DB.UsageRows(ctx, sel)
	if err != nil {
		return UsageRankingOutput{}, err
	}
	limit := args.Limit
	if limit == 0 {
		limit = 20
	}
	ranking := usage.Aggregate(rows)
	out := UsageRankingOutput{
		Generation:   sel.Generation,
		BattleFormat: sel.BattleFormat,
		Rating:       sel.Rating,
		From:         sel.From,
		To:           sel.To,
		RowsRead:     len(rows),
		Ranked:       len(ranking),
		Ranking:      ranking.Top(limit),
	}
	if args.Series {
		out.Series = usage.MonthlySeries(rows, out.Ranking.Species())
	}
	return out, nil
}

func (o UsageRankingOutput) tables() []render.Table {
	t := render.Table{
		Title:   "Usage " + o.Generation + o.BattleFormat,
		Headers: []string{"#", "Species", "Avg usage", "Months"},
		Right:   map[int]bool{0: true, 2: true, 3: true},
		Empty:   "no species meet the presence threshold",
	}
	for i, e := range o.Ranking {
		t.Rows = append(t.Rows, []string{
			render.Int(i + 1),
			e.Species,
			render.Percent(e.AverageUsage),
			render.Int(e.MonthsPresent) + "/" + render.Int(e.TotalMonths),
		})
	}
	out := []render.Table{t}
	if len(o.Series) > 0 {
		names := o.Ranking.Species()
		s := render.Table{Title: "Monthly usage", Headers: append([]string{"Month"}, names...), Right: map[int]bool{}}
		for i := range names {
			s.Right[i+1] = true
		}
		for _, p := range o.Series {
			row := []string{p.YearMonth}
			for _, n := range names {
				row = append(row, render.OptPercent(p.Values[n]))
			}
			s.Rows = append(s.Rows, row)
		}
		out = append(out, s)
	}
	return out
}
