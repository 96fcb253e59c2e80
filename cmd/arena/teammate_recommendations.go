package main

import (
	"context"
	"fmt"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/render"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/teammates"
)

// TeammateArgs are the input arguments for the teammate_recommendations tool.
type TeammateArgs struct {
	Team         []string `json:"team" jsonschema:"Species already on the team (required)"`
	Opponents    []string `json:"opponents,omitempty" jsonschema:"Species on the opposing team; never recommended"`
	Generation   string   `json:"generation,omitempty" jsonschema:"Generation, e.g. gen9 (default from config)"`
	BattleFormat string   `json:"battle_format,omitempty" jsonschema:"Battle format, e.g. ou (default from config)"`
	Rating       *int     `json:"rating,omitempty" jsonschema:"Rating bucket; -1 for all"`
	From         string   `json:"from,omitempty" jsonschema:"First month YYYY-MM (inclusive)"`
	To           string   `json:"to,omitempty" jsonschema:"Last month YYYY-MM (inclusive)"`
	Threshold    *float64 `json:"threshold,omitempty" jsonschema:"Minimum average usage as a fraction (default 0.5)"`
	Limit        int      `json:"limit,omitempty" jsonschema:"Maximum recommendations (0 = all)"`
}

// TeammateOutput is the output of the teammate_recommendations tool.
type TeammateOutput struct {
	Team            []string                   `json:"team" yaml:"team"`
	Opponents       []string                   `json:"opponents" yaml:"opponents"`
	Threshold       float64                    `json:"threshold" yaml:"threshold"`
	Recommendations []teammates.Recommendation `json:"recommendations" yaml:"recommendations"`
}

func buildTeammateRecommendations(ctx context.Context, d Deps, args TeammateArgs) (TeammateOutput, error) {
	team := cleanNames(args.Team)
	if len(team) == 0 {
		return TeammateOutput{}, fmt.Errorf("team is required")
	}
	if len(team) > model.TeamSize {
		return TeammateOutput{}, fmt.Errorf("team has %d members, at most %d allowed", len(team), model.TeamSize)
	}
	if err := d.requireDB(); err != nil {
		return TeammateOutput{}, err
	}
	sel, err := d.selector(args.Generation, args.BattleFormat, args.Rating, args.From, args.To)
	if err != nil {
		return TeammateOutput{}, err
	}

	sources := make(map[string][]model.TeammateRow, len(team))
	for _, species := range team {
		rows, err := d.DB.TeammateAverages(ctx, species, sel)
		if err != nil {
			return TeammateOutput{}, err
		}
		sources[species] = rows
	}

	opts := teammates.Options{}
	threshold := teammates.DefaultThreshold
	if args.Threshold != nil {
		opts.Threshold = *args.Threshold
		threshold = *args.Threshold
		if threshold == 0 {
			threshold = teammates.DefaultThreshold
		}
	}
	opponents := cleanNames(args.Opponents)
	recs := teammates.Recommend(sources, [][]string{team, opponents}, opts)
	if args.Limit > 0 && len(recs) > args.Limit {
		recs = recs[:args.Limit]
	}
	return TeammateOutput{Team: team, Opponents: opponents, Threshold: threshold, Recommendations: recs}, nil
}

func (o TeammateOutput) tables() []render.Table {
	t := render.Table{
		Title:   "Teammates",
		Headers: []string{"Species", "Avg usage", "Sources", "Recommended for"},
		Right:   map[int]bool{1: true, 2: true},
		Empty:   "no teammate reaches the threshold",
	}
	for _, r := range o.Recommendations {
		t.Rows = append(t.Rows, []string{r.Name, render.Percent(r.AvgUsage), render.Int(r.DataPoints), joinNames(r.RecommendedFor)})
	}
	return []render.Table{t}
}
