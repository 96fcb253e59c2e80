package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/render"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/stats"
)

// BuildStatsArgs are the input arguments for the build_stats tool.
type BuildStatsArgs struct {
	Species    string         `json:"species" jsonschema:"Species name (required)"`
	Nature     string         `json:"nature,omitempty" jsonschema:"Nature name (default Hardy)"`
	EVs        map[string]int `json:"evs,omitempty" jsonschema:"EVs per stat, e.g. {\"atk\": 252, \"spe\": 252}"`
	Generation string         `json:"generation,omitempty" jsonschema:"Generation; EVs are ignored for gen1 and gen2"`
}

// BuildStatsOutput is the output of the build_stats tool.
type BuildStatsOutput struct {
	Species      model.SpeciesProfile `json:"species" yaml:"species"`
	Nature       model.Nature         `json:"nature" yaml:"nature"`
	EVs          model.EVSpread       `json:"evs" yaml:"evs"`
	EVsIgnored   bool                 `json:"evs_ignored,omitempty" yaml:"evs_ignored,omitempty"`
	EVsRemaining int                  `json:"evs_remaining" yaml:"evs_remaining"`
	Level        int                  `json:"level" yaml:"level"`
	Stats        model.StatBlock      `json:"stats" yaml:"stats"`
}

func buildBuildStats(ctx context.Context, d Deps, args BuildStatsArgs) (BuildStatsOutput, error) {
	if strings.TrimSpace(args.Species) == "" {
		return BuildStatsOutput{}, fmt.Errorf("species is required")
	}
	if err := d.requireSpecies(); err != nil {
		return BuildStatsOutput{}, err
	}
	nature, err := parseNature(args.Nature)
	if err != nil {
		return BuildStatsOutput{}, err
	}
	evs, err := parseSpread(args.EVs)
	if err != nil {
		return BuildStatsOutput{}, err
	}
	gen := args.Generation
	if gen == "" {
		gen = d.Defaults.Generation
	}
	out := BuildStatsOutput{Nature: nature, Level: stats.Level}
	if !stats.SupportsEVs(strings.ToLower(gen)) && evs.Sum() > 0 {
		evs = model.EVSpread{}
		out.EVsIgnored = true
	}
	profile, err := d.Species.SpeciesProfile(ctx, args.Species)
	if err != nil {
		return BuildStatsOutput{}, err
	}
	out.Species = profile
	out.EVs = evs
	out.EVsRemaining = stats.Remaining(evs)
	out.Stats = stats.CalculateBuild(model.Build{Species: profile, Nature: nature, EVs: evs})
	return out, nil
}

func (o BuildStatsOutput) tables() []render.Table {
	t := render.Table{
		Title:   fmt.Sprintf("%s (%s) level %d", o.Species.Name, o.Nature.Name, o.Level),
		Headers: []string{"Stat", "Base", "EV", "Value"},
		Right:   map[int]bool{1: true, 2: true, 3: true},
	}
	for _, k := range model.StatKeys {
		name := string(k)
		switch {
		case o.Nature.Raises(k):
			name += " +"
		case o.Nature.Lowers(k):
			name += " -"
		}
		t.Rows = append(t.Rows, []string{name, render.Int(o.Species.BaseStats.Get(k)), render.Int(o.EVs.Get(k)), render.Int(o.Stats.Get(k))})
	}
	t.Rows = append(t.Rows, []string{"total", render.Int(o.Species.BaseStats.Sum()), render.Int(o.EVs.Sum()), render.Int(o.Stats.Sum())})
	return []render.Table{t}
}

// AllocateEVArgs are the input arguments for the allocate_ev tool.
type AllocateEVArgs struct {
	EVs   map[string]int `json:"evs,omitempty" jsonschema:"Current EV spread"`
	Stat  string         `json:"stat" jsonschema:"Stat to change: hp, atk, def, spa, spd or spe (required)"`
	Value int            `json:"value" jsonschema:"Requested EV value 0..252"`
}

// AllocateEVOutput is the output of the allocate_ev tool.
type AllocateEVOutput struct {
	Stat      model.StatKey  `json:"stat" yaml:"stat"`
	Requested int            `json:"requested" yaml:"requested"`
	Applied   int            `json:"applied" yaml:"applied"`
	Clamped   bool           `json:"clamped" yaml:"clamped"`
	EVs       model.EVSpread `json:"evs" yaml:"evs"`
	Total     int            `json:"total" yaml:"total"`
	Remaining int            `json:"remaining" yaml:"remaining"`
}

func buildAllocateEV(args AllocateEVArgs) (AllocateEVOutput, error) {
	key, err := model.ParseStatKey(args.Stat)
	if err != nil {
		return AllocateEVOutput{}, err
	}
	if args.Value < 0 || args.Value > stats.MaxEV {
		return AllocateEVOutput{}, fmt.Errorf("%w: %s=%d (want 0..%d)", stats.ErrInvalidEV, key, args.Value, stats.MaxEV)
	}
	spread, err := parseSpread(args.EVs)
	if err != nil {
		return AllocateEVOutput{}, err
	}
	next := stats.AllocateEV(spread, key, args.Value)
	return AllocateEVOutput{
		Stat:      key,
		Requested: args.Value,
		Applied:   next.Get(key),
		Clamped:   next.Get(key) != args.Value,
		EVs:       next,
		Total:     next.Sum(),
		Remaining: stats.Remaining(next),
	}, nil
}

func (o AllocateEVOutput) tables() []render.Table {
	t := render.Table{Headers: []string{"Stat", "EV"}, Right: map[int]bool{1: true}}
	for _, k := range model.StatKeys {
		t.Rows = append(t.Rows, []string{string(k), render.Int(o.EVs.Get(k))})
	}
	t.Rows = append(t.Rows, []string{"total", render.Int(o.Total) + "/" + render.Int(stats.MaxTotalEV)})
	if o.Clamped {
		t.Title = fmt.Sprintf("%s clamped to %d (requested %d)", o.Stat, o.Applied, o.Requested)
	}
	return []render.Table{t}
}
