package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/stats"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/store"
)

type speciesSource interface {
	SpeciesProfile(ctx context.Context, name string) (model.SpeciesProfile, error)
	Profiles(ctx context.Context, names []string, parallel int) ([]model.SpeciesProfile, error)
}

// QueryDefaults fill in selector fields a request leaves empty.
type QueryDefaults struct {
	Generation   string
	BattleFormat string
	Rating       *uint32 // nil means every rating
	From         string
	To           string
}

// Deps is what the tool builders run against.
type Deps struct {
	DB       *store.DB
	Species  speciesSource
	Defaults QueryDefaults
	Parallel int
}

func (d Deps) requireDB() error {
	if d.DB == nil {
		return fmt.Errorf("no database configured (run arena ingest first)")
	}
	return nil
}

func (d Deps) requireSpecies() error {
	if d.Species == nil {
		return fmt.Errorf("species lookups are disabled")
	}
	return nil
}

// selector merges request values over the defaults. A negative rating
// selects every rating bucket.
func (d Deps) selector(generation, battleFormat string, rating *int, from, to string) (store.Selector, error) {
	sel := store.Selector{
		Generation:   strings.ToLower(strings.TrimSpace(generation)),
		BattleFormat: strings.ToLower(strings.TrimSpace(battleFormat)),
		Rating:       d.Defaults.Rating,
		From:         strings.TrimSpace(from),
		To:           strings.TrimSpace(to),
	}
	if sel.Generation == "" {
		sel.Generation = d.Defaults.Generation
	}
	if sel.BattleFormat == "" {
		sel.BattleFormat = d.Defaults.BattleFormat
	}
	if sel.From == "" {
		sel.From = d.Defaults.From
	}
	if sel.To == "" {
		sel.To = d.Defaults.To
	}
	if rating != nil {
		if *rating < 0 {
			sel.Rating = nil
		} else {
			r := uint32(*rating)
			sel.Rating = &r
		}
	}
	if err := sel.Validate(); err != nil {
		return store.Selector{}, err
	}
	return sel, nil
}

// parseSpread converts {"hp": 252, "spe": 252} into an EV spread.
func parseSpread(evs map[string]int) (model.EVSpread, error) {
	var spread model.EVSpread
	keys := make([]string, 0, len(evs))
	for k := range evs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		key, err := model.ParseStatKey(k)
		if err != nil {
			return model.EVSpread{}, err
		}
		spread = spread.Set(key, evs[k])
	}
	if err := stats.ValidateSpread(spread); err != nil {
		return model.EVSpread{}, err
	}
	return spread, nil
}

func parseNature(name string) (model.Nature, error) {
	if strings.TrimSpace(name) == "" {
		n, _ := stats.LookupNature("Hardy")
		return n, nil
	}
	n, ok := stats.LookupNature(name)
	if !ok {
		return model.Nature{}, fmt.Errorf("unknown nature: %q", name)
	}
	return n, nil
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
