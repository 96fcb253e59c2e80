// Package matchup picks the strongest counters and most favorable matchups
// of a species from its latest counter snapshot.
package matchup

import (
	"sort"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

// Limit is how many entries each side of the result carries.
const Limit = 4

type Entry struct {
	Opponent      string  `json:"opponent" yaml:"opponent"`
	LoseRate      float64 `json:"lose_rate" yaml:"lose_rate"`
	KOPercent     float64 `json:"ko_percent" yaml:"ko_percent"`
	SwitchPercent float64 `json:"switch_percent" yaml:"switch_percent"`
	Mean          float64 `json:"mean" yaml:"mean"`
	StdDev        float64 `json:"std_dev" yaml:"std_dev"`
}

type Result struct {
	Snapshot          string  `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
	RowsConsidered    int     `json:"rows_considered" yaml:"rows_considered"`
	StrongestCounters []Entry `json:"strongest_counters" yaml:"strongest_counters"`
	FavorableMatchups []Entry `json:"favorable_matchups" yaml:"favorable_matchups"`
	NoData            bool    `json:"no_data" yaml:"no_data"`
}

// Analyze keeps only the rows of the most recent year-month and returns the
// Limit opponents with the highest and the lowest lose rate. Ties break by
// opponent name.
func Analyze(rows []model.CounterRow) Result {
	if len(rows) == 0 {
		return Result{NoData: true, StrongestCounters: []Entry{}, FavorableMatchups: []Entry{}}
	}

	latest := ""
	for _, r := range rows {
		if r.YearMonth > latest {
			latest = r.YearMonth
		}
	}

	kept := make([]Entry, 0, len(rows))
	for _, r := range rows {
		if r.YearMonth != latest {
			continue
		}
		kept = append(kept, Entry{
			Opponent:      r.Opponent,
			LoseRate:      r.LoseRateAgainstOpp,
			KOPercent:     deref(r.KOPercent),
			SwitchPercent: deref(r.SwitchPercent),
			Mean:          deref(r.Mean),
			StdDev:        deref(r.StdDev),
		})
	}

	desc := append([]Entry(nil), kept...)
	sort.SliceStable(desc, func(i, j int) bool {
		if desc[i].LoseRate != desc[j].LoseRate {
			return desc[i].LoseRate > desc[j].LoseRate
		}
		return desc[i].Opponent < desc[j].Opponent
	})
	asc := append([]Entry(nil), kept...)
	sort.SliceStable(asc, func(i, j int) bool {
		if asc[i].LoseRate != asc[j].LoseRate {
			return asc[i].LoseRate < asc[j].LoseRate
		}
		return asc[i].Opponent < asc[j].Opponent
	})

	return Result{
		Snapshot:          latest,
		RowsConsidered:    len(kept),
		StrongestCounters: head(desc, Limit),
		FavorableMatchups: head(asc, Limit),
	}
}

func head(entries []Entry, n int) []Entry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
