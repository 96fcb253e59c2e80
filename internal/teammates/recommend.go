// Package teammates suggests partners for the species already on a team and
// summarizes the most common builds of a species.
package teammates

import (
	"sort"
	"strings"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

// DefaultThreshold is the minimum average teammate usage, as a fraction, for
// a suggestion to be kept.
const DefaultThreshold = 0.5

const epsilon = 1e-9

type Options struct {
	// Threshold is inclusive. Zero means DefaultThreshold; use a negative
	// value to keep everything.
	Threshold float64
}

type Recommendation struct {
	Name           string   `json:"name" yaml:"name"`
	AvgUsage       float64  `json:"avg_usage" yaml:"avg_usage"`
	DataPoints     int      `json:"data_points" yaml:"data_points"`
	RecommendedFor []string `json:"recommended_for" yaml:"recommended_for"`
}

type accum struct {
	total  float64
	points int
	from   map[string]struct{}
}

// Recommend merges the pre-averaged teammate rows of every source species,
// averages each teammate across the sources that list it, and drops those
// under the threshold or already present on any of teams. Team names match
// case-insensitively.
func Recommend(sources map[string][]model.TeammateRow, teams [][]string, opts Options) []Recommendation {
	out := make([]Recommendation, 0)
	if len(sources) == 0 {
		return out
	}
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	taken := make(map[string]bool)
	for _, team := range teams {
		for _, name := range team {
			taken[normalize(name)] = true
		}
	}

	names := make([]string, 0, len(sources))
	for s := range sources {
		names = append(names, s)
	}
	sort.Strings(names)

	acc := make(map[string]*accum)
	for _, source := range names {
		for _, r := range sources[source] {
			a, ok := acc[r.Teammate]
			if !ok {
				a = &accum{from: make(map[string]struct{})}
				acc[r.Teammate] = a
			}
			a.total += r.UsagePercent
			a.points++
			a.from[source] = struct{}{}
		}
	}

	for name, a := range acc {
		if a.points == 0 {
			continue
		}
		avg := a.total / float64(a.points)
		if avg+epsilon < threshold {
			continue
		}
		if taken[normalize(name)] {
			continue
		}
		from := make([]string, 0, len(a.from))
		for s := range a.from {
			from = append(from, s)
		}
		sort.Strings(from)
		out = append(out, Recommendation{Name: name, AvgUsage: avg, DataPoints: a.points, RecommendedFor: from})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgUsage != out[j].AvgUsage {
			return out[i].AvgUsage > out[j].AvgUsage
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
