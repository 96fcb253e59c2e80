// Package usage ranks species by average monthly usage across a period.
package usage

import (
	"sort"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

// MinPresence is the share of the period's months a species must appear in
// to be ranked.
const MinPresence = 0.5

type Entry struct {
	Species       string  `json:"species" yaml:"species"`
	AverageUsage  float64 `json:"average_usage" yaml:"average_usage"`
	MonthsPresent int     `json:"months_present" yaml:"months_present"`
	TotalMonths   int     `json:"total_months" yaml:"total_months"`
}

// Ranking is ordered by AverageUsage descending, then species name.
type Ranking []Entry

// Top returns the first n entries; n <= 0 returns the whole ranking.
func (r Ranking) Top(n int) Ranking {
	if n <= 0 || n >= len(r) {
		return r
	}
	return r[:n]
}

// Aggregate averages each species' usage over the months it appears in and
// drops species present in fewer than MinPresence of the distinct months in
// rows. When a species has more than one row for a month the later row wins.
func Aggregate(rows []model.UsageRow) Ranking {
	if len(rows) == 0 {
		return Ranking{}
	}

	months := make(map[string]struct{})
	bySpecies := make(map[string]map[string]float64)
	for _, r := range rows {
		months[r.YearMonth] = struct{}{}
		m, ok := bySpecies[r.Species]
		if !ok {
			m = make(map[string]float64)
			bySpecies[r.Species] = m
		}
		m[r.YearMonth] = r.UsagePercent
	}
	totalMonths := len(months)
	minMonths := float64(totalMonths) * MinPresence

	out := make(Ranking, 0, len(bySpecies))
	for species, byMonth := range bySpecies {
		present := len(byMonth)
		if present == 0 || float64(present) < minMonths {
			continue
		}
		sum := sumInMonthOrder(byMonth)
		out = append(out, Entry{
			Species:       species,
			AverageUsage:  sum / float64(present),
			MonthsPresent: present,
			TotalMonths:   totalMonths,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageUsage != out[j].AverageUsage {
			return out[i].AverageUsage > out[j].AverageUsage
		}
		return out[i].Species < out[j].Species
	})
	return out
}

// sumInMonthOrder adds values in month order so repeated runs produce
// bit-identical averages.
func sumInMonthOrder(byMonth map[string]float64) float64 {
	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sum := 0.0
	for _, k := range keys {
		sum += byMonth[k]
	}
	return sum
}
