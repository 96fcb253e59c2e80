package usage

import (
	"sort"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

// Point is one month of a usage chart. A nil value means the species had no
// row that month.
type Point struct {
	YearMonth string              `json:"year_month" yaml:"year_month"`
	Values    map[string]*float64 `json:"values" yaml:"values"`
}

// MonthlySeries lays out usage per month for the given species, in month
// order. Duplicate rows for a species and month resolve to the later row.
func MonthlySeries(rows []model.UsageRow, species []string) []Point {
	want := make(map[string]bool, len(species))
	for _, s := range species {
		want[s] = true
	}

	byMonth := make(map[string]map[string]float64)
	for _, r := range rows {
		m, ok := byMonth[r.YearMonth]
		if !ok {
			m = make(map[string]float64)
			byMonth[r.YearMonth] = m
		}
		if want[r.Species] {
			m[r.Species] = r.UsagePercent
		}
	}

	months := make([]string, 0, len(byMonth))
	for ym := range byMonth {
		months = append(months, ym)
	}
	sort.Strings(months)

	out := make([]Point, 0, len(months))
	for _, ym := range months {
		p := Point{YearMonth: ym, Values: make(map[string]*float64, len(species))}
		for _, s := range species {
			if v, ok := byMonth[ym][s]; ok {
				v := v
				p.Values[s] = &v
			} else {
				p.Values[s] = nil
			}
		}
		out = append(out, p)
	}
	return out
}

// Species returns the names of a ranking, preserving order.
func (r Ranking) Species() []string {
	out := make([]string, 0, len(r))
	for _, e := range r {
		out = append(out, e.Species)
	}
	return out
}
