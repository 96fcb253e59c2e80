package teammates

import (
	"fmt"
	"sort"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

// DefaultMoveCount is how many of the most used moves make up a suggested
// moveset.
const DefaultMoveCount = 4

type Usage struct {
	Name     string  `json:"name" yaml:"name"`
	AvgUsage float64 `json:"avg_usage" yaml:"avg_usage"`
	Months   int     `json:"months" yaml:"months"`
}

type Spread struct {
	Nature   string         `json:"nature" yaml:"nature"`
	EVs      model.EVSpread `json:"evs" yaml:"evs"`
	AvgUsage float64        `json:"avg_usage" yaml:"avg_usage"`
	Months   int            `json:"months" yaml:"months"`
}

// Setup is the averaged build data for one species plus the single most
// common choice in each category.
type Setup struct {
	Abilities []Usage  `json:"abilities" yaml:"abilities"`
	Items     []Usage  `json:"items" yaml:"items"`
	Moves     []Usage  `json:"moves" yaml:"moves"`
	TeraTypes []Usage  `json:"tera_types,omitempty" yaml:"tera_types,omitempty"`
	Spreads   []Spread `json:"spreads" yaml:"spreads"`

	Ability   string   `json:"ability,omitempty" yaml:"ability,omitempty"`
	Item      string   `json:"item,omitempty" yaml:"item,omitempty"`
	Moveset   []string `json:"moveset" yaml:"moveset"`
	TopSpread *Spread  `json:"top_spread,omitempty" yaml:"top_spread,omitempty"`
	NoData    bool     `json:"no_data" yaml:"no_data"`
}

// RecommendSetup averages each ability, item, move, tera type and spread
// over the rows it appears in and ranks them by average usage.
func RecommendSetup(rows model.SetupRows) Setup {
	out := Setup{
		Abilities: averageByName(rows.Abilities),
		Items:     averageByName(rows.Items),
		Moves:     averageByName(rows.Moves),
		TeraTypes: averageByName(rows.TeraTypes),
		Spreads:   averageSpreads(rows.Spreads),
		Moveset:   []string{},
	}
	if len(out.Abilities)+len(out.Items)+len(out.Moves)+len(out.Spreads) == 0 {
		out.NoData = true
		return out
	}
	if len(out.Abilities) > 0 {
		out.Ability = out.Abilities[0].Name
	}
	if len(out.Items) > 0 {
		out.Item = out.Items[0].Name
	}
	for i := 0; i < len(out.Moves) && i < DefaultMoveCount; i++ {
		out.Moveset = append(out.Moveset, out.Moves[i].Name)
	}
	if len(out.Spreads) > 0 {
		top := out.Spreads[0]
		out.TopSpread = &top
	}
	return out
}

func averageByName(rows []model.SetupRow) []Usage {
	type sum struct {
		total float64
		count int
	}
	sums := make(map[string]*sum)
	for _, r := range rows {
		s, ok := sums[r.Name]
		if !ok {
			s = &sum{}
			sums[r.Name] = s
		}
		s.total += r.UsagePercent
		s.count++
	}
	out := make([]Usage, 0, len(sums))
	for name, s := range sums {
		out = append(out, Usage{Name: name, AvgUsage: s.total / float64(s.count), Months: s.count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgUsage != out[j].AvgUsage {
			return out[i].AvgUsage > out[j].AvgUsage
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func spreadKey(nature string, evs model.EVSpread) string {
	return fmt.Sprintf("%s:%d/%d/%d/%d/%d/%d", nature, evs.HP, evs.Attack, evs.Defense, evs.SpecialAttack, evs.SpecialDefense, evs.Speed)
}

func averageSpreads(rows []model.SpreadRow) []Spread {
	type sum struct {
		spread Spread
		total  float64
	}
	sums := make(map[string]*sum)
	for _, r := range rows {
		k := spreadKey(r.Nature, r.EVs)
		s, ok := sums[k]
		if !ok {
			s = &sum{spread: Spread{Nature: r.Nature, EVs: r.EVs}}
			sums[k] = s
		}
		s.total += r.UsagePercent
		s.spread.Months++
	}
	out := make([]Spread, 0, len(sums))
	for _, s := range sums {
		sp := s.spread
		sp.AvgUsage = s.total / float64(sp.Months)
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgUsage != out[j].AvgUsage {
			return out[i].AvgUsage > out[j].AvgUsage
		}
		return spreadKey(out[i].Nature, out[i].EVs) < spreadKey(out[j].Nature, out[j].EVs)
	})
	return out
}
