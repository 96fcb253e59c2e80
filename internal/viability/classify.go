// Package viability buckets a species' per-format viability ceilings into
// S/A/B/C tiers and summarizes the spread.
package viability

import (
	"math"
	"sort"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// Tiers lists the tiers from best to worst.
var Tiers = []Tier{TierS, TierA, TierB, TierC}

// TierFor maps a viability ceiling to its tier.
func TierFor(score float64) Tier {
	switch {
	case score >= 90:
		return TierS
	case score >= 80:
		return TierA
	case score >= 70:
		return TierB
	default:
		return TierC
	}
}

// Value is the numeric weight of a tier: S=4 down to C=1.
func (t Tier) Value() int {
	switch t {
	case TierS:
		return 4
	case TierA:
		return 3
	case TierB:
		return 2
	case TierC:
		return 1
	}
	return 0
}

type Share struct {
	Tier    Tier     `json:"tier" yaml:"tier"`
	Count   int      `json:"count" yaml:"count"`
	Percent float64  `json:"percent" yaml:"percent"`
	Formats []string `json:"formats" yaml:"formats"`
}

type Extreme struct {
	Tier    Tier     `json:"tier" yaml:"tier"`
	Score   float64  `json:"score" yaml:"score"`
	Formats []string `json:"formats" yaml:"formats"`
}

type FormatScore struct {
	Format    string  `json:"format" yaml:"format"`
	Score     float64 `json:"score" yaml:"score"`
	Tier      Tier    `json:"tier" yaml:"tier"`
	YearMonth string  `json:"year_month" yaml:"year_month"`
}

type Summary struct {
	UniqueFormats    int           `json:"unique_formats" yaml:"unique_formats"`
	Distribution     []Share       `json:"distribution" yaml:"distribution"`
	Best             *Extreme      `json:"best,omitempty" yaml:"best,omitempty"`
	Worst            *Extreme      `json:"worst,omitempty" yaml:"worst,omitempty"`
	AverageTierValue float64       `json:"average_tier_value" yaml:"average_tier_value"`
	Formats          []FormatScore `json:"formats" yaml:"formats"`
	NoData           bool          `json:"no_data" yaml:"no_data"`
}

// Classify keeps the most recent snapshot of each format, tiers it, and
// reports the tier distribution over unique formats (one decimal), the best
// and worst formats, and the mean tier value (two decimals).
func Classify(rows []model.ViabilityRow) Summary {
	latest := make(map[string]model.ViabilityRow)
	for _, r := range rows {
		prev, ok := latest[r.Format]
		if !ok || r.YearMonth >= prev.YearMonth {
			latest[r.Format] = r
		}
	}

	out := Summary{Distribution: make([]Share, 0, len(Tiers)), Formats: make([]FormatScore, 0, len(latest))}
	if len(latest) == 0 {
		out.NoData = true
		for _, t := range Tiers {
			out.Distribution = append(out.Distribution, Share{Tier: t, Formats: []string{}})
		}
		return out
	}

	for _, r := range latest {
		out.Formats = append(out.Formats, FormatScore{
			Format:    r.Format,
			Score:     r.ViabilityCeiling,
			Tier:      TierFor(r.ViabilityCeiling),
			YearMonth: r.YearMonth,
		})
	}
	sort.Slice(out.Formats, func(i, j int) bool {
		if out.Formats[i].Score != out.Formats[j].Score {
			return out.Formats[i].Score > out.Formats[j].Score
		}
		return out.Formats[i].Format < out.Formats[j].Format
	})
	n := len(out.Formats)
	out.UniqueFormats = n

	byTier := make(map[Tier][]string)
	tierSum := 0
	for _, f := range out.Formats {
		byTier[f.Tier] = append(byTier[f.Tier], f.Format)
		tierSum += f.Tier.Value()
	}
	for _, t := range Tiers {
		formats := byTier[t]
		if formats == nil {
			formats = []string{}
		}
		sort.Strings(formats)
		out.Distribution = append(out.Distribution, Share{
			Tier:    t,
			Count:   len(formats),
			Percent: round(float64(len(formats))/float64(n)*100, 1),
			Formats: formats,
		})
	}
	out.AverageTierValue = round(float64(tierSum)/float64(n), 2)

	out.Best = extreme(out.Formats, out.Formats[0].Score)
	out.Worst = extreme(out.Formats, out.Formats[n-1].Score)
	return out
}

func extreme(formats []FormatScore, score float64) *Extreme {
	e := &Extreme{Tier: TierFor(score), Score: score, Formats: []string{}}
	for _, f := range formats {
		if f.Score == score {
			e.Formats = append(e.Formats, f.Format)
		}
	}
	sort.Strings(e.Formats)
	return e
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
