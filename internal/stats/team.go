package stats

import (
	"math"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

// MemberStats returns the effective stats of a filled slot: the build's
// computed stats when a build is set, otherwise the neutral 0-EV spread.
func MemberStats(slot model.TeamSlot) (model.StatBlock, bool) {
	if slot.Build != nil {
		return CalculateBuild(*slot.Build), true
	}
	if slot.Species != nil {
		return CalculateBuild(model.Build{Species: *slot.Species}), true
	}
	return model.StatBlock{}, false
}

// TeamAverages returns the per-stat rounded average over filled slots and
// the number of slots counted. Zero members yields a zero block.
func TeamAverages(team model.Team) (model.StatBlock, int) {
	var sum [6]int
	n := 0
	for _, slot := range team {
		s, ok := MemberStats(slot)
		if !ok {
			continue
		}
		for i, k := range model.StatKeys {
			sum[i] += s.Get(k)
		}
		n++
	}
	var out model.StatBlock
	if n == 0 {
		return out, 0
	}
	for i, k := range model.StatKeys {
		out = out.Set(k, int(math.Round(float64(sum[i])/float64(n))))
	}
	return out, n
}

// Comparison contrasts the averaged stats of two teams.
type Comparison struct {
	TeamA        model.StatBlock           `json:"team_a" yaml:"team_a"`
	TeamB        model.StatBlock           `json:"team_b" yaml:"team_b"`
	MembersA     int                       `json:"members_a" yaml:"members_a"`
	MembersB     int                       `json:"members_b" yaml:"members_b"`
	DiffPercent  map[model.StatKey]float64 `json:"diff_percent" yaml:"diff_percent"`
	PhysicalEdge float64                   `json:"physical_edge" yaml:"physical_edge"`
	SpecialEdge  float64                   `json:"special_edge" yaml:"special_edge"`
	NoData       bool                      `json:"no_data" yaml:"no_data"`
}

// CompareTeams averages both teams and reports, per stat, how far A sits
// above or below B in percent. PhysicalEdge is
// (A.atk/B.def - B.atk/A.def)*100 and SpecialEdge the same for the special
// pair; positive values favour team A. Either team being empty yields NoData.
func CompareTeams(a, b model.Team) Comparison {
	avgA, nA := TeamAverages(a)
	avgB, nB := TeamAverages(b)
	out := Comparison{TeamA: avgA, TeamB: avgB, MembersA: nA, MembersB: nB}
	if nA == 0 || nB == 0 {
		out.NoData = true
		return out
	}
	out.DiffPercent = make(map[model.StatKey]float64, len(model.StatKeys))
	for _, k := range model.StatKeys {
		out.DiffPercent[k] = round1(ratioPercent(avgA.Get(k)-avgB.Get(k), avgB.Get(k)))
	}
	out.PhysicalEdge = round1((safeRatio(avgA.Attack, avgB.Defense) - safeRatio(avgB.Attack, avgA.Defense)) * 100)
	out.SpecialEdge = round1((safeRatio(avgA.SpecialAttack, avgB.SpecialDefense) - safeRatio(avgB.SpecialAttack, avgA.SpecialDefense)) * 100)
	return out
}

func safeRatio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func ratioPercent(num, den int) float64 {
	return safeRatio(num, den) * 100
}

func round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*10) / 10
}
