// Package stats implements the level-50 stat formula, the EV budget and
// team-level stat rollups.
package stats

import (
	"fmt"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

const (
	Level = 50
	IV    = 31

	MaxEV      = 252
	MaxTotalEV = 510
	EVStep     = 4
)

// CalculateStat returns the level-50, IV-31 value of one stat.
//
//	HP:    floor((2*base + IV + floor(ev/4)) * L / 100) + L + 10
//	other: floor((floor((2*base + IV + floor(ev/4)) * L / 100) + 5) * nature)
//
// The nature multiplier is applied in integer tenths so 1.1 and 0.9 floor
// exactly.
func CalculateStat(base, ev int, nature model.Nature, key model.StatKey) int {
	pre := ((2*base + IV + ev/4) * Level) / 100
	if key == model.HP {
		return pre + Level + 10
	}
	x := pre + 5
	switch natureEffect(nature, key) {
	case 1:
		return x * 11 / 10
	case -1:
		return x * 9 / 10
	default:
		return x
	}
}

// CalculateStatChecked is CalculateStat with input validation.
func CalculateStatChecked(base, ev int, nature model.Nature, key model.StatKey) (int, error) {
	if ev < 0 || ev > MaxEV {
		return 0, fmt.Errorf("%w: %s=%d (want 0..%d)", ErrInvalidEV, key, ev, MaxEV)
	}
	if base <= 0 {
		return 0, fmt.Errorf("base %s must be positive, got %d", key, base)
	}
	return CalculateStat(base, ev, nature, key), nil
}

// CalculateBuild applies CalculateStat to all six stats of a build.
func CalculateBuild(b model.Build) model.StatBlock {
	var out model.StatBlock
	for _, k := range model.StatKeys {
		out = out.Set(k, CalculateStat(b.Species.BaseStats.Get(k), b.EVs.Get(k), b.Nature, k))
	}
	return out
}

// natureEffect returns +1, -1 or 0 for the effect of n on key.
func natureEffect(n model.Nature, key model.StatKey) int {
	switch {
	case n.Raises(key):
		return 1
	case n.Lowers(key):
		return -1
	}
	return 0
}

// SupportsEVs reports whether a generation uses the modern EV system.
// Gen 1 and 2 used stat experience instead.
func SupportsEVs(generation string) bool {
	switch generation {
	case "gen1", "gen2":
		return false
	}
	return true
}
