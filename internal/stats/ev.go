package stats

import (
	"fmt"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

// AllocateEV sets one stat of spread to proposed, clamping so the spread
// total stays within MaxTotalEV. The 0..MaxEV range of a single stat is the
// caller's input range and is not checked here. The input spread is not
// modified.
func AllocateEV(spread model.EVSpread, key model.StatKey, proposed int) model.EVSpread {
	current := spread.Get(key)
	total := spread.Sum()
	if total+(proposed-current) > MaxTotalEV {
		proposed = MaxTotalEV - (total - current)
		if proposed < 0 {
			proposed = 0
		}
	}
	return spread.Set(key, proposed)
}

// ValidateSpread checks the per-stat range and the total budget.
func ValidateSpread(spread model.EVSpread) error {
	for _, k := range model.StatKeys {
		v := spread.Get(k)
		if v < 0 || v > MaxEV {
			return fmt.Errorf("%w: %s=%d (want 0..%d)", ErrInvalidEV, k, v, MaxEV)
		}
	}
	if sum := spread.Sum(); sum > MaxTotalEV {
		return fmt.Errorf("%w: total %d exceeds %d", ErrInvalidEV, sum, MaxTotalEV)
	}
	return nil
}

// Remaining returns how many EVs are left to allocate.
func Remaining(spread model.EVSpread) int {
	r := MaxTotalEV - spread.Sum()
	if r < 0 {
		return 0
	}
	return r
}
