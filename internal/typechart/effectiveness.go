package typechart

import (
	"fmt"
	"math"
)

// SingleTypeMultiplier returns the damage multiplier of an attacking type
// against one defending type: 0, 0.5, 1 or 2.
func SingleTypeMultiplier(atk, def Type) (float64, error) {
	row, ok := chart[atk]
	if !ok {
		return 0, fmt.Errorf("attacking %w: %q", ErrTypeNotFound, string(atk))
	}
	m, ok := row[def]
	if !ok {
		return 0, fmt.Errorf("defending %w: %q", ErrTypeNotFound, string(def))
	}
	return m, nil
}

// MultiTypeDefenseMultiplier multiplies the single-type multipliers of atk
// against each defending type. A defender has one or two types, so the
// result is one of 0, 0.25, 0.5, 1, 2, 4.
func MultiTypeDefenseMultiplier(atk Type, defs []Type) (float64, error) {
	if !atk.Valid() {
		return 0, fmt.Errorf("attacking %w: %q", ErrTypeNotFound, string(atk))
	}
	if err := ValidateDefender(defs); err != nil {
		return 0, err
	}
	total := 1.0
	for _, def := range defs {
		m, err := SingleTypeMultiplier(atk, def)
		if err != nil {
			return 0, err
		}
		total *= m
	}
	return total, nil
}

// TeamDefensiveCoverage returns the lowest multiplier atk deals to any team
// member. Members with no types are skipped; ok is false when none remain.
func TeamDefensiveCoverage(team [][]Type, atk Type) (best float64, ok bool, err error) {
	if !atk.Valid() {
		return 0, false, fmt.Errorf("attacking %w: %q", ErrTypeNotFound, string(atk))
	}
	best = math.Inf(1)
	for _, member := range team {
		if len(member) == 0 {
			continue
		}
		m, err := MultiTypeDefenseMultiplier(atk, member)
		if err != nil {
			return 0, false, err
		}
		if m < best {
			best = m
		}
		ok = true
	}
	if !ok {
		return 0, false, nil
	}
	return best, true, nil
}

// ValidateDefender checks that defs is a legal defender typing: one or two
// distinct chart types.
func ValidateDefender(defs []Type) error {
	if len(defs) < 1 || len(defs) > MaxDefendingTypes {
		return fmt.Errorf("%w: got %d types, want 1 or %d", ErrInvalidTyping, len(defs), MaxDefendingTypes)
	}
	if len(defs) == 2 && defs[0] == defs[1] {
		return fmt.Errorf("%w: duplicate type %q", ErrInvalidTyping, string(defs[0]))
	}
	return nil
}

// TeamOffensiveCoverage returns the highest single-type multiplier any
// member's own types deal to def. ok is false when no member has a type.
func TeamOffensiveCoverage(team [][]Type, def Type) (best float64, ok bool, err error) {
	if !def.Valid() {
		return 0, false, fmt.Errorf("defending %w: %q", ErrTypeNotFound, string(def))
	}
	for _, member := range team {
		for _, atk := range member {
			m, err := SingleTypeMultiplier(atk, def)
			if err != nil {
				return 0, false, err
			}
			if !ok || m > best {
				best = m
			}
			ok = true
		}
	}
	return best, ok, nil
}

// CoverageRow is one line of a team coverage table.
type CoverageRow struct {
	Type      Type    `json:"type" yaml:"type"`
	Offensive float64 `json:"offensive" yaml:"offensive"`
	Defensive float64 `json:"defensive" yaml:"defensive"`
}

// TeamCoverage computes offensive and defensive coverage against all 18
// types. It returns nil when the team has no typed member.
func TeamCoverage(team [][]Type) ([]CoverageRow, error) {
	rows := make([]CoverageRow, 0, len(All))
	for _, t := range All {
		off, ok, err := TeamOffensiveCoverage(team, t)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		def, _, err := TeamDefensiveCoverage(team, t)
		if err != nil {
			return nil, err
		}
		rows = append(rows, CoverageRow{Type: t, Offensive: off, Defensive: def})
	}
	return rows, nil
}

// Matrix returns the full attacker x defender chart in All order.
func Matrix() [][]float64 {
	out := make([][]float64, len(All))
	for i, atk := range All {
		row := make([]float64, len(All))
		for j, def := range All {
			row[j] = chart[atk][def]
		}
		out[i] = row
	}
	return out
}

// Weaknesses returns the attacking types that deal more than neutral damage
// to a defender with the given types, each with its multiplier.
func Weaknesses(defs []Type) (map[Type]float64, error) {
	out := make(map[Type]float64)
	for _, atk := range All {
		m, err := MultiTypeDefenseMultiplier(atk, defs)
		if err != nil {
			return nil, err
		}
		if m > 1 {
			out[atk] = m
		}
	}
	return out, nil
}
