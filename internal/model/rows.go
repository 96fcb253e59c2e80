// Package model defines the records exchanged between the store, the
// species provider and the analytics packages.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidYearMonth is returned for a year-month that is not YYYY-MM.
var ErrInvalidYearMonth = errors.New("invalid year-month")

// UsageRow is one species' usage in one month of one format. UsagePercent is
// a fraction in 0..1.
type UsageRow struct {
	Species      string  `json:"species" yaml:"species"`
	BattleFormat string  `json:"battle_format" yaml:"battle_format"`
	Generation   string  `json:"generation" yaml:"generation"`
	YearMonth    string  `json:"year_month" yaml:"year_month"`
	UsagePercent float64 `json:"usage_percent" yaml:"usage_percent"`
	RawCount     uint64  `json:"raw_count" yaml:"raw_count"`
	RealCount    uint64  `json:"real_count" yaml:"real_count"`
	Rating       *uint32 `json:"rating,omitempty" yaml:"rating,omitempty"`
}

type TeammateRow struct {
	Species      string  `json:"species" yaml:"species"`
	Teammate     string  `json:"teammate" yaml:"teammate"`
	UsagePercent float64 `json:"usage_percent" yaml:"usage_percent"`
	YearMonth    string  `json:"year_month" yaml:"year_month"`
}

// CounterRow describes how Opponent fares against Species. KO/switch and the
// distribution fields are optional in the source data.
type CounterRow struct {
	Species            string   `json:"species" yaml:"species"`
	Opponent           string   `json:"opponent" yaml:"opponent"`
	LoseRateAgainstOpp float64  `json:"lose_rate_against_opp" yaml:"lose_rate_against_opp"`
	KOPercent          *float64 `json:"ko_percent,omitempty" yaml:"ko_percent,omitempty"`
	SwitchPercent      *float64 `json:"switch_percent,omitempty" yaml:"switch_percent,omitempty"`
	Mean               *float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	StdDev             *float64 `json:"std_dev,omitempty" yaml:"std_dev,omitempty"`
	YearMonth          string   `json:"year_month" yaml:"year_month"`
}

type ViabilityRow struct {
	Format           string  `json:"format" yaml:"format"`
	ViabilityCeiling float64 `json:"viability_ceiling" yaml:"viability_ceiling"`
	YearMonth        string  `json:"year_month" yaml:"year_month"`
}

// SetupRow is one ability, item, move or tera type usage line for a species.
type SetupRow struct {
	Name         string  `json:"name" yaml:"name"`
	UsagePercent float64 `json:"usage_percent" yaml:"usage_percent"`
	YearMonth    string  `json:"year_month" yaml:"year_month"`
}

// SpreadRow is one nature plus EV spread usage line.
type SpreadRow struct {
	Nature       string   `json:"nature" yaml:"nature"`
	EVs          EVSpread `json:"evs" yaml:"evs"`
	UsagePercent float64  `json:"usage_percent" yaml:"usage_percent"`
	YearMonth    string   `json:"year_month" yaml:"year_month"`
}

// SetupRows groups the per-species build data pulled from the store.
type SetupRows struct {
	Abilities []SetupRow  `json:"abilities" yaml:"abilities"`
	Items     []SetupRow  `json:"items" yaml:"items"`
	Moves     []SetupRow  `json:"moves" yaml:"moves"`
	TeraTypes []SetupRow  `json:"tera_types" yaml:"tera_types"`
	Spreads   []SpreadRow `json:"spreads" yaml:"spreads"`
}

// ParseYearMonth validates a YYYY-MM string and returns it normalized.
// Validated values order correctly under plain string comparison.
func ParseYearMonth(s string) (string, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 || !digits(parts[0]+parts[1]) {
		return "", fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil || y < 1 {
		return "", fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return "", fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	return s, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
