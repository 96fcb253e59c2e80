package store

import (
	"fmt"
	"strings"
)

// Kind names one of the exported datasets and its table.
type Kind string

const (
	KindUsage     Kind = "usage"
	KindBase      Kind = "base"
	KindCounters  Kind = "counters"
	KindSpreads   Kind = "spreads"
	KindTeammates Kind = "teammates"
	KindAbilities Kind = "abilities"
	KindItems     Kind = "items"
	KindMoves     Kind = "moves"
	KindTeraTypes Kind = "teratypes"
)

// Kinds lists every dataset in import order.
var Kinds = []Kind{KindBase, KindUsage, KindTeraTypes, KindSpreads, KindCounters, KindMoves, KindAbilities, KindItems, KindTeammates}

var pairKinds = []Kind{KindTeammates, KindAbilities, KindItems, KindMoves, KindTeraTypes}

// csvFiles maps the export file names to their dataset.
var csvFiles = map[string]Kind{
	"pokemon_base.csv":       KindBase,
	"pokeusage.csv":          KindUsage,
	"poketeam_teratypes.csv": KindTeraTypes,
	"poketeam_spreads.csv":   KindSpreads,
	"poketeam_counters.csv":  KindCounters,
	"poketeam_moves.csv":     KindMoves,
	"poketeam_abilities.csv": KindAbilities,
	"poketeam_items.csv":     KindItems,
	"poketeam_teammates.csv": KindTeammates,
}

func (k Kind) table() string {
	return "pokemon_" + string(k)
}

// ParseKind accepts a dataset name such as "moves" or "teammates".
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown dataset: %q", s)
}

// KindForFile returns the dataset an export file name belongs to.
func KindForFile(name string) (Kind, bool) {
	k, ok := csvFiles[strings.ToLower(name)]
	return k, ok
}
