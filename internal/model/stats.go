package model

import (
	"fmt"
	"strings"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/typechart"
)

type StatKey string

const (
	HP             StatKey = "hp"
	Attack         StatKey = "attack"
	Defense        StatKey = "defense"
	SpecialAttack  StatKey = "special_attack"
	SpecialDefense StatKey = "special_defense"
	Speed          StatKey = "speed"
)

// StatKeys lists the six stats in display order.
var StatKeys = []StatKey{HP, Attack, Defense, SpecialAttack, SpecialDefense, Speed}

// ParseStatKey accepts the canonical names plus the short forms used by the
// usage exports (atk, def, spa, spd, spe).
func ParseStatKey(s string) (StatKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hp":
		return HP, nil
	case "attack", "atk":
		return Attack, nil
	case "defense", "def":
		return Defense, nil
	case "special_attack", "spatk", "spa":
		return SpecialAttack, nil
	case "special_defense", "spdef", "spd":
		return SpecialDefense, nil
	case "speed", "spe":
		return Speed, nil
	default:
		return "", fmt.Errorf("unknown stat: %q", s)
	}
}

// StatBlock holds one integer per stat. It is used for base stats, EV
// spreads and computed stats alike.
type StatBlock struct {
	HP             int `json:"hp" yaml:"hp"`
	Attack         int `json:"attack" yaml:"attack"`
	Defense        int `json:"defense" yaml:"defense"`
	SpecialAttack  int `json:"special_attack" yaml:"special_attack"`
	SpecialDefense int `json:"special_defense" yaml:"special_defense"`
	Speed          int `json:"speed" yaml:"speed"`
}

func (b StatBlock) Get(k StatKey) int {
	switch k {
	case HP:
		return b.HP
	case Attack:
		return b.Attack
	case Defense:
		return b.Defense
	case SpecialAttack:
		return b.SpecialAttack
	case SpecialDefense:
		return b.SpecialDefense
	case Speed:
		return b.Speed
	}
	return 0
}

// Set returns a copy of b with stat k replaced by v.
func (b StatBlock) Set(k StatKey, v int) StatBlock {
	switch k {
	case HP:
		b.HP = v
	case Attack:
		b.Attack = v
	case Defense:
		b.Defense = v
	case SpecialAttack:
		b.SpecialAttack = v
	case SpecialDefense:
		b.SpecialDefense = v
	case Speed:
		b.Speed = v
	}
	return b
}

func (b StatBlock) Sum() int {
	return b.HP + b.Attack + b.Defense + b.SpecialAttack + b.SpecialDefense + b.Speed
}

// EVSpread is a StatBlock of effort values. Each value is 0..252 and the sum
// never exceeds 510 once it has passed through the allocator.
type EVSpread = StatBlock

// Nature raises one stat by 10% and lowers another by 10%. Either side may be
// nil; neutral natures leave both nil or name the same stat twice.
type Nature struct {
	Name      string   `json:"name" yaml:"name"`
	Increased *StatKey `json:"increased,omitempty" yaml:"increased,omitempty"`
	Decreased *StatKey `json:"decreased,omitempty" yaml:"decreased,omitempty"`
}

// Neutral reports whether the nature changes no stat.
func (n Nature) Neutral() bool {
	if n.Increased == nil && n.Decreased == nil {
		return true
	}
	return n.Increased != nil && n.Decreased != nil && *n.Increased == *n.Decreased
}

// Raises reports whether the nature boosts key.
func (n Nature) Raises(key StatKey) bool {
	return !n.Neutral() && n.Increased != nil && *n.Increased == key
}

// Lowers reports whether the nature reduces key.
func (n Nature) Lowers(key StatKey) bool {
	return !n.Neutral() && n.Decreased != nil && *n.Decreased == key
}

type SpeciesProfile struct {
	Name      string           `json:"name" yaml:"name"`
	Types     []typechart.Type `json:"types" yaml:"types"`
	BaseStats StatBlock        `json:"base_stats" yaml:"base_stats"`
}

type Build struct {
	Species SpeciesProfile `json:"species" yaml:"species"`
	Nature  Nature         `json:"nature" yaml:"nature"`
	EVs     EVSpread       `json:"evs" yaml:"evs"`
}

// TeamSlot is one of the four ordered team positions. Species and Build are
// nil for an empty slot.
type TeamSlot struct {
	Slot    int             `json:"slot" yaml:"slot"`
	Species *SpeciesProfile `json:"species,omitempty" yaml:"species,omitempty"`
	Build   *Build          `json:"build,omitempty" yaml:"build,omitempty"`
}

const TeamSize = 4

type Team [TeamSize]TeamSlot

// NewTeam returns a team with numbered, empty slots.
func NewTeam() Team {
	var t Team
	for i := range t {
		t[i].Slot = i + 1
	}
	return t
}

// Names lists the species names of the filled slots.
func (t Team) Names() []string {
	out := make([]string, 0, TeamSize)
	for _, s := range t {
		if s.Species != nil && s.Species.Name != "" {
			out = append(out, s.Species.Name)
		}
	}
	return out
}

// MemberTypes returns one type list per slot, nil for empty slots.
func (t Team) MemberTypes() [][]typechart.Type {
	out := make([][]typechart.Type, TeamSize)
	for i, s := range t {
		if s.Species != nil {
			out[i] = s.Species.Types
		}
	}
	return out
}
