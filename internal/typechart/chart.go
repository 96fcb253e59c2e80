// Package typechart holds the elemental type chart and the effectiveness
// rollups built on it.
package typechart

import (
	"fmt"
	"strings"
)

// Type is one of the 18 elemental types.
type Type string

const (
	Normal   Type = "normal"
	Fire     Type = "fire"
	Water    Type = "water"
	Electric Type = "electric"
	Grass    Type = "grass"
	Ice      Type = "ice"
	Fighting Type = "fighting"
	Poison   Type = "poison"
	Ground   Type = "ground"
	Flying   Type = "flying"
	Psychic  Type = "psychic"
	Bug      Type = "bug"
	Rock     Type = "rock"
	Ghost    Type = "ghost"
	Dragon   Type = "dragon"
	Dark     Type = "dark"
	Steel    Type = "steel"
	Fairy    Type = "fairy"
)

// All lists every type in chart order.
var All = []Type{
	Normal, Fire, Water, Electric, Grass, Ice, Fighting, Poison, Ground,
	Flying, Psychic, Bug, Rock, Ghost, Dragon, Dark, Steel, Fairy,
}

// defense lists, per defending type, the attacking types it is weak to,
// resists, or is immune to.
type defense struct {
	weakTo      []Type
	resistantTo []Type
	immuneTo    []Type
}

var defenses = map[Type]defense{
	Normal: {
		weakTo:   []Type{Fighting},
		immuneTo: []Type{Ghost},
	},
	Fire: {
		weakTo:      []Type{Water, Ground, Rock},
		resistantTo: []Type{Fire, Grass, Ice, Bug, Steel, Fairy},
	},
	Water: {
		weakTo:      []Type{Electric, Grass},
		resistantTo: []Type{Fire, Water, Ice, Steel},
	},
	Electric: {
		weakTo:      []Type{Ground},
		resistantTo: []Type{Electric, Flying, Steel},
	},
	Grass: {
		weakTo:      []Type{Fire, Ice, Poison, Flying, Bug},
		resistantTo: []Type{Water, Electric, Grass, Ground},
	},
	Ice: {
		weakTo:      []Type{Fire, Fighting, Rock, Steel},
		resistantTo: []Type{Ice},
	},
	Fighting: {
		weakTo:      []Type{Flying, Psychic, Fairy},
		resistantTo: []Type{Bug, Rock, Dark},
	},
	Poison: {
		weakTo:      []Type{Ground, Psychic},
		resistantTo: []Type{Grass, Fighting, Poison, Bug, Fairy},
	},
	Ground: {
		weakTo:      []Type{Water, Grass, Ice},
		resistantTo: []Type{Poison, Rock},
		immuneTo:    []Type{Electric},
	},
	Flying: {
		weakTo:      []Type{Electric, Ice, Rock},
		resistantTo: []Type{Grass, Fighting, Bug},
		immuneTo:    []Type{Ground},
	},
	Psychic: {
		weakTo:      []Type{Bug, Ghost, Dark},
		resistantTo: []Type{Fighting, Psychic},
	},
	Bug: {
		weakTo:      []Type{Fire, Flying, Rock},
		resistantTo: []Type{Grass, Fighting, Ground},
	},
	Rock: {
		weakTo:      []Type{Water, Grass, Fighting, Ground, Steel},
		resistantTo: []Type{Normal, Fire, Poison, Flying},
	},
	Ghost: {
		weakTo:      []Type{Ghost, Dark},
		resistantTo: []Type{Poison, Bug},
		immuneTo:    []Type{Normal, Fighting},
	},
	Dragon: {
		weakTo:      []Type{Ice, Dragon, Fairy},
		resistantTo: []Type{Fire, Water, Electric, Grass},
	},
	Dark: {
		weakTo:      []Type{Fighting, Bug, Fairy},
		resistantTo: []Type{Ghost, Dark},
		immuneTo:    []Type{Psychic},
	},
	Steel: {
		weakTo:      []Type{Fire, Fighting, Ground},
		resistantTo: []Type{Normal, Grass, Ice, Flying, Psychic, Bug, Rock, Dragon, Steel, Fairy},
		immuneTo:    []Type{Poison},
	},
	Fairy: {
		weakTo:      []Type{Poison, Steel},
		resistantTo: []Type{Fighting, Bug, Dark},
		immuneTo:    []Type{Dragon},
	},
}

// chart[attacker][defender] is the single-type multiplier. Built once from
// defenses and never written afterwards.
var chart = buildChart()

func buildChart() map[Type]map[Type]float64 {
	out := make(map[Type]map[Type]float64, len(All))
	for _, atk := range All {
		row := make(map[Type]float64, len(All))
		for _, def := range All {
			row[def] = 1
		}
		out[atk] = row
	}
	for def, d := range defenses {
		for _, atk := range d.weakTo {
			out[atk][def] = 2
		}
		for _, atk := range d.resistantTo {
			out[atk][def] = 0.5
		}
		// Immunity is applied last so it wins over any other listing.
		for _, atk := range d.immuneTo {
			out[atk][def] = 0
		}
	}
	return out
}

// ParseType resolves a case-insensitive type name.
func ParseType(name string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := chart[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrTypeNotFound, name)
	}
	return t, nil
}

// ParseTypes resolves a list of names, failing on the first unknown one.
func ParseTypes(names []string) ([]Type, error) {
	out := make([]Type, 0, len(names))
	for _, n := range names {
		t, err := ParseType(n)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Valid reports whether t is one of the 18 chart types.
func (t Type) Valid() bool {
	_, ok := chart[t]
	return ok
}

func (t Type) String() string {
	return string(t)
}
