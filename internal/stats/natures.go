package stats

import (
	"sort"
	"strings"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

func nature(name string, up, down model.StatKey) model.Nature {
	return model.Nature{Name: name, Increased: &up, Decreased: &down}
}

func neutral(name string) model.Nature {
	return model.Nature{Name: name}
}

// Natures is the canonical table of 25 natures keyed by lower-case name.
var Natures = map[string]model.Nature{
	"hardy":   neutral("Hardy"),
	"docile":  neutral("Docile"),
	"serious": neutral("Serious"),
	"bashful": neutral("Bashful"),
	"quirky":  neutral("Quirky"),

	"lonely":  nature("Lonely", model.Attack, model.Defense),
	"brave":   nature("Brave", model.Attack, model.Speed),
	"adamant": nature("Adamant", model.Attack, model.SpecialAttack),
	"naughty": nature("Naughty", model.Attack, model.SpecialDefense),

	"bold":    nature("Bold", model.Defense, model.Attack),
	"relaxed": nature("Relaxed", model.Defense, model.Speed),
	"impish":  nature("Impish", model.Defense, model.SpecialAttack),
	"lax":     nature("Lax", model.Defense, model.SpecialDefense),

	"timid": nature("Timid", model.Speed, model.Attack),
	"hasty": nature("Hasty", model.Speed, model.Defense),
	"jolly": nature("Jolly", model.Speed, model.SpecialAttack),
	"naive": nature("Naive", model.Speed, model.SpecialDefense),

	"modest": nature("Modest", model.SpecialAttack, model.Attack),
	"mild":   nature("Mild", model.SpecialAttack, model.Defense),
	"quiet":  nature("Quiet", model.SpecialAttack, model.Speed),
	"rash":   nature("Rash", model.SpecialAttack, model.SpecialDefense),

	"calm":    nature("Calm", model.SpecialDefense, model.Attack),
	"gentle":  nature("Gentle", model.SpecialDefense, model.Defense),
	"sassy":   nature("Sassy", model.SpecialDefense, model.Speed),
	"careful": nature("Careful", model.SpecialDefense, model.SpecialAttack),
}

// LookupNature finds a nature by case-insensitive name.
func LookupNature(name string) (model.Nature, bool) {
	n, ok := Natures[strings.ToLower(strings.TrimSpace(name))]
	return n, ok
}

// NatureNames returns the display names sorted alphabetically.
func NatureNames() []string {
	out := make([]string, 0, len(Natures))
	for _, n := range Natures {
		out = append(out, n.Name)
	}
	sort.Strings(out)
	return out
}
