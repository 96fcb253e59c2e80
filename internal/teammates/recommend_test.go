package teammates

import (
	"math"
	"testing"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

func mate(source, name string, u float64) model.TeammateRow {
	return model.TeammateRow{Species: source, Teammate: name, UsagePercent: u}
}

// ---------------------------------------------------------------------------
// Recommend
// ---------------------------------------------------------------------------

func TestRecommend_AveragesAcrossSourcesInclusiveThreshold(t *testing.T) {
	sources := map[string][]model.TeammateRow{
		"A": {mate("A", "Z", 0.6)},
		"B": {mate("B", "Z", 0.4)},
	}
	got := Recommend(sources, nil, Options{})
	if len(got) != 1 {
		t.Fatalf("len=%d want 1 (%+v)", len(got), got)
	}
	z := got[0]
	if z.Name != "Z" || math.Abs(z.AvgUsage-0.5) > 1e-9 {
		t.Fatalf("got %+v want Z 0.5", z)
	}
	if len(z.RecommendedFor) != 2 || z.RecommendedFor[0] != "A" || z.RecommendedFor[1] != "B" {
		t.Fatalf("RecommendedFor=%v want [A B]", z.RecommendedFor)
	}
}

func TestRecommend_DropsBelowThreshold(t *testing.T) {
	sources := map[string][]model.TeammateRow{
		"A": {mate("A", "Low", 0.49), mate("A", "High", 0.7)},
	}
	got := Recommend(sources, nil, Options{})
	if len(got) != 1 || got[0].Name != "High" {
		t.Fatalf("got %+v want only High", got)
	}
	all := Recommend(sources, nil, Options{Threshold: -1})
	if len(all) != 2 {
		t.Fatalf("negative threshold should keep everything, got %+v", all)
	}
}

func TestRecommend_ExcludesBothTeams(t *testing.T) {
	sources := map[string][]model.TeammateRow{
		"Garchomp": {
			mate("Garchomp", "Rotom-Wash", 0.8),
			mate("Garchomp", "Ferrothorn", 0.7),
			mate("Garchomp", "Clefable", 0.6),
		},
	}
	teams := [][]string{{"Garchomp", "rotom-wash"}, {"Ferrothorn "}}
	got := Recommend(sources, teams, Options{})
	for _, r := range got {
		if r.Name == "Rotom-Wash" || r.Name == "Ferrothorn" || r.Name == "Garchomp" {
			t.Fatalf("%s is already on a team", r.Name)
		}
	}
	if len(got) != 1 || got[0].Name != "Clefable" {
		t.Fatalf("got %+v want only Clefable", got)
	}
}

func TestRecommend_OrderAndTieBreak(t *testing.T) {
	sources := map[string][]model.TeammateRow{
		"A": {mate("A", "Zeraora", 0.6), mate("A", "Amoonguss", 0.6), mate("A", "Kingambit", 0.9)},
	}
	got := Recommend(sources, nil, Options{})
	want := []string{"Kingambit", "Amoonguss", "Zeraora"}
	if len(got) != len(want) {
		t.Fatalf("len=%d want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Name != w {
			t.Fatalf("got[%d]=%s want %s", i, got[i].Name, w)
		}
	}
}

func TestRecommend_EmptySources(t *testing.T) {
	got := Recommend(nil, [][]string{{"A"}}, Options{})
	if got == nil || len(got) != 0 {
		t.Fatalf("Recommend(nil)=%v want empty non-nil slice", got)
	}
}

// ---------------------------------------------------------------------------
// RecommendSetup
// ---------------------------------------------------------------------------

func TestRecommendSetup(t *testing.T) {
	rows := model.SetupRows{
		Abilities: []model.SetupRow{
			{Name: "Rough Skin", UsagePercent: 0.9, YearMonth: "2024-01"},
			{Name: "Rough Skin", UsagePercent: 0.7, YearMonth: "2024-02"},
			{Name: "Sand Veil", UsagePercent: 0.1, YearMonth: "2024-01"},
		},
		Items: []model.SetupRow{{Name: "Choice Scarf", UsagePercent: 0.4}},
		Moves: []model.SetupRow{
			{Name: "Earthquake", UsagePercent: 0.95},
			{Name: "Dragon Claw", UsagePercent: 0.6},
			{Name: "Swords Dance", UsagePercent: 0.5},
			{Name: "Stone Edge", UsagePercent: 0.4},
			{Name: "Fire Fang", UsagePercent: 0.1},
		},
		Spreads: []model.SpreadRow{
			{Nature: "Jolly", EVs: model.StatBlock{Attack: 252, Speed: 252, HP: 4}, UsagePercent: 0.3},
			{Nature: "Jolly", EVs: model.StatBlock{Attack: 252, Speed: 252, HP: 4}, UsagePercent: 0.5},
			{Nature: "Adamant", EVs: model.StatBlock{Attack: 252, Speed: 252, HP: 4}, UsagePercent: 0.35},
		},
	}
	got := RecommendSetup(rows)
	if got.NoData {
		t.Fatalf("unexpected NoData")
	}
	if got.Ability != "Rough Skin" || math.Abs(got.Abilities[0].AvgUsage-0.8) > 1e-9 || got.Abilities[0].Months != 2 {
		t.Fatalf("abilities=%+v", got.Abilities)
	}
	if len(got.Moveset) != DefaultMoveCount || got.Moveset[3] != "Stone Edge" {
		t.Fatalf("moveset=%v", got.Moveset)
	}
	if got.TopSpread == nil || got.TopSpread.Nature != "Jolly" || math.Abs(got.TopSpread.AvgUsage-0.4) > 1e-9 {
		t.Fatalf("top spread=%+v", got.TopSpread)
	}
}

func TestRecommendSetup_Empty(t *testing.T) {
	got := RecommendSetup(model.SetupRows{})
	if !got.NoData || got.Moveset == nil {
		t.Fatalf("got %+v want NoData with empty moveset", got)
	}
}
