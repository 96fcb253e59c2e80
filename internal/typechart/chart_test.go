package typechart

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// SingleTypeMultiplier
// ---------------------------------------------------------------------------

func TestSingleTypeMultiplier(t *testing.T) {
	cases := []struct {
		name string
		atk  Type
		def  Type
		want float64
	}{
		{"super effective", Water, Fire, 2},
		{"resisted", Fire, Water, 0.5},
		{"neutral", Normal, Fire, 1},
		{"immune ghost vs normal", Normal, Ghost, 0},
		{"immune electric vs ground", Electric, Ground, 0},
		{"steel immune to poison", Poison, Steel, 0},
		{"fairy immune to dragon", Dragon, Fairy, 0},
		{"dark immune to psychic", Psychic, Dark, 0},
		{"dragon vs dragon", Dragon, Dragon, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SingleTypeMultiplier(tc.atk, tc.def)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("SingleTypeMultiplier(%s, %s)=%v want %v", tc.atk, tc.def, got, tc.want)
			}
		})
	}
}

func TestSingleTypeMultiplier_UnknownType(t *testing.T) {
	if _, err := SingleTypeMultiplier("shadow", Fire); !errors.Is(err, ErrTypeNotFound) {
		t.Fatalf("expected ErrTypeNotFound, got %v", err)
	}
	if _, err := SingleTypeMultiplier(Fire, "shadow"); !errors.Is(err, ErrTypeNotFound) {
		t.Fatalf("expected ErrTypeNotFound, got %v", err)
	}
}

func TestParseType(t *testing.T) {
	got, err := ParseType("  Fairy ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Fairy {
		t.Fatalf("ParseType=%q want fairy", got)
	}
	if _, err := ParseType("sound"); !errors.Is(err, ErrTypeNotFound) {
		t.Fatalf("expected ErrTypeNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// MultiTypeDefenseMultiplier
// ---------------------------------------------------------------------------

func TestMultiTypeDefenseMultiplier(t *testing.T) {
	cases := []struct {
		name string
		atk  Type
		defs []Type
		want float64
	}{
		{"double weakness", Ice, []Type{Grass, Flying}, 4},
		{"ice vs dragon flying", Ice, []Type{Dragon, Flying}, 4},
		{"immunity dominates", Electric, []Type{Water, Ground}, 0},
		{"double resist", Fire, []Type{Water, Dragon}, 0.25},
		{"cancel out", Fire, []Type{Grass, Water}, 1},
		{"single type", Fighting, []Type{Normal}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MultiTypeDefenseMultiplier(tc.atk, tc.defs)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("MultiTypeDefenseMultiplier(%s, %v)=%v want %v", tc.atk, tc.defs, got, tc.want)
			}
		})
	}
}

// Every attacker against every one- or two-type defender must land on one of
// the six legal multipliers.
func TestMultiTypeDefenseMultiplier_Bounds(t *testing.T) {
	legal := map[float64]bool{0: true, 0.25: true, 0.5: true, 1: true, 2: true, 4: true}
	for _, atk := range All {
		for i, d1 := range All {
			for _, d2 := range All[i:] {
				defs := []Type{d1}
				if d2 != d1 {
					defs = append(defs, d2)
				}
				got, err := MultiTypeDefenseMultiplier(atk, defs)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !legal[got] {
					t.Fatalf("MultiTypeDefenseMultiplier(%s, %v)=%v outside legal set", atk, defs, got)
				}
			}
		}
	}
}

func TestMultiTypeDefenseMultiplier_RejectsBadTyping(t *testing.T) {
	cases := []struct {
		name string
		defs []Type
	}{
		{"no types", nil},
		{"three types", []Type{Grass, Flying, Dragon}},
		{"duplicate type", []Type{Grass, Grass}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MultiTypeDefenseMultiplier(Ice, tc.defs)
			if !errors.Is(err, ErrInvalidTyping) {
				t.Fatalf("MultiTypeDefenseMultiplier(ice, %v)=%v,%v want ErrInvalidTyping", tc.defs, got, err)
			}
		})
	}
}

func TestMultiTypeDefenseMultiplier_UnknownAttacker(t *testing.T) {
	if _, err := MultiTypeDefenseMultiplier("shadow", []Type{Fire}); !errors.Is(err, ErrTypeNotFound) {
		t.Fatalf("expected ErrTypeNotFound, got %v", err)
	}
	if _, err := MultiTypeDefenseMultiplier("shadow", nil); !errors.Is(err, ErrTypeNotFound) {
		t.Fatalf("expected ErrTypeNotFound for empty defender, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Team coverage
// ---------------------------------------------------------------------------

func TestTeamDefensiveCoverage_MinimumAcrossMembers(t *testing.T) {
	team := [][]Type{{Fire}, nil, {Water, Ground}, {Grass}}
	got, ok, err := TeamDefensiveCoverage(team, Electric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || got != 0 {
		t.Fatalf("TeamDefensiveCoverage=%v ok=%v want 0 true", got, ok)
	}
}

func TestTeamDefensiveCoverage_EmptyTeam(t *testing.T) {
	_, ok, err := TeamDefensiveCoverage([][]Type{nil, {}, nil, nil}, Fire)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for a team without typed members")
	}
}

func TestTeamDefensiveCoverage_UnknownAttacker(t *testing.T) {
	for _, team := range [][][]Type{{nil, nil}, {{Fire}}} {
		if _, _, err := TeamDefensiveCoverage(team, "shadow"); !errors.Is(err, ErrTypeNotFound) {
			t.Fatalf("TeamDefensiveCoverage(%v, shadow) err=%v want ErrTypeNotFound", team, err)
		}
	}
}

func TestTeamDefensiveCoverage_RejectsThreeTypeMember(t *testing.T) {
	if _, _, err := TeamDefensiveCoverage([][]Type{{Grass, Flying, Dragon}}, Ice); !errors.Is(err, ErrInvalidTyping) {
		t.Fatalf("expected ErrInvalidTyping, got %v", err)
	}
}

func TestTeamOffensiveCoverage_MaximumAcrossTypes(t *testing.T) {
	team := [][]Type{{Normal}, {Water, Ground}}
	got, ok, err := TeamOffensiveCoverage(team, Fire)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || got != 2 {
		t.Fatalf("TeamOffensiveCoverage=%v ok=%v want 2 true", got, ok)
	}
}

func TestTeamOffensiveCoverage_UnknownDefender(t *testing.T) {
	if _, _, err := TeamOffensiveCoverage([][]Type{{Fire}}, "cosmic"); !errors.Is(err, ErrTypeNotFound) {
		t.Fatalf("expected ErrTypeNotFound, got %v", err)
	}
}

func TestTeamCoverage(t *testing.T) {
	rows, err := TeamCoverage([][]Type{{Electric}, {Ground, Flying}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != len(All) {
		t.Fatalf("len(rows)=%d want %d", len(rows), len(All))
	}
	for _, r := range rows {
		if r.Type == Electric && r.Defensive != 0 {
			t.Fatalf("electric defensive=%v want 0 (ground/flying immune)", r.Defensive)
		}
		if r.Type == Water && r.Offensive != 2 {
			t.Fatalf("water offensive=%v want 2", r.Offensive)
		}
	}

	none, err := TeamCoverage(nil)
	if err != nil || none != nil {
		t.Fatalf("TeamCoverage(nil)=%v,%v want nil,nil", none, err)
	}
}

func TestMatrix_Shape(t *testing.T) {
	m := Matrix()
	if len(m) != 18 {
		t.Fatalf("rows=%d want 18", len(m))
	}
	for _, row := range m {
		if len(row) != 18 {
			t.Fatalf("cols=%d want 18", len(row))
		}
	}
}

func TestWeaknesses(t *testing.T) {
	w, err := Weaknesses([]Type{Grass, Flying})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w[Ice] != 4 {
		t.Fatalf("ice=%v want 4", w[Ice])
	}
	if _, ok := w[Ground]; ok {
		t.Fatalf("ground should not be a weakness of grass/flying")
	}
}
