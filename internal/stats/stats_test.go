package stats

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

func mustNature(t *testing.T, name string) model.Nature {
	t.Helper()
	n, ok := LookupNature(name)
	if !ok {
		t.Fatalf("nature %q missing", name)
	}
	return n
}

// ---------------------------------------------------------------------------
// CalculateStat
// ---------------------------------------------------------------------------

func TestCalculateStat(t *testing.T) {
	adamant := mustNature(t, "Adamant")
	modest := mustNature(t, "modest")
	hardy := mustNature(t, "hardy")

	cases := []struct {
		name   string
		base   int
		ev     int
		nature model.Nature
		key    model.StatKey
		want   int
	}{
		{"boosted attack", 100, 252, adamant, model.Attack, 167},
		{"hindered attack", 100, 0, modest, model.Attack, 108},
		{"neutral attack", 100, 0, hardy, model.Attack, 120},
		{"hp ignores nature", 100, 0, adamant, model.HP, 175},
		{"hp with evs", 108, 4, hardy, model.HP, 184},
		{"floor of pre-nature value", 80, 0, hardy, model.SpecialAttack, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateStat(tc.base, tc.ev, tc.nature, tc.key)
			if got != tc.want {
				t.Fatalf("CalculateStat(%d, %d, %s, %s)=%d want %d", tc.base, tc.ev, tc.nature.Name, tc.key, got, tc.want)
			}
		})
	}
}

func TestCalculateStat_OneSidedNature(t *testing.T) {
	atk, spe := model.Attack, model.Speed
	cases := []struct {
		name   string
		nature model.Nature
		key    model.StatKey
		want   int
	}{
		{"increase only", model.Nature{Increased: &atk}, model.Attack, 167},
		{"increase only leaves others", model.Nature{Increased: &atk}, model.Speed, 152},
		{"decrease only", model.Nature{Decreased: &spe}, model.Speed, 136},
		{"same stat both sides", model.Nature{Increased: &atk, Decreased: &atk}, model.Attack, 152},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CalculateStat(100, 252, tc.nature, tc.key); got != tc.want {
				t.Fatalf("CalculateStat(100, 252, %s)=%d want %d", tc.key, got, tc.want)
			}
		})
	}
}

func TestCalculateStat_Deterministic(t *testing.T) {
	jolly := mustNature(t, "jolly")
	first := CalculateStat(102, 252, jolly, model.Speed)
	for i := 0; i < 100; i++ {
		if got := CalculateStat(102, 252, jolly, model.Speed); got != first {
			t.Fatalf("call %d returned %d, first returned %d", i, got, first)
		}
	}
}

func TestCalculateStatChecked_RejectsOutOfRangeEV(t *testing.T) {
	for _, ev := range []int{-4, 253, 600} {
		if _, err := CalculateStatChecked(100, ev, model.Nature{}, model.Attack); !errors.Is(err, ErrInvalidEV) {
			t.Fatalf("ev=%d: expected ErrInvalidEV, got %v", ev, err)
		}
	}
	got, err := CalculateStatChecked(100, 252, mustNature(t, "adamant"), model.Attack)
	if err != nil || got != 167 {
		t.Fatalf("CalculateStatChecked=%d,%v want 167,nil", got, err)
	}
}

func TestCalculateBuild(t *testing.T) {
	b := model.Build{
		Species: model.SpeciesProfile{
			Name:      "Garchomp",
			BaseStats: model.StatBlock{HP: 108, Attack: 130, Defense: 95, SpecialAttack: 80, SpecialDefense: 85, Speed: 102},
		},
		Nature: mustNature(t, "jolly"),
		EVs:    model.StatBlock{HP: 4, Attack: 252, Speed: 252},
	}
	want := model.StatBlock{HP: 184, Attack: 182, Defense: 115, SpecialAttack: 90, SpecialDefense: 105, Speed: 169}
	if got := CalculateBuild(b); got != want {
		t.Fatalf("CalculateBuild=%+v want %+v", got, want)
	}
}

func TestNatures_Table(t *testing.T) {
	if len(Natures) != 25 {
		t.Fatalf("len(Natures)=%d want 25", len(Natures))
	}
	neutrals := 0
	for _, n := range Natures {
		if n.Neutral() {
			neutrals++
		}
	}
	if neutrals != 5 {
		t.Fatalf("neutral natures=%d want 5", neutrals)
	}
	if names := NatureNames(); names[0] != "Adamant" {
		t.Fatalf("NatureNames()[0]=%q want Adamant", names[0])
	}
}

func TestSupportsEVs(t *testing.T) {
	if SupportsEVs("gen1") || SupportsEVs("gen2") {
		t.Fatalf("gen1/gen2 should not support EVs")
	}
	if !SupportsEVs("gen9") {
		t.Fatalf("gen9 should support EVs")
	}
}

// ---------------------------------------------------------------------------
// AllocateEV
// ---------------------------------------------------------------------------

func TestAllocateEV_ClampsToRemainingBudget(t *testing.T) {
	spread := model.StatBlock{Attack: 252, HP: 248}
	got := AllocateEV(spread, model.Defense, 20)
	if got.Defense != 10 {
		t.Fatalf("defense=%d want 10", got.Defense)
	}
	if got.Sum() != MaxTotalEV {
		t.Fatalf("sum=%d want %d", got.Sum(), MaxTotalEV)
	}
	if spread.Defense != 0 {
		t.Fatalf("input spread was modified")
	}
}

func TestAllocateEV_AcceptsWithinBudget(t *testing.T) {
	spread := model.StatBlock{Attack: 252}
	got := AllocateEV(spread, model.Speed, 252)
	if got.Speed != 252 {
		t.Fatalf("speed=%d want 252", got.Speed)
	}
	got = AllocateEV(got, model.Attack, 100)
	if got.Attack != 100 {
		t.Fatalf("lowering attack: got %d want 100", got.Attack)
	}
}

// Random sequences of allocations must never push the total over budget.
func TestAllocateEV_BudgetInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var spread model.EVSpread
	for i := 0; i < 5000; i++ {
		k := model.StatKeys[rng.Intn(len(model.StatKeys))]
		proposed := rng.Intn(MaxEV/EVStep+1) * EVStep
		spread = AllocateEV(spread, k, proposed)
		if spread.Sum() > MaxTotalEV {
			t.Fatalf("step %d: sum=%d exceeds budget (%+v)", i, spread.Sum(), spread)
		}
		if err := ValidateSpread(spread); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func TestValidateSpread(t *testing.T) {
	if err := ValidateSpread(model.StatBlock{Attack: 260}); !errors.Is(err, ErrInvalidEV) {
		t.Fatalf("expected ErrInvalidEV for 260, got %v", err)
	}
	if err := ValidateSpread(model.StatBlock{Attack: 252, Speed: 252, HP: 252}); !errors.Is(err, ErrInvalidEV) {
		t.Fatalf("expected ErrInvalidEV for over-budget spread, got %v", err)
	}
	if r := Remaining(model.StatBlock{Attack: 252, Speed: 252}); r != 6 {
		t.Fatalf("Remaining=%d want 6", r)
	}
}

// ---------------------------------------------------------------------------
// Team rollups
// ---------------------------------------------------------------------------

func TestTeamAverages(t *testing.T) {
	team := model.NewTeam()
	team[0].Species = &model.SpeciesProfile{Name: "A", BaseStats: model.StatBlock{HP: 100, Attack: 100, Defense: 100, SpecialAttack: 100, SpecialDefense: 100, Speed: 100}}
	team[1].Species = &model.SpeciesProfile{Name: "B", BaseStats: model.StatBlock{HP: 100, Attack: 100, Defense: 100, SpecialAttack: 100, SpecialDefense: 100, Speed: 100}}
	team[1].Build = &model.Build{Species: *team[1].Species, Nature: mustNature(t, "adamant"), EVs: model.StatBlock{Attack: 252}}

	avg, n := TeamAverages(team)
	if n != 2 {
		t.Fatalf("n=%d want 2", n)
	}
	// (120 + 167) / 2 = 143.5 rounds to 144.
	if avg.Attack != 144 {
		t.Fatalf("attack avg=%d want 144", avg.Attack)
	}
	if avg.HP != 175 {
		t.Fatalf("hp avg=%d want 175", avg.HP)
	}
}

func TestCompareTeams(t *testing.T) {
	empty := model.NewTeam()
	if c := CompareTeams(empty, empty); !c.NoData {
		t.Fatalf("expected NoData for empty teams")
	}

	a := model.NewTeam()
	a[0].Species = &model.SpeciesProfile{Name: "A", BaseStats: model.StatBlock{HP: 100, Attack: 100, Defense: 100, SpecialAttack: 100, SpecialDefense: 100, Speed: 100}}
	b := model.NewTeam()
	b[0].Species = &model.SpeciesProfile{Name: "B", BaseStats: model.StatBlock{HP: 100, Attack: 100, Defense: 100, SpecialAttack: 100, SpecialDefense: 100, Speed: 100}}

	c := CompareTeams(a, b)
	if c.NoData {
		t.Fatalf("unexpected NoData")
	}
	if c.PhysicalEdge != 0 || c.SpecialEdge != 0 {
		t.Fatalf("mirror teams should have no edge: %+v", c)
	}
	if c.DiffPercent[model.Speed] != 0 {
		t.Fatalf("speed diff=%v want 0", c.DiffPercent[model.Speed])
	}
}
