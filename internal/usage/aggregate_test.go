package usage

import (
	"math"
	"testing"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

func row(species, ym string, u float64) model.UsageRow {
	return model.UsageRow{Species: species, YearMonth: ym, UsagePercent: u, BattleFormat: "ou", Generation: "gen9"}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// ---------------------------------------------------------------------------
// Aggregate
// ---------------------------------------------------------------------------

func TestAggregate_PresenceFilterAndOrdering(t *testing.T) {
	rows := []model.UsageRow{
		row("A", "2024-01", 0.30), row("A", "2024-02", 0.20), row("A", "2024-03", 0.10), row("A", "2024-04", 0.20),
		row("B", "2024-01", 0.50), row("B", "2024-02", 0.30),
		row("C", "2024-01", 0.90),
	}
	got := Aggregate(rows)
	if len(got) != 2 {
		t.Fatalf("len=%d want 2 (%+v)", len(got), got)
	}
	if got[0].Species != "B" || !approx(got[0].AverageUsage, 0.40) {
		t.Fatalf("first=%+v want B 0.40", got[0])
	}
	if got[1].Species != "A" || !approx(got[1].AverageUsage, 0.20) {
		t.Fatalf("second=%+v want A 0.20", got[1])
	}
	if got[0].MonthsPresent != 2 || got[0].TotalMonths != 4 {
		t.Fatalf("B months=%d/%d want 2/4", got[0].MonthsPresent, got[0].TotalMonths)
	}
}

func TestAggregate_LaterDuplicateWins(t *testing.T) {
	rows := []model.UsageRow{
		row("A", "2024-01", 0.10),
		row("A", "2024-01", 0.30),
	}
	got := Aggregate(rows)
	if len(got) != 1 || !approx(got[0].AverageUsage, 0.30) || got[0].MonthsPresent != 1 {
		t.Fatalf("got %+v want single A 0.30 over 1 month", got)
	}
}

func TestAggregate_TieBreaksByName(t *testing.T) {
	rows := []model.UsageRow{
		row("Zapdos", "2024-01", 0.25),
		row("Amoonguss", "2024-01", 0.25),
		row("Landorus", "2024-01", 0.25),
	}
	got := Aggregate(rows)
	want := []string{"Amoonguss", "Landorus", "Zapdos"}
	for i, w := range want {
		if got[i].Species != w {
			t.Fatalf("got[%d]=%s want %s", i, got[i].Species, w)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("Aggregate(nil)=%v want empty non-nil ranking", got)
	}
}

// Adding a month where a species is absent can only remove it from the
// ranking, never add it.
func TestAggregate_PresenceMonotonic(t *testing.T) {
	base := []model.UsageRow{
		row("A", "2024-01", 0.2), row("A", "2024-02", 0.2),
		row("B", "2024-01", 0.4),
	}
	before := Aggregate(base)
	after := Aggregate(append(base, row("C", "2024-03", 0.1), row("C", "2024-04", 0.1)))

	inBefore := map[string]bool{}
	for _, e := range before {
		inBefore[e.Species] = true
	}
	for _, e := range after {
		if e.Species == "C" {
			continue
		}
		if !inBefore[e.Species] {
			t.Fatalf("%s appeared after adding months without it", e.Species)
		}
	}
	for _, e := range after {
		if e.Species == "B" {
			t.Fatalf("B present in 1 of 4 months should be filtered")
		}
	}
}

func TestRanking_Top(t *testing.T) {
	r := Ranking{{Species: "A"}, {Species: "B"}, {Species: "C"}}
	cases := []struct {
		n    int
		want int
	}{
		{0, 3}, {-1, 3}, {2, 2}, {5, 3},
	}
	for _, tc := range cases {
		if got := len(r.Top(tc.n)); got != tc.want {
			t.Fatalf("Top(%d) len=%d want %d", tc.n, got, tc.want)
		}
	}
}

// ---------------------------------------------------------------------------
// MonthlySeries
// ---------------------------------------------------------------------------

func TestMonthlySeries(t *testing.T) {
	rows := []model.UsageRow{
		row("A", "2024-02", 0.2),
		row("A", "2024-01", 0.1),
		row("B", "2024-02", 0.4),
	}
	got := MonthlySeries(rows, []string{"A", "B"})
	if len(got) != 2 || got[0].YearMonth != "2024-01" {
		t.Fatalf("unexpected months: %+v", got)
	}
	if got[0].Values["B"] != nil {
		t.Fatalf("B should be nil in 2024-01")
	}
	if v := got[1].Values["B"]; v == nil || !approx(*v, 0.4) {
		t.Fatalf("B in 2024-02=%v want 0.4", v)
	}
}
