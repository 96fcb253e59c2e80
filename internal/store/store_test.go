package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "arena.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func key(species, ym string) Key {
	return Key{Species: species, Generation: "gen9", BattleFormat: "ou", Rating: 1695, YearMonth: ym}
}

func rating(v uint32) *uint32 { return &v }

// ---- writes ----

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	n, err := db.Count(context.Background(), KindUsage)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestPutUsageLaterRowWins(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	n, err := db.PutUsage(ctx, []UsageRecord{
		{Key: key("Garchomp", "2024-01"), UsagePercent: 0.20},
		{Key: key("Garchomp", "2024-01"), UsagePercent: 0.30},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := db.Count(ctx, KindUsage)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rows, err := db.UsageRows(ctx, Selector{Rating: rating(1695)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 0.30, rows[0].UsagePercent, 1e-9)
	require.NotNil(t, rows[0].Rating)
	assert.Equal(t, uint32(1695), *rows[0].Rating)
}

func TestPutRejectsBadKey(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.PutUsage(ctx, []UsageRecord{
		{Key: key("Garchomp", "2024-01"), UsagePercent: 0.2},
		{Key: key("Garchomp", "2024-13"), UsagePercent: 0.2},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidYearMonth)

	// The whole batch is rolled back.
	n, err := db.Count(ctx, KindUsage)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = db.PutUsage(ctx, []UsageRecord{{Key: Key{Generation: "gen9", BattleFormat: "ou", YearMonth: "2024-01"}}})
	assert.Error(t, err)
}

func TestPutPairsRejectsNonPairKind(t *testing.T) {
	db := openTestDB(t)
	_, err := db.PutPairs(context.Background(), KindUsage, nil)
	assert.Error(t, err)
}

// ---- queries ----

func TestUsageRowsSelector(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	other := key("Garchomp", "2024-02")
	other.BattleFormat = "uu"
	lowRating := key("Garchomp", "2024-02")
	lowRating.Rating = 0
	_, err := db.PutUsage(ctx, []UsageRecord{
		{Key: key("Garchomp", "2024-01"), UsagePercent: 0.1},
		{Key: key("Garchomp", "2024-02"), UsagePercent: 0.2},
		{Key: key("Garchomp", "2024-03"), UsagePercent: 0.3},
		{Key: other, UsagePercent: 0.9},
		{Key: lowRating, UsagePercent: 0.5},
	})
	require.NoError(t, err)

	rows, err := db.UsageRows(ctx, Selector{Generation: "gen9", BattleFormat: "ou", Rating: rating(1695), From: "2024-02", To: "2024-03"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-02", rows[0].YearMonth)
	assert.Equal(t, "2024-03", rows[1].YearMonth)

	// Without a rating the buckets of one month merge into a single row.
	rows, err = db.UsageRows(ctx, Selector{BattleFormat: "ou", From: "2024-02", To: "2024-02"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Rating)
	assert.InDelta(t, 0.35, rows[0].UsagePercent, 1e-9)

	_, err = db.UsageRows(ctx, Selector{From: "2024-05", To: "2024-01"})
	assert.Error(t, err)
	_, err = db.UsageRows(ctx, Selector{From: "24-01"})
	assert.ErrorIs(t, err, model.ErrInvalidYearMonth)
}

func TestTeammateAveragesAveragesAcrossMonths(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.PutPairs(ctx, KindTeammates, []PairRecord{
		{Key: key("Garchomp", "2024-01"), Value: "Clefable", Usage: 0.4},
		{Key: key("Garchomp", "2024-02"), Value: "Clefable", Usage: 0.6},
		{Key: key("Garchomp", "2024-02"), Value: "Rotom-Wash", Usage: 0.3},
		{Key: key("Kingambit", "2024-02"), Value: "Clefable", Usage: 0.9},
	})
	require.NoError(t, err)

	rows, err := db.TeammateAverages(ctx, "Garchomp", Selector{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Clefable", rows[0].Teammate)
	assert.InDelta(t, 0.5, rows[0].UsagePercent, 1e-9)
	assert.Equal(t, "2024-02", rows[0].YearMonth)
	assert.Equal(t, "Garchomp", rows[0].Species)
	assert.Equal(t, "Rotom-Wash", rows[1].Teammate)

	rows, err = db.TeammateAverages(ctx, "Missingno", Selector{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCounterRowsKeepsNulls(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	ko := 0.45

	_, err := db.PutCounters(ctx, []CounterRecord{
		{Key: key("Garchomp", "2024-01"), Opponent: "Skarmory", LoseRate: 0.6, KOPercent: &ko},
		{Key: key("Garchomp", "2024-01"), Opponent: "Corviknight", LoseRate: 0.7},
	})
	require.NoError(t, err)

	rows, err := db.CounterRows(ctx, "Garchomp", Selector{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Corviknight", rows[0].Opponent)
	assert.Nil(t, rows[0].KOPercent)
	assert.Nil(t, rows[0].Mean)
	require.NotNil(t, rows[1].KOPercent)
	assert.InDelta(t, 0.45, *rows[1].KOPercent, 1e-9)
}

func TestCounterRowsMergesRatings(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	ko := 0.4

	low := key("Garchomp", "2024-01")
	low.Rating = 0
	_, err := db.PutCounters(ctx, []CounterRecord{
		{Key: key("Garchomp", "2024-01"), Opponent: "Corviknight", LoseRate: 0.8, KOPercent: &ko},
		{Key: low, Opponent: "Corviknight", LoseRate: 0.6},
		{Key: low, Opponent: "Weavile", LoseRate: 0.2},
	})
	require.NoError(t, err)

	rows, err := db.CounterRows(ctx, "Garchomp", Selector{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Corviknight", rows[0].Opponent)
	assert.InDelta(t, 0.7, rows[0].LoseRateAgainstOpp, 1e-9)
	require.NotNil(t, rows[0].KOPercent)
	assert.InDelta(t, 0.4, *rows[0].KOPercent, 1e-9)
	assert.Equal(t, "Weavile", rows[1].Opponent)

	rows, err = db.CounterRows(ctx, "Garchomp", Selector{Rating: rating(0)})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.InDelta(t, 0.6, rows[0].LoseRateAgainstOpp, 1e-9)
}

func TestViabilityRowsUsesHighestRating(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	low := key("Garchomp", "2024-01")
	low.Rating = 0
	_, err := db.PutBase(ctx, []BaseRecord{
		{Key: low, ViabilityCeiling: 70},
		{Key: key("Garchomp", "2024-01"), ViabilityCeiling: 88},
	})
	require.NoError(t, err)

	rows, err := db.ViabilityRows(ctx, "Garchomp", Selector{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.ViabilityRow{Format: "gen9ou", ViabilityCeiling: 88, YearMonth: "2024-01"}, rows[0])

	rows, err = db.ViabilityRows(ctx, "Garchomp", Selector{Rating: rating(0)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 70.0, rows[0].ViabilityCeiling)
}

func TestSetupRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.PutPairs(ctx, KindMoves, []PairRecord{
		{Key: key("Garchomp", "2024-01"), Value: "Earthquake", Usage: 0.95},
	})
	require.NoError(t, err)
	_, err = db.PutPairs(ctx, KindItems, []PairRecord{
		{Key: key("Garchomp", "2024-01"), Value: "Rocky Helmet", Usage: 0.4},
	})
	require.NoError(t, err)
	evs := model.EVSpread{HP: 252, Defense: 4, Speed: 252}
	_, err = db.PutSpreads(ctx, []SpreadRecord{
		{Key: key("Garchomp", "2024-01"), Nature: "Jolly", EVs: evs, Usage: 0.3},
	})
	require.NoError(t, err)

	setup, err := db.SetupRows(ctx, "Garchomp", Selector{})
	require.NoError(t, err)
	require.Len(t, setup.Moves, 1)
	assert.Equal(t, "Earthquake", setup.Moves[0].Name)
	require.Len(t, setup.Items, 1)
	assert.Empty(t, setup.Abilities)
	assert.Empty(t, setup.TeraTypes)
	require.Len(t, setup.Spreads, 1)
	assert.Equal(t, evs, setup.Spreads[0].EVs)
	assert.Equal(t, "Jolly", setup.Spreads[0].Nature)
}

func TestFormatsAndSpecies(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	low := key("Kingambit", "2024-03")
	low.Rating = 0
	_, err := db.PutUsage(ctx, []UsageRecord{
		{Key: key("Garchomp", "2024-01"), UsagePercent: 0.1},
		{Key: low, UsagePercent: 0.1},
	})
	require.NoError(t, err)

	formats, err := db.Formats(ctx)
	require.NoError(t, err)
	require.Len(t, formats, 1)
	assert.Equal(t, FormatInfo{
		Generation:   "gen9",
		BattleFormat: "ou",
		Ratings:      []uint32{0, 1695},
		First:        "2024-01",
		Last:         "2024-03",
		Months:       2,
	}, formats[0])

	species, err := db.Species(ctx, Selector{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Garchomp", "Kingambit"}, species)
}

// ---- csv import ----

func TestImportCSVUsagePercent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	data := "\ufeffName,Generation,Battle Format,Rating,YearMonth,Rank,Usage_Percent,Raw_Count,Raw_Percent,Real_Count,Real_Percent\n" +
		"Garchomp,GEN9,OU,1695,2024-01,1,25.5,1000.0,20,900,18\n" +
		"Kingambit,gen9,ou,1695,2024-01,2,30,800,,700,\n"
	n, err := db.ImportCSV(ctx, KindUsage, strings.NewReader(data), ImportOptions{Percent: true})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := db.UsageRows(ctx, Selector{Generation: "gen9", BattleFormat: "ou"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Garchomp", rows[0].Species)
	assert.InDelta(t, 0.255, rows[0].UsagePercent, 1e-9)
	assert.Equal(t, uint64(1000), rows[0].RawCount)
	assert.Equal(t, uint64(700), rows[1].RealCount)
}

func TestImportCSVErrors(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name string
		kind Kind
		data string
	}{
		{"missing column", KindUsage, "name,generation,battle_format\nGarchomp,gen9,ou\n"},
		{"bad month", KindUsage, "name,generation,battle_format,rating,year_month,usage_percent\nGarchomp,gen9,ou,0,2024-1,0.1\n"},
		{"bad number", KindUsage, "name,generation,battle_format,rating,year_month,usage_percent\nGarchomp,gen9,ou,0,2024-01,lots\n"},
		{"missing value", KindMoves, "name,generation,battle_format,rating,year_month,move,usage\nGarchomp,gen9,ou,0,2024-01,,0.1\n"},
		{"missing opponent", KindCounters, "name,generation,battle_format,rating,year_month,opp_pokemon,lose_rate_against_opp\nGarchomp,gen9,ou,0,2024-01,,0.1\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.ImportCSV(ctx, tc.kind, strings.NewReader(tc.data), ImportOptions{})
			assert.Error(t, err)
		})
	}

	n, err := db.ImportCSV(ctx, KindUsage, strings.NewReader(""), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestImportCSVCountersAndSpreads(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	counters := "name,generation,battle_format,rating,year_month,opp_pokemon,lose_rate_against_opp,mean,std_dev,ko_percent,switch_percent\n" +
		"Garchomp,gen9,ou,0,2024-01,Skarmory,0.6,0.5,0.1,NaN,0.2\n"
	_, err := db.ImportCSV(ctx, KindCounters, strings.NewReader(counters), ImportOptions{})
	require.NoError(t, err)
	rows, err := db.CounterRows(ctx, "Garchomp", Selector{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].KOPercent)
	require.NotNil(t, rows[0].SwitchPercent)
	assert.InDelta(t, 0.2, *rows[0].SwitchPercent, 1e-9)

	spreads := "name,generation,battle_format,rating,year_month,nature,hp_ev,atk_ev,def_ev,spatk_ev,spdef_ev,spd_ev,usage\n" +
		"Garchomp,gen9,ou,0,2024-01,Jolly,0,252,4,0,0,252,0.31\n"
	_, err = db.ImportCSV(ctx, KindSpreads, strings.NewReader(spreads), ImportOptions{})
	require.NoError(t, err)
	setup, err := db.SetupRows(ctx, "Garchomp", Selector{})
	require.NoError(t, err)
	require.Len(t, setup.Spreads, 1)
	assert.Equal(t, model.EVSpread{Attack: 252, Defense: 4, Speed: 252}, setup.Spreads[0].EVs)
}

func TestImportDir(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("pokeusage.csv", "name,generation,battle_format,rating,year_month,usage_percent\nGarchomp,gen9,ou,0,2024-01,0.2\n")
	write("poketeam_teammates.csv", "name,generation,battle_format,rating,year_month,teammate,usage\nGarchomp,gen9,ou,0,2024-01,Clefable,0.5\nGarchomp,gen9,ou,0,2024-01,Gliscor,0.4\n")
	write("notes.txt", "ignored")

	counts, err := db.ImportDir(context.Background(), dir, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, map[Kind]int{KindUsage: 1, KindTeammates: 2}, counts)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Moves ")
	require.NoError(t, err)
	assert.Equal(t, KindMoves, k)
	_, err = ParseKind("pokedex")
	assert.Error(t, err)

	k, ok := KindForFile("POKETEAM_TERATYPES.csv")
	assert.True(t, ok)
	assert.Equal(t, KindTeraTypes, k)
}

// ---- raw cache ----

func TestRawCache(t *testing.T) {
	c := NewRawCache(t.TempDir(), time.Hour)
	assert.False(t, c.Fresh("pokemon/garchomp.json"))

	require.NoError(t, c.Write("pokemon/garchomp.json", []byte(`{"name":"garchomp"}`), true))
	assert.True(t, c.Fresh("pokemon/garchomp.json"))
	b, err := c.Read("pokemon/garchomp.json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"garchomp\"\n}\n", string(b))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(c.Path("pokemon/garchomp.json"), old, old))
	assert.False(t, c.Fresh("pokemon/garchomp.json"))

	require.NoError(t, c.Remove("pokemon/garchomp.json"))
	require.NoError(t, c.Remove("pokemon/garchomp.json"))
	_, err = c.Read("pokemon/garchomp.json")
	assert.Error(t, err)
}
