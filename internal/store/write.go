package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

// Key identifies one species in one month of one format and rating bucket.
type Key struct {
	Species      string
	Generation   string
	BattleFormat string
	Rating       uint32
	YearMonth    string
}

func (k Key) validate() error {
	if strings.TrimSpace(k.Species) == "" {
		return fmt.Errorf("species is required")
	}
	if k.Generation == "" || k.BattleFormat == "" {
		return fmt.Errorf("%s: generation and battle_format are required", k.Species)
	}
	if _, err := model.ParseYearMonth(k.YearMonth); err != nil {
		return fmt.Errorf("%s: %w", k.Species, err)
	}
	return nil
}

func (k Key) args() []any {
	return []any{k.Species, k.Generation, k.BattleFormat, int64(k.Rating), k.YearMonth}
}

type UsageRecord struct {
	Key
	Rank         int
	UsagePercent float64
	RawCount     uint64
	RawPercent   float64
	RealCount    uint64
	RealPercent  float64
}

type BaseRecord struct {
	Key
	RawCount         uint64
	AvgWeight        float64
	ViabilityCeiling float64
}

// PairRecord is one row of a (value, usage) table such as moves or teammates.
type PairRecord struct {
	Key
	Value string
	Usage float64
}

type CounterRecord struct {
	Key
	Opponent      string
	LoseRate      float64
	Mean          *float64
	StdDev        *float64
	KOPercent     *float64
	SwitchPercent *float64
}

type SpreadRecord struct {
	Key
	Nature string
	EVs    model.EVSpread
	Usage  float64
}

const keyInsertCols = "id, name, generation, battle_format, rating, year_month"
const keyConflictCols = "name, generation, battle_format, rating, year_month"

func upsertSQL(table string, cols []string, conflict []string) string {
	ph := strings.Repeat(", ?", 6+len(cols)-1)
	sets := make([]string, 0, len(cols))
	inConflict := make(map[string]bool, len(conflict))
	for _, c := range conflict {
		inConflict[c] = true
	}
	for _, c := range cols {
		if !inConflict[c] {
			sets = append(sets, c+" = excluded."+c)
		}
	}
	action := "DO NOTHING"
	if len(sets) > 0 {
		action = "DO UPDATE SET " + strings.Join(sets, ", ")
	}
	conflictCols := keyConflictCols
	if len(conflict) > 0 {
		conflictCols += ", " + strings.Join(conflict, ", ")
	}
	return fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?%s) ON CONFLICT (%s) %s",
		table, keyInsertCols, strings.Join(cols, ", "), ph, conflictCols, action)
}

// putBatch runs one upsert per row inside a single transaction. Rows that
// share a unique key overwrite each other, so the last one wins.
func (s *DB) putBatch(ctx context.Context, query string, n int, row func(i int) (Key, []any)) (count int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			_ = cerr
		}
	}()

	for i := 0; i < n; i++ {
		k, vals := row(i)
		if err = k.validate(); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		args := append([]any{uuid.NewString()}, k.args()...)
		args = append(args, vals...)
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		count++
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *DB) PutUsage(ctx context.Context, recs []UsageRecord) (int, error) {
	q := upsertSQL(KindUsage.table(), []string{"rank", "usage_percent", "raw_count", "raw_percent", "real_count", "real_percent"}, nil)
	return s.putBatch(ctx, q, len(recs), func(i int) (Key, []any) {
		r := recs[i]
		return r.Key, []any{r.Rank, r.UsagePercent, int64(r.RawCount), r.RawPercent, int64(r.RealCount), r.RealPercent}
	})
}

func (s *DB) PutBase(ctx context.Context, recs []BaseRecord) (int, error) {
	q := upsertSQL(KindBase.table(), []string{"raw_count", "avg_weight", "viability_ceiling"}, nil)
	return s.putBatch(ctx, q, len(recs), func(i int) (Key, []any) {
		r := recs[i]
		return r.Key, []any{int64(r.RawCount), r.AvgWeight, r.ViabilityCeiling}
	})
}

// PutPairs writes rows of one of the (value, usage) datasets.
func (s *DB) PutPairs(ctx context.Context, kind Kind, recs []PairRecord) (int, error) {
	col, ok := pairTables[kind]
	if !ok {
		return 0, fmt.Errorf("%s is not a pair dataset", kind)
	}
	q := upsertSQL(kind.table(), []string{col, "usage"}, []string{col})
	return s.putBatch(ctx, q, len(recs), func(i int) (Key, []any) {
		r := recs[i]
		return r.Key, []any{r.Value, r.Usage}
	})
}

func (s *DB) PutCounters(ctx context.Context, recs []CounterRecord) (int, error) {
	q := upsertSQL(KindCounters.table(),
		[]string{"opp_pokemon", "lose_rate_against_opp", "mean", "std_dev", "ko_percent", "switch_percent"},
		[]string{"opp_pokemon"})
	return s.putBatch(ctx, q, len(recs), func(i int) (Key, []any) {
		r := recs[i]
		return r.Key, []any{r.Opponent, r.LoseRate, r.Mean, r.StdDev, r.KOPercent, r.SwitchPercent}
	})
}

var spreadEVCols = []string{"hp_ev", "atk_ev", "def_ev", "spatk_ev", "spdef_ev", "spd_ev"}

func (s *DB) PutSpreads(ctx context.Context, recs []SpreadRecord) (int, error) {
	cols := append([]string{"nature"}, spreadEVCols...)
	q := upsertSQL(KindSpreads.table(), append(cols, "usage"), cols)
	return s.putBatch(ctx, q, len(recs), func(i int) (Key, []any) {
		r := recs[i]
		e := r.EVs
		return r.Key, []any{r.Nature, e.HP, e.Attack, e.Defense, e.SpecialAttack, e.SpecialDefense, e.Speed, r.Usage}
	})
}
