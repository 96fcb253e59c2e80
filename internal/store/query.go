package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

// UsageRows returns the usage rows matching sel, ordered by month and
// species. Without a rating in sel the rating buckets of each species and
// month are merged into one row: usage is averaged, counts are summed and
// Rating is left nil.
func (s *DB) UsageRows(ctx context.Context, sel Selector) ([]model.UsageRow, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	where, args := sel.where(nil)
	query := `SELECT name, generation, battle_format, rating, year_month, usage_percent, raw_count, real_count
		 FROM pokemon_usage` + where + `
		 ORDER BY year_month, name`
	if sel.Rating == nil {
		query = `SELECT name, generation, battle_format, NULL, year_month, AVG(usage_percent), SUM(raw_count), SUM(real_count)
		 FROM pokemon_usage` + where + `
		 GROUP BY name, generation, battle_format, year_month
		 ORDER BY year_month, name`
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()

	out := make([]model.UsageRow, 0)
	for rows.Next() {
		var (
			r         model.UsageRow
			rating    sql.NullInt64
			rawCount  int64
			realCount int64
		)
		if err := rows.Scan(&r.Species, &r.Generation, &r.BattleFormat, &rating, &r.YearMonth, &r.UsagePercent, &rawCount, &realCount); err != nil {
			return nil, err
		}
		if rating.Valid {
			rt := uint32(rating.Int64)
			r.Rating = &rt
		}
		r.RawCount = uint64(rawCount)
		r.RealCount = uint64(realCount)
		out = append(out, r)
	}
	return out, rows.Err()
}

// TeammateAverages returns the teammates of species with their usage
// averaged over every row matching sel. YearMonth carries the latest month
// the teammate was seen.
func (s *DB) TeammateAverages(ctx context.Context, species string, sel Selector) ([]model.TeammateRow, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	where, args := sel.where([]string{"name = ?"}, species)
	rows, err := s.db.QueryContext(ctx,
		`SELECT teammate, AVG(usage), MAX(year_month)
		 FROM pokemon_teammates`+where+`
		 GROUP BY teammate
		 ORDER BY teammate`, args...)
	if err != nil {
		return nil, fmt.Errorf("query teammates: %w", err)
	}
	defer rows.Close()

	out := make([]model.TeammateRow, 0)
	for rows.Next() {
		r := model.TeammateRow{Species: species}
		if err := rows.Scan(&r.Teammate, &r.UsagePercent, &r.YearMonth); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CounterRows returns the counter rows of species. Without a rating in sel
// each opponent has one row per month with its figures averaged across
// rating buckets.
func (s *DB) CounterRows(ctx context.Context, species string, sel Selector) ([]model.CounterRow, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	where, args := sel.where([]string{"name = ?"}, species)
	query := `SELECT opp_pokemon, lose_rate_against_opp, ko_percent, switch_percent, mean, std_dev, year_month
		 FROM pokemon_counters` + where + `
		 ORDER BY year_month, opp_pokemon`
	if sel.Rating == nil {
		query = `SELECT opp_pokemon, AVG(lose_rate_against_opp), AVG(ko_percent), AVG(switch_percent), AVG(mean), AVG(std_dev), year_month
		 FROM pokemon_counters` + where + `
		 GROUP BY opp_pokemon, year_month
		 ORDER BY year_month, opp_pokemon`
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query counters: %w", err)
	}
	defer rows.Close()

	out := make([]model.CounterRow, 0)
	for rows.Next() {
		var (
			r                    model.CounterRow
			ko, sw, mean, stdDev sql.NullFloat64
		)
		if err := rows.Scan(&r.Opponent, &r.LoseRateAgainstOpp, &ko, &sw, &mean, &stdDev, &r.YearMonth); err != nil {
			return nil, err
		}
		r.Species = species
		r.KOPercent = nullable(ko)
		r.SwitchPercent = nullable(sw)
		r.Mean = nullable(mean)
		r.StdDev = nullable(stdDev)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ViabilityRows returns one viability ceiling per format and month for
// species. The format label joins generation and battle format ("gen9ou").
// Without a rating in sel the highest ceiling across ratings is used.
func (s *DB) ViabilityRows(ctx context.Context, species string, sel Selector) ([]model.ViabilityRow, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	where, args := sel.where([]string{"name = ?"}, species)
	rows, err := s.db.QueryContext(ctx,
		`SELECT generation, battle_format, year_month, MAX(viability_ceiling)
		 FROM pokemon_base`+where+`
		 GROUP BY generation, battle_format, year_month
		 ORDER BY generation, battle_format, year_month`, args...)
	if err != nil {
		return nil, fmt.Errorf("query viability: %w", err)
	}
	defer rows.Close()

	out := make([]model.ViabilityRow, 0)
	for rows.Next() {
		var gen, format string
		var r model.ViabilityRow
		if err := rows.Scan(&gen, &format, &r.YearMonth, &r.ViabilityCeiling); err != nil {
			return nil, err
		}
		r.Format = gen + format
		out = append(out, r)
	}
	return out, rows.Err()
}

// SetupRows loads the ability, item, move, tera type and spread rows of
// species.
func (s *DB) SetupRows(ctx context.Context, species string, sel Selector) (model.SetupRows, error) {
	if err := sel.Validate(); err != nil {
		return model.SetupRows{}, err
	}
	var out model.SetupRows
	targets := []struct {
		kind Kind
		dst  *[]model.SetupRow
	}{
		{KindAbilities, &out.Abilities},
		{KindItems, &out.Items},
		{KindMoves, &out.Moves},
		{KindTeraTypes, &out.TeraTypes},
	}
	for _, t := range targets {
		rows, err := s.pairRows(ctx, t.kind, species, sel)
		if err != nil {
			return model.SetupRows{}, err
		}
		*t.dst = rows
	}
	spreads, err := s.spreadRows(ctx, species, sel)
	if err != nil {
		return model.SetupRows{}, err
	}
	out.Spreads = spreads
	return out, nil
}

func (s *DB) pairRows(ctx context.Context, kind Kind, species string, sel Selector) ([]model.SetupRow, error) {
	col := pairTables[kind]
	where, args := sel.where([]string{"name = ?"}, species)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+col+`, usage, year_month FROM `+kind.table()+where+`
		 ORDER BY year_month, `+col, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind, err)
	}
	defer rows.Close()

	out := make([]model.SetupRow, 0)
	for rows.Next() {
		var r model.SetupRow
		if err := rows.Scan(&r.Name, &r.UsagePercent, &r.YearMonth); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *DB) spreadRows(ctx context.Context, species string, sel Selector) ([]model.SpreadRow, error) {
	where, args := sel.where([]string{"name = ?"}, species)
	rows, err := s.db.QueryContext(ctx,
		`SELECT nature, `+strings.Join(spreadEVCols, ", ")+`, usage, year_month
		 FROM pokemon_spreads`+where+`
		 ORDER BY year_month, nature`, args...)
	if err != nil {
		return nil, fmt.Errorf("query spreads: %w", err)
	}
	defer rows.Close()

	out := make([]model.SpreadRow, 0)
	for rows.Next() {
		var r model.SpreadRow
		e := &r.EVs
		if err := rows.Scan(&r.Nature, &e.HP, &e.Attack, &e.Defense, &e.SpecialAttack, &e.SpecialDefense, &e.Speed, &r.UsagePercent, &r.YearMonth); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FormatInfo describes one generation and battle format present in the
// usage table.
type FormatInfo struct {
	Generation   string   `json:"generation" yaml:"generation"`
	BattleFormat string   `json:"battle_format" yaml:"battle_format"`
	Ratings      []uint32 `json:"ratings" yaml:"ratings"`
	First        string   `json:"first_month" yaml:"first_month"`
	Last         string   `json:"last_month" yaml:"last_month"`
	Months       int      `json:"months" yaml:"months"`
}

func (s *DB) Formats(ctx context.Context) ([]FormatInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT generation, battle_format, MIN(year_month), MAX(year_month), COUNT(DISTINCT year_month), GROUP_CONCAT(DISTINCT rating)
		 FROM pokemon_usage
		 GROUP BY generation, battle_format
		 ORDER BY generation, battle_format`)
	if err != nil {
		return nil, fmt.Errorf("query formats: %w", err)
	}
	defer rows.Close()

	out := make([]FormatInfo, 0)
	for rows.Next() {
		var f FormatInfo
		var ratings string
		if err := rows.Scan(&f.Generation, &f.BattleFormat, &f.First, &f.Last, &f.Months, &ratings); err != nil {
			return nil, err
		}
		f.Ratings = parseRatings(ratings)
		out = append(out, f)
	}
	return out, rows.Err()
}

// Species lists the distinct species with usage rows matching sel.
func (s *DB) Species(ctx context.Context, sel Selector) ([]string, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	where, args := sel.where(nil)
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT name FROM pokemon_usage`+where+` ORDER BY name`, args...)
	if err != nil {
		return nil, fmt.Errorf("query species: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Count returns the number of rows stored for a dataset.
func (s *DB) Count(ctx context.Context, kind Kind) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+kind.table()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return n, nil
}

func parseRatings(csv string) []uint32 {
	out := make([]uint32, 0)
	for _, p := range strings.Split(csv, ",") {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			continue
		}
		out = append(out, uint32(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
