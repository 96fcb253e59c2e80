package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

type ImportOptions struct {
	// Percent marks usage columns as 0-100 values; they are stored as
	// fractions. Viability ceilings always stay on the 0-100 scale.
	Percent bool
}

// headerAliases maps export header spellings to column names.
var headerAliases = map[string]string{
	"yearmonth":  "year_month",
	"tera_types": "tera_type",
	"teratype":   "tera_type",
	"pokemon":    "name",
	"species":    "name",
}

// fractionCols are rescaled when ImportOptions.Percent is set.
var fractionCols = map[string]bool{
	"usage":                 true,
	"usage_percent":         true,
	"raw_percent":           true,
	"real_percent":          true,
	"lose_rate_against_opp": true,
	"ko_percent":            true,
	"switch_percent":        true,
	"mean":                  true,
	"std_dev":               true,
}

type csvRow struct {
	line  int
	index map[string]int
	rec   []string
	scale float64
}

func (r csvRow) str(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r csvRow) number(col string) (float64, error) {
	p, err := r.optNumber(col)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, fmt.Errorf("line %d: %s is required", r.line, col)
	}
	return *p, nil
}

func (r csvRow) optNumber(col string) (*float64, error) {
	s := r.str(col)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("line %d: %s: %w", r.line, col, err)
	}
	if fractionCols[col] {
		v *= r.scale
	}
	return &v, nil
}

func (r csvRow) count(col string) (uint64, error) {
	s := r.str(col)
	if s == "" {
		return 0, nil
	}
	// Counts are sometimes exported as floats ("1234.0").
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("line %d: %s: invalid count %q", r.line, col, s)
	}
	return uint64(f), nil
}

func (r csvRow) integer(col string) (int, error) {
	v, err := r.count(col)
	return int(v), err
}

func (r csvRow) key() (Key, error) {
	rating, err := r.count("rating")
	if err != nil {
		return Key{}, err
	}
	ym, err := model.ParseYearMonth(r.str("year_month"))
	if err != nil {
		return Key{}, fmt.Errorf("line %d: %w", r.line, err)
	}
	return Key{
		Species:      r.str("name"),
		Generation:   strings.ToLower(r.str("generation")),
		BattleFormat: strings.ToLower(r.str("battle_format")),
		Rating:       uint32(rating),
		YearMonth:    ym,
	}, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	h = strings.ReplaceAll(h, " ", "_")
	if a, ok := headerAliases[h]; ok {
		return a
	}
	return h
}

// ImportCSV reads one export file of the given dataset and upserts its rows.
func (s *DB) ImportCSV(ctx context.Context, kind Kind, r io.Reader, opts ImportOptions) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[normalizeHeader(h)] = i
	}
	for _, col := range []string{"name", "generation", "battle_format", "year_month"} {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("%s: missing column %q", kind, col)
		}
	}
	scale := 1.0
	if opts.Percent {
		scale = 0.01
	}

	rows := make([]csvRow, 0)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, csvRow{line: line, index: index, rec: rec, scale: scale})
	}

	switch kind {
	case KindUsage:
		recs := make([]UsageRecord, 0, len(rows))
		for _, row := range rows {
			rec, err := usageRecord(row)
			if err != nil {
				return 0, err
			}
			recs = append(recs, rec)
		}
		return s.PutUsage(ctx, recs)
	case KindBase:
		recs := make([]BaseRecord, 0, len(rows))
		for _, row := range rows {
			k, err := row.key()
			if err != nil {
				return 0, err
			}
			raw, err := row.count("raw_count")
			if err != nil {
				return 0, err
			}
			weight, err := row.optNumber("avg_weight")
			if err != nil {
				return 0, err
			}
			ceiling, err := row.number("viability_ceiling")
			if err != nil {
				return 0, err
			}
			recs = append(recs, BaseRecord{Key: k, RawCount: raw, AvgWeight: deref(weight), ViabilityCeiling: ceiling})
		}
		return s.PutBase(ctx, recs)
	case KindCounters:
		recs := make([]CounterRecord, 0, len(rows))
		for _, row := range rows {
			rec, err := counterRecord(row)
			if err != nil {
				return 0, err
			}
			recs = append(recs, rec)
		}
		return s.PutCounters(ctx, recs)
	case KindSpreads:
		recs := make([]SpreadRecord, 0, len(rows))
		for _, row := range rows {
			rec, err := spreadRecord(row)
			if err != nil {
				return 0, err
			}
			recs = append(recs, rec)
		}
		return s.PutSpreads(ctx, recs)
	default:
		col, ok := pairTables[kind]
		if !ok {
			return 0, fmt.Errorf("unknown dataset: %q", kind)
		}
		recs := make([]PairRecord, 0, len(rows))
		for _, row := range rows {
			k, err := row.key()
			if err != nil {
				return 0, err
			}
			u, err := row.number("usage")
			if err != nil {
				return 0, err
			}
			v := row.str(col)
			if v == "" {
				return 0, fmt.Errorf("line %d: %s is required", row.line, col)
			}
			recs = append(recs, PairRecord{Key: k, Value: v, Usage: u})
		}
		return s.PutPairs(ctx, kind, recs)
	}
}

func usageRecord(row csvRow) (UsageRecord, error) {
	k, err := row.key()
	if err != nil {
		return UsageRecord{}, err
	}
	rec := UsageRecord{Key: k}
	if rec.Rank, err = row.integer("rank"); err != nil {
		return UsageRecord{}, err
	}
	if rec.UsagePercent, err = row.number("usage_percent"); err != nil {
		return UsageRecord{}, err
	}
	if rec.RawCount, err = row.count("raw_count"); err != nil {
		return UsageRecord{}, err
	}
	if rec.RealCount, err = row.count("real_count"); err != nil {
		return UsageRecord{}, err
	}
	raw, err := row.optNumber("raw_percent")
	if err != nil {
		return UsageRecord{}, err
	}
	realPct, err := row.optNumber("real_percent")
	if err != nil {
		return UsageRecord{}, err
	}
	rec.RawPercent, rec.RealPercent = deref(raw), deref(realPct)
	return rec, nil
}

func counterRecord(row csvRow) (CounterRecord, error) {
	k, err := row.key()
	if err != nil {
		return CounterRecord{}, err
	}
	rec := CounterRecord{Key: k, Opponent: row.str("opp_pokemon")}
	if rec.Opponent == "" {
		return CounterRecord{}, fmt.Errorf("line %d: opp_pokemon is required", row.line)
	}
	if rec.LoseRate, err = row.number("lose_rate_against_opp"); err != nil {
		return CounterRecord{}, err
	}
	for col, dst := range map[string]**float64{
		"mean":           &rec.Mean,
		"std_dev":        &rec.StdDev,
		"ko_percent":     &rec.KOPercent,
		"switch_percent": &rec.SwitchPercent,
	} {
		if *dst, err = row.optNumber(col); err != nil {
			return CounterRecord{}, err
		}
	}
	return rec, nil
}

func spreadRecord(row csvRow) (SpreadRecord, error) {
	k, err := row.key()
	if err != nil {
		return SpreadRecord{}, err
	}
	rec := SpreadRecord{Key: k, Nature: row.str("nature")}
	if rec.Nature == "" {
		return SpreadRecord{}, fmt.Errorf("line %d: nature is required", row.line)
	}
	for i, col := range spreadEVCols {
		v, err := row.integer(col)
		if err != nil {
			return SpreadRecord{}, err
		}
		rec.EVs = rec.EVs.Set(model.StatKeys[i], v)
	}
	if rec.Usage, err = row.number("usage"); err != nil {
		return SpreadRecord{}, err
	}
	return rec, nil
}

// ImportDir imports every known export file found in dir. Missing files are
// skipped.
func (s *DB) ImportDir(ctx context.Context, dir string, opts ImportOptions) (map[Kind]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	counts := make(map[Kind]int)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		kind, ok := KindForFile(e.Name())
		if !ok {
			continue
		}
		n, err := s.importFile(ctx, kind, filepath.Join(dir, e.Name()), opts)
		if err != nil {
			return counts, fmt.Errorf("%s: %w", e.Name(), err)
		}
		log.Printf("imported %d rows from %s into %s", n, e.Name(), kind.table())
		counts[kind] += n
	}
	return counts, nil
}

func (s *DB) importFile(ctx context.Context, kind Kind, path string, opts ImportOptions) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return s.ImportCSV(ctx, kind, f, opts)
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
