// Package store persists monthly usage exports in SQLite and caches raw
// species API responses on disk.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver.
)

// DB wraps the SQLite database holding the usage exports.
type DB struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies migrations.
func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps :memory: databases shared across queries.
	db.SetMaxOpenConns(1)
	s := &DB{db: db}
	if err := s.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			_ = cerr
		}
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return s, nil
}

func (s *DB) Close() error {
	return s.db.Close()
}

// keyColumns are shared by every table and, together with the table's own
// discriminating columns, form its unique key.
const keyColumns = `
	name TEXT NOT NULL,
	generation TEXT NOT NULL,
	battle_format TEXT NOT NULL,
	rating INTEGER NOT NULL,
	year_month TEXT NOT NULL`

// pairTables holds the tables with one (name, usage) pair per row.
var pairTables = map[Kind]string{
	KindTeammates: "teammate",
	KindAbilities: "ability",
	KindItems:     "item",
	KindMoves:     "move",
	KindTeraTypes: "tera_type",
}

func (s *DB) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS pokemon_usage (
			id TEXT PRIMARY KEY,` + keyColumns + `,
			rank INTEGER NOT NULL DEFAULT 0,
			usage_percent REAL NOT NULL,
			raw_count INTEGER NOT NULL DEFAULT 0,
			raw_percent REAL NOT NULL DEFAULT 0,
			real_count INTEGER NOT NULL DEFAULT 0,
			real_percent REAL NOT NULL DEFAULT 0,
			UNIQUE (name, generation, battle_format, rating, year_month)
		);`,
		`CREATE TABLE IF NOT EXISTS pokemon_base (
			id TEXT PRIMARY KEY,` + keyColumns + `,
			raw_count INTEGER NOT NULL DEFAULT 0,
			avg_weight REAL NOT NULL DEFAULT 0,
			viability_ceiling REAL NOT NULL DEFAULT 0,
			UNIQUE (name, generation, battle_format, rating, year_month)
		);`,
		`CREATE TABLE IF NOT EXISTS pokemon_counters (
			id TEXT PRIMARY KEY,` + keyColumns + `,
			opp_pokemon TEXT NOT NULL,
			lose_rate_against_opp REAL NOT NULL,
			mean REAL,
			std_dev REAL,
			ko_percent REAL,
			switch_percent REAL,
			UNIQUE (name, generation, battle_format, rating, year_month, opp_pokemon)
		);`,
		`CREATE TABLE IF NOT EXISTS pokemon_spreads (
			id TEXT PRIMARY KEY,` + keyColumns + `,
			nature TEXT NOT NULL,
			hp_ev INTEGER NOT NULL,
			atk_ev INTEGER NOT NULL,
			def_ev INTEGER NOT NULL,
			spatk_ev INTEGER NOT NULL,
			spdef_ev INTEGER NOT NULL,
			spd_ev INTEGER NOT NULL,
			usage REAL NOT NULL,
			UNIQUE (name, generation, battle_format, rating, year_month, nature, hp_ev, atk_ev, def_ev, spatk_ev, spdef_ev, spd_ev)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_usage_selector ON pokemon_usage(generation, battle_format, year_month);`,
		`CREATE INDEX IF NOT EXISTS idx_base_name ON pokemon_base(name);`,
		`CREATE INDEX IF NOT EXISTS idx_counters_name ON pokemon_counters(name, year_month);`,
		`CREATE INDEX IF NOT EXISTS idx_spreads_name ON pokemon_spreads(name);`,
	}
	for _, kind := range pairKinds {
		col := pairTables[kind]
		table := kind.table()
		stmts = append(stmts,
			`CREATE TABLE IF NOT EXISTS `+table+` (
				id TEXT PRIMARY KEY,`+keyColumns+`,
				`+col+` TEXT NOT NULL,
				usage REAL NOT NULL,
				UNIQUE (name, generation, battle_format, rating, year_month, `+col+`)
			);`,
			`CREATE INDEX IF NOT EXISTS idx_`+table+`_name ON `+table+`(name, year_month);`,
		)
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
