// Package persistence provides the SQLite observability journal: an
// append-only record of simulation events and stats snapshots, queried by
// the HTTP API. It is not a save/load path; the simulation always starts
// fresh from its seed.
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/homestead/internal/engine"
	"github.com/talgya/homestead/internal/ledger"
)

// DB wraps a SQLite connection for the journal.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path, creating the
// parent directory if needed.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stats_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		buildings INTEGER NOT NULL,
		constructions INTEGER NOT NULL,
		settlers INTEGER NOT NULL,
		idle_settlers INTEGER NOT NULL,
		producing INTEGER NOT NULL,
		total_stock INTEGER NOT NULL,
		resources_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_stats_tick ON stats_history(tick);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// AppendEvents writes a batch of events to the journal.
func (db *DB) AppendEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, e := range events {
		if _, err := tx.Exec(
			`INSERT INTO events (tick, category, description) VALUES (?, ?, ?)`,
			e.Tick, e.Category, e.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert event: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit events: %w", err)
	}
	return nil
}

// RecordStats appends one stats snapshot with the full resource breakdown.
func (db *DB) RecordStats(tick uint64, stats engine.SimStats, resources map[ledger.Resource]int) error {
	blob, err := json.Marshal(resources)
	if err != nil {
		return fmt.Errorf("marshal resources: %w", err)
	}
	_, err = db.conn.Exec(
		`INSERT INTO stats_history
		 (tick, buildings, constructions, settlers, idle_settlers, producing, total_stock, resources_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tick, stats.Buildings, stats.Constructions, stats.Settlers,
		stats.IdleSettlers, stats.Producing, stats.TotalStock, string(blob),
	)
	if err != nil {
		return fmt.Errorf("insert stats: %w", err)
	}
	return nil
}

// RecentEvents returns the latest events, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	rows, err := db.conn.Queryx(
		`SELECT tick, category, description FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []engine.Event
	for rows.Next() {
		var e engine.Event
		if err := rows.Scan(&e.Tick, &e.Category, &e.Description); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// StatsRow is one historical stats snapshot.
type StatsRow struct {
	Tick          uint64 `db:"tick" json:"tick"`
	Buildings     int    `db:"buildings" json:"buildings"`
	Constructions int    `db:"constructions" json:"constructions"`
	Settlers      int    `db:"settlers" json:"settlers"`
	IdleSettlers  int    `db:"idle_settlers" json:"idle_settlers"`
	Producing     int    `db:"producing" json:"producing"`
	TotalStock    int    `db:"total_stock" json:"total_stock"`
	ResourcesJSON string `db:"resources_json" json:"resources_json"`
}

// StatsHistory returns the latest stats snapshots, newest first.
func (db *DB) StatsHistory(limit int) ([]StatsRow, error) {
	var out []StatsRow
	err := db.conn.Select(&out,
		`SELECT tick, buildings, constructions, settlers, idle_settlers, producing, total_stock, resources_json
		 FROM stats_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query stats history: %w", err)
	}
	return out, nil
}
