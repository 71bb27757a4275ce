package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"holdemsim/record"
)

type sqliteStore struct {
	db *sql.DB
}

func openSQLite(dbPath string) (*sqliteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS hands (
    hand_id       TEXT PRIMARY KEY,
    seed          INTEGER NOT NULL,
    level         INTEGER NOT NULL,
    sb            INTEGER NOT NULL,
    bb            INTEGER NOT NULL,
    button        TEXT NOT NULL,
    end_reason    TEXT NOT NULL,
    board_json    TEXT NOT NULL,
    net_json      TEXT NOT NULL,
    raw_json      TEXT NOT NULL,
    split         TEXT NOT NULL,
    played_at_ms  INTEGER NOT NULL,
    created_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_hands_split ON hands(split)`,
		`CREATE INDEX IF NOT EXISTS idx_hands_seed ON hands(seed)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqliteStore) InsertHand(ctx context.Context, rec *record.HandRecord, split string) error {
	board, net, raw, err := encodeHand(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO hands (
    hand_id, seed, level, sb, bb, button, end_reason,
    board_json, net_json, raw_json, split, played_at_ms, created_at_ms
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (hand_id) DO NOTHING
`, rec.HandID, int64(rec.Seed), rec.Level, rec.SB, rec.BB, rec.Button, rec.EndReason,
		board, net, raw, split, rec.TS.UTC().UnixMilli(), time.Now().UTC().UnixMilli())
	return err
}

func (s *sqliteStore) CountBySplit(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT split, COUNT(*) FROM hands GROUP BY split`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var split string
		var n int
		if err := rows.Scan(&split, &n); err != nil {
			return nil, err
		}
		out[split] = n
	}
	return out, rows.Err()
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func encodeHand(rec *record.HandRecord) (board, net, raw string, err error) {
	boardRaw, err := json.Marshal(rec.Board)
	if err != nil {
		return "", "", "", err
	}
	netRaw, err := json.Marshal(rec.NetResult)
	if err != nil {
		return "", "", "", err
	}
	line, err := rec.Encode()
	if err != nil {
		return "", "", "", err
	}
	return string(boardRaw), string(netRaw), strings.TrimRight(string(line), "\n"), nil
}
