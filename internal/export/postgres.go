package export

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"holdemsim/record"
)

type postgresStore struct {
	db *sql.DB
}

func openPostgres(dsn string) (*postgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensurePostgresSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &postgresStore{db: db}, nil
}

func ensurePostgresSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS hands (
    hand_id       TEXT PRIMARY KEY,
    seed          BIGINT NOT NULL,
    level         INTEGER NOT NULL,
    sb            BIGINT NOT NULL,
    bb            BIGINT NOT NULL,
    button        TEXT NOT NULL,
    end_reason    TEXT NOT NULL,
    board_json    JSONB NOT NULL,
    net_json      JSONB NOT NULL,
    raw_json      JSONB NOT NULL,
    split         TEXT NOT NULL,
    played_at_ms  BIGINT NOT NULL,
    created_at_ms BIGINT NOT NULL
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

func (s *postgresStore) InsertHand(ctx context.Context, rec *record.HandRecord, split string) error {
	board, net, raw, err := encodeHand(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO hands (
    hand_id, seed, level, sb, bb, button, end_reason,
    board_json, net_json, raw_json, split, played_at_ms, created_at_ms
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (hand_id) DO NOTHING
`, rec.HandID, int64(rec.Seed), rec.Level, rec.SB, rec.BB, rec.Button, rec.EndReason,
		board, net, raw, split, rec.TS.UTC().UnixMilli(), time.Now().UTC().UnixMilli())
	if isUniqueViolation(err) {
		return nil
	}
	return err
}

func (s *postgresStore) CountBySplit(ctx context.Context) (map[string]int, error) {
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

func (s *postgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
