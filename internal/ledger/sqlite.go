package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultLedgerDBName = "pokerroom_ledger.db"

type SQLiteService struct {
	db *sql.DB
}

func NewSQLiteServiceFromEnv() (*SQLiteService, error) {
	dbPath := strings.TrimSpace(os.Getenv("LEDGER_SQLITE_PATH"))
	if dbPath == "" {
		dbPath = defaultLedgerDBName
	}
	return NewSQLiteService(dbPath)
}

func NewSQLiteService(dbPath string) (*SQLiteService, error) {
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
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS hand_history (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    room       TEXT NOT NULL,
    hand_num   INTEGER NOT NULL,
    winner_id  TEXT NOT NULL,
    winner     TEXT NOT NULL,
    amount     INTEGER NOT NULL,
    hand_name  TEXT NOT NULL DEFAULT '',
    played_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_hand_history_room ON hand_history (room, played_at DESC);
`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteService{db: db}, nil
}

func (s *SQLiteService) RecordHand(rec HandRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO hand_history (room, hand_num, winner_id, winner, amount, hand_name, played_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, rec.Room, rec.HandNum, rec.WinnerID, rec.Winner, rec.Amount, rec.HandName, rec.PlayedAt)
	return err
}

func (s *SQLiteService) ListRecent(ctx context.Context, room string, limit int) ([]HandRecord, error) {
	if limit <= 0 || limit > defaultRecentLimit {
		limit = defaultRecentLimit
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT room, hand_num, winner_id, winner, amount, hand_name, played_at
FROM hand_history
WHERE room = ?
ORDER BY played_at DESC, id DESC
LIMIT ?
`, room, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHandRecords(rows)
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func scanHandRecords(rows *sql.Rows) ([]HandRecord, error) {
	out := []HandRecord{}
	for rows.Next() {
		var rec HandRecord
		if err := rows.Scan(&rec.Room, &rec.HandNum, &rec.WinnerID, &rec.Winner, &rec.Amount, &rec.HandName, &rec.PlayedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
