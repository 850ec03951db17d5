// Package scores keeps a history of finished bowling games in sqlite.
package scores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

var ErrEmptyPath = errors.New("scores: empty db path")

// Result is one finished game.
type Result struct {
	ID       int64
	Player   string
	Backend  string
	Score    int
	Pins     int
	Throws   int
	Duration float64
	PlayedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens or creates the score database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("scores: %s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL,
			backend TEXT NOT NULL,
			score INTEGER NOT NULL,
			pins INTEGER NOT NULL,
			throws INTEGER NOT NULL,
			duration REAL NOT NULL,
			played_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS games_score ON games(score DESC, played_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("scores: schema: %w", err)
		}
	}
	return nil
}

// Record stores r and returns its id. A zero PlayedAt is stamped with the
// current time.
func (s *Store) Record(ctx context.Context, r Result) (int64, error) {
	if r.PlayedAt.IsZero() {
		r.PlayedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO games(player,backend,score,pins,throws,duration,played_at) VALUES(?,?,?,?,?,?,?)`,
		r.Player, r.Backend, r.Score, r.Pins, r.Throws, r.Duration, r.PlayedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("scores: record: %w", err)
	}
	return res.LastInsertId()
}

// Best returns up to n games, highest score first; ties go to the earlier
// game.
func (s *Store) Best(ctx context.Context, n int) ([]Result, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,player,backend,score,pins,throws,duration,played_at FROM games ORDER BY score DESC, played_at ASC, id ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("scores: best: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		var played int64
		if err := rows.Scan(&r.ID, &r.Player, &r.Backend, &r.Score, &r.Pins, &r.Throws, &r.Duration, &played); err != nil {
			return nil, fmt.Errorf("scores: scan: %w", err)
		}
		r.PlayedAt = time.UnixMilli(played)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count is the number of recorded games.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n); err != nil {
		return 0, fmt.Errorf("scores: count: %w", err)
	}
	return n, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
