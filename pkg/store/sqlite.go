package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"enginematch/pkg/arena"
)

// SQLiteDB implements DB on a SQLite file.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) the database at path.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate creates the schema.
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			engine_a TEXT NOT NULL,
			engine_b TEXT NOT NULL,
			move_time_ms INTEGER NOT NULL,
			planned INTEGER NOT NULL,
			player1_wins INTEGER NOT NULL DEFAULT 0,
			draws INTEGER NOT NULL DEFAULT 0,
			player2_wins INTEGER NOT NULL DEFAULT 0,
			elo_diff REAL NOT NULL DEFAULT 0,
			los REAL NOT NULL DEFAULT 0.5,
			failure TEXT NOT NULL DEFAULT '',
			interrupted INTEGER NOT NULL DEFAULT 0,
			elapsed_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_run_id ON matches(run_id)`,
	}
	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveMatch stores a finished match. Matches without an id get a new one.
func (s *SQLiteDB) SaveMatch(ctx context.Context, runID string, r arena.MatchReport) error {
	id := r.Match.ID
	if id == "" {
		id = uuid.NewString()
	}
	failure := ""
	if r.Failure != nil {
		failure = r.Failure.Error()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO matches (
			id, run_id, engine_a, engine_b, move_time_ms, planned,
			player1_wins, draws, player2_wins, elo_diff, los, failure, interrupted, elapsed_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, runID, r.Match.EngineA.FullName(), r.Match.EngineB.FullName(),
		r.Match.MoveTime.Milliseconds(), r.Match.Games,
		r.Result.Player1Wins, r.Result.Draws, r.Result.Player2Wins,
		r.Stats.EloDiff, r.Stats.LOS, failure, r.Interrupted(), r.Elapsed.Milliseconds(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

// ListMatches returns the matches of one run, or of every run when runID is
// empty, oldest first.
func (s *SQLiteDB) ListMatches(ctx context.Context, runID string) ([]Match, error) {
	query := `SELECT id, run_id, engine_a, engine_b, move_time_ms, planned,
			player1_wins, draws, player2_wins, elo_diff, los, failure, interrupted, elapsed_ms, created_at
		FROM matches`
	var args []any
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.RunID, &m.EngineA, &m.EngineB, &m.MoveTimeMs, &m.Planned,
			&m.Player1Wins, &m.Draws, &m.Player2Wins, &m.EloDiff, &m.LOS, &m.Failure, &m.Interrupted, &m.ElapsedMs, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
