package store

import (
	"context"
	"time"

	"enginematch/pkg/arena"
)

// DB stores the outcome of finished matches.
type DB interface {
	Close() error
	Migrate() error
	SaveMatch(ctx context.Context, runID string, r arena.MatchReport) error
	ListMatches(ctx context.Context, runID string) ([]Match, error)
}

// Match is one stored match row.
type Match struct {
	ID          string    `json:"id" db:"id"`
	RunID       string    `json:"run_id" db:"run_id"`
	EngineA     string    `json:"engine_a" db:"engine_a"`
	EngineB     string    `json:"engine_b" db:"engine_b"`
	MoveTimeMs  int64     `json:"move_time_ms" db:"move_time_ms"`
	Planned     int       `json:"planned" db:"planned"`
	Player1Wins int       `json:"player1_wins" db:"player1_wins"`
	Draws       int       `json:"draws" db:"draws"`
	Player2Wins int       `json:"player2_wins" db:"player2_wins"`
	EloDiff     float64   `json:"elo_diff" db:"elo_diff"`
	LOS         float64   `json:"los" db:"los"`
	Failure     string    `json:"failure" db:"failure"`
	Interrupted bool      `json:"interrupted" db:"interrupted"`
	ElapsedMs   int64     `json:"elapsed_ms" db:"elapsed_ms"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Result returns the stored counts.
func (m Match) Result() arena.Result {
	return arena.Result{Player1Wins: m.Player1Wins, Player2Wins: m.Player2Wins, Draws: m.Draws}
}
