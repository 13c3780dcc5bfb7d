package arena

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// MatchReport is the final state of one match.
type MatchReport struct {
	Match   *Match
	Result  Result
	Stats   Stats
	Failure error
	Elapsed time.Duration
	// TotalGames is the number of games finished in the whole tournament when
	// this match completed.
	TotalGames int
}

// NewMatchReport computes the statistics of a finished match.
func NewMatchReport(m *Match, r Result, failure error, elapsed time.Duration, total int) MatchReport {
	return MatchReport{
		Match:      m,
		Result:     r,
		Stats:      ComputeStats(r),
		Failure:    failure,
		Elapsed:    elapsed,
		TotalGames: total,
	}
}

// Interrupted reports whether the match was stopped before all its games
// were played without an engine failing.
func (r MatchReport) Interrupted() bool {
	return r.Failure == nil && r.Result.Games() < r.Match.Games
}

// Block renders the report as a match log block.
func (r MatchReport) Block() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Engine match: %s vs %s:\n", r.Match.EngineA.FullName(), r.Match.EngineB.FullName())
	fmt.Fprintf(&b, "Time limit: %v\n", r.Match.MoveTime)
	fmt.Fprintf(&b, "Games played: %d\n", r.Result.Games())
	fmt.Fprintf(&b, "Score: %d - %d - %d\n", r.Result.Player1Wins, r.Result.Draws, r.Result.Player2Wins)
	fmt.Fprintf(&b, "Elo difference: %s\n", r.Stats.EloString())
	fmt.Fprintf(&b, "LOS: %s\n", r.Stats.LOSString())
	fmt.Fprintf(&b, "Total games played: %d\n", r.TotalGames)
	if r.Failure != nil {
		fmt.Fprintf(&b, "Aborted: %v\n", r.Failure)
	} else if r.Interrupted() {
		fmt.Fprintf(&b, "Interrupted: %d of %d games played\n", r.Result.Games(), r.Match.Games)
	}
	b.WriteString("\n")
	return b.String()
}

// MatchLog appends report blocks to a writer. Each block is written with a
// single Write call under a lock, so blocks never interleave.
type MatchLog struct {
	mu sync.Mutex
	w  io.Writer
}

// NewMatchLog wraps w. A nil writer discards blocks.
func NewMatchLog(w io.Writer) *MatchLog {
	if w == nil {
		w = io.Discard
	}
	return &MatchLog{w: w}
}

// Write appends the block of one report.
func (l *MatchLog) Write(r MatchReport) error {
	block := []byte(r.Block())
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.w.Write(block)
	return err
}
