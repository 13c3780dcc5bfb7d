package arena

import (
	"fmt"
	"math"
)

// EloCap is the Elo difference reported when one side scored every point.
// The logistic formula diverges there.
const EloCap = 600.0

// Stats is the strength comparison derived from a match result, from
// player 1's point of view.
type Stats struct {
	Games  int
	Score1 float64
	Score2 float64
	// Expected is player 1's share of the points.
	Expected float64
	EloDiff  float64
	// LOS is the likelihood that player 1 is stronger than player 2.
	LOS float64
}

// ComputeStats derives score, Elo difference and likelihood of superiority.
// An empty or perfectly balanced result yields an Elo difference of 0 and a
// LOS of 0.5.
func ComputeStats(r Result) Stats {
	s := Stats{
		Games:    r.Games(),
		Score1:   float64(r.Player1Wins) + float64(r.Draws)/2,
		Score2:   float64(r.Player2Wins) + float64(r.Draws)/2,
		Expected: 0.5,
		LOS:      0.5,
	}
	if s.Games > 0 {
		s.Expected = s.Score1 / float64(s.Games)
	}
	if r.Player1Wins == r.Player2Wins {
		return s
	}

	switch s.Expected {
	case 1:
		s.EloDiff = EloCap
	case 0:
		s.EloDiff = -EloCap
	default:
		s.EloDiff = -400 * math.Log10(1/s.Expected-1)
	}

	w1, w2 := float64(r.Player1Wins), float64(r.Player2Wins)
	s.LOS = 0.5 * (1 + math.Erf((w1-w2)/math.Sqrt(2*(w1+w2))))
	return s
}

// EloString formats the Elo difference with two decimals and a "+" sign for
// positive values.
func (s Stats) EloString() string {
	if s.EloDiff > 0 {
		return fmt.Sprintf("+%.2f", s.EloDiff)
	}
	if s.EloDiff == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", s.EloDiff)
}

// LOSString formats the likelihood of superiority as a percentage.
func (s Stats) LOSString() string {
	return fmt.Sprintf("%.2f%%", s.LOS*100)
}
