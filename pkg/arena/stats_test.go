package arena_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"enginematch/pkg/arena"
)

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name   string
		result arena.Result
		elo    string
		los    string
	}{
		{"empty", arena.Result{}, "0.00", "50.00%"},
		{"draws only", arena.Result{Draws: 10}, "0.00", "50.00%"},
		{"balanced", arena.Result{Player1Wins: 4, Player2Wins: 4, Draws: 2}, "0.00", "50.00%"},
		{"clean sweep", arena.Result{Player1Wins: 10}, "+600.00", "99.92%"},
		{"swept", arena.Result{Player2Wins: 10}, "-600.00", "0.08%"},
		{"player 1 ahead", arena.Result{Player1Wins: 6, Player2Wins: 2, Draws: 2}, "+147.19", "92.14%"},
		{"player 2 ahead", arena.Result{Player1Wins: 1, Player2Wins: 3}, "-190.85", "15.87%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := arena.ComputeStats(tt.result)
			require.Equal(t, tt.result.Games(), s.Games)
			require.Equal(t, tt.elo, s.EloString())
			require.Equal(t, tt.los, s.LOSString())
		})
	}
}

func TestComputeStatsValues(t *testing.T) {
	s := arena.ComputeStats(arena.Result{Player1Wins: 10})
	require.Equal(t, arena.EloCap, s.EloDiff)
	require.InDelta(t, 1.0, s.LOS, 1e-3)
	require.Equal(t, 10.0, s.Score1)
	require.Equal(t, 0.0, s.Score2)
	require.Equal(t, 1.0, s.Expected)

	s = arena.ComputeStats(arena.Result{Player1Wins: 3, Player2Wins: 1})
	require.InDelta(t, 190.85, s.EloDiff, 0.01)
	require.InDelta(t, 0.8413, s.LOS, 1e-4)
	require.Equal(t, 0.75, s.Expected)

	s = arena.ComputeStats(arena.Result{Draws: 3})
	require.Equal(t, 0.0, s.EloDiff)
	require.Equal(t, 0.5, s.LOS)
	require.Equal(t, 1.5, s.Score1)
	require.Equal(t, 1.5, s.Score2)
}

func TestComputeStatsSymmetry(t *testing.T) {
	for _, r := range []arena.Result{
		{Player1Wins: 5, Player2Wins: 2, Draws: 3},
		{Player1Wins: 1, Player2Wins: 9},
		{Player1Wins: 7},
	} {
		s := arena.ComputeStats(r)
		mirror := arena.ComputeStats(arena.Result{Player1Wins: r.Player2Wins, Player2Wins: r.Player1Wins, Draws: r.Draws})
		require.InDelta(t, -s.EloDiff, mirror.EloDiff, 1e-9)
		require.InDelta(t, 1-s.LOS, mirror.LOS, 1e-9)
	}
}
