package arena_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"enginematch/pkg/arena"
)

func TestTaskSize(t *testing.T) {
	tests := []struct {
		games, processes, want int
	}{
		{20, 4, 4},
		{100, 4, 20},
		{10, 1, 10},
		{8, 2, 4},
		{12, 3, 4},
		{2, 1, 2},
	}
	for _, tt := range tests {
		got, err := arena.TaskSize(tt.games, tt.processes)
		require.NoError(t, err, "%d games on %d processes", tt.games, tt.processes)
		require.Equal(t, tt.want, got, "%d games on %d processes", tt.games, tt.processes)
	}
}

func TestTaskSizeErrors(t *testing.T) {
	for _, tt := range []struct{ games, processes int }{
		{0, 4}, {10, 0}, {-2, 1}, {3, 1}, {2, 2}, {6, 4},
	} {
		_, err := arena.TaskSize(tt.games, tt.processes)
		var cerr *arena.ConfigurationError
		require.ErrorAs(t, err, &cerr, "%d games on %d processes", tt.games, tt.processes)
		require.Equal(t, tt.games, cerr.Games)
		require.Equal(t, tt.processes, cerr.Processes)
	}
}

func TestTaskSizeProperties(t *testing.T) {
	fits := func(games, processes, size int) bool {
		return size > 0 && games%size == 0 && size%2 == 0 && size*processes <= games
	}
	for games := 1; games <= 64; games++ {
		for processes := 1; processes <= 8; processes++ {
			size, err := arena.TaskSize(games, processes)
			if err != nil {
				for n := 1; n <= games; n++ {
					if games%n == 0 {
						require.False(t, fits(games, processes, games/n), "%d/%d has a fitting size", games, processes)
					}
				}
				continue
			}
			require.True(t, fits(games, processes, size), "%d/%d -> %d", games, processes, size)
			// no fewer tasks would have fitted
			for n := 1; n < games/size; n++ {
				if games%n == 0 {
					require.False(t, fits(games, processes, games/n), "%d/%d: %d tasks also fit", games, processes, n)
				}
			}
		}
	}
}

func TestPartition(t *testing.T) {
	m := &arena.Match{ID: "m", EngineA: arena.NewEngine("a"), EngineB: arena.NewEngine("b"), Games: 20}
	stop := &arena.StopFlag{}
	tasks, err := arena.Partition(m, 4, stop)
	require.NoError(t, err)
	require.Len(t, tasks, 5)
	total := 0
	for i, task := range tasks {
		require.Equal(t, i, task.Index)
		require.Equal(t, 4, task.Games)
		require.Same(t, m, task.Match)
		require.Same(t, stop, task.Stop)
		total += task.Games
	}
	require.Equal(t, m.Games, total)

	m.Games = 7
	_, err = arena.Partition(m, 4, stop)
	require.Error(t, err)
}
