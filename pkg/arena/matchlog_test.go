package arena_test

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"enginematch/pkg/arena"
)

type countingWriter struct {
	mu     sync.Mutex
	writes []string
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes = append(w.writes, string(p))
	return len(p), nil
}

func TestMatchReportBlock(t *testing.T) {
	m := &arena.Match{ID: "m", EngineA: arena.NewEngine("quint.exe", 1), EngineB: arena.NewEngine("quint.exe", 2), MoveTime: 100 * time.Millisecond, Games: 10}
	rep := arena.NewMatchReport(m, arena.Result{Player1Wins: 6, Player2Wins: 2, Draws: 2}, nil, time.Second, 30)

	want := strings.Join([]string{
		"Engine match: quint_1 vs quint_2:",
		"Time limit: 100ms",
		"Games played: 10",
		"Score: 6 - 2 - 2",
		"Elo difference: +147.19",
		"LOS: 92.14%",
		"Total games played: 30",
		"",
		"",
	}, "\n")
	require.Equal(t, want, rep.Block())

	rep = arena.NewMatchReport(m, arena.Result{Player1Wins: 2}, errors.New("engine quint_2 crashed"), time.Second, 2)
	require.Contains(t, rep.Block(), "Games played: 2\n")
	require.Contains(t, rep.Block(), "Aborted: engine quint_2 crashed\n")
}

func TestMatchLogWritesWholeBlocks(t *testing.T) {
	w := &countingWriter{}
	log := arena.NewMatchLog(w)
	m := &arena.Match{EngineA: arena.NewEngine("a"), EngineB: arena.NewEngine("b"), Games: 2}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, log.Write(arena.NewMatchReport(m, arena.Result{Draws: 2}, nil, 0, 2)))
		}()
	}
	wg.Wait()

	require.Len(t, w.writes, 8)
	for _, block := range w.writes {
		require.True(t, strings.HasPrefix(block, "Engine match: a vs b:\n"))
		require.True(t, strings.HasSuffix(block, "\n\n"))
	}

	require.NoError(t, arena.NewMatchLog(nil).Write(arena.NewMatchReport(m, arena.Result{}, nil, 0, 0)))
}

func TestMatchReportInterrupted(t *testing.T) {
	m := &arena.Match{EngineA: arena.NewEngine("a"), EngineB: arena.NewEngine("b"), Games: 10}

	rep := arena.NewMatchReport(m, arena.Result{Player1Wins: 3, Draws: 1}, nil, time.Second, 4)
	require.True(t, rep.Interrupted())
	require.Contains(t, rep.Block(), "Interrupted: 4 of 10 games played\n")

	rep = arena.NewMatchReport(m, arena.Result{Player1Wins: 3}, errors.New("engine b crashed"), time.Second, 3)
	require.False(t, rep.Interrupted())
	require.NotContains(t, rep.Block(), "Interrupted")

	rep = arena.NewMatchReport(m, arena.Result{Draws: 10}, nil, time.Second, 10)
	require.False(t, rep.Interrupted())
	require.NotContains(t, rep.Block(), "Interrupted")
}
