package arena_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"enginematch/pkg/arena"
)

func newTask(games int, stop *arena.StopFlag) arena.Task {
	m := &arena.Match{ID: "match", EngineA: engineA, EngineB: engineB, Games: games}
	return arena.Task{Match: m, Index: 0, Games: games, Stop: stop}
}

func requireAllClosed(t *testing.T, s *fakeSpawner, want int) {
	t.Helper()
	providers := s.Providers()
	require.Len(t, providers, want)
	for _, p := range providers {
		require.Equal(t, 1, p.Closed())
	}
}

func TestExecutorRunsAllGames(t *testing.T) {
	spawner := newFakeSpawner(map[string]func(int) (string, error){
		"alpha": always("mate"),
		"beta":  always("pass"),
	})
	records := make(chan arena.GameRecord, 10)
	progress := &arena.Progress{}
	x := &arena.Executor{Spawner: spawner, NewState: newFakeState, Logger: zerolog.Nop(), Records: records, Progress: progress}

	res, err := x.Run(context.Background(), newTask(4, &arena.StopFlag{}))
	require.NoError(t, err)
	require.Equal(t, arena.Result{Player1Wins: 4}, res)
	require.EqualValues(t, 4, progress.Games())
	requireAllClosed(t, spawner, 2)

	close(records)
	var got []arena.GameRecord
	for r := range records {
		got = append(got, r)
	}
	require.Len(t, got, 4)
	require.Equal(t, "alpha", got[0].White)
	require.Equal(t, "1-0", got[0].Result)
	require.Equal(t, "beta", got[1].White)
	require.Equal(t, "alpha", got[1].Black)
	require.Equal(t, "0-1", got[1].Result)
	require.Equal(t, "pass mate", got[1].Moves)
	require.EqualValues(t, 1, got[1].Game)
}

func TestExecutorProtocolFailure(t *testing.T) {
	spawner := newFakeSpawner(map[string]func(int) (string, error){
		"alpha": failOn(3, "mate"),
		"beta":  always("pass"),
	})
	stop := &arena.StopFlag{}
	x := &arena.Executor{Spawner: spawner, NewState: newFakeState, Logger: zerolog.Nop()}

	res, err := x.Run(context.Background(), newTask(5, stop))
	var perr *arena.ProtocolError
	require.ErrorAs(t, err, &perr)
	require.True(t, perr.Engine.Equal(engineA))
	require.Equal(t, arena.Result{Player1Wins: 2}, res, "games before the failure still count")
	require.True(t, stop.Stopped(), "a failure stops the sibling tasks")
	requireAllClosed(t, spawner, 2)
}

func TestExecutorStopsAtGameBoundary(t *testing.T) {
	stop := &arena.StopFlag{}
	spawner := newFakeSpawner(map[string]func(int) (string, error){
		"alpha": func(int) (string, error) {
			stop.Stop()
			return "mate", nil
		},
	})
	x := &arena.Executor{Spawner: spawner, NewState: newFakeState, Logger: zerolog.Nop()}

	res, err := x.Run(context.Background(), newTask(4, stop))
	require.ErrorIs(t, err, arena.ErrStopped)
	require.Equal(t, arena.Result{Player1Wins: 1}, res, "the game in progress is played out")
	requireAllClosed(t, spawner, 2)
}

func TestExecutorStoppedBeforeStart(t *testing.T) {
	stop := &arena.StopFlag{}
	stop.Stop()
	spawner := newFakeSpawner(nil)
	x := &arena.Executor{Spawner: spawner, NewState: newFakeState, Logger: zerolog.Nop()}

	res, err := x.Run(context.Background(), newTask(4, stop))
	require.ErrorIs(t, err, arena.ErrStopped)
	require.Equal(t, arena.Result{}, res)
	require.Zero(t, spawner.Attempts())
}

func TestExecutorSpawnFailure(t *testing.T) {
	spawner := newFakeSpawner(nil)
	spawner.failing["beta"] = true
	stop := &arena.StopFlag{}
	x := &arena.Executor{Spawner: spawner, NewState: newFakeState, Logger: zerolog.Nop()}

	res, err := x.Run(context.Background(), newTask(2, stop))
	var perr *arena.ProtocolError
	require.ErrorAs(t, err, &perr)
	require.True(t, perr.Engine.Equal(engineB))
	require.ErrorContains(t, err, "spawn")
	require.Equal(t, arena.Result{}, res)
	require.True(t, stop.Stopped())
	requireAllClosed(t, spawner, 1)
}
