package arena

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

// Match is one pairing of two engines.
type Match struct {
	ID       string
	EngineA  Engine
	EngineB  Engine
	MoveTime time.Duration
	Games    int
}

func (m *Match) String() string {
	return m.EngineA.FullName() + " vs " + m.EngineB.FullName()
}

// Task is the unit of work handed to one worker: a fixed number of games of
// one match.
type Task struct {
	Match *Match
	Index int
	Games int
	Stop  *StopFlag
}

// Spawner starts a playing program.
type Spawner interface {
	Spawn(ctx context.Context, e Engine) (MoveProvider, error)
}

// Executor plays tasks. Records and Progress are optional.
type Executor struct {
	Spawner  Spawner
	NewState func() GameState
	Logger   zerolog.Logger
	Records  chan<- GameRecord
	Progress *Progress
}

// Run plays the games of one task and returns the counts of the games that
// finished. It stops early with ErrStopped when the match's stop flag is set
// at a game boundary, and with a *ProtocolError when an engine fails, in
// which case the flag is set for all sibling tasks. Both engines are closed
// before Run returns.
func (x *Executor) Run(ctx context.Context, task Task) (result Result, err error) {
	m := task.Match
	log := x.Logger.With().Str("match", m.String()).Int("task", task.Index).Logger()
	if task.Stop.Stopped() {
		return result, ErrStopped
	}

	engines := [2]Engine{m.EngineA, m.EngineB}
	var players [2]MoveProvider
	defer func() {
		var closeErr error
		for i, p := range players {
			if p == nil {
				continue
			}
			if cerr := p.Close(); cerr != nil {
				closeErr = multierr.Append(closeErr, fmt.Errorf("close %s: %w", engines[i].FullName(), cerr))
			}
		}
		if closeErr != nil {
			log.Warn().Err(closeErr).Msg("engine teardown")
		}
	}()

	for i, e := range engines {
		p, serr := x.Spawner.Spawn(ctx, e)
		if serr != nil {
			return result, x.fail(task, log, &ProtocolError{Engine: e, Err: fmt.Errorf("spawn: %w", serr)})
		}
		players[i] = p
	}

	state := x.NewState()
	for i := 0; i < task.Games; i++ {
		start := time.Now()
		out, perr := PlayGame(ctx, state, players, engines, i%2, m.MoveTime)
		if perr != nil {
			return result, x.fail(task, log, perr)
		}
		result.Add(out.Result)
		total := x.Progress.Add(1)
		x.record(task, i, out)
		log.Debug().
			Int("game", i+1).
			Str("result", out.Result.String()).
			Str("method", out.Method).
			Int("plies", len(out.Moves)).
			Dur("took", time.Since(start)).
			Int64("played", total).
			Msg("game played")

		if task.Stop.Stopped() {
			log.Info().Int("games", result.Games()).Msg("task stopped")
			return result, ErrStopped
		}
	}
	return result, nil
}

func (x *Executor) fail(task Task, log zerolog.Logger, err error) error {
	task.Stop.Stop()
	ev := log.Error().Err(err)
	var perr *ProtocolError
	if errors.As(err, &perr) {
		ev = ev.Str("engine", perr.Engine.FullName()).Strs("moves", perr.Moves)
	}
	ev.Msg("aborting match")
	return err
}

func (x *Executor) record(task Task, game int, out GameOutcome) {
	if x.Records == nil {
		return
	}
	m := task.Match
	white, black := m.EngineA, m.EngineB
	if out.White == 1 {
		white, black = black, white
	}
	x.Records <- NewGameRecord(m.ID, task.Index, game, white.FullName(), black.FullName(), out)
}
