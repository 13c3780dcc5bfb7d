package arena

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultProcesses is the process budget used when none is configured: half
// the CPUs, at least one. Every running task drives two engines.
func DefaultProcesses() int {
	if n := runtime.NumCPU() / 2; n > 0 {
		return n
	}
	return 1
}

// Sweep builds one engine per combination of parameter values, taking one
// value from each set. The first set varies slowest.
func Sweep(name string, sets [][]any) []Engine {
	combos := [][]any{{}}
	for _, set := range sets {
		next := make([][]any, 0, len(combos)*len(set))
		for _, combo := range combos {
			for _, v := range set {
				c := make([]any, len(combo), len(combo)+1)
				copy(c, combo)
				next = append(next, append(c, v))
			}
		}
		combos = next
	}
	engines := make([]Engine, 0, len(combos))
	for _, c := range combos {
		engines = append(engines, NewEngine(name, c...))
	}
	return engines
}

// Pairings creates one match of the baseline against every roster entry.
func Pairings(baseline Engine, roster []Engine, moveTime time.Duration, games int) []*Match {
	matches := make([]*Match, 0, len(roster))
	for _, e := range roster {
		matches = append(matches, &Match{
			ID:       uuid.NewString(),
			EngineA:  baseline,
			EngineB:  e,
			MoveTime: moveTime,
			Games:    games,
		})
	}
	return matches
}

// Recorder persists finished matches.
type Recorder interface {
	SaveMatch(ctx context.Context, runID string, r MatchReport) error
}

// Runner plays a set of matches on a shared pool of Processes workers. Log,
// Records and Recorder are optional sinks.
type Runner struct {
	Processes int
	Spawner   Spawner
	NewState  func() GameState
	Logger    zerolog.Logger
	Log       *MatchLog
	Records   chan<- GameRecord
	Recorder  Recorder
	RunID     string
}

type taskDone struct {
	match  int
	result Result
	err    error
}

// Run plays every match and returns their reports in match order. Every match
// is partitioned before the first engine starts, so a *ConfigurationError
// means nothing ran. Cancelling ctx stops all matches at their next game
// boundary; games in progress are played out.
func (r *Runner) Run(ctx context.Context, matches []*Match) ([]MatchReport, error) {
	processes := r.Processes
	if processes <= 0 {
		processes = DefaultProcesses()
	}

	agg := NewAggregator()
	flags := make([]*StopFlag, len(matches))
	type queued struct {
		match int
		task  Task
	}
	var tasks []queued
	for i, m := range matches {
		flags[i] = &StopFlag{}
		ts, err := Partition(m, processes, flags[i])
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", m, err)
		}
		agg.Expect(i, len(ts))
		for _, t := range ts {
			tasks = append(tasks, queued{match: i, task: t})
		}
	}

	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-ctx.Done():
			r.Logger.Warn().Msg("interrupted, stopping matches after their current games")
			for _, f := range flags {
				f.Stop()
			}
		case <-finished:
		}
	}()

	progress := &Progress{}
	x := &Executor{
		Spawner:  r.Spawner,
		NewState: r.NewState,
		Logger:   r.Logger,
		Records:  r.Records,
		Progress: progress,
	}

	starts := make([]time.Time, len(matches))
	startOnce := make([]sync.Once, len(matches))
	done := make(chan taskDone)
	reports := make(chan MatchReport)
	out := make([]MatchReport, len(matches))

	var sinks errgroup.Group
	sinks.Go(func() error {
		defer close(reports)
		for d := range done {
			m := matches[d.match]
			total, complete := agg.Add(d.match, d.result, d.err)
			if !complete {
				continue
			}
			rep := NewMatchReport(m, total, agg.Err(d.match), time.Since(starts[d.match]), agg.Games())
			out[d.match] = rep
			reports <- rep
		}
		return nil
	})
	sinks.Go(func() error {
		var first error
		for rep := range reports {
			r.Logger.Info().
				Str("match", rep.Match.String()).
				Int("games", rep.Result.Games()).
				Str("elo", rep.Stats.EloString()).
				Str("los", rep.Stats.LOSString()).
				Dur("took", rep.Elapsed).
				Int("total", rep.TotalGames).
				Msg("match finished")
			if r.Log != nil {
				if err := r.Log.Write(rep); err != nil && first == nil {
					first = fmt.Errorf("write match log: %w", err)
				}
			}
			if r.Recorder != nil {
				if err := r.Recorder.SaveMatch(context.WithoutCancel(ctx), r.RunID, rep); err != nil && first == nil {
					first = fmt.Errorf("save match: %w", err)
				}
			}
		}
		return first
	})

	engineCtx := context.WithoutCancel(ctx)
	var pool errgroup.Group
	pool.SetLimit(processes)
	for _, q := range tasks {
		i := q.match
		pool.Go(func() error {
			startOnce[i].Do(func() { starts[i] = time.Now() })
			res, err := x.Run(engineCtx, q.task)
			done <- taskDone{match: i, result: res, err: err}
			return nil
		})
	}
	_ = pool.Wait()
	close(done)

	if err := sinks.Wait(); err != nil {
		return out, err
	}
	return out, nil
}
