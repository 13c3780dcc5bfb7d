package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"enginematch/pkg/arena"
	"enginematch/pkg/store"
)

// runOptions are the settings shared by the match and tournament commands.
type runOptions struct {
	EnginesDir string
	Options    map[string]string
	Grace      time.Duration
	Processes  int
	StartFEN   string
	Log        string
	Records    string
	DB         string
}

// runMatches wires the sinks selected in opts around an arena.Runner and
// plays the matches.
func runMatches(ctx context.Context, logger zerolog.Logger, opts runOptions, matches []*arena.Match) (reports []arena.MatchReport, err error) {
	if _, err := arena.NewChessState(opts.StartFEN); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	r := &arena.Runner{
		Processes: opts.Processes,
		Spawner:   &arena.UCISpawner{Dir: opts.EnginesDir, Options: opts.Options, Grace: opts.Grace},
		NewState: func() arena.GameState {
			s, _ := arena.NewChessState(opts.StartFEN)
			return s
		},
		Logger: logger.With().Str("run", runID).Logger(),
		RunID:  runID,
	}

	if opts.Log != "" {
		f, ferr := os.OpenFile(opts.Log, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if ferr != nil {
			return nil, fmt.Errorf("open match log: %w", ferr)
		}
		defer func() { err = multierr.Append(err, f.Close()) }()
		r.Log = arena.NewMatchLog(f)
	}

	if opts.DB != "" {
		db, derr := store.NewSQLiteDB(opts.DB)
		if derr != nil {
			return nil, derr
		}
		defer func() { err = multierr.Append(err, db.Close()) }()
		if derr := db.Migrate(); derr != nil {
			return nil, derr
		}
		r.Recorder = db
	}

	var writers errgroup.Group
	if opts.Records != "" {
		records := make(chan arena.GameRecord, 256)
		r.Records = records
		writers.Go(func() error {
			werr := arena.WriteParquet(opts.Records, records, 4)
			// keep the executors unblocked if the file failed
			for range records {
			}
			return werr
		})
		defer func() {
			close(records)
			if werr := writers.Wait(); werr != nil {
				err = multierr.Append(err, fmt.Errorf("write game records: %w", werr))
			}
		}()
	}

	start := time.Now()
	reports, err = r.Run(ctx, matches)
	if err != nil {
		return reports, err
	}
	printSummary(reports, time.Since(start))
	return reports, nil
}

func printSummary(reports []arena.MatchReport, elapsed time.Duration) {
	p := message.NewPrinter(language.English)
	games, failed := 0, 0
	for _, rep := range reports {
		games += rep.Result.Games()
		if rep.Failure != nil {
			failed++
		}
	}
	p.Printf("%d matches, %d games played in %v\n", len(reports), games, elapsed.Round(time.Millisecond))
	if failed > 0 {
		p.Printf("%d matches aborted\n", failed)
	}
}
