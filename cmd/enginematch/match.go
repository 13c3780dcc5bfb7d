package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"enginematch/pkg/arena"
)

func Match(logger func() zerolog.Logger) *cobra.Command {
	var (
		games     int
		seconds   float64
		processes int
		output    string
		paramsA   []string
		paramsB   []string
		opts      runOptions
	)
	cmd := &cobra.Command{
		Use:   "match engine-a engine-b",
		Short: "Play one match between two engines",
		Args:  cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			if seconds <= 0 {
				return fmt.Errorf("time must be > 0, got %v", seconds)
			}
			opts.Processes = processes
			if opts.Processes <= 0 {
				opts.Processes = arena.DefaultProcesses()
			}
			m := &arena.Match{
				ID:       uuid.NewString(),
				EngineA:  arena.NewEngine(args[0], toAny(paramsA)...),
				EngineB:  arena.NewEngine(args[1], toAny(paramsB)...),
				MoveTime: time.Duration(seconds * float64(time.Second)),
				Games:    games,
			}
			reports, err := runMatches(cmd.Context(), logger(), opts, []*arena.Match{m})
			if err != nil {
				return err
			}
			rep := reports[0]
			fmt.Print(rep.Block())
			if output != "" {
				f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return err
				}
				if err := arena.NewMatchLog(f).Write(rep); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
			}
			return rep.Failure
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&games, "games", "g", 10, "number of games")
	flags.Float64VarP(&seconds, "time", "t", 0.1, "time per move in seconds")
	flags.IntVarP(&processes, "processes", "p", 0, "parallel tasks (0 = half the CPUs)")
	flags.StringVarP(&output, "output", "o", "", "append the result block to this file")
	flags.StringSliceVar(&paramsA, "params-a", nil, "arguments passed to engine A")
	flags.StringSliceVar(&paramsB, "params-b", nil, "arguments passed to engine B")
	flags.StringVar(&opts.EnginesDir, "engines", "engines", "directory engine names are resolved in")
	flags.StringToStringVar(&opts.Options, "option", nil, "UCI option name=value sent to both engines")
	flags.DurationVar(&opts.Grace, "grace", arena.DefaultGrace, "time an engine may overrun its move time")
	flags.StringVar(&opts.StartFEN, "fen", "", "start position (default: standard)")
	flags.StringVar(&opts.Records, "records", "", "parquet file receiving every game")
	flags.StringVar(&opts.DB, "db", "", "sqlite match history")
	return cmd
}

func toAny(params []string) []any {
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = p
	}
	return out
}
