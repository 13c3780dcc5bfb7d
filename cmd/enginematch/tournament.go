package main

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"enginematch/pkg/arena"
)

func Tournament(logger func() zerolog.Logger) *cobra.Command {
	var (
		configPath string
		processes  int
		games      int
	)
	cmd := &cobra.Command{
		Use:   "tournament",
		Short: "Play a baseline engine against a parameter sweep",
		Args:  cobra.ExactArgs(0),

		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				path, _, err := arena.FindConfigPath()
				if err != nil {
					return err
				}
				configPath = path
			}
			cfg, err := arena.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if processes > 0 {
				cfg.Processes = processes
			}
			if games > 0 {
				cfg.Games = games
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logger()
			roster := cfg.Roster()
			log.Info().
				Str("config", configPath).
				Str("baseline", cfg.Baseline.Engine().FullName()).
				Int("opponents", len(roster)).
				Int("games", cfg.Games).
				Int("processes", cfg.Processes).
				Msg("starting tournament")

			matches := arena.Pairings(cfg.Baseline.Engine(), roster, cfg.MoveTime(), cfg.Games)
			_, err = runMatches(cmd.Context(), log, runOptions{
				EnginesDir: cfg.EnginesDir,
				Options:    cfg.Options,
				Grace:      time.Duration(cfg.GraceMillis) * time.Millisecond,
				Processes:  cfg.Processes,
				StartFEN:   cfg.StartFEN,
				Log:        cfg.Log,
				Records:    cfg.Records,
				DB:         cfg.DB,
			}, matches)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to config.json (default: search upwards)")
	flags.IntVarP(&processes, "processes", "p", 0, "override the configured process budget")
	flags.IntVarP(&games, "games", "g", 0, "override the configured games per match")
	return cmd
}
