package main

import (
	"errors"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"enginematch/pkg/arena"
	"enginematch/pkg/store"
)

func History() *cobra.Command {
	var (
		dbPath string
		runID  string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored match results",
		Args:  cobra.ExactArgs(0),

		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return errors.New("--db is required")
			}
			if _, err := os.Stat(dbPath); err != nil {
				return err
			}
			db, err := store.NewSQLiteDB(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			matches, err := db.ListMatches(cmd.Context(), runID)
			if err != nil {
				return err
			}
			p := message.NewPrinter(language.English)
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			p.Fprintf(w, "when\tmatch\tmove time\tscore\telo\tlos\tnote\n")
			games := 0
			for _, m := range matches {
				stats := arena.ComputeStats(m.Result())
				note := ""
				if m.Failure != "" {
					note = "aborted: " + m.Failure
				} else if m.Interrupted {
					note = "interrupted"
				}
				p.Fprintf(w, "%s\t%s vs %s\t%v\t%d - %d - %d\t%s\t%s\t%s\n",
					m.CreatedAt.Local().Format(time.DateTime),
					m.EngineA, m.EngineB,
					time.Duration(m.MoveTimeMs)*time.Millisecond,
					m.Player1Wins, m.Draws, m.Player2Wins,
					stats.EloString(), stats.LOSString(), note)
				games += m.Result().Games()
			}
			if err := w.Flush(); err != nil {
				return err
			}
			p.Printf("%d matches, %d games\n", len(matches), games)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite match history")
	cmd.Flags().StringVar(&runID, "run", "", "only list matches of this run")
	return cmd
}
