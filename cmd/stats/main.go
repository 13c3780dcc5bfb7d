package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"enginematch/pkg/arena"
)

type pairing struct {
	matchID string
	engineA string
	engineB string
	result  arena.Result
	plies   int
	methods map[string]int
	first   int
}

func newPairing(matchID string, order int) *pairing {
	return &pairing{matchID: matchID, methods: make(map[string]int), first: order}
}

// Add counts one game. Player 1 has white in the even games of a task.
func (p *pairing) Add(record arena.GameRecord) {
	engineA, engineB := record.White, record.Black
	if record.Game%2 == 1 {
		engineA, engineB = engineB, engineA
	}
	if p.engineA == "" {
		p.engineA, p.engineB = engineA, engineB
	}
	player1White := record.Game%2 == 0
	switch record.Result {
	case "1-0", "0-1":
		if (record.Result == "1-0") == player1White {
			p.result.Player1Wins++
		} else {
			p.result.Player2Wins++
		}
	default:
		p.result.Draws++
	}
	p.plies += int(record.Plies)
	method := record.Method
	if method == "" {
		method = "unknown"
	}
	p.methods[method]++
}

func main() {
	parquetPath := flag.String("parquet", "", "input parquet game-record file")
	parallel := flag.Int64("parallel", 4, "parquet read parallelism")
	showMethods := flag.Bool("methods", false, "print how the games ended")
	minGames := flag.Int("min-games", 1, "minimum games per pairing to report")
	flag.Parse()

	if *parquetPath == "" {
		fatal(fmt.Errorf("-parquet is required"))
	}
	if *minGames <= 0 {
		fatal(fmt.Errorf("min-games must be > 0"))
	}

	records, err := arena.ReadParquet(*parquetPath, *parallel)
	if err != nil {
		fatal(err)
	}
	if len(records) == 0 {
		fatal(fmt.Errorf("no games found in %s", *parquetPath))
	}

	pairings := make(map[string]*pairing)
	for i, record := range records {
		p, ok := pairings[record.MatchID]
		if !ok {
			p = newPairing(record.MatchID, i)
			pairings[record.MatchID] = p
		}
		p.Add(record)
	}
	ordered := make([]*pairing, 0, len(pairings))
	for _, p := range pairings {
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].first < ordered[j].first })

	printer := message.NewPrinter(language.English)
	printer.Printf("input parquet: %s\n", *parquetPath)
	printer.Printf("games: %d\n", len(records))
	printer.Printf("pairings: %d\n", len(ordered))
	for _, p := range ordered {
		games := p.result.Games()
		if games < *minGames {
			continue
		}
		stats := arena.ComputeStats(p.result)
		printer.Printf("%s vs %s: games=%d score=%d-%d-%d elo=%s los=%s avg_plies=%.1f\n",
			p.engineA, p.engineB, games,
			p.result.Player1Wins, p.result.Draws, p.result.Player2Wins,
			stats.EloString(), stats.LOSString(), float64(p.plies)/float64(games))
		if *showMethods {
			keys := make([]string, 0, len(p.methods))
			for key := range p.methods {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				printer.Printf("  %s,%d\n", key, p.methods[key])
			}
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
