package arena

import "errors"

// Result counts the outcomes of a set of games between player 1 and
// player 2. It is both the result of one task and the running total of a
// match.
type Result struct {
	Player1Wins int
	Player2Wins int
	Draws       int
}

// Games returns the number of games counted.
func (r Result) Games() int {
	return r.Player1Wins + r.Player2Wins + r.Draws
}

// Merge adds two results. Merge is associative and commutative, so task
// results can be combined in any order.
func (r Result) Merge(o Result) Result {
	return Result{
		Player1Wins: r.Player1Wins + o.Player1Wins,
		Player2Wins: r.Player2Wins + o.Player2Wins,
		Draws:       r.Draws + o.Draws,
	}
}

// Add counts one game.
func (r *Result) Add(g GameResult) {
	switch g {
	case Player1Win:
		r.Player1Wins++
	case Player2Win:
		r.Player2Wins++
	default:
		r.Draws++
	}
}

// Sum merges any number of results.
func Sum(results ...Result) Result {
	var total Result
	for _, r := range results {
		total = total.Merge(r)
	}
	return total
}

type matchTotal struct {
	result  Result
	pending int
	err     error
}

// Aggregator keeps running totals per match while tasks complete. Matches are
// identified by their position in the runner's match list, so IDs need not be
// unique. It is not safe for concurrent use; the runner feeds it from one
// goroutine.
type Aggregator struct {
	matches map[int]*matchTotal
	games   int
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{matches: make(map[int]*matchTotal)}
}

// Expect registers a match that will report the given number of tasks.
func (a *Aggregator) Expect(match int, tasks int) {
	a.matches[match] = &matchTotal{pending: tasks}
}

// Add merges a finished task into its match. It returns the match total so
// far and whether this was the match's last task. The first non-stop error
// of a match is kept.
func (a *Aggregator) Add(match int, r Result, err error) (Result, bool) {
	m, ok := a.matches[match]
	if !ok {
		m = &matchTotal{pending: 1}
		a.matches[match] = m
	}
	m.result = m.result.Merge(r)
	m.pending--
	a.games += r.Games()
	if err != nil && m.err == nil && !errors.Is(err, ErrStopped) {
		m.err = err
	}
	return m.result, m.pending <= 0
}

// Result returns the current total of a match.
func (a *Aggregator) Result(match int) Result {
	if m, ok := a.matches[match]; ok {
		return m.result
	}
	return Result{}
}

// Err returns the first failure reported for a match.
func (a *Aggregator) Err(match int) error {
	if m, ok := a.matches[match]; ok {
		return m.err
	}
	return nil
}

// Games returns the number of games merged across all matches.
func (a *Aggregator) Games() int {
	return a.games
}
