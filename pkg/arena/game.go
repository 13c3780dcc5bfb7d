package arena

import (
	"context"
	"slices"
	"time"
)

// Side is a colour in a two-player game.
type Side int

const (
	White Side = iota
	Black
	// NoSide is the winner of a drawn game.
	NoSide Side = -1
)

func (s Side) String() string {
	switch s {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// Position is what a MoveProvider needs to search: the start position and the
// moves played from it.
type Position struct {
	FEN   string
	Moves []string
}

// Terminal describes a finished game.
type Terminal struct {
	Winner Side
	Method string
}

// GameState is the rules engine of one game.
type GameState interface {
	// Reset returns the state to the start position.
	Reset()
	Position() Position
	SideToMove() Side
	// ApplyMove plays a move; an illegal or unparseable move is an error.
	ApplyMove(move string) error
	// TerminalOutcome reports the outcome once the game is over. Draws that
	// must be claimed are only reported when claimDraw is set.
	TerminalOutcome(claimDraw bool) (Terminal, bool)
}

// MoveProvider asks a playing program for its move.
type MoveProvider interface {
	RequestMove(ctx context.Context, pos Position, limit time.Duration) (string, error)
	Close() error
}

// GameResult is the outcome of a game from the point of view of the match's
// engines.
type GameResult int

const (
	Draw GameResult = iota
	Player1Win
	Player2Win
)

func (r GameResult) String() string {
	switch r {
	case Player1Win:
		return "player1"
	case Player2Win:
		return "player2"
	default:
		return "draw"
	}
}

// GameOutcome is a finished game. White is the index (0 or 1) of the player
// that had the white pieces.
type GameOutcome struct {
	Result GameResult
	Method string
	Winner Side
	White  int
	Moves  []string
}

// PlayGame plays one game from the start position. players[0] is player 1,
// whitePlayer selects which of them moves first. A provider error or a move
// the state rejects ends the game with a *ProtocolError.
func PlayGame(ctx context.Context, state GameState, players [2]MoveProvider, engines [2]Engine, whitePlayer int, limit time.Duration) (GameOutcome, error) {
	state.Reset()
	var moves []string
	for {
		if t, over := state.TerminalOutcome(true); over {
			out := GameOutcome{Result: Draw, Method: t.Method, Winner: t.Winner, White: whitePlayer, Moves: moves}
			if t.Winner != NoSide {
				if playerFor(t.Winner, whitePlayer) == 0 {
					out.Result = Player1Win
				} else {
					out.Result = Player2Win
				}
			}
			return out, nil
		}

		p := playerFor(state.SideToMove(), whitePlayer)
		move, err := players[p].RequestMove(ctx, state.Position(), limit)
		if err == nil {
			err = state.ApplyMove(move)
		}
		if err != nil {
			return GameOutcome{White: whitePlayer, Moves: moves}, &ProtocolError{Engine: engines[p], Moves: slices.Clone(moves), Err: err}
		}
		moves = append(moves, move)
	}
}

func playerFor(side Side, whitePlayer int) int {
	if side == White {
		return whitePlayer
	}
	return 1 - whitePlayer
}
