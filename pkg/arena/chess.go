package arena

import (
	"fmt"
	"slices"

	"github.com/notnil/chess"
)

// StartFEN is the standard chess start position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ChessState is a GameState for standard chess. Moves are in UCI notation.
type ChessState struct {
	fen   string
	start func(*chess.Game)
	game  *chess.Game
	moves []string
}

// NewChessState creates a chess game starting from fen, or from the standard
// start position when fen is empty.
func NewChessState(fen string) (*ChessState, error) {
	if fen == "" {
		fen = StartFEN
	}
	start, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("start position: %w", err)
	}
	s := &ChessState{fen: fen, start: start}
	s.Reset()
	return s, nil
}

func (s *ChessState) Reset() {
	s.game = chess.NewGame(s.start, chess.UseNotation(chess.UCINotation{}))
	s.moves = s.moves[:0]
}

func (s *ChessState) Position() Position {
	return Position{FEN: s.fen, Moves: slices.Clone(s.moves)}
}

func (s *ChessState) SideToMove() Side {
	if s.game.Position().Turn() == chess.White {
		return White
	}
	return Black
}

func (s *ChessState) ApplyMove(move string) error {
	if err := s.game.MoveStr(move); err != nil {
		return fmt.Errorf("illegal move %q: %w", move, err)
	}
	s.moves = append(s.moves, move)
	return nil
}

func (s *ChessState) TerminalOutcome(claimDraw bool) (Terminal, bool) {
	if s.game.Outcome() == chess.NoOutcome && claimDraw {
		for _, m := range s.game.EligibleDraws() {
			if m == chess.ThreefoldRepetition || m == chess.FiftyMoveRule {
				_ = s.game.Draw(m)
				break
			}
		}
	}
	method := methodName(s.game.Method())
	switch s.game.Outcome() {
	case chess.WhiteWon:
		return Terminal{Winner: White, Method: method}, true
	case chess.BlackWon:
		return Terminal{Winner: Black, Method: method}, true
	case chess.Draw:
		return Terminal{Winner: NoSide, Method: method}, true
	default:
		return Terminal{}, false
	}
}

// FEN returns the current position.
func (s *ChessState) FEN() string {
	return s.game.Position().String()
}

func methodName(m chess.Method) string {
	switch m {
	case chess.Checkmate:
		return "checkmate"
	case chess.Resignation:
		return "resignation"
	case chess.DrawOffer:
		return "draw offer"
	case chess.Stalemate:
		return "stalemate"
	case chess.ThreefoldRepetition:
		return "threefold repetition"
	case chess.FivefoldRepetition:
		return "fivefold repetition"
	case chess.FiftyMoveRule:
		return "fifty-move rule"
	case chess.SeventyFiveMoveRule:
		return "seventy-five-move rule"
	case chess.InsufficientMaterial:
		return "insufficient material"
	default:
		return ""
	}
}
