package arena

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"enginematch/pkg/uci"
)

// DefaultGrace is the time an engine may exceed its move time before the
// request counts as a timeout.
const DefaultGrace = 2 * time.Second

// UCISpawner starts engines as UCI subprocesses. Engine names are resolved
// relative to Dir.
type UCISpawner struct {
	Dir     string
	Options map[string]string
	Grace   time.Duration
}

// Path returns the executable path of an engine.
func (s *UCISpawner) Path(e Engine) string {
	if filepath.IsAbs(e.Name()) || s.Dir == "" {
		return e.Name()
	}
	return filepath.Join(s.Dir, e.Name())
}

// Spawn starts the engine with its parameters as arguments and completes the
// UCI handshake.
func (s *UCISpawner) Spawn(ctx context.Context, e Engine) (MoveProvider, error) {
	session, err := uci.StartSession(ctx, s.Path(e), e.Args()...)
	if err != nil {
		return nil, err
	}
	hctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := session.Handshake(hctx, s.Options); err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("handshake: %w", err)
	}
	grace := s.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &uciProvider{session: session, grace: grace, plies: -1}, nil
}

type uciProvider struct {
	session *uci.Session
	grace   time.Duration
	// plies is the game length at the previous request; a shorter game
	// means a new one started.
	plies int
}

func (p *uciProvider) RequestMove(ctx context.Context, pos Position, limit time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, limit+p.grace)
	defer cancel()
	if p.plies >= 0 && len(pos.Moves) <= p.plies {
		if err := p.session.NewGame(ctx); err != nil {
			return "", fmt.Errorf("new game: %w", err)
		}
	}
	p.plies = len(pos.Moves)
	move, err := p.session.BestMove(ctx, pos.FEN, pos.Moves, limit)
	if err != nil {
		return "", fmt.Errorf("request move: %w", err)
	}
	return move, nil
}

func (p *uciProvider) Close() error {
	return p.session.Close()
}
