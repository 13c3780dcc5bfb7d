package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrClosed is returned when a command is sent to a closed engine.
var ErrClosed = errors.New("engine is closed")

// Engine manages a UCI engine process.
type Engine struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	mu     sync.Mutex
	closed bool
}

// Start launches an external UCI engine process. The args are passed to the
// program in order.
func Start(ctx context.Context, path string, args ...string) (*Engine, error) {
	if path == "" {
		return nil, errors.New("engine path is required")
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = filepath.Dir(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &Engine{cmd: cmd, stdin: stdin, stdout: stdout, stderr: stderr}, nil
}

// Reader returns a protocol reader for engine stdout.
func (e *Engine) Reader() *Reader {
	return NewReader(e.stdout)
}

// Stderr returns the stderr stream for the engine process.
func (e *Engine) Stderr() io.Reader {
	return e.stderr
}

// Send sends a single command line to the engine.
func (e *Engine) Send(line string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	_, err := io.WriteString(e.stdin, line)
	return err
}

// Close asks the engine to quit and waits for it, killing the process if it
// does not exit in time. Calling Close more than once is a no-op.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	_ = e.Send("quit")
	e.mu.Lock()
	e.closed = true
	_ = e.stdin.Close()
	e.mu.Unlock()
	done := make(chan error, 1)
	go func() { done <- e.cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(3 * time.Second):
		_ = e.cmd.Process.Kill()
		<-done
		return errors.New("engine did not exit in time")
	}
}

// Reader reads and parses UCI protocol lines from the engine.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader creates a Reader for engine stdout.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{scanner: scanner}
}

// ParseLine converts a raw line into a protocol event.
func ParseLine(line string) (Event, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Event{}, errors.New("empty line")
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case "id":
		if len(fields) < 3 {
			return Event{}, fmt.Errorf("invalid id: %q", line)
		}
		return Event{Type: EventID, Key: fields[1], Value: strings.Join(fields[2:], " ")}, nil
	case "uciok":
		return Event{Type: EventUCIOK}, nil
	case "readyok":
		return Event{Type: EventReadyOK}, nil
	case "bestmove":
		if len(fields) < 2 {
			return Event{}, fmt.Errorf("invalid bestmove: %q", line)
		}
		e := Event{Type: EventBestMove, Move: fields[1]}
		if len(fields) >= 4 && fields[2] == "ponder" {
			e.Ponder = fields[3]
		}
		return e, nil
	case "info":
		return Event{Type: EventInfo, Raw: line}, nil
	case "option":
		return Event{Type: EventOption, Raw: line}, nil
	default:
		return Event{Type: EventUnknown, Raw: line}, nil
	}
}

// Next blocks until a line is available or EOF occurs. Blank lines are
// skipped and lines that do not parse are returned as EventUnknown, so only
// read errors and EOF end the stream.
func (r *Reader) Next() (Event, error) {
	for {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return Event{}, err
			}
			return Event{}, io.EOF
		}
		if strings.TrimSpace(r.scanner.Text()) == "" {
			continue
		}
		line := r.scanner.Text()
		event, err := ParseLine(line)
		if err != nil {
			return Event{Type: EventUnknown, Raw: strings.TrimSpace(line)}, nil
		}
		return event, nil
	}
}

// EventType represents a UCI protocol event type.
type EventType int

const (
	EventUnknown EventType = iota
	EventID
	EventOption
	EventUCIOK
	EventReadyOK
	EventInfo
	EventBestMove
)

// Event is a parsed UCI protocol line.
type Event struct {
	Type   EventType
	Key    string
	Value  string
	Move   string
	Ponder string
	Raw    string
}

// Session manages a UCI engine session and event stream.
type Session struct {
	engine *Engine
	events chan Event
	errCh  chan error

	// Name is the engine's self-reported "id name", filled by Handshake.
	Name string
}

// StartSession launches a UCI engine and starts a reader goroutine.
func StartSession(ctx context.Context, path string, args ...string) (*Session, error) {
	engine, err := Start(ctx, path, args...)
	if err != nil {
		return nil, err
	}
	reader := engine.Reader()
	events := make(chan Event, 64)
	errCh := make(chan error, 1)
	go func() {
		defer close(events)
		for {
			event, err := reader.Next()
			if err != nil {
				select {
				case errCh <- err:
				default:
				}
				return
			}
			events <- event
		}
	}()
	go func() {
		_, _ = io.Copy(io.Discard, engine.Stderr())
	}()
	return &Session{engine: engine, events: events, errCh: errCh}, nil
}

// Close terminates the engine process.
func (s *Session) Close() error {
	if s == nil || s.engine == nil {
		return nil
	}
	// unblock the reader goroutine if nobody is consuming events anymore
	go func() {
		for range s.events {
		}
	}()
	return s.engine.Close()
}

// Handshake runs the standard UCI handshake and applies the given options.
// Options are sent in name order.
func (s *Session) Handshake(ctx context.Context, options map[string]string) error {
	if err := s.engine.Send("uci"); err != nil {
		return err
	}
	for {
		event, err := s.nextEvent(ctx)
		if err != nil {
			return err
		}
		if event.Type == EventID && event.Key == "name" {
			s.Name = event.Value
		}
		if event.Type == EventUCIOK {
			break
		}
	}
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.engine.Send(fmt.Sprintf("setoption name %s value %s", name, options[name])); err != nil {
			return err
		}
	}
	return s.ready(ctx)
}

// NewGame tells the engine a new game starts and waits until it is ready.
func (s *Session) NewGame(ctx context.Context) error {
	if err := s.engine.Send("ucinewgame"); err != nil {
		return err
	}
	return s.ready(ctx)
}

// BestMove sets up the position given by a start FEN and the moves played from
// it, runs a search bounded by moveTime and returns the engine's move.
func (s *Session) BestMove(ctx context.Context, fen string, moves []string, moveTime time.Duration) (string, error) {
	cmd := "position fen " + fen
	if len(moves) > 0 {
		cmd += " moves " + strings.Join(moves, " ")
	}
	if err := s.engine.Send(cmd); err != nil {
		return "", err
	}
	ms := moveTime.Milliseconds()
	if ms <= 0 {
		ms = 1
	}
	if err := s.engine.Send(fmt.Sprintf("go movetime %d", ms)); err != nil {
		return "", err
	}
	event, err := s.waitForEvent(ctx, EventBestMove)
	if err != nil {
		return "", err
	}
	if event.Move == "(none)" || event.Move == "0000" {
		return "", fmt.Errorf("engine returned no move: %q", event.Move)
	}
	return event.Move, nil
}

func (s *Session) ready(ctx context.Context) error {
	if err := s.engine.Send("isready"); err != nil {
		return err
	}
	_, err := s.waitForEvent(ctx, EventReadyOK)
	return err
}

func (s *Session) waitForEvent(ctx context.Context, want EventType) (Event, error) {
	for {
		event, err := s.nextEvent(ctx)
		if err != nil {
			return Event{}, err
		}
		if event.Type == want {
			return event, nil
		}
	}
}

func (s *Session) nextEvent(ctx context.Context) (Event, error) {
	select {
	case <-ctx.Done():
		return Event{}, ctx.Err()
	case err := <-s.errCh:
		if err == nil || errors.Is(err, io.EOF) {
			return Event{}, errors.New("engine stdout closed")
		}
		return Event{}, err
	case event, ok := <-s.events:
		if !ok {
			return Event{}, errors.New("engine stdout closed")
		}
		return event, nil
	}
}
