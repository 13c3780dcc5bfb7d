package arena

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStopped is returned by a task that ended early because its match was
// stopped, either by a sibling's protocol failure or by an interrupt.
var ErrStopped = errors.New("match stopped")

// ConfigurationError reports that a game count cannot be split into equal,
// even-sized tasks for the requested number of processes.
type ConfigurationError struct {
	Games     int
	Processes int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no fitting task size for %d games on %d processes: decrease the number of processes or use a more divisible number of games", e.Games, e.Processes)
}

// ProtocolError reports that an engine failed to produce a usable move, or
// could not be started at all.
type ProtocolError struct {
	Engine Engine
	Moves  []string
	Err    error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("engine %s failed after moves %q: %v", e.Engine.FullName(), strings.Join(e.Moves, " "), e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
