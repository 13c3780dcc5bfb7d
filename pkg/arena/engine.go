package arena

import (
	"fmt"
	"slices"
	"strings"
)

// Engine identifies one playing-program variant: the program name and the
// ordered parameters it is started with. Engines are immutable.
type Engine struct {
	name   string
	params []string
}

// NewEngine builds an engine descriptor. Every parameter is formatted with
// fmt.Sprint.
func NewEngine(name string, params ...any) Engine {
	e := Engine{name: name}
	for _, p := range params {
		e.params = append(e.params, fmt.Sprint(p))
	}
	return e
}

// Name returns the program name.
func (e Engine) Name() string { return e.name }

// Args returns a copy of the parameters, in the order they are passed to the
// program.
func (e Engine) Args() []string { return slices.Clone(e.params) }

// Equal reports whether both descriptors name the same variant.
func (e Engine) Equal(o Engine) bool {
	return e.name == o.name && slices.Equal(e.params, o.params)
}

// Key returns a string that is equal for equal engines.
func (e Engine) Key() string {
	return e.name + "\x00" + strings.Join(e.params, "\x00")
}

// FullName is the display name: the program name without a ".exe" suffix,
// followed by the parameters joined with "_".
func (e Engine) FullName() string {
	name := strings.TrimSuffix(e.name, ".exe")
	if len(e.params) == 0 {
		return name
	}
	return name + "_" + strings.Join(e.params, "_")
}

func (e Engine) String() string { return e.FullName() }
