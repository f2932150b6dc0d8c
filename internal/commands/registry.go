package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrInvalidName is returned for command names or aliases the
	// dispatcher could never route to.
	ErrInvalidName = errors.New("invalid command name")

	// ErrDuplicateName is returned when a name or alias is already taken.
	ErrDuplicateName = errors.New("command name already registered")
)

// Registry maps command names and aliases to commands.
type Registry struct {
	mu   sync.RWMutex
	cmds map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]Command)}
}

// Register adds c under its name and aliases. Nothing is added when any of
// them is invalid or already taken.
func (r *Registry) Register(c Command) error {
	keys := append([]string{c.Name()}, c.Aliases()...)
	for i, key := range keys {
		if err := validName(key); err != nil {
			return fmt.Errorf("%s %q: %w", keyKind(i), key, err)
		}
		if slices.Contains(keys[:i], key) {
			return fmt.Errorf("%s %q of %s: %w", keyKind(i), key, c.Name(), ErrDuplicateName)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, key := range keys {
		if other, exists := r.cmds[key]; exists {
			return fmt.Errorf("%s %q taken by %s: %w", keyKind(i), key, other.Name(), ErrDuplicateName)
		}
	}
	for _, key := range keys {
		r.cmds[key] = c
	}
	return nil
}

// validName rejects names the dispatcher would parse as a flag, names with
// spaces and names that are not lower case.
func validName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: starts with '-'", ErrInvalidName)
	case strings.ContainsAny(name, " \t\n"):
		return fmt.Errorf("%w: contains whitespace", ErrInvalidName)
	case strings.ToLower(name) != name:
		return fmt.Errorf("%w: not lower case", ErrInvalidName)
	}
	return nil
}

func keyKind(i int) string {
	if i == 0 {
		return "command"
	}
	return "alias"
}

// Find looks up a command by name or alias, ignoring case.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.cmds[strings.ToLower(name)]
	return cmd, ok
}

// All returns each registered command once, sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Command
	for key, cmd := range r.cmds {
		if key == cmd.Name() {
			result = append(result, cmd)
		}
	}
	slices.SortFunc(result, func(a, b Command) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return result
}

// DefaultRegistry holds the commands registered by this package's init
// functions.
var DefaultRegistry = NewRegistry()

// Register adds c to DefaultRegistry and panics on a conflict, which can
// only be a programming error.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
