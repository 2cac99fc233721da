package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds registered commands and control handlers.
type Registry struct {
	mu       sync.RWMutex
	cmds     map[string]Command // lowercased name or alias
	controls []ControlHandler   // prefixes never overlap
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		cmds: make(map[string]Command),
	}
}

// Register adds c under its name and aliases, lowercased.
// Nothing is added if any of them is taken.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, 1+len(c.Aliases()))
	for _, k := range append([]string{c.Name()}, c.Aliases()...) {
		k = strings.ToLower(k)
		if _, taken := r.cmds[k]; taken {
			return fmt.Errorf("command name already registered: %s", k)
		}
		keys = append(keys, k)
	}
	for _, k := range keys {
		r.cmds[k] = c
	}
	return nil
}

// RegisterControl adds a control handler.
// Returns an error if its prefix overlaps an existing one.
func (r *Registry) RegisterControl(h ControlHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix := h.Prefix()
	if prefix == "" {
		return fmt.Errorf("control prefix must not be empty")
	}
	for _, existing := range r.controls {
		if strings.HasPrefix(prefix, existing.Prefix()) || strings.HasPrefix(existing.Prefix(), prefix) {
			return fmt.Errorf("control prefix already registered: %s", prefix)
		}
	}
	r.controls = append(r.controls, h)
	return nil
}

// Find looks up a command by name or alias, case-insensitively.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.cmds[strings.ToLower(name)]
	return cmd, ok
}

// FindControl returns the handler owning token's prefix.
func (r *Registry) FindControl(token string) (ControlHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.controls {
		if strings.HasPrefix(token, h.Prefix()) {
			return h, true
		}
	}
	return nil, false
}

// All returns each command once, ordered by primary name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Command, 0, len(r.cmds))
	for key, cmd := range r.cmds {
		if key == cmd.Name() {
			out = append(out, cmd)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}

// RegisterControl adds a control handler to the default registry.
func RegisterControl(h ControlHandler) {
	if err := DefaultRegistry.RegisterControl(h); err != nil {
		panic(err)
	}
}
