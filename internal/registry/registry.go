package registry

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/agrun/internal/proc"
)

// Component is the interface that all compiled-in components implement to be
// registered. Registration is an explicit call, not runtime discovery: the
// definitive component list lives in the application wiring.
type Component interface {
	Register(r *Registry)
}

// EntryFunc executes a component given its parsed input and returns the exit
// code to hand back to the shell. Errors escaping an entry are contained at
// the dispatch boundary; an entry must never terminate the process itself.
type EntryFunc func(ctx context.Context, inv *Invocation, input any) (int, error)

// Invocation carries the collaborators an entry point may use.
type Invocation struct {
	Proc    *proc.Runner
	Surface *Surface
}

// RegisteredComponent holds the compiled Go side of a component: how to
// build its input struct and the entry point bound to its command.
type RegisteredComponent struct {
	NewInput  func() any
	InputType reflect.Type
	Entry     EntryFunc
}

// Registry pairs compiled-in component handlers with the descriptors built
// from their on-disk manifests.
type Registry struct {
	handlers map[string]*RegisteredComponent
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		handlers: make(map[string]*RegisteredComponent),
	}
}

// RegisterComponent registers the Go handler for a command name. A duplicate
// registration is a programmer error in the compiled-in component list, so
// it panics rather than returning an error.
func (r *Registry) RegisterComponent(command string, h *RegisteredComponent) {
	if _, exists := r.handlers[command]; exists {
		panic(fmt.Sprintf("component handler for command %q already registered", command))
	}
	r.handlers[command] = h
}

// Handler returns the registered Go handler for command, if any.
func (r *Registry) Handler(command string) (*RegisteredComponent, bool) {
	h, ok := r.handlers[command]
	return h, ok
}
