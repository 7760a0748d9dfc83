package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/vk/fluxgridgo/internal/bind"
)

// Module is the interface that all core modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// SinkFactory builds one sink instance from an emit block's options body.
// Factories run at startup, once per emit block; a factory that dials a
// remote service should fail fast here rather than on the first push.
type SinkFactory func(ctx context.Context, options hcl.Body) (bind.Sink, error)

// Registry holds all the registered formula functions and sink factories for
// a single application instance.
type Registry struct {
	FunctionRegistry map[string]function.Function
	SinkRegistry     map[string]SinkFactory
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		FunctionRegistry: make(map[string]function.Function),
		SinkRegistry:     make(map[string]SinkFactory),
	}
}

// RegisterFunction registers a named function for use in cell formulas.
func (r *Registry) RegisterFunction(name string, fn function.Function) {
	if _, exists := r.FunctionRegistry[name]; exists {
		panic(fmt.Sprintf("formula function with name '%s' already registered", name))
	}
	slog.Debug("Registering formula function.", "name", name)
	r.FunctionRegistry[name] = fn
}

// RegisterSink registers a named sink factory for use in emit blocks.
func (r *Registry) RegisterSink(name string, factory SinkFactory) {
	if _, exists := r.SinkRegistry[name]; exists {
		panic(fmt.Sprintf("sink factory with name '%s' already registered", name))
	}
	slog.Debug("Registering sink factory.", "name", name)
	r.SinkRegistry[name] = factory
}
