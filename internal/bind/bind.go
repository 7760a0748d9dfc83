// Package bind connects engine value changes to host-facing surfaces. A
// Sink receives each cell change as it lands; a Broadcaster fans changes
// out to every sink whose cell set matches.
package bind

import (
	"context"
	"errors"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/fluxgridgo/internal/ctxlog"
)

// Sink receives node-value changes. Push is called from the propagation
// goroutine and must return quickly; slow transports should buffer
// internally.
type Sink interface {
	Push(ctx context.Context, name string, value cty.Value) error
	Close(ctx context.Context) error
}

// Binding scopes a sink to the cell names it watches. An empty cell set
// forwards every change.
type Binding struct {
	sink  Sink
	cells map[string]struct{}
}

// NewBinding builds a binding that watches the given cells, or all of them
// when cells is empty.
func NewBinding(sink Sink, cells []string) Binding {
	b := Binding{sink: sink}
	if len(cells) > 0 {
		b.cells = make(map[string]struct{}, len(cells))
		for _, name := range cells {
			b.cells[name] = struct{}{}
		}
	}
	return b
}

func (b Binding) watches(name string) bool {
	if b.cells == nil {
		return true
	}
	_, ok := b.cells[name]
	return ok
}

// Broadcaster fans value changes out to every matching binding.
type Broadcaster struct {
	bindings []Binding
}

func NewBroadcaster(bindings ...Binding) *Broadcaster {
	return &Broadcaster{bindings: bindings}
}

// Hook returns a change callback suitable for the engine. Push failures
// are logged and swallowed; a broken sink must never derail propagation.
func (b *Broadcaster) Hook(ctx context.Context) func(name string, value cty.Value) {
	logger := ctxlog.FromContext(ctx)
	return func(name string, value cty.Value) {
		for _, binding := range b.bindings {
			if !binding.watches(name) {
				continue
			}
			if err := binding.sink.Push(ctx, name, value); err != nil {
				logger.Warn("Emit sink rejected value.", "cell", name, "error", err)
			}
		}
	}
}

// Close closes every sink and joins their errors.
func (b *Broadcaster) Close(ctx context.Context) error {
	var errs []error
	for _, binding := range b.bindings {
		if err := binding.sink.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
