package reactor

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// ProducerFunc computes a node's new value from its upstream values, passed
// in the node's declared upstream order. Upstreams that have never settled
// arrive as null. The function may block; invocations belonging to the same
// wavefront round run concurrently, so it must not touch engine state other
// than through the engine's public API.
type ProducerFunc func(ctx context.Context, args []cty.Value) (cty.Value, error)

// Producer declares one computation node: its identity, the ordered names
// of the upstream values it consumes, and the function that computes it.
// Upstream names that are never registered themselves act as pure inputs
// and only ever change through Update.
type Producer struct {
	Name     string
	Upstream []string
	Fn       ProducerFunc
}

// UpstreamResolver derives the ordered upstream names for a producer at
// registration time. The default resolver returns the producer's declared
// Upstream slice as-is; hosts that infer dependencies elsewhere, for
// example from expression analysis, can override it via
// WithUpstreamResolver.
type UpstreamResolver func(p Producer) ([]string, error)

// EqualFunc reports whether two values are equal for change detection. The
// default is cty's RawEquals, a deep structural comparison.
type EqualFunc func(a, b cty.Value) bool

// ChangeHook is called from the propagation goroutine each time a node's
// cached value actually changes. It must return quickly and must not call
// back into the engine except to enqueue updates.
type ChangeHook func(name string, value cty.Value)
