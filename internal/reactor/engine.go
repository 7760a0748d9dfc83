package reactor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/fluxgridgo/internal/ctxlog"
)

// Engine owns one propagation instance: the dependency graph, the value
// cache, the batch queue and the session error sink. Multiple engines are
// fully independent of one another.
type Engine struct {
	logger  *slog.Logger
	eq      EqualFunc
	resolve UpstreamResolver
	hook    ChangeHook

	graph *graph
	store *valueStore

	// mu guards the queue, the session flag and the error sink. It is never
	// held while producers run.
	mu      sync.Mutex
	queue   batchQueue
	running bool
	errs    []NodeError
}

// New returns an engine with an empty graph.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: slog.Default(),
		eq: func(a, b cty.Value) bool {
			return a.RawEquals(b)
		},
		graph: newGraph(),
		store: newValueStore(),
	}
	e.resolve = func(p Producer) ([]string, error) {
		return p.Upstream, nil
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register adds producer nodes to the graph. All entries are validated
// before any is committed, so a failed call registers nothing. Names that
// previously appeared only as upstream references are upgraded in place;
// re-registering an explicitly registered name fails with
// DuplicateNodeError. Register must not be called while a session is
// draining.
func (e *Engine) Register(producers ...Producer) error {
	resolved := make([][]string, len(producers))
	seen := make(map[string]struct{}, len(producers))
	for i, p := range producers {
		if p.Name == "" {
			return fmt.Errorf("producer at index %d has no name", i)
		}
		if p.Fn == nil {
			return &InvalidProducerError{Name: p.Name}
		}
		if _, dup := seen[p.Name]; dup {
			return &DuplicateNodeError{Name: p.Name}
		}
		if e.graph.isRegistered(p.Name) {
			return &DuplicateNodeError{Name: p.Name}
		}
		seen[p.Name] = struct{}{}

		ups, err := e.resolve(p)
		if err != nil {
			return fmt.Errorf("resolving upstream names for '%s': %w", p.Name, err)
		}
		resolved[i] = ups
	}

	for i, p := range producers {
		e.graph.add(p.Name, resolved[i], p.Fn)
		e.logger.Debug("Registered node.", "name", p.Name, "upstream", resolved[i])
	}
	return nil
}

// RegisterMap is the mapping form of Register. Node names come from the
// map keys and override any Name set on the entries; registration happens
// in sorted-name order.
func (e *Engine) RegisterMap(producers map[string]Producer) error {
	names := make([]string, 0, len(producers))
	for name := range producers {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]Producer, 0, len(names))
	for _, name := range names {
		p := producers[name]
		p.Name = name
		list = append(list, p)
	}
	return e.Register(list...)
}

// Update enqueues one atomic multi-input change and returns a handle that
// resolves once the batch has been fully absorbed. Every value must be a
// finished value; a batch containing an unknown or missing value is
// rejected before any state changes. If no session is active one is
// started on a fresh goroutine, so Update never blocks, including when
// called from inside a producer.
func (e *Engine) Update(values map[string]cty.Value) (*Handle, error) {
	keys := make([]string, 0, len(values))
	copied := make(map[string]cty.Value, len(values))
	for name, v := range values {
		if v == cty.NilVal || !v.IsWhollyKnown() {
			return nil, &InvalidBatchValueError{Name: name}
		}
		keys = append(keys, name)
		copied[name] = v
	}
	sort.Strings(keys)

	b := &batch{
		values: copied,
		keys:   keys,
		handle: &Handle{done: make(chan struct{})},
	}

	e.mu.Lock()
	e.queue.enqueue(b)
	start := !e.running
	if start {
		e.running = true
		e.errs = nil
	}
	queued := e.queue.len()
	e.mu.Unlock()

	e.logger.Debug("Batch enqueued.", "keys", keys, "queued", queued, "newSession", start)
	if start {
		go e.drain()
	}
	return b.handle, nil
}

// Value returns the cached value for name. ok is false when the name has
// never settled to a value.
func (e *Engine) Value(name string) (cty.Value, bool) {
	return e.store.value(name)
}

// Snapshot returns a copy of every cached value keyed by node name.
func (e *Engine) Snapshot() map[string]cty.Value {
	return e.store.snapshot()
}

// Errors returns the node failures recorded since the current or most
// recent session started. The sink resets when a new session begins.
func (e *Engine) Errors() []NodeError {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]NodeError, len(e.errs))
	copy(out, e.errs)
	return out
}

// drain is the session loop. Exactly one drain goroutine exists at a time;
// it owns all propagation bookkeeping until the queue empties.
func (e *Engine) drain() {
	ctx := ctxlog.WithLogger(context.Background(), e.logger)
	e.logger.Debug("Propagation session started.")

	for {
		e.mu.Lock()
		b := e.queue.dequeue()
		if b == nil {
			e.running = false
			e.mu.Unlock()
			e.logger.Debug("Propagation session finished, queue drained.")
			return
		}
		e.mu.Unlock()

		err := e.propagate(ctx, b)
		if err != nil {
			e.logger.Warn("Batch rejected.", "keys", b.keys, "error", err)
		}
		b.handle.err = err
		close(b.handle.done)
	}
}

// recordNodeError appends one producer failure to the session's error
// sink.
func (e *Engine) recordNodeError(nodeErr NodeError) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs = append(e.errs, nodeErr)
}

// Handle tracks the absorption of one batch. It resolves when the batch's
// wavefront has fully drained, or immediately with a CycleError when the
// batch was rejected. It says nothing about other batches in the queue.
type Handle struct {
	done chan struct{}
	err  error
}

// Done returns a channel that closes once the batch has been absorbed.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the batch's terminal error, or nil while it is still
// pending.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Wait blocks until the batch is absorbed or ctx ends, whichever comes
// first.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return h.err
	}
}
