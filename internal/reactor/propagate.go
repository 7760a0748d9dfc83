package reactor

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/fluxgridgo/internal/ctxlog"
)

// propagation carries one batch's transient bookkeeping: how many
// reachable upstreams each node still waits for, and the frontier being
// assembled for the next round.
type propagation struct {
	pending map[string]int
	next    []string
}

// outcome is one settled node from a wavefront round. A nil value with a
// nil error means the node reused an unset cache and stays unset.
type outcome struct {
	name  string
	value cty.Value
	args  []cty.Value
	err   error
}

// propagate applies one batch: downstream closure with cycle detection,
// counter seeding, batch value application, then wavefront rounds until no
// node is left eligible. It returns an error only when the whole batch is
// rejected; individual producer failures go to the error sink instead.
func (e *Engine) propagate(ctx context.Context, b *batch) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Processing batch.", "keys", b.keys)

	pending, err := e.closure(b.keys)
	if err != nil {
		return err
	}

	e.store.resetChanged()

	p := &propagation{pending: pending}
	for _, name := range b.keys {
		e.setNodeValue(ctx, name, b.values[name], p)
	}

	round := 0
	for len(p.next) > 0 {
		frontier := p.next
		p.next = nil
		sort.Strings(frontier)
		round++
		logger.Debug("Wavefront round starting.", "round", round, "nodes", frontier)

		for _, out := range e.runRound(ctx, frontier) {
			if out.err != nil {
				logger.Warn("Node failed, halting its downstream for this batch.",
					"node", out.name, "error", out.err)
				e.recordNodeError(NodeError{Node: out.name, Args: out.args, Err: out.err})
				continue
			}
			e.setNodeValue(ctx, out.name, out.value, p)
		}
	}

	logger.Debug("Batch fully propagated.", "rounds", round)
	return nil
}

// closure walks downstream edges from the batch keys. It fails on the
// first cycle found, and otherwise counts, per reachable node, how many of
// its upstream settlements this batch will deliver. Nothing is mutated
// until the walk succeeds, so a rejected batch leaves no trace.
func (e *Engine) closure(keys []string) (map[string]int, error) {
	e.graph.mu.RLock()
	defer e.graph.mu.RUnlock()

	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		if onPath[name] {
			return &CycleError{Path: append(cycleTail(path, name), name)}
		}
		if visited[name] {
			return nil
		}
		visited[name] = true
		onPath[name] = true
		path = append(path, name)

		if n, ok := e.graph.nodes[name]; ok {
			for _, dep := range n.downstream {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		path = path[:len(path)-1]
		delete(onPath, name)
		return nil
	}

	for _, name := range keys {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	pending := make(map[string]int)
	for name := range visited {
		n, ok := e.graph.nodes[name]
		if !ok {
			continue
		}
		for _, dep := range n.downstream {
			pending[dep]++
		}
	}
	return pending, nil
}

// cycleTail slices the traversal path from the first occurrence of name,
// so the reported cycle starts and ends on the same node.
func cycleTail(path []string, name string) []string {
	for i, n := range path {
		if n == name {
			out := make([]string, len(path)-i)
			copy(out, path[i:])
			return out
		}
	}
	return []string{name}
}

// runRound launches every eligible producer concurrently and joins all of
// them. Nothing advances past the round until each invocation settles;
// settlement order within the round is by node name. Nodes whose upstreams
// all settled unchanged skip their producer and reuse the cache.
func (e *Engine) runRound(ctx context.Context, frontier []string) []outcome {
	logger := ctxlog.FromContext(ctx)
	outcomes := make([]outcome, len(frontier))
	var wg sync.WaitGroup

	for i, name := range frontier {
		n, ok := e.graph.lookup(name)
		if !ok || n.fn == nil {
			// Only producers are ever counted into a frontier; this is
			// unreachable unless the graph was mutated mid-session.
			outcomes[i] = outcome{name: name, value: cty.NilVal}
			continue
		}

		args, upstreamChanged := e.gatherArgs(n)
		if !upstreamChanged {
			cached, has := e.store.value(name)
			if !has {
				cached = cty.NilVal
			}
			logger.Debug("Upstreams settled unchanged, reusing cached value.", "node", name)
			outcomes[i] = outcome{name: name, value: cached, args: args}
			continue
		}

		logger.Debug("Invoking producer.", "node", name)
		wg.Add(1)
		go func(i int, name string, fn ProducerFunc, args []cty.Value) {
			defer wg.Done()
			value, err := invokeProducer(ctx, fn, args)
			outcomes[i] = outcome{name: name, value: value, args: args, err: err}
		}(i, name, n.fn, args)
	}

	wg.Wait()
	return outcomes
}

// gatherArgs collects a node's upstream values in declared order and
// reports whether any of them changed in the current batch. Upstreams that
// never settled are passed as null.
func (e *Engine) gatherArgs(n *node) ([]cty.Value, bool) {
	args := make([]cty.Value, len(n.upstream))
	changed := false
	for i, up := range n.upstream {
		v, ok := e.store.value(up)
		if !ok {
			v = cty.NullVal(cty.DynamicPseudoType)
		}
		args[i] = v
		if e.store.isChanged(up) {
			changed = true
		}
	}
	return args, changed
}

// invokeProducer runs one producer, converting a panic into an error so a
// misbehaving node cannot take down the session.
func invokeProducer(ctx context.Context, fn ProducerFunc, args []cty.Value) (value cty.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = cty.NilVal
			err = fmt.Errorf("producer panicked: %v", r)
		}
	}()

	value, err = fn(ctx, args)
	if err != nil {
		return cty.NilVal, err
	}
	if value == cty.NilVal {
		// A producer that returns no value at all settles to null rather
		// than poisoning the cache.
		value = cty.NullVal(cty.DynamicPseudoType)
	}
	return value, nil
}

// setNodeValue applies one settled value: change detection against the
// cache, the change hook, then downstream counter bookkeeping. A node that
// reused an unset cache keeps it unset; its dependents still observe no
// change. Counters only track nodes inside this batch's closure, and a
// node joins the frontier exactly once, when its counter hits zero.
func (e *Engine) setNodeValue(ctx context.Context, name string, value cty.Value, p *propagation) {
	logger := ctxlog.FromContext(ctx)

	if value == cty.NilVal {
		e.store.markUnchanged(name)
	} else if prev, ok := e.store.value(name); ok && e.eq(prev, value) {
		logger.Debug("Value unchanged.", "node", name)
		e.store.markUnchanged(name)
	} else {
		logger.Debug("Value changed.", "node", name)
		e.store.set(name, value)
		if e.hook != nil {
			e.hook(name, value)
		}
	}

	for _, dep := range e.graph.downstreamOf(name) {
		if _, tracked := p.pending[dep]; !tracked {
			continue
		}
		p.pending[dep]--
		if p.pending[dep] == 0 {
			p.next = append(p.next, dep)
		}
	}
}
