package reactor

import (
	"slices"
	"sync"
)

// node is one vertex of the dependency graph: an optional producer, the
// upstream names it consumes and the names that consume it. Nodes are
// created at registration time and never removed; between batches only the
// value store mutates.
type node struct {
	name string

	// fn is nil for pure inputs, which only settle through batch values.
	fn ProducerFunc

	// upstream preserves declaration order, duplicates included; argument
	// gathering follows this exact order.
	upstream []string

	// downstream lists dependent names in first-reference order. Each edge
	// appears once even when the dependent names the upstream repeatedly.
	downstream []string

	// registered marks names that went through Register, as opposed to
	// records created implicitly because another node depends on them.
	registered bool
}

// graph maps node names to their records. The lock keeps concurrent reads
// coherent; the engine's wider contract is still that registration and an
// active session must not overlap.
type graph struct {
	mu    sync.RWMutex
	nodes map[string]*node
}

func newGraph() *graph {
	return &graph{nodes: make(map[string]*node)}
}

// ensure returns the record for name, creating an implicit pure-input
// record when none exists yet. The caller must hold the write lock.
func (g *graph) ensure(name string) *node {
	if n, ok := g.nodes[name]; ok {
		return n
	}
	n := &node{name: name}
	g.nodes[name] = n
	return n
}

// add wires a validated producer into the graph. Upgrading an implicit
// pure-input record to a producer keeps its existing downstream edges.
func (g *graph) add(name string, upstream []string, fn ProducerFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.ensure(name)
	n.fn = fn
	n.upstream = upstream
	n.registered = true

	for _, up := range upstream {
		upNode := g.ensure(up)
		if !slices.Contains(upNode.downstream, name) {
			upNode.downstream = append(upNode.downstream, name)
		}
	}
}

// isRegistered reports whether name was explicitly registered; implicit
// pure-input records do not count.
func (g *graph) isRegistered(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[name]
	return ok && n.registered
}

// lookup returns the record for name, if any.
func (g *graph) lookup(name string) (*node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[name]
	return n, ok
}

// downstreamOf returns the dependents of name. The returned slice is the
// live edge list and must not be mutated by callers.
func (g *graph) downstreamOf(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if n, ok := g.nodes[name]; ok {
		return n.downstream
	}
	return nil
}
