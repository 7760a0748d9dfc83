// Package reactor is the value-propagation core. It holds a graph of named
// nodes, absorbs atomic multi-input updates as batches, and recomputes the
// affected downstream nodes in concurrent wavefront rounds. A producer is
// only invoked when at least one of its upstream values actually changed;
// otherwise the node keeps its cached value and its dependents observe no
// change.
//
// One Engine is fully self-contained: graph, value cache, batch queue and
// per-session error sink. Several engines can coexist in one process
// without sharing anything. Registration happens up front; updates may
// then arrive from any goroutine, including from inside a running
// producer, and are applied strictly in arrival order.
package reactor
