package reactor

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// DuplicateNodeError reports an attempt to register a node name that is
// already taken by an earlier registration.
type DuplicateNodeError struct {
	Name string
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("node '%s' is already registered", e.Name)
}

// InvalidProducerError reports a registration whose producer function
// cannot be invoked.
type InvalidProducerError struct {
	Name string
}

func (e *InvalidProducerError) Error() string {
	return fmt.Sprintf("producer for node '%s' is not invocable", e.Name)
}

// CycleError reports a dependency cycle found while computing the
// downstream closure of a batch. Path lists the node names along the
// cycle, with the repeated node at both ends. A batch that hits a cycle is
// never applied, not even partially.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Path, " -> "))
}

// InvalidBatchValueError reports a batch entry whose value is missing or
// not yet fully known. The batch is rejected before any state changes.
type InvalidBatchValueError struct {
	Name string
}

func (e *InvalidBatchValueError) Error() string {
	return fmt.Sprintf("batch value for '%s' is not a finished value", e.Name)
}

// NodeError records a single producer failure during a propagation
// session. Failures land in the engine's error sink instead of failing the
// batch; the failed node keeps its previous value and its downstream is
// not recomputed for that batch.
type NodeError struct {
	// Node is the name of the node whose producer failed.
	Node string
	// Args holds the upstream values the producer was invoked with, in
	// declared upstream order.
	Args []cty.Value
	// Err is the producer's own error.
	Err error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node '%s' failed: %v", e.Node, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}
