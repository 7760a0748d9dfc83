package reactor

import "github.com/zclconf/go-cty/cty"

// batch is one atomic multi-input update. keys holds the sorted names so
// batch values apply in a deterministic order.
type batch struct {
	values map[string]cty.Value
	keys   []string
	handle *Handle
}

// batchQueue is a FIFO of pending batches. It is not safe for concurrent
// use on its own; the engine serializes access under its own mutex.
type batchQueue struct {
	items []*batch
}

func (q *batchQueue) enqueue(b *batch) {
	q.items = append(q.items, b)
}

// dequeue pops the oldest batch, or nil when the queue is empty.
func (q *batchQueue) dequeue() *batch {
	if len(q.items) == 0 {
		return nil
	}
	b := q.items[0]
	q.items[0] = nil // release the slot so the batch can be collected
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return b
}

func (q *batchQueue) len() int {
	return len(q.items)
}
