package reactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestBatchQueue(t *testing.T) {
	t.Run("dequeues in arrival order", func(t *testing.T) {
		var q batchQueue
		first := &batch{values: map[string]cty.Value{"x": num(1)}}
		second := &batch{values: map[string]cty.Value{"x": num(2)}}

		q.enqueue(first)
		q.enqueue(second)

		require.Equal(t, 2, q.len())
		assert.Same(t, first, q.dequeue())
		assert.Same(t, second, q.dequeue())
		assert.Equal(t, 0, q.len())
	})

	t.Run("dequeue on an empty queue returns nil", func(t *testing.T) {
		var q batchQueue
		assert.Nil(t, q.dequeue())
	})

	t.Run("drained queue accepts new batches", func(t *testing.T) {
		var q batchQueue
		q.enqueue(&batch{})
		q.dequeue()

		late := &batch{}
		q.enqueue(late)

		assert.Same(t, late, q.dequeue())
	})
}
