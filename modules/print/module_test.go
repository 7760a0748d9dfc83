package print

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestSinkPush(t *testing.T) {
	t.Parallel()

	t.Run("writes one json line per change", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		sink := NewSink(&buf, "")

		require.NoError(t, sink.Push(context.Background(), "total", cty.NumberIntVal(7)))
		require.NoError(t, sink.Push(context.Background(), "label", cty.StringVal("ready")))

		assert.Equal(t, "total = 7\nlabel = \"ready\"\n", buf.String())
	})

	t.Run("applies the configured prefix", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		sink := NewSink(&buf, ">> ")

		require.NoError(t, sink.Push(context.Background(), "a", cty.True))

		assert.Equal(t, ">> a = true\n", buf.String())
	})

	t.Run("encodes structured values as json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		sink := NewSink(&buf, "")

		value := cty.ObjectVal(map[string]cty.Value{
			"count": cty.NumberIntVal(2),
			"tags":  cty.ListVal([]cty.Value{cty.StringVal("x")}),
		})
		require.NoError(t, sink.Push(context.Background(), "obj", value))

		assert.Equal(t, "obj = {\"count\":2,\"tags\":[\"x\"]}\n", buf.String())
	})
}
