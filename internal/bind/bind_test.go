package bind

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/fluxgridgo/internal/ctxlog"
)

type recordingSink struct {
	pushed []string
	closed bool
	fail   error
}

func (s *recordingSink) Push(_ context.Context, name string, _ cty.Value) error {
	if s.fail != nil {
		return s.fail
	}
	s.pushed = append(s.pushed, name)
	return nil
}

func (s *recordingSink) Close(_ context.Context) error {
	s.closed = true
	return s.fail
}

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func TestBroadcaster(t *testing.T) {
	t.Run("routes changes only to bindings that watch the cell", func(t *testing.T) {
		all := &recordingSink{}
		scoped := &recordingSink{}
		b := NewBroadcaster(
			NewBinding(all, nil),
			NewBinding(scoped, []string{"total"}),
		)
		hook := b.Hook(testContext())

		hook("total", cty.NumberIntVal(1))
		hook("other", cty.NumberIntVal(2))

		assert.Equal(t, []string{"total", "other"}, all.pushed)
		assert.Equal(t, []string{"total"}, scoped.pushed)
	})

	t.Run("a failing sink does not stop the others", func(t *testing.T) {
		bad := &recordingSink{fail: fmt.Errorf("broken pipe")}
		good := &recordingSink{}
		b := NewBroadcaster(NewBinding(bad, nil), NewBinding(good, nil))
		hook := b.Hook(testContext())

		hook("total", cty.NumberIntVal(1))

		assert.Equal(t, []string{"total"}, good.pushed)
	})

	t.Run("close visits every sink and joins errors", func(t *testing.T) {
		bad := &recordingSink{fail: fmt.Errorf("already gone")}
		good := &recordingSink{}
		b := NewBroadcaster(NewBinding(bad, nil), NewBinding(good, nil))

		err := b.Close(testContext())

		require.Error(t, err)
		assert.True(t, bad.closed)
		assert.True(t, good.closed)
	})
}
