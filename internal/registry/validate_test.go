package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/vk/fluxgridgo/internal/bind"
	"github.com/vk/fluxgridgo/internal/config"
	"github.com/vk/fluxgridgo/internal/ctxlog"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func expr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	parsed, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return parsed
}

func nullSinkFactory(context.Context, hcl.Body) (bind.Sink, error) {
	return nil, nil
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		grid        func(t *testing.T) *config.Grid
		sinks       []string
		errContains []string
	}{
		{
			name: "resolved grid passes",
			grid: func(t *testing.T) *config.Grid {
				return &config.Grid{
					Inputs: []*config.Input{{Name: "x"}},
					Cells: []*config.Cell{
						{Name: "a", Formula: expr(t, "x * 2")},
						{Name: "b", Formula: expr(t, "a + x")},
					},
					Emits: []*config.Emit{{Sink: "print", Cells: []string{"b", "x"}}},
				}
			},
			sinks: []string{"print"},
		},
		{
			name: "formula referencing an undeclared name fails",
			grid: func(t *testing.T) *config.Grid {
				return &config.Grid{
					Inputs: []*config.Input{{Name: "x"}},
					Cells:  []*config.Cell{{Name: "a", Formula: expr(t, "x + missing")}},
				}
			},
			errContains: []string{"cell 'a'", "'missing'"},
		},
		{
			name: "emit targeting an unregistered sink fails",
			grid: func(t *testing.T) *config.Grid {
				return &config.Grid{
					Cells: []*config.Cell{{Name: "a", Formula: expr(t, "1 + 1")}},
					Emits: []*config.Emit{{Sink: "nats"}},
				}
			},
			errContains: []string{"unknown sink 'nats'"},
		},
		{
			name: "emit watching an undeclared name fails",
			grid: func(t *testing.T) *config.Grid {
				return &config.Grid{
					Cells: []*config.Cell{{Name: "a", Formula: expr(t, "2")}},
					Emits: []*config.Emit{{Sink: "print", Cells: []string{"ghost"}}},
				}
			},
			sinks:       []string{"print"},
			errContains: []string{"emit 'print'", "'ghost'"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reg := New()
			for _, name := range tc.sinks {
				reg.RegisterSink(name, nullSinkFactory)
			}

			err := reg.Validate(testContext(), &config.Model{Grid: tc.grid(t)})

			if len(tc.errContains) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, fragment := range tc.errContains {
				assert.Contains(t, err.Error(), fragment)
			}
		})
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	t.Parallel()

	reg := New()
	m := &config.Model{Grid: &config.Grid{
		Cells: []*config.Cell{{Name: "a", Formula: expr(t, "nowhere * 2")}},
		Emits: []*config.Emit{{Sink: "void", Cells: []string{"gone"}}},
	}}

	err := reg.Validate(testContext(), m)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "'nowhere'")
	assert.Contains(t, err.Error(), "unknown sink 'void'")
	assert.Contains(t, err.Error(), "'gone'")
}

func TestRegisterPanicsOnDuplicates(t *testing.T) {
	t.Parallel()

	t.Run("function", func(t *testing.T) {
		reg := New()
		reg.RegisterFunction("f", function.Function{})
		assert.Panics(t, func() { reg.RegisterFunction("f", function.Function{}) })
	})

	t.Run("sink", func(t *testing.T) {
		reg := New()
		reg.RegisterSink("s", nullSinkFactory)
		assert.Panics(t, func() { reg.RegisterSink("s", nullSinkFactory) })
	})
}
