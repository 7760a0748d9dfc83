package integration_tests

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/fluxgridgo/internal/app"
	"github.com/vk/fluxgridgo/internal/testutil"
)

func TestGridWatch_AppliesUpdates(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
		input "price" {
			default = 10
		}

		cell "total" {
			formula = price * 2
		}
		`,
	}

	// Each line is one update batch; EOF ends the watch.
	input := strings.NewReader("price=21\n")
	cfg := app.Config{Watch: true}

	result := testutil.RunGridWithConfig(context.Background(), t, files, cfg, input)

	require.NoError(t, result.Err)
	require.Contains(t, result.LogOutput, "Watch input closed")

	total, ok := result.App.Engine().Value("total")
	require.True(t, ok)
	require.True(t, total.RawEquals(cty.NumberIntVal(42)), "unexpected value: %#v", total)
}

func TestGridWatch_ValueParsing(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
		input "tags" {
			default = []
		}

		input "note" {
			default = ""
		}

		cell "count" {
			formula = length(tags)
		}

		cell "loud" {
			formula = upper(note)
		}
		`,
	}

	// JSON syntax yields structured values; anything else is a string.
	input := strings.NewReader(`tags=["a", "b"]
note=hello there
`)
	cfg := app.Config{Watch: true}

	result := testutil.RunGridWithConfig(context.Background(), t, files, cfg, input)

	require.NoError(t, result.Err)
	engine := result.App.Engine()

	count, ok := engine.Value("count")
	require.True(t, ok)
	require.True(t, count.RawEquals(cty.NumberIntVal(2)), "unexpected value: %#v", count)

	loud, ok := engine.Value("loud")
	require.True(t, ok)
	require.Equal(t, "HELLO THERE", loud.AsString())
}

func TestGridWatch_SurvivesBadLinesAndFailures(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
		input "raw" {
			default = "{}"
		}

		input "price" {
			default = 1
		}

		cell "decoded" {
			formula = jsondecode(raw)
		}

		cell "total" {
			formula = price * 2
		}
		`,
	}

	// A comment, a malformed line, a line that breaks one cell, then a good
	// update. The watch loop has to get through all of them.
	input := strings.NewReader(`# warmup
this line has no equals sign
raw=notjson
price=5
`)
	cfg := app.Config{Watch: true}

	result := testutil.RunGridWithConfig(context.Background(), t, files, cfg, input)

	require.NoError(t, result.Err, "watch mode treats bad lines as events, not fatal errors")
	require.Contains(t, result.LogOutput, "Ignoring malformed update line")
	require.Contains(t, result.LogOutput, "Cell failed during propagation.")

	engine := result.App.Engine()

	// The failed cell keeps its pre-failure value.
	decoded, ok := engine.Value("decoded")
	require.True(t, ok)
	require.True(t, decoded.RawEquals(cty.EmptyObjectVal), "unexpected value: %#v", decoded)

	// The update after the failure still lands.
	total, ok := engine.Value("total")
	require.True(t, ok)
	require.True(t, total.RawEquals(cty.NumberIntVal(10)), "unexpected value: %#v", total)
}
