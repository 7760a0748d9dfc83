package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/fluxgridgo/internal/testutil"
)

func TestGridRun_Propagation(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
		input "base" {
			default = 4
		}

		input "rate" {
			default = 0.5
		}

		cell "scaled" {
			formula = base * rate
		}

		cell "label" {
			formula = format("scaled=%v", scaled)
		}
		`,
	}

	result := testutil.RunGrid(t, files)

	require.NoError(t, result.Err)
	require.NotNil(t, result.App)
	engine := result.App.Engine()

	scaled, ok := engine.Value("scaled")
	require.True(t, ok, "cell 'scaled' should have settled")
	require.True(t, scaled.RawEquals(cty.NumberFloatVal(2)), "unexpected value: %#v", scaled)

	label, ok := engine.Value("label")
	require.True(t, ok, "cell 'label' should have settled")
	require.Equal(t, "scaled=2", label.AsString())

	// The one-shot run prints the final snapshot in name order.
	require.Contains(t, result.LogOutput, `label = "scaled=2"`)
	require.Contains(t, result.LogOutput, "scaled = 2")
	require.Contains(t, result.LogOutput, "Propagation finished.")
}

func TestGridRun_MultipleFiles(t *testing.T) {
	t.Parallel()

	// Grids can be split across files and subdirectories; the loader merges
	// them into one graph before anything runs.
	files := map[string]string{
		"inputs.hcl": `
		input "greeting" {
			default = "hello"
		}
		`,
		"cells/format.hcl": `
		cell "loud" {
			formula = upper(greeting)
		}
		`,
	}

	result := testutil.RunGrid(t, files)

	require.NoError(t, result.Err)
	loud, ok := result.App.Engine().Value("loud")
	require.True(t, ok)
	require.Equal(t, "HELLO", loud.AsString())
}

func TestGridRun_ConstantCellsSettleWithoutInputs(t *testing.T) {
	t.Parallel()

	// A formula that references no other name still settles during startup.
	files := map[string]string{
		"main.hcl": `
		cell "motd" {
			formula = upper("ready")
		}
		`,
	}

	result := testutil.RunGrid(t, files)

	require.NoError(t, result.Err)
	motd, ok := result.App.Engine().Value("motd")
	require.True(t, ok, "constant cell should settle at startup")
	require.Equal(t, "READY", motd.AsString())
}

func TestGridRun_InputWithoutDefaultStaysUnset(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
		input "base" {
			default = 2
		}

		input "pending" {}

		cell "doubled" {
			formula = base * 2
		}

		cell "blocked" {
			formula = pending * 2
		}
		`,
	}

	result := testutil.RunGrid(t, files)

	require.NoError(t, result.Err)
	engine := result.App.Engine()

	doubled, ok := engine.Value("doubled")
	require.True(t, ok)
	require.True(t, doubled.RawEquals(cty.NumberIntVal(4)))

	// No default means no seed value, and nothing downstream of it runs.
	_, ok = engine.Value("pending")
	require.False(t, ok, "input without a default should stay unset")
	_, ok = engine.Value("blocked")
	require.False(t, ok, "cell downstream of an unset input should not run")
}

func TestGridRun_DefaultsMayCallFunctions(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
		input "window" {
			default = max(25, 10, 99)
		}

		cell "half" {
			formula = window / 2
		}
		`,
	}

	result := testutil.RunGrid(t, files)

	require.NoError(t, result.Err)
	engine := result.App.Engine()

	window, ok := engine.Value("window")
	require.True(t, ok)
	require.True(t, window.RawEquals(cty.NumberIntVal(99)))

	half, ok := engine.Value("half")
	require.True(t, ok)
	require.True(t, half.RawEquals(cty.NumberFloatVal(49.5)))
}
