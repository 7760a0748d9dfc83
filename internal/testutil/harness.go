package testutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/fluxgridgo/internal/app"
	"github.com/vk/fluxgridgo/internal/hcl"
	"github.com/vk/fluxgridgo/internal/registry"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
}

// RunGrid provides a standardized harness for running a grid end to end in
// one-shot mode with a default background context. When no modules are given
// the app falls back to its compiled-in set; tests that register their own
// modules must also pass the built-in ones their formulas rely on.
func RunGrid(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunGridWithConfig(context.Background(), t, files, app.Config{}, strings.NewReader(""), modules...)
}

// RunGridWithConfig is the full-control variant of RunGrid: the caller picks
// the context, config overrides, and the input stream for watch mode.
func RunGridWithConfig(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config, inR io.Reader, modules ...registry.Module) *HarnessResult {
	t.Helper()

	// 1. Write all HCL files into a temporary grid directory. Relative paths
	//    with subdirectories are allowed and created on the fly.
	gridDir := filepath.Join(t.TempDir(), "grid")
	require.NoError(t, os.Mkdir(gridDir, 0755))

	for name, content := range files {
		filePath := filepath.Join(gridDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	// 2. Point the app at the temporary directory, defaulting to verbose
	//    text logs so assertions can grep the output.
	cfg.GridPath = gridDir
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	logBuffer := &SafeBuffer{}
	loader := hcl.NewLoader()

	// 3. Startup errors arrive as panics, so construct the app in a closure
	//    that converts them into the result's Err field.
	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				if os.Getenv("FLUXGRID_TEST_LOGS") == "true" {
					t.Logf("--- HARNESS RECOVERED PANIC ---\n%q", fmt.Sprintf("%v", r))
				}
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, inR, &cfg, loader, modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
			App:       nil,
		}
	}

	runErr := testApp.Run(ctx)

	if os.Getenv("FLUXGRID_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
	}
}
