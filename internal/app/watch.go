package app

import (
	"bufio"
	"context"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// watch keeps the process alive, turning every `name=value` line read from
// the input stream into one update batch. Empty lines and lines starting
// with '#' are skipped. The loop ends on EOF or context cancellation.
func (a *App) watch(ctx context.Context) error {
	a.logger.Info("👁 Watch mode started, reading name=value lines.")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(a.inR)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			a.logger.Error("Reading updates failed.", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Watch mode interrupted, shutting down.")
			return nil
		case line, ok := <-lines:
			if !ok {
				a.logger.Info("Watch input closed, shutting down.")
				return nil
			}
			a.applyWatchLine(ctx, line)
		}
	}
}

// applyWatchLine parses one update line and pushes it through the engine.
// Malformed lines and failed cells are logged, never fatal: the watch loop
// has to survive whatever arrives on stdin.
func (a *App) applyWatchLine(ctx context.Context, line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	name, raw, found := strings.Cut(line, "=")
	if !found {
		a.logger.Warn("Ignoring malformed update line, want name=value.", "line", line)
		return
	}
	name = strings.TrimSpace(name)
	value := parseWatchValue(strings.TrimSpace(raw))

	handle, err := a.engine.Update(map[string]cty.Value{name: value})
	if err != nil {
		a.logger.Warn("Update rejected.", "name", name, "error", err)
		return
	}
	if err := handle.Wait(ctx); err != nil {
		a.logger.Warn("Update failed.", "name", name, "error", err)
		return
	}

	for _, nodeErr := range a.engine.Errors() {
		a.logger.Error("Cell failed during propagation.", "cell", nodeErr.Node, "error", nodeErr.Err)
	}
	a.logger.Debug("Update absorbed.", "name", name)
}

// parseWatchValue decodes the value side of an update line as JSON, so
// numbers, booleans, lists and objects all work. Anything that does not
// parse as JSON is taken as a plain string.
func parseWatchValue(raw string) cty.Value {
	impliedType, err := ctyjson.ImpliedType([]byte(raw))
	if err == nil {
		if value, err := ctyjson.Unmarshal([]byte(raw), impliedType); err == nil {
			return value
		}
	}
	return cty.StringVal(raw)
}
