package app

import (
	"context"
	"fmt"
	"sort"

	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/vk/fluxgridgo/internal/ctxlog"
)

// Run executes the main application logic: seed the grid, then either exit
// after the initial propagation settles (run mode) or keep absorbing updates
// from the input stream (watch mode).
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")
	defer a.closeSinks(ctx)

	if a.config.Watch && a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
		defer a.closeHealthcheckServer()
	}

	a.logger.Info("🚀 Seeding grid...", "values", len(a.seed))
	if err := a.seedGrid(ctx); err != nil {
		return err
	}

	if a.config.Watch {
		return a.watch(ctx)
	}

	failures := a.engine.Errors()
	for _, nodeErr := range failures {
		a.logger.Error("Cell failed during propagation.", "cell", nodeErr.Node, "error", nodeErr.Err)
	}
	a.printSnapshot()
	a.logger.Info("🏁 Propagation finished.", "failures", len(failures))

	if len(failures) > 0 {
		return fmt.Errorf("%d cell(s) failed during propagation", len(failures))
	}
	return nil
}

// seedGrid applies the initial batch of input defaults and constant cells
// and waits for its wavefront to drain.
func (a *App) seedGrid(ctx context.Context) error {
	if len(a.seed) == 0 {
		a.logger.Debug("Nothing to seed, the grid declares no defaults.")
		return nil
	}

	handle, err := a.engine.Update(a.seed)
	if err != nil {
		return fmt.Errorf("failed to apply seed batch: %w", err)
	}
	if err := handle.Wait(ctx); err != nil {
		return fmt.Errorf("seed propagation: %w", err)
	}
	a.logger.Debug("Seed batch absorbed.")
	return nil
}

// printSnapshot writes every cached value to the application output, one
// `name = <json>` line in name order.
func (a *App) printSnapshot() {
	snapshot := a.engine.Snapshot()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := snapshot[name]
		data, err := ctyjson.Marshal(value, value.Type())
		if err != nil {
			a.logger.Warn("Value not printable as JSON.", "name", name, "error", err)
			continue
		}
		fmt.Fprintf(a.outW, "%s = %s\n", name, data)
	}
}

// closeSinks releases every emit sink once the run is over.
func (a *App) closeSinks(ctx context.Context) {
	if err := a.caster.Close(ctx); err != nil {
		a.logger.Warn("Closing emit sinks failed.", "error", err)
	}
}
