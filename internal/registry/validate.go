package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/fluxgridgo/internal/config"
	"github.com/vk/fluxgridgo/internal/ctxlog"
)

// Validate performs a strict parity check between the loaded grid model and
// the Go-side registrations. Every name a grid references must resolve:
// formulas may only read declared inputs and cells, and emit blocks may only
// target registered sinks and declared names. Function calls are checked
// separately when cells are compiled, where the offending source range is
// still at hand.
func (r *Registry) Validate(ctx context.Context, model *config.Model) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	declared := make(map[string]struct{})
	for _, input := range model.Grid.Inputs {
		declared[input.Name] = struct{}{}
	}
	for _, cell := range model.Grid.Cells {
		declared[cell.Name] = struct{}{}
	}

	for _, cell := range model.Grid.Cells {
		if cell.Formula == nil {
			continue
		}
		for _, traversal := range cell.Formula.Variables() {
			name := traversal.RootName()
			if _, ok := declared[name]; !ok {
				errs = append(errs, fmt.Sprintf("cell '%s': formula references '%s', which is not a declared input or cell (%s)",
					cell.Name, name, traversal.SourceRange()))
			}
		}
	}

	for _, emit := range model.Grid.Emits {
		if _, ok := r.SinkRegistry[emit.Sink]; !ok {
			errs = append(errs, fmt.Sprintf("emit block targets unknown sink '%s'", emit.Sink))
		}
		for _, cellName := range emit.Cells {
			if _, ok := declared[cellName]; !ok {
				errs = append(errs, fmt.Sprintf("emit '%s': watches '%s', which is not a declared input or cell", emit.Sink, cellName))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validation passed.",
		"functions", len(r.FunctionRegistry), "sinks", len(r.SinkRegistry))
	return nil
}
