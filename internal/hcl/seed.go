package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/vk/fluxgridgo/internal/config"
)

// EvaluateSeed computes the initial batch for a freshly registered grid:
// every input default plus every constant cell (a formula referencing no
// other names), evaluated with formula functions only. A default that
// evaluates to null counts as absent, matching how gohcl decodes a missing
// optional expression. Constant cells have to be seeded because propagation
// only ever reaches nodes downstream of an updated name.
func EvaluateSeed(model *config.Model, funcs map[string]function.Function) (map[string]cty.Value, error) {
	seed := make(map[string]cty.Value)
	evalCtx := &hcl.EvalContext{Functions: funcs}

	for _, input := range model.Grid.Inputs {
		if input.Default == nil {
			continue
		}
		value, diags := input.Default.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating default for input '%s': %w", input.Name, diags)
		}
		if value.IsNull() {
			continue
		}
		seed[input.Name] = value
	}

	for _, cell := range model.Grid.Cells {
		if cell.Formula == nil || len(cell.Formula.Variables()) > 0 {
			continue
		}
		value, diags := cell.Formula.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating constant cell '%s': %w", cell.Name, diags)
		}
		seed[cell.Name] = value
	}

	return seed, nil
}
