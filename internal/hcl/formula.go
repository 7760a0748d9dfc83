package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/vk/fluxgridgo/internal/config"
	"github.com/vk/fluxgridgo/internal/reactor"
)

// ReferencedNames returns the distinct variable root names of an
// expression in first-reference order. This order becomes the compiled
// producer's upstream argument order.
func ReferencedNames(expr hcl.Expression) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, traversal := range expr.Variables() {
		name := traversal.RootName()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// FunctionCalls returns the sorted names of every function called anywhere
// inside an expression, including nested and template calls. Expressions
// from non-native syntaxes yield none.
func FunctionCalls(expr hcl.Expression) []string {
	syntaxExpr, ok := expr.(hclsyntax.Expression)
	if !ok {
		return nil
	}

	found := make(map[string]struct{})
	hclsyntax.VisitAll(syntaxExpr, func(node hclsyntax.Node) hcl.Diagnostics {
		if call, ok := node.(*hclsyntax.FunctionCallExpr); ok {
			found[call.Name] = struct{}{}
		}
		return nil
	})

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CompileCell turns one cell definition into a reactor producer. The
// formula's referenced names become the producer's upstreams; every
// invocation re-evaluates the formula against the freshly gathered
// upstream values. Unknown function calls are rejected here so they
// surface at startup rather than mid-propagation.
func CompileCell(cell *config.Cell, funcs map[string]function.Function) (reactor.Producer, error) {
	if cell.Formula == nil {
		return reactor.Producer{}, fmt.Errorf("cell '%s' has no formula", cell.Name)
	}
	for _, call := range FunctionCalls(cell.Formula) {
		if _, ok := funcs[call]; !ok {
			return reactor.Producer{}, fmt.Errorf("cell '%s' calls unknown function '%s' at %s", cell.Name, call, cell.Formula.Range())
		}
	}

	upstream := ReferencedNames(cell.Formula)
	formula := cell.Formula

	fn := func(_ context.Context, args []cty.Value) (cty.Value, error) {
		vars := make(map[string]cty.Value, len(upstream))
		for i, name := range upstream {
			vars[name] = args[i]
		}
		val, diags := formula.Value(&hcl.EvalContext{Variables: vars, Functions: funcs})
		if diags.HasErrors() {
			return cty.NilVal, diags
		}
		return val, nil
	}

	return reactor.Producer{Name: cell.Name, Upstream: upstream, Fn: fn}, nil
}

// CompileCells compiles every cell of the model.
func CompileCells(model *config.Model, funcs map[string]function.Function) ([]reactor.Producer, error) {
	producers := make([]reactor.Producer, 0, len(model.Grid.Cells))
	for _, cell := range model.Grid.Cells {
		p, err := CompileCell(cell, funcs)
		if err != nil {
			return nil, err
		}
		producers = append(producers, p)
	}
	return producers, nil
}
