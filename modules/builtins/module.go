// Package builtins registers the standard formula function library: string,
// numeric, collection and JSON helpers drawn from cty's stdlib, plus a
// hand-built clamp.
package builtins

import (
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/vk/fluxgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ClampFunc constrains a number to the inclusive range [min, max].
var ClampFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "value", Type: cty.Number},
		{Name: "min", Type: cty.Number},
		{Name: "max", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		value, lower, upper := args[0], args[1], args[2]
		if upper.LessThan(lower).True() {
			return cty.NilVal, function.NewArgErrorf(2, "max must not be less than min")
		}
		if value.LessThan(lower).True() {
			return lower, nil
		}
		if value.GreaterThan(upper).True() {
			return upper, nil
		}
		return value, nil
	},
})

// Register registers the builtin formula functions.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFunction("abs", stdlib.AbsoluteFunc)
	r.RegisterFunction("ceil", stdlib.CeilFunc)
	r.RegisterFunction("clamp", ClampFunc)
	r.RegisterFunction("coalesce", stdlib.CoalesceFunc)
	r.RegisterFunction("concat", stdlib.ConcatFunc)
	r.RegisterFunction("floor", stdlib.FloorFunc)
	r.RegisterFunction("format", stdlib.FormatFunc)
	r.RegisterFunction("jsondecode", stdlib.JSONDecodeFunc)
	r.RegisterFunction("jsonencode", stdlib.JSONEncodeFunc)
	r.RegisterFunction("length", stdlib.LengthFunc)
	r.RegisterFunction("lower", stdlib.LowerFunc)
	r.RegisterFunction("max", stdlib.MaxFunc)
	r.RegisterFunction("min", stdlib.MinFunc)
	r.RegisterFunction("strlen", stdlib.StrlenFunc)
	r.RegisterFunction("upper", stdlib.UpperFunc)
}
