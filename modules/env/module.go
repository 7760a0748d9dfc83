// Package env exposes process environment variables to grid formulas.
// Formulas only re-evaluate when an upstream cell changes, so these
// functions observe the environment as of that evaluation, not live.
package env

import (
	"os"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/vk/fluxgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// EnvFunc returns the value of one environment variable, or an empty string
// when it is not set.
var EnvFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

// EnvAllFunc returns every environment variable as a map of strings.
var EnvAllFunc = function.New(&function.Spec{
	Type: function.StaticReturnType(cty.Map(cty.String)),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		envMap := make(map[string]cty.Value)
		for _, entry := range os.Environ() {
			pair := strings.SplitN(entry, "=", 2)
			if len(pair) == 2 {
				envMap[pair[0]] = cty.StringVal(pair[1])
			}
		}
		if len(envMap) == 0 {
			return cty.MapValEmpty(cty.String), nil
		}
		return cty.MapVal(envMap), nil
	},
})

// Register registers the environment functions.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFunction("env", EnvFunc)
	r.RegisterFunction("envall", EnvAllFunc)
}
