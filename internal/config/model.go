package config

import (
	"github.com/hashicorp/hcl/v2"
)

// Model is the unified, format-agnostic representation of the entire
// application configuration: the reactive grid assembled from every loaded
// file.
type Model struct {
	Grid *Grid
}

// Grid represents the user's reactive graph definition.
type Grid struct {
	Inputs []*Input
	Cells  []*Cell
	Emits  []*Emit
}

// Input is the format-agnostic representation of an `input` block. Default
// stays an unevaluated expression; the app evaluates it once when seeding
// the engine.
type Input struct {
	Name    string
	Default hcl.Expression
}

// Cell is the format-agnostic representation of a `cell` block. The
// formula's variable references define the cell's upstream dependencies.
type Cell struct {
	Name    string
	Formula hcl.Expression
}

// Emit is the format-agnostic representation of an `emit` block. Options
// holds the sink-specific attributes for the sink factory to decode.
type Emit struct {
	Sink    string
	Cells   []string
	Options hcl.Body
}
