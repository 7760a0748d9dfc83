// Package schema defines the HCL shapes of a user's grid files. These
// structs exist purely for gohcl decoding; the loader translates them into
// the format-agnostic config model before anything else touches them.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// Input represents an `input` block: a named external value, optionally
// seeded by a default expression evaluated once at startup. Inputs change
// only through updates, never through formulas.
type Input struct {
	Name    string         `hcl:"name,label"`
	Default hcl.Expression `hcl:"default,optional"`
}

// Cell represents a `cell` block: a named computed node whose formula is
// re-evaluated whenever one of the names it references changes value.
type Cell struct {
	Name    string         `hcl:"name,label"`
	Formula hcl.Expression `hcl:"formula"`
}

// Emit represents an `emit` block: it routes changes of the listed cells
// to a named output sink. An empty cells list routes every change.
// Sink-specific options stay in the remaining body for the sink's own
// decode.
type Emit struct {
	Sink  string   `hcl:"sink,label"`
	Cells []string `hcl:"cells,optional"`
	Body  hcl.Body `hcl:",remain"`
}

// GridConfig represents the top-level structure of a user's grid file.
type GridConfig struct {
	Inputs []*Input `hcl:"input,block"`
	Cells  []*Cell  `hcl:"cell,block"`
	Emits  []*Emit  `hcl:"emit,block"`
	Body   hcl.Body `hcl:",remain"`
}
