package hcl

import (
	"github.com/vk/fluxgridgo/internal/config"
	"github.com/vk/fluxgridgo/internal/schema"
)

// translateInput converts the HCL-specific input schema into the agnostic model.
func (l *Loader) translateInput(s *schema.Input) *config.Input {
	return &config.Input{
		Name:    s.Name,
		Default: s.Default,
	}
}

// translateCell converts the HCL-specific cell schema into the agnostic model.
func (l *Loader) translateCell(s *schema.Cell) *config.Cell {
	return &config.Cell{
		Name:    s.Name,
		Formula: s.Formula,
	}
}

// translateEmit converts the HCL-specific emit schema into the agnostic model.
func (l *Loader) translateEmit(s *schema.Emit) *config.Emit {
	return &config.Emit{
		Sink:    s.Sink,
		Cells:   s.Cells,
		Options: s.Body,
	}
}
