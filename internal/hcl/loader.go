package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/fluxgridgo/internal/config"
	"github.com/vk/fluxgridgo/internal/ctxlog"
	"github.com/vk/fluxgridgo/internal/fsutil"
	"github.com/vk/fluxgridgo/internal/schema"
)

// Loader is the HCL implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load discovers, parses and translates every grid file under the given
// paths into one merged model. Inputs and cells share one namespace, so a
// name declared twice anywhere in the load set is an error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindGridFiles(path)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	logger.Debug("Discovered grid files.", "count", len(files), "files", files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl grid files found under %v", paths)
	}

	model := &config.Model{Grid: &config.Grid{}}
	declaredIn := make(map[string]string)
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", file, diags)
		}

		var root schema.GridConfig
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %w", file, diags)
		}

		for _, input := range root.Inputs {
			if prev, taken := declaredIn[input.Name]; taken {
				return nil, fmt.Errorf("duplicate name '%s' in %s (already declared in %s)", input.Name, file, prev)
			}
			declaredIn[input.Name] = file
			model.Grid.Inputs = append(model.Grid.Inputs, l.translateInput(input))
		}
		for _, cell := range root.Cells {
			if prev, taken := declaredIn[cell.Name]; taken {
				return nil, fmt.Errorf("duplicate name '%s' in %s (already declared in %s)", cell.Name, file, prev)
			}
			declaredIn[cell.Name] = file
			model.Grid.Cells = append(model.Grid.Cells, l.translateCell(cell))
		}
		for _, emit := range root.Emits {
			model.Grid.Emits = append(model.Grid.Emits, l.translateEmit(emit))
		}

		logger.Debug("Grid file loaded.", "file", file,
			"inputs", len(root.Inputs), "cells", len(root.Cells), "emits", len(root.Emits))
	}

	return model, nil
}
