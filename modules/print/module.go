// Package print provides the stdout emit sink. Each pushed cell change is
// written as one `name = <json>` line.
package print

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/vk/fluxgridgo/internal/bind"
	"github.com/vk/fluxgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Options defines the emit block attributes understood by the print sink.
type Options struct {
	Prefix string `hcl:"prefix,optional"`
}

// Sink writes one line per pushed change.
type Sink struct {
	w      io.Writer
	prefix string
}

// NewSink returns a print sink writing to w.
func NewSink(w io.Writer, prefix string) *Sink {
	return &Sink{w: w, prefix: prefix}
}

// Push implements bind.Sink.
func (s *Sink) Push(ctx context.Context, name string, value cty.Value) error {
	data, err := ctyjson.Marshal(value, value.Type())
	if err != nil {
		return fmt.Errorf("encoding value of '%s': %w", name, err)
	}
	_, err = fmt.Fprintf(s.w, "%s%s = %s\n", s.prefix, name, data)
	return err
}

// Close implements bind.Sink. The print sink holds nothing to release.
func (s *Sink) Close(ctx context.Context) error {
	return nil
}

// Register registers the sink factory with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSink("print", func(ctx context.Context, options hcl.Body) (bind.Sink, error) {
		opts := &Options{}
		if options != nil {
			if diags := gohcl.DecodeBody(options, nil, opts); diags.HasErrors() {
				return nil, diags
			}
		}
		return NewSink(os.Stdout, opts.Prefix), nil
	})
}
