// Package socketio provides an emit sink that forwards cell changes to a
// socket.io server, one event per change.
package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/fluxgridgo/internal/bind"
	"github.com/vk/fluxgridgo/internal/ctxlog"
	"github.com/vk/fluxgridgo/internal/registry"
)

// DefaultEmitEvent is the event name used when the emit block does not set
// one.
const DefaultEmitEvent = "cell:changed"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Options defines the emit block attributes understood by the socketio sink.
type Options struct {
	URL                string `hcl:"url"`
	Namespace          string `hcl:"namespace,optional"`
	EmitEvent          string `hcl:"emit_event,optional"`
	ConnectTimeout     string `hcl:"connect_timeout,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}

// Sink emits one event per pushed cell change over a shared socket.io
// connection established at startup.
type Sink struct {
	io    *socket.Socket
	event string
}

// connect dials the server and blocks until the handshake settles or the
// timeout expires.
func connect(ctx context.Context, opts *Options) (*socket.Socket, error) {
	logger := ctxlog.FromContext(ctx).With("sink", "socketio", "url", opts.URL)
	logger.Debug("Connecting emit sink.")

	timeout := 10 * time.Second
	if opts.ConnectTimeout != "" {
		parsed, err := time.ParseDuration(opts.ConnectTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to parse connect_timeout: %w", err)
		}
		timeout = parsed
	}

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	sockOpts := socket.DefaultOptions()
	sockOpts.SetPath(parsedURL.Path)
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)

	done := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "namespace", opts.Namespace, "sid", io.Id())
		select {
		case done <- nil:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		connectErr := fmt.Errorf("socket.io connection failed")
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				connectErr = err
			}
		}
		select {
		case done <- connectErr:
		default:
		}
	})

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	io.Connect()
	select {
	case <-opCtx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("timed out while waiting for initial connection to %s", opts.URL)
	case err := <-done:
		if err != nil {
			io.Disconnect()
			return nil, err
		}
		return io, nil
	}
}

// Push implements bind.Sink. The payload carries the cell name and its value
// re-encoded as plain JSON data, so any socket.io consumer can read it.
func (s *Sink) Push(ctx context.Context, name string, value cty.Value) error {
	data, err := ctyjson.Marshal(value, value.Type())
	if err != nil {
		return fmt.Errorf("encoding value of '%s': %w", name, err)
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("re-encoding value of '%s': %w", name, err)
	}
	return s.io.Emit(s.event, map[string]any{"name": name, "value": decoded})
}

// Close implements bind.Sink.
func (s *Sink) Close(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("Disconnecting socket client")
	s.io.Disconnect()
	return nil
}

// Register registers the sink factory with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSink("socketio", func(ctx context.Context, options hcl.Body) (bind.Sink, error) {
		opts := &Options{}
		if diags := gohcl.DecodeBody(options, nil, opts); diags.HasErrors() {
			return nil, diags
		}

		io, err := connect(ctx, opts)
		if err != nil {
			return nil, err
		}

		event := opts.EmitEvent
		if event == "" {
			event = DefaultEmitEvent
		}
		return &Sink{io: io, event: event}, nil
	})
}
