package reactor

import "log/slog"

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger sets the logger used for engine bookkeeping. The same logger
// is handed to producers through their context.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEqualFunc overrides the deep-equality predicate used for change
// detection.
func WithEqualFunc(eq EqualFunc) Option {
	return func(e *Engine) {
		e.eq = eq
	}
}

// WithUpstreamResolver overrides how upstream names are derived from a
// producer during registration.
func WithUpstreamResolver(resolve UpstreamResolver) Option {
	return func(e *Engine) {
		e.resolve = resolve
	}
}

// WithChangeHook installs a callback fired whenever a node's cached value
// changes, including changes applied directly from batch values.
func WithChangeHook(hook ChangeHook) Option {
	return func(e *Engine) {
		e.hook = hook
	}
}
