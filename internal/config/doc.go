// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading it from various
// sources.
//
// The config.Model is the single source of truth for the reactor wiring:
// the app compiles its cells into producers and its emit blocks into
// sinks. Concrete loader implementations, such as HCL, live in separate
// packages.
package config
