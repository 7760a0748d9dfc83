// Package registry provides the central "glue" for the module system.
//
// The Registry is responsible for storing mappings between the string
// identifiers used in grid files (function names in formulas, sink names in
// emit blocks) and the actual compiled Go objects that implement them.
// Compiled-in modules populate it at startup.
//
// After the grid model is loaded, the registry is validated against it to
// ensure that every name a grid references resolves to something registered,
// preventing a wide class of runtime errors before the engine starts.
package registry
