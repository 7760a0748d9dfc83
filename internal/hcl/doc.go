// Package hcl provides the concrete HCL implementation for the
// configuration loading interface defined in the `config` package. It is
// responsible for file parsing, HCL-to-model translation, and compiling
// cell formulas into reactor producers.
package hcl
