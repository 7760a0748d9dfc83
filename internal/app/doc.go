// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the grid lifecycle from loading and
// validation through seeding, propagation, and watch mode, decoupled from
// any specific entrypoint like a CLI or server.
package app
