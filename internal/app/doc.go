// Package app contains the core application wiring. It defines the main App
// struct, its configuration, and the run lifecycle, decoupled from the CLI
// entrypoint.
package app
