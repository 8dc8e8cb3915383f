// Package cli parses the global command-line surface: everything before the
// selected component command. Per-command flags belong to the components
// themselves and are parsed by the dispatcher.
package cli
