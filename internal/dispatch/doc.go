// Package dispatch resolves a selected command against the built surface and
// invokes its entry point, converting every outcome (including interrupts
// and errors escaping the entry) into a process exit code. Nothing below
// this boundary is allowed to terminate the process.
package dispatch
