// Package cli constructs the gitgate command-line interface, wiring the Cobra
// command hierarchy, configuration loader, and structured logging primitives
// around the version-gated git command manager.
package cli
