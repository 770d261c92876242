// Package gitargs composes argument vectors for git and git-lfs operations.
//
// Every builder is a pure function of the resolved tool version and the
// operation parameters, which keeps version-conditional flag selection
// unit-testable without spawning processes.
package gitargs
