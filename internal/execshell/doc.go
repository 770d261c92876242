// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution with streamed or captured line delivery, and
// defines the abstractions used throughout gitgate to run git and git-lfs in
// a testable manner.
package execshell
