// Package gitmanager orchestrates version-gated git and git-lfs operations.
//
// Manager resolves the installed tools once via LoadExecutionInfo, probes and
// gates their versions, and exposes the public operation set as thin
// compositions of gitargs builders and execshell execution with sanitized
// child environments.
package gitmanager
