// Package gitoutput extracts structured values from captured command output.
//
// Both extraction routines are best-effort: an output that does not contain
// exactly one unambiguous match yields a nil result rather than an error, and
// callers decide how to treat the absence.
package gitoutput
