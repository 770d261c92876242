// Package flags provides helpers for binding standardized flags to Cobra
// commands, including yes/no style toggle flags and choice usage formatting.
package flags
