// Package gitenv builds sanitized child-process environments for git
// invocations.
//
// The sanitizer disables interactive credential prompts, injects a composed
// HTTP user agent, mirrors ambient configuration variables under normalized
// names, and drops the GIT_TRACE diagnostic family whose output would corrupt
// every parse-sensitive command.
package gitenv
