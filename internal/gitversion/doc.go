// Package gitversion models probed tool versions and the gates that guard
// version-dependent behavior.
//
// It exposes Version for ordered major/minor/patch comparisons and Gate for
// tracking the resolved location and probed version of one external tool,
// answering minimum-version queries in both advisory and enforcing modes.
package gitversion
