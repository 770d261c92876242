package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const tildePrefixConstant = "~"

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander rewrites leading tilde shortcuts into absolute home-relative
// paths. The home directory lookup runs once and is cached for the lifetime of
// the expander.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	lookupFailure         error
	lookupOnce            sync.Once
}

// NewHomeExpander constructs a HomeExpander backed by the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom home directory provider.
func NewHomeExpanderWithProvider(homeDirectoryProvider HomeDirectoryProvider) *HomeExpander {
	if homeDirectoryProvider == nil {
		homeDirectoryProvider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: homeDirectoryProvider}
}

// Expand resolves a leading "~" or "~/" prefix to the user's home directory.
// Paths without the prefix, and any path when the home lookup fails, pass
// through unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, tildePrefixConstant) {
		return candidatePath
	}

	homeDirectory := expander.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	if candidatePath == tildePrefixConstant {
		return homeDirectory
	}

	for _, separator := range []string{"/", string(os.PathSeparator)} {
		tildePrefixWithSeparator := tildePrefixConstant + separator
		if strings.HasPrefix(candidatePath, tildePrefixWithSeparator) {
			return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildePrefixWithSeparator))
		}
	}

	return candidatePath
}

func (expander *HomeExpander) resolveHomeDirectory() string {
	expander.lookupOnce.Do(func() {
		expander.homeDirectory, expander.lookupFailure = expander.homeDirectoryProvider()
	})
	if expander.lookupFailure != nil {
		return ""
	}
	return expander.homeDirectory
}
