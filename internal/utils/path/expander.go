// Package pathutils resolves user-supplied paths from flags and configuration.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	homeShortcutConstant            = "~"
	variableReferencePrefixConstant = "${"
	variableReferenceSuffixConstant = "}"
)

// HomeDirectoryProvider resolves the current user's home directory.
type HomeDirectoryProvider func() (string, error)

// EnvironmentLookup reads an environment variable.
type EnvironmentLookup func(name string) (string, bool)

// Expander rewrites a leading "~" to the home directory and substitutes
// $NAME and ${NAME} references. Unknown variables are left as written.
type Expander struct {
	homeDirectoryProvider HomeDirectoryProvider
	environmentLookup     EnvironmentLookup
	homeDirectoryOnce     sync.Once
	homeDirectory         string
}

// NewExpander constructs an Expander backed by the process environment.
func NewExpander() *Expander {
	return NewExpanderWithDependencies(os.UserHomeDir, os.LookupEnv)
}

// NewExpanderWithDependencies constructs an Expander with explicit lookups.
func NewExpanderWithDependencies(homeDirectoryProvider HomeDirectoryProvider, environmentLookup EnvironmentLookup) *Expander {
	if homeDirectoryProvider == nil {
		homeDirectoryProvider = os.UserHomeDir
	}
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	return &Expander{homeDirectoryProvider: homeDirectoryProvider, environmentLookup: environmentLookup}
}

// Expand returns candidatePath with the home shortcut and variables resolved.
// Blank input stays blank.
func (expander *Expander) Expand(candidatePath string) string {
	trimmed := strings.TrimSpace(candidatePath)
	if expander == nil || len(trimmed) == 0 {
		return trimmed
	}

	expanded := os.Expand(trimmed, func(name string) string {
		if value, exists := expander.environmentLookup(name); exists {
			return value
		}
		return variableReferencePrefixConstant + name + variableReferenceSuffixConstant
	})
	return expander.expandHome(expanded)
}

func (expander *Expander) expandHome(candidatePath string) string {
	if !strings.HasPrefix(candidatePath, homeShortcutConstant) {
		return candidatePath
	}
	remainder := strings.TrimPrefix(candidatePath, homeShortcutConstant)
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != os.PathSeparator {
		// "~user" forms are not supported.
		return candidatePath
	}

	homeDirectory := expander.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}
	return filepath.Join(homeDirectory, remainder)
}

func (expander *Expander) resolveHomeDirectory() string {
	expander.homeDirectoryOnce.Do(func() {
		directory, lookupError := expander.homeDirectoryProvider()
		if lookupError == nil {
			expander.homeDirectory = directory
		}
	})
	return expander.homeDirectory
}
