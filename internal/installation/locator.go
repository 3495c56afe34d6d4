// Package installation finds the root directory of a local installation.
package installation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	pathutils "github.com/temirov/goldencheck/internal/utils/path"
)

const (
	// HomeEnvironmentVariable names the variable that points at the installation root.
	HomeEnvironmentVariable = "SPLUNK_HOME"
	binaryDirectoryConstant = "bin"
	binaryNameConstant      = "splunk"
)

// ErrInstallationNotFound indicates that no candidate directory holds the product binary.
var ErrInstallationNotFound = errors.New("could not find a Splunk installation; set --splunk-home or SPLUNK_HOME")

// DefaultCandidates lists well-known installation directories in search order.
var DefaultCandidates = []string{
	"/opt/splunk",
	"/Applications/Splunk",
	"/usr/local/splunk",
	"~/splunk",
}

// EnvironmentLookup reads an environment variable.
type EnvironmentLookup func(name string) (string, bool)

// Locator resolves the installation root.
type Locator struct {
	environmentLookup EnvironmentLookup
	candidates        []string
	pathExpander      *pathutils.Expander
}

// NewLocator constructs a Locator backed by the process environment.
func NewLocator() *Locator {
	return NewLocatorWithDependencies(os.LookupEnv, DefaultCandidates, pathutils.NewExpander())
}

// NewLocatorWithDependencies constructs a Locator with explicit collaborators.
func NewLocatorWithDependencies(environmentLookup EnvironmentLookup, candidates []string, pathExpander *pathutils.Expander) *Locator {
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	if pathExpander == nil {
		pathExpander = pathutils.NewExpander()
	}
	return &Locator{
		environmentLookup: environmentLookup,
		candidates:        append([]string(nil), candidates...),
		pathExpander:      pathExpander,
	}
}

// Locate returns explicit when set, then the SPLUNK_HOME variable, then the
// first candidate directory that contains bin/splunk.
func (locator *Locator) Locate(explicit string) (string, error) {
	if trimmed := strings.TrimSpace(explicit); len(trimmed) > 0 {
		return filepath.Clean(locator.pathExpander.Expand(trimmed)), nil
	}

	if environmentValue, exists := locator.environmentLookup(HomeEnvironmentVariable); exists && len(strings.TrimSpace(environmentValue)) > 0 {
		return filepath.Clean(locator.pathExpander.Expand(strings.TrimSpace(environmentValue))), nil
	}

	for _, candidate := range locator.candidates {
		expanded := filepath.Clean(locator.pathExpander.Expand(candidate))
		if HasBinary(expanded) {
			return expanded, nil
		}
	}
	return "", ErrInstallationNotFound
}

// BinaryPath returns the path of the product binary under root.
func BinaryPath(root string) string {
	return filepath.Join(root, binaryDirectoryConstant, binaryNameConstant)
}

// HasBinary reports whether root contains an executable regular bin/splunk.
func HasBinary(root string) bool {
	info, statError := os.Stat(BinaryPath(root))
	if statError != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
