package layering

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	invalidLayerErrorTemplate    = "invalid configuration layer %q"
	invalidFileNameErrorTemplate = "invalid configuration file name %q"
	discoverLayerErrorTemplate   = "unable to search layer %s for %s: %w"
	wildcardSymbolConstant       = "*"
	pathSeparatorConstant        = "/"
	parentDirectoryTokenConstant = ".."
)

// ErrEmptyRoot indicates that a layout was requested without an installation root.
var ErrEmptyRoot = errors.New("installation root is not set")

// DefaultLayers lists the source directories from most general to most
// specific. Later layers override earlier ones.
var DefaultLayers = []string{
	"etc/system/default",
	"etc/apps/*/default",
	"etc/peer-apps/*/default",
	"etc/slave-apps/*/default",
	"etc/apps/*/local",
	"etc/system/local",
	"etc/peer-apps/*/local",
	"etc/slave-apps/*/local",
}

// Layout binds an ordered layer list to an installation root.
type Layout struct {
	root   string
	layers []string
}

// NewLayout validates layers and binds them to root. An empty layer list
// selects DefaultLayers.
func NewLayout(root string, layers []string) (Layout, error) {
	if len(strings.TrimSpace(root)) == 0 {
		return Layout{}, ErrEmptyRoot
	}
	if len(layers) == 0 {
		layers = DefaultLayers
	}

	normalizedLayers := make([]string, 0, len(layers))
	for _, layer := range layers {
		normalized := strings.Trim(filepath.ToSlash(strings.TrimSpace(layer)), pathSeparatorConstant)
		if len(normalized) == 0 || !doublestar.ValidatePattern(normalized) || containsParentToken(normalized) {
			return Layout{}, fmt.Errorf(invalidLayerErrorTemplate, layer)
		}
		normalizedLayers = append(normalizedLayers, normalized)
	}

	return Layout{root: root, layers: normalizedLayers}, nil
}

// Root returns the installation root.
func (layout Layout) Root() string {
	return layout.root
}

// Layers returns a copy of the layer patterns in precedence order.
func (layout Layout) Layers() []string {
	return append([]string(nil), layout.layers...)
}

// Discover returns the paths of every file named fileName across the layers,
// ordered so that merging them in sequence yields the effective view. Within
// a wildcard layer apps are returned in reverse ASCII order so the ASCII-first
// app is applied last.
func (layout Layout) Discover(fileName string) ([]string, error) {
	if len(fileName) == 0 || strings.ContainsAny(fileName, `/\`) || strings.ContainsAny(fileName, "*?[{") {
		return nil, fmt.Errorf(invalidFileNameErrorTemplate, fileName)
	}

	rootFilesystem := os.DirFS(layout.root)
	var discovered []string
	for _, layer := range layout.layers {
		matches, globError := doublestar.Glob(rootFilesystem, path.Join(layer, fileName), doublestar.WithFilesOnly())
		if globError != nil {
			return nil, fmt.Errorf(discoverLayerErrorTemplate, layer, fileName, globError)
		}
		if strings.Contains(layer, wildcardSymbolConstant) {
			sort.Sort(sort.Reverse(sort.StringSlice(matches)))
		}
		for _, match := range matches {
			discovered = append(discovered, filepath.Join(layout.root, filepath.FromSlash(match)))
		}
	}
	return discovered, nil
}

func containsParentToken(layer string) bool {
	for _, segment := range strings.Split(layer, pathSeparatorConstant) {
		if segment == parentDirectoryTokenConstant {
			return true
		}
	}
	return false
}
