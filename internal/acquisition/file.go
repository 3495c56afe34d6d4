package acquisition

import (
	"context"

	"github.com/temirov/goldencheck/internal/conffile"
	"github.com/temirov/goldencheck/internal/layering"
)

// FileStrategy merges the layered files of an installation on disk.
type FileStrategy struct {
	layout layering.Layout
}

// NewFileStrategy constructs a FileStrategy over layout.
func NewFileStrategy(layout layering.Layout) *FileStrategy {
	return &FileStrategy{layout: layout}
}

// Name implements Strategy.
func (strategy *FileStrategy) Name() StrategyName {
	return StrategyFile
}

// Fetch implements Strategy. Layers are merged most general first so that
// more specific layers override.
func (strategy *FileStrategy) Fetch(executionContext context.Context, fileName string) (*conffile.Configuration, error) {
	paths, discoverError := strategy.layout.Discover(fileName)
	if discoverError != nil {
		return nil, &StrategyError{Strategy: StrategyFile, File: fileName, Cause: discoverError}
	}
	if len(paths) == 0 {
		return nil, &StrategyError{Strategy: StrategyFile, File: fileName, Cause: ErrNotCollected}
	}

	merged := conffile.NewConfiguration(fileName)
	for _, path := range paths {
		if contextError := executionContext.Err(); contextError != nil {
			return nil, &StrategyError{Strategy: StrategyFile, File: fileName, Cause: contextError}
		}
		layer, parseError := conffile.ParseFile(fileName, path)
		if parseError != nil {
			return nil, &StrategyError{Strategy: StrategyFile, File: fileName, Cause: parseError}
		}
		merged.Merge(layer)
	}
	return merged, nil
}
