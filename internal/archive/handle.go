package archive

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/temirov/goldencheck/internal/layering"
)

const (
	extractionDirectoryPatternConstant = "goldencheck_diag_"
	installationSearchDepthConstant    = 3
	bundleFieldConstant                = "bundle"
	directoryFieldConstant             = "directory"
	installationFieldConstant          = "installation_root"
	extractedMessageConstant           = "Extracted diagnostic bundle"
	removedMessageConstant             = "Removed diagnostic bundle extraction directory"
	removeFailedMessageConstant        = "Failed to remove diagnostic bundle extraction directory"
)

var systemDirectorySegments = []string{"etc", "system"}

// Options tune extraction.
type Options struct {
	TemporaryDirectory string
	MaxExtractedBytes  int64
	Layers             []string
	Logger             *zap.Logger
}

// Handle owns an extraction directory until Close is called.
type Handle struct {
	bundle           string
	root             string
	installationRoot string
	layout           layering.Layout
	logger           *zap.Logger
	closeOnce        sync.Once
	closeError       error
}

// Open extracts the gzip tar bundle at bundlePath into a fresh directory.
// Every failure is an *ArchiveError and leaves no directory behind.
func Open(executionContext context.Context, bundlePath string, options Options) (*Handle, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bundleFile, openError := os.Open(bundlePath)
	if openError != nil {
		return nil, &ArchiveError{Bundle: bundlePath, Cause: openError}
	}
	defer bundleFile.Close()

	extractionRoot, temporaryError := os.MkdirTemp(options.TemporaryDirectory, extractionDirectoryPatternConstant)
	if temporaryError != nil {
		return nil, &ArchiveError{Bundle: bundlePath, Cause: temporaryError}
	}

	handle, populateError := populate(executionContext, bundleFile, bundlePath, extractionRoot, options, logger)
	if populateError != nil {
		if removeError := os.RemoveAll(extractionRoot); removeError != nil {
			logger.Warn(removeFailedMessageConstant, zap.String(directoryFieldConstant, extractionRoot), zap.Error(removeError))
		}
		return nil, &ArchiveError{Bundle: bundlePath, Cause: populateError}
	}

	logger.Debug(
		extractedMessageConstant,
		zap.String(bundleFieldConstant, bundlePath),
		zap.String(directoryFieldConstant, extractionRoot),
		zap.String(installationFieldConstant, handle.installationRoot),
	)
	return handle, nil
}

func populate(executionContext context.Context, bundleFile *os.File, bundlePath string, extractionRoot string, options Options, logger *zap.Logger) (*Handle, error) {
	if extractError := newExtractor(extractionRoot, options.MaxExtractedBytes).extract(executionContext, bundleFile); extractError != nil {
		return nil, extractError
	}

	installationRoot, locateError := locateInstallationRoot(extractionRoot)
	if locateError != nil {
		return nil, locateError
	}

	layout, layoutError := layering.NewLayout(installationRoot, options.Layers)
	if layoutError != nil {
		return nil, layoutError
	}

	return &Handle{
		bundle:           bundlePath,
		root:             extractionRoot,
		installationRoot: installationRoot,
		layout:           layout,
		logger:           logger,
	}, nil
}

// locateInstallationRoot finds the shallowest directory holding etc/system.
func locateInstallationRoot(extractionRoot string) (string, error) {
	candidates := []string{extractionRoot}
	for depth := 0; depth <= installationSearchDepthConstant; depth++ {
		var nextCandidates []string
		for _, candidate := range candidates {
			if isDirectory(filepath.Join(append([]string{candidate}, systemDirectorySegments...)...)) {
				return candidate, nil
			}
			entries, readError := os.ReadDir(candidate)
			if readError != nil {
				continue
			}
			for _, entry := range entries {
				if entry.Type()&fs.ModeType == fs.ModeDir {
					nextCandidates = append(nextCandidates, filepath.Join(candidate, entry.Name()))
				}
			}
		}
		candidates = nextCandidates
	}
	return "", ErrInstallationNotFound
}

func isDirectory(path string) bool {
	info, statError := os.Stat(path)
	return statError == nil && info.IsDir()
}

// Bundle returns the path of the source bundle.
func (handle *Handle) Bundle() string {
	return handle.bundle
}

// Root returns the extraction directory.
func (handle *Handle) Root() string {
	return handle.root
}

// InstallationRoot returns the extracted directory that holds etc/system.
func (handle *Handle) InstallationRoot() string {
	return handle.installationRoot
}

// Layout returns the layer model rooted at the installation root.
func (handle *Handle) Layout() layering.Layout {
	return handle.layout
}

// Lookup returns the extracted paths of fileName in precedence order.
func (handle *Handle) Lookup(fileName string) ([]string, error) {
	return handle.layout.Discover(fileName)
}

// Close removes the extraction directory. Subsequent calls return the result
// of the first.
func (handle *Handle) Close() error {
	handle.closeOnce.Do(func() {
		handle.closeError = os.RemoveAll(handle.root)
		if handle.closeError != nil {
			handle.logger.Warn(removeFailedMessageConstant, zap.String(directoryFieldConstant, handle.root), zap.Error(handle.closeError))
			return
		}
		handle.logger.Debug(removedMessageConstant, zap.String(directoryFieldConstant, handle.root))
	})
	return handle.closeError
}
