package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	entryErrorTemplate           = "%w: %s"
	linkErrorTemplate            = "%w: %s -> %s"
	gzipErrorTemplate            = "%w: %w"
	directoryPermissionsConstant = 0o755
	ownerReadWriteConstant       = 0o600
)

// extractor writes entries through an os.Root so no write can follow a link
// out of the extraction directory.
type extractor struct {
	root           string
	scope          *os.Root
	symlinks       []string
	remainingBytes int64
	limited        bool
}

func newExtractor(root string, maxBytes int64) *extractor {
	return &extractor{root: root, remainingBytes: maxBytes, limited: maxBytes > 0}
}

func (extractor *extractor) extract(executionContext context.Context, reader io.Reader) error {
	scope, scopeError := os.OpenRoot(extractor.root)
	if scopeError != nil {
		return scopeError
	}
	defer scope.Close()
	extractor.scope = scope

	gzipReader, gzipError := gzip.NewReader(reader)
	if gzipError != nil {
		return fmt.Errorf(gzipErrorTemplate, ErrNotGzip, gzipError)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)
	for {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}

		header, nextError := tarReader.Next()
		if errors.Is(nextError, io.EOF) {
			return nil
		}
		if nextError != nil {
			return fmt.Errorf(gzipErrorTemplate, ErrCorruptArchive, nextError)
		}

		if entryError := extractor.extractEntry(header, tarReader); entryError != nil {
			return entryError
		}
	}
}

func (extractor *extractor) extractEntry(header *tar.Header, tarReader *tar.Reader) error {
	switch header.Typeflag {
	case tar.TypeXGlobalHeader, tar.TypeXHeader:
		return nil
	}

	relativePath, pathError := extractor.resolveEntryPath(header.Name)
	if pathError != nil {
		return pathError
	}

	switch header.Typeflag {
	case tar.TypeDir:
		return extractor.makeDirectories(relativePath)
	case tar.TypeReg:
		return extractor.writeFile(relativePath, header, tarReader)
	case tar.TypeSymlink:
		return extractor.createSymlink(relativePath, header)
	case tar.TypeLink:
		return extractor.createHardLink(relativePath, header)
	default:
		return nil
	}
}

// resolveEntryPath returns the entry name relative to the extraction root.
func (extractor *extractor) resolveEntryPath(entryName string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(entryName))
	if !filepath.IsLocal(cleaned) {
		return "", fmt.Errorf(entryErrorTemplate, ErrPathTraversal, entryName)
	}
	return cleaned, nil
}

func (extractor *extractor) makeDirectories(relativePath string) error {
	if relativePath == "." {
		return nil
	}
	components := strings.Split(relativePath, string(filepath.Separator))
	for componentIndex := range components {
		prefix := filepath.Join(components[:componentIndex+1]...)
		makeError := extractor.scope.Mkdir(prefix, directoryPermissionsConstant)
		if makeError != nil && !errors.Is(makeError, fs.ErrExist) {
			return makeError
		}
	}
	return nil
}

func (extractor *extractor) writeFile(relativePath string, header *tar.Header, tarReader *tar.Reader) error {
	if makeError := extractor.makeDirectories(filepath.Dir(relativePath)); makeError != nil {
		return makeError
	}

	file, openError := extractor.scope.OpenFile(relativePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, header.FileInfo().Mode().Perm()|ownerReadWriteConstant)
	if openError != nil {
		return openError
	}

	copyError := extractor.copyLimited(file, tarReader, header.Name)
	closeError := file.Close()
	if copyError != nil {
		return copyError
	}
	return closeError
}

func (extractor *extractor) copyLimited(destination io.Writer, source io.Reader, entryName string) error {
	if !extractor.limited {
		_, copyError := io.Copy(destination, source)
		return copyError
	}

	written, copyError := io.CopyN(destination, source, extractor.remainingBytes+1)
	if copyError != nil && !errors.Is(copyError, io.EOF) {
		return copyError
	}
	if written > extractor.remainingBytes {
		return fmt.Errorf(entryErrorTemplate, ErrSizeLimit, entryName)
	}
	extractor.remainingBytes -= written
	return nil
}

// createSymlink rejects targets that leave the root lexically, then re-resolves
// every link created so far because a new link can redirect an older one.
func (extractor *extractor) createSymlink(relativePath string, header *tar.Header) error {
	linkError := fmt.Errorf(linkErrorTemplate, ErrLinkEscape, header.Name, header.Linkname)
	if filepath.IsAbs(header.Linkname) {
		return linkError
	}
	if !filepath.IsLocal(filepath.Join(filepath.Dir(relativePath), filepath.FromSlash(header.Linkname))) {
		return linkError
	}
	if makeError := extractor.makeDirectories(filepath.Dir(relativePath)); makeError != nil {
		return makeError
	}
	if symlinkError := os.Symlink(header.Linkname, filepath.Join(extractor.root, relativePath)); symlinkError != nil {
		return symlinkError
	}

	extractor.symlinks = append(extractor.symlinks, relativePath)
	for _, existingLink := range extractor.symlinks {
		if !extractor.resolvesInside(existingLink) {
			return fmt.Errorf(entryErrorTemplate, ErrLinkEscape, existingLink)
		}
	}
	return nil
}

// createHardLink only links regular files reached without leaving the root.
func (extractor *extractor) createHardLink(relativePath string, header *tar.Header) error {
	linkError := fmt.Errorf(linkErrorTemplate, ErrLinkEscape, header.Name, header.Linkname)
	sourcePath, sourceError := extractor.resolveEntryPath(header.Linkname)
	if sourceError != nil {
		return linkError
	}
	sourceInfo, statError := extractor.scope.Lstat(sourcePath)
	if statError != nil || !sourceInfo.Mode().IsRegular() {
		return linkError
	}
	if makeError := extractor.makeDirectories(filepath.Dir(relativePath)); makeError != nil {
		return makeError
	}
	return os.Link(filepath.Join(extractor.root, sourcePath), filepath.Join(extractor.root, relativePath))
}

// resolvesInside reports whether the link at relativePath stays within the
// root when followed. A dangling link counts as inside until something
// makes it resolve.
func (extractor *extractor) resolvesInside(relativePath string) bool {
	_, statError := extractor.scope.Stat(relativePath)
	return statError == nil || errors.Is(statError, fs.ErrNotExist)
}
