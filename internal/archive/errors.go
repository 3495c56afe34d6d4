package archive

import (
	"errors"
	"fmt"
)

const archiveErrorTemplate = "diagnostic bundle %s: %v"

var (
	// ErrNotGzip indicates that the bundle is not gzip-compressed.
	ErrNotGzip = errors.New("bundle is not gzip-compressed")
	// ErrCorruptArchive indicates an unreadable tar stream.
	ErrCorruptArchive = errors.New("bundle is not a readable tar archive")
	// ErrPathTraversal indicates an entry whose path leaves the extraction root.
	ErrPathTraversal = errors.New("entry path escapes the extraction directory")
	// ErrLinkEscape indicates a link whose target leaves the extraction root.
	ErrLinkEscape = errors.New("link target escapes the extraction directory")
	// ErrSizeLimit indicates that extracted content exceeded the configured limit.
	ErrSizeLimit = errors.New("extracted content exceeds the size limit")
	// ErrInstallationNotFound indicates that no directory in the bundle holds etc/system.
	ErrInstallationNotFound = errors.New("bundle contains no installation directory with etc/system")
)

// ArchiveError reports a bundle that could not be opened or extracted.
type ArchiveError struct {
	Bundle string
	Cause  error
}

// Error implements error.
func (archiveError *ArchiveError) Error() string {
	return fmt.Sprintf(archiveErrorTemplate, archiveError.Bundle, archiveError.Cause)
}

// Unwrap exposes the underlying cause.
func (archiveError *ArchiveError) Unwrap() error {
	return archiveError.Cause
}
