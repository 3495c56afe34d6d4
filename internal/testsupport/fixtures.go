package testsupport

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	directoryPermissionsConstant = 0o755
	filePermissionsConstant      = 0o644
)

// BundleEntry describes one member of a synthetic diagnostic bundle.
type BundleEntry struct {
	Name     string
	Content  string
	Typeflag byte
	Linkname string
}

// WriteInstallation materializes files, keyed by slash-separated relative path, under root.
func WriteInstallation(testInstance testing.TB, root string, files map[string]string) {
	testInstance.Helper()
	for relativePath, content := range files {
		absolutePath := filepath.Join(root, filepath.FromSlash(relativePath))
		require.NoError(testInstance, os.MkdirAll(filepath.Dir(absolutePath), directoryPermissionsConstant))
		require.NoError(testInstance, os.WriteFile(absolutePath, []byte(content), filePermissionsConstant))
	}
}

// WriteBundle writes a gzip-compressed tar archive containing entries to bundlePath.
func WriteBundle(testInstance testing.TB, bundlePath string, entries []BundleEntry) {
	testInstance.Helper()

	archiveBuffer := &bytes.Buffer{}
	gzipWriter := gzip.NewWriter(archiveBuffer)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, entry := range entries {
		typeflag := entry.Typeflag
		if typeflag == 0 {
			typeflag = tar.TypeReg
		}
		header := &tar.Header{
			Name:     entry.Name,
			Typeflag: typeflag,
			Linkname: entry.Linkname,
			Mode:     filePermissionsConstant,
		}
		if typeflag == tar.TypeDir {
			header.Mode = directoryPermissionsConstant
		}
		if typeflag == tar.TypeReg {
			header.Size = int64(len(entry.Content))
		}
		require.NoError(testInstance, tarWriter.WriteHeader(header))
		if typeflag == tar.TypeReg {
			_, writeError := tarWriter.Write([]byte(entry.Content))
			require.NoError(testInstance, writeError)
		}
	}

	require.NoError(testInstance, tarWriter.Close())
	require.NoError(testInstance, gzipWriter.Close())
	require.NoError(testInstance, os.WriteFile(bundlePath, archiveBuffer.Bytes(), filePermissionsConstant))
}

// InstallationEntries converts a file map into bundle entries nested under prefix.
func InstallationEntries(prefix string, files map[string]string) []BundleEntry {
	entries := make([]BundleEntry, 0, len(files))
	for relativePath, content := range files {
		entries = append(entries, BundleEntry{Name: prefix + "/" + relativePath, Content: content})
	}
	return entries
}
