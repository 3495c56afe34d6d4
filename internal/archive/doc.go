// Package archive extracts diagnostic bundles into a private scratch
// directory, rejects entries that would escape it, and removes the directory
// when the handle is closed or extraction fails.
package archive
