// Package layering models the ordered configuration source directories of an
// installation and discovers the files that contribute to one configuration.
package layering
