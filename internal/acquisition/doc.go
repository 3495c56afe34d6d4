// Package acquisition resolves the effective value of configuration keys.
//
// A Resolver tries an ordered list of strategies per configuration file: the
// live strategy lists the merged file through btool, and the file strategy
// merges the layered files on disk. Whole files are fetched once per run and
// cached, so every key of the same file costs a single fetch.
package acquisition
