// Package report renders check results as a table, JSON, CSV, or YAML.
package report
