// Package cli constructs the goldencheck command-line interface, wiring the
// Cobra command hierarchy, the Viper configuration loader with embedded
// defaults, and zap logging. Execute runs the default command set with a
// context that is cancelled on SIGINT or SIGTERM.
package cli
