// Package utils exposes helpers shared by the CLI commands: the viper-backed
// ConfigurationLoader with its decode hooks, the zap LoggerFactory, and the
// command context accessor that carries the configuration path and run
// identifier.
package utils
