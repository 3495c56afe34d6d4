package audit

import (
	"strings"
	"time"

	"github.com/temirov/goldencheck/internal/layering"
	"github.com/temirov/goldencheck/internal/report"
)

const (
	defaultWorkerCountConstant         = 4
	defaultLiveQueryTimeoutConstant    = 30 * time.Second
	defaultSeverityThresholdConstant   = "info"
	defaultMaxArchiveBytesConstant     = int64(2 << 30)
	defaultReportFormatConstant        = string(report.FormatTable)
	configurationSectionPrefixConstant = "audit."
)

// CommandConfiguration captures persistent settings for the audit command.
type CommandConfiguration struct {
	SplunkHome         string        `mapstructure:"splunk_home"`
	GoldenConfig       string        `mapstructure:"golden_config"`
	Rules              string        `mapstructure:"rules"`
	Diag               string        `mapstructure:"diag"`
	Role               string        `mapstructure:"role"`
	Format             string        `mapstructure:"format"`
	LiveQueryTimeout   time.Duration `mapstructure:"live_query_timeout"`
	Workers            int           `mapstructure:"workers"`
	SeverityThreshold  string        `mapstructure:"severity_threshold"`
	FailOnMissing      bool          `mapstructure:"fail_on_missing"`
	TemporaryDirectory string        `mapstructure:"temp_directory"`
	MaxArchiveBytes    int64         `mapstructure:"max_archive_bytes"`
	Layers             []string      `mapstructure:"layers"`
}

// DefaultCommandConfiguration returns baseline configuration values for the audit command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Format:            defaultReportFormatConstant,
		LiveQueryTimeout:  defaultLiveQueryTimeoutConstant,
		Workers:           defaultWorkerCountConstant,
		SeverityThreshold: defaultSeverityThresholdConstant,
		MaxArchiveBytes:   defaultMaxArchiveBytesConstant,
		Layers:            append([]string(nil), layering.DefaultLayers...),
	}
}

// DefaultConfigurationValues returns the defaults keyed for the configuration loader.
func DefaultConfigurationValues() map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationSectionPrefixConstant + "splunk_home":        defaults.SplunkHome,
		configurationSectionPrefixConstant + "golden_config":      defaults.GoldenConfig,
		configurationSectionPrefixConstant + "rules":              defaults.Rules,
		configurationSectionPrefixConstant + "diag":               defaults.Diag,
		configurationSectionPrefixConstant + "role":               defaults.Role,
		configurationSectionPrefixConstant + "format":             defaults.Format,
		configurationSectionPrefixConstant + "live_query_timeout": defaults.LiveQueryTimeout,
		configurationSectionPrefixConstant + "workers":            defaults.Workers,
		configurationSectionPrefixConstant + "severity_threshold": defaults.SeverityThreshold,
		configurationSectionPrefixConstant + "fail_on_missing":    defaults.FailOnMissing,
		configurationSectionPrefixConstant + "temp_directory":     defaults.TemporaryDirectory,
		configurationSectionPrefixConstant + "max_archive_bytes":  defaults.MaxArchiveBytes,
		configurationSectionPrefixConstant + "layers":             defaults.Layers,
	}
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.SplunkHome = strings.TrimSpace(configuration.SplunkHome)
	sanitized.GoldenConfig = strings.TrimSpace(configuration.GoldenConfig)
	sanitized.Rules = strings.TrimSpace(configuration.Rules)
	sanitized.Diag = strings.TrimSpace(configuration.Diag)
	sanitized.Role = strings.TrimSpace(configuration.Role)
	sanitized.Format = strings.TrimSpace(configuration.Format)
	sanitized.SeverityThreshold = strings.TrimSpace(configuration.SeverityThreshold)
	sanitized.TemporaryDirectory = strings.TrimSpace(configuration.TemporaryDirectory)
	sanitized.Layers = sanitizeLayers(configuration.Layers)

	if len(sanitized.Format) == 0 {
		sanitized.Format = defaults.Format
	}
	if len(sanitized.SeverityThreshold) == 0 {
		sanitized.SeverityThreshold = defaults.SeverityThreshold
	}
	if sanitized.LiveQueryTimeout <= 0 {
		sanitized.LiveQueryTimeout = defaults.LiveQueryTimeout
	}
	if sanitized.Workers < 1 {
		sanitized.Workers = defaults.Workers
	}
	if sanitized.MaxArchiveBytes <= 0 {
		sanitized.MaxArchiveBytes = defaults.MaxArchiveBytes
	}
	if len(sanitized.Layers) == 0 {
		sanitized.Layers = defaults.Layers
	}

	return sanitized
}

func sanitizeLayers(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for index := range raw {
		trimmed := strings.TrimSpace(raw[index])
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
