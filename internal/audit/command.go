package audit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/goldencheck/internal/comparison"
	"github.com/temirov/goldencheck/internal/execshell"
	"github.com/temirov/goldencheck/internal/expectation"
	"github.com/temirov/goldencheck/internal/report"
	"github.com/temirov/goldencheck/internal/ui"
	"github.com/temirov/goldencheck/internal/utils"
	"github.com/temirov/goldencheck/internal/utils/flags"
	pathutils "github.com/temirov/goldencheck/internal/utils/path"
)

const (
	commandUseConstant              = "audit"
	commandShortDescriptionConstant = "Compare effective configuration against golden values"
	commandLongDescriptionConstant  = "audit loads a golden configuration file or a rule file, collects the effective value of every expected setting from a live installation (btool, then configuration files) or from a diagnostic bundle, and reports OK, MISMATCH, MISSING, ERROR, or UNKNOWN per setting."

	goldenConfigFlagName          = "golden-config"
	goldenConfigFlagUsage         = "Golden configuration file with ###BEGIN role### blocks"
	rulesFlagName                 = "rules"
	rulesFlagUsage                = "Declarative rule file (YAML or JSON)"
	diagFlagName                  = "diag"
	diagFlagUsage                 = "Diagnostic bundle (.tar.gz) to audit offline instead of the live installation"
	roleFlagName                  = "role"
	roleFlagUsage                 = "Only check expectations for this role"
	splunkHomeFlagName            = "splunk-home"
	splunkHomeFlagUsage           = "Installation root (defaults to SPLUNK_HOME, then well-known locations)"
	formatFlagName                = "format"
	formatFlagUsage               = "Report format"
	dryRunFlagName                = "dry-run"
	dryRunFlagUsage               = "Load and filter expectations without collecting any values"
	timeoutFlagName               = "timeout"
	timeoutFlagUsage              = "Timeout for each btool query"
	workersFlagName               = "workers"
	workersFlagUsage              = "Maximum number of configuration files collected concurrently"
	severityThresholdFlagName     = "severity-threshold"
	severityThresholdFlagUsage    = "Lowest severity whose failures make the command exit non-zero"
	failOnMissingFlagName         = "fail-on-missing"
	failOnMissingFlagUsage        = "Also fail when an expected setting is not set at all"
	missingSourceErrorMessage     = "an expectation source is required; specify --golden-config or --rules"
	conflictingSourceErrorMessage = "--golden-config and --rules are mutually exclusive"
	invalidRoleErrorTemplate      = "invalid --role: %w"
	invalidFormatErrorTemplate    = "invalid --format: %w"
	invalidThresholdErrorTemplate = "invalid --severity-threshold: %w"
)

var severityNames = []string{string(expectation.SeverityInfo), string(expectation.SeverityWarn), string(expectation.SeverityError)}

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// HumanReadableLoggingProvider reports whether console logging is active.
type HumanReadableLoggingProvider func() bool

// ConfigurationProvider supplies the resolved audit configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the audit cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	ConfigurationProvider        ConfigurationProvider
	CommandRunner                execshell.CommandRunner
	Locator                      InstallationLocator
}

// Build constructs the cobra command for configuration audits.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	flagSet := command.Flags()
	flagSet.String(goldenConfigFlagName, "", goldenConfigFlagUsage)
	flagSet.String(rulesFlagName, "", rulesFlagUsage)
	flagSet.String(diagFlagName, "", diagFlagUsage)
	flagSet.String(roleFlagName, "", flags.FormatChoiceUsage("", expectation.RoleNames(), roleFlagUsage))
	flagSet.String(splunkHomeFlagName, "", splunkHomeFlagUsage)
	flagSet.String(formatFlagName, "", flags.FormatChoiceUsage(defaults.Format, report.FormatNames(), formatFlagUsage))
	flagSet.Bool(dryRunFlagName, false, dryRunFlagUsage)
	flagSet.Duration(timeoutFlagName, defaults.LiveQueryTimeout, timeoutFlagUsage)
	flagSet.Int(workersFlagName, defaults.Workers, workersFlagUsage)
	flagSet.String(severityThresholdFlagName, "", flags.FormatChoiceUsage(defaults.SeverityThreshold, severityNames, severityThresholdFlagUsage))
	flagSet.Bool(failOnMissingFlagName, false, failOnMissingFlagUsage)
	command.MarkFlagsMutuallyExclusive(goldenConfigFlagName, rulesFlagName)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	outputWriter := command.OutOrStdout()
	options.Colorize = report.IsTerminal(outputWriter)
	options.RunIdentifier = utils.NewCommandContextAccessor().RunIdentifier(command.Context())

	logger := builder.resolveLogger()
	service := NewService(logger, builder.CommandRunner, builder.Locator, outputWriter)
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		service = service.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}
	_, runError := service.Run(command.Context(), options)
	return runError
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (Options, error) {
	configuration := builder.resolveConfiguration()
	flagSet := command.Flags()

	if flagSet.Changed(goldenConfigFlagName) || flagSet.Changed(rulesFlagName) {
		configuration.GoldenConfig, _ = flagSet.GetString(goldenConfigFlagName)
		configuration.Rules, _ = flagSet.GetString(rulesFlagName)
	}
	stringOverrides := map[string]*string{
		diagFlagName:              &configuration.Diag,
		roleFlagName:              &configuration.Role,
		splunkHomeFlagName:        &configuration.SplunkHome,
		formatFlagName:            &configuration.Format,
		severityThresholdFlagName: &configuration.SeverityThreshold,
	}
	for flagName, target := range stringOverrides {
		if flagSet.Changed(flagName) {
			*target, _ = flagSet.GetString(flagName)
		}
	}
	if flagSet.Changed(timeoutFlagName) {
		configuration.LiveQueryTimeout, _ = flagSet.GetDuration(timeoutFlagName)
	}
	if flagSet.Changed(workersFlagName) {
		configuration.Workers, _ = flagSet.GetInt(workersFlagName)
	}
	if flagSet.Changed(failOnMissingFlagName) {
		configuration.FailOnMissing, _ = flagSet.GetBool(failOnMissingFlagName)
	}
	dryRun, _ := flagSet.GetBool(dryRunFlagName)

	configuration = configuration.sanitize()
	pathExpander := pathutils.NewExpander()

	source, sourceError := resolveSource(configuration, pathExpander)
	if sourceError != nil {
		if errors.Is(sourceError, errMissingSource) {
			if helpError := command.Help(); helpError != nil {
				return Options{}, helpError
			}
		}
		return Options{}, sourceError
	}

	var role expectation.Role
	if len(configuration.Role) > 0 {
		parsedRole, roleError := expectation.ParseRole(configuration.Role)
		if roleError != nil {
			return Options{}, fmt.Errorf(invalidRoleErrorTemplate, roleError)
		}
		role = parsedRole
	}

	format, formatError := report.ParseFormat(configuration.Format)
	if formatError != nil {
		return Options{}, fmt.Errorf(invalidFormatErrorTemplate, formatError)
	}

	threshold, thresholdError := expectation.ParseSeverity(configuration.SeverityThreshold)
	if thresholdError != nil {
		return Options{}, fmt.Errorf(invalidThresholdErrorTemplate, thresholdError)
	}

	return Options{
		Source:             source,
		Role:               role,
		SplunkHome:         configuration.SplunkHome,
		DiagBundle:         pathExpander.Expand(configuration.Diag),
		Format:             format,
		DryRun:             dryRun,
		LiveQueryTimeout:   configuration.LiveQueryTimeout,
		Workers:            configuration.Workers,
		Policy:             comparison.Policy{Threshold: threshold, FailOnMissing: configuration.FailOnMissing},
		TemporaryDirectory: pathExpander.Expand(configuration.TemporaryDirectory),
		MaxArchiveBytes:    configuration.MaxArchiveBytes,
		Layers:             configuration.Layers,
	}, nil
}

var errMissingSource = errors.New(missingSourceErrorMessage)

func resolveSource(configuration CommandConfiguration, pathExpander *pathutils.Expander) (ExpectationSource, error) {
	goldenPath := strings.TrimSpace(configuration.GoldenConfig)
	rulesPath := strings.TrimSpace(configuration.Rules)
	switch {
	case len(goldenPath) > 0 && len(rulesPath) > 0:
		return ExpectationSource{}, errors.New(conflictingSourceErrorMessage)
	case len(goldenPath) > 0:
		return ExpectationSource{Path: pathExpander.Expand(goldenPath), Kind: expectation.SourceGolden}, nil
	case len(rulesPath) > 0:
		return ExpectationSource{Path: pathExpander.Expand(rulesPath), Kind: expectation.SourceRules}, nil
	default:
		return ExpectationSource{}, errMissingSource
	}
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
