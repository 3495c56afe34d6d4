package audit_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/goldencheck/internal/audit"
	"github.com/temirov/goldencheck/internal/testsupport"
)

const (
	auditMissingSourceErrorMessageConstant = "an expectation source is required; specify --golden-config or --rules"
	auditSubtestNameTemplateConstant       = "%d_%s"
)

func executeCommand(testInstance *testing.T, builder audit.CommandBuilder, arguments []string) (string, error) {
	testInstance.Helper()

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs(arguments)

	outputBuffer := &strings.Builder{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestCommandBuilderDisplaysHelpWhenSourceMissing(testInstance *testing.T) {
	builder := audit.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() audit.CommandConfiguration { return audit.CommandConfiguration{GoldenConfig: "   "} },
	}

	output, executionError := executeCommand(testInstance, builder, nil)
	require.Error(testInstance, executionError)
	require.Equal(testInstance, auditMissingSourceErrorMessageConstant, executionError.Error())
	require.Contains(testInstance, output, "audit [flags]")
}

func TestCommandBuilderRejectsInvalidOptions(testInstance *testing.T) {
	goldenPath := writeGoldenFile(testInstance)

	testCases := []struct {
		name          string
		configuration audit.CommandConfiguration
		arguments     []string
		expectedError string
	}{
		{
			name:          "conflicting_configured_sources",
			configuration: audit.CommandConfiguration{GoldenConfig: goldenPath, Rules: "rules.yaml"},
			expectedError: "--golden-config and --rules are mutually exclusive",
		},
		{
			name:          "conflicting_flags",
			arguments:     []string{"--golden-config", goldenPath, "--rules", "rules.yaml"},
			expectedError: "none of the others can be",
		},
		{
			name:          "unknown_role",
			arguments:     []string{"--golden-config", goldenPath, "--role", "forwarder"},
			expectedError: "invalid --role",
		},
		{
			name:          "unknown_format",
			arguments:     []string{"--golden-config", goldenPath, "--format", "xml"},
			expectedError: "invalid --format",
		},
		{
			name:          "unknown_threshold",
			configuration: audit.CommandConfiguration{GoldenConfig: goldenPath, SeverityThreshold: "fatal"},
			expectedError: "invalid --severity-threshold",
		},
		{
			name:          "positional_arguments",
			arguments:     []string{"--golden-config", goldenPath, "extra"},
			expectedError: "unknown command",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(auditSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			runner := &testsupport.CommandRunnerStub{}
			builder := audit.CommandBuilder{
				LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
				ConfigurationProvider: func() audit.CommandConfiguration { return testCase.configuration },
				CommandRunner:         runner,
				Locator:               fixedLocator(),
			}

			_, executionError := executeCommand(testInstance, builder, testCase.arguments)
			require.Error(testInstance, executionError)
			require.Contains(testInstance, executionError.Error(), testCase.expectedError)
			require.Empty(testInstance, runner.Calls())
		})
	}
}

func TestCommandBuilderRendersReportFromFlags(testInstance *testing.T) {
	root := writeInstallation(testInstance, false)
	builder := audit.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() audit.CommandConfiguration {
			configuration := audit.DefaultCommandConfiguration()
			configuration.Rules = "ignored-rules.yaml"
			return configuration
		},
		CommandRunner: &testsupport.CommandRunnerStub{},
		Locator:       fixedLocator(),
	}

	output, executionError := executeCommand(testInstance, builder, []string{
		"--golden-config", writeGoldenFile(testInstance),
		"--splunk-home", root,
		"--role", "SEARCH HEADS",
		"--format", "csv",
	})
	require.NoError(testInstance, executionError)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(testInstance, lines, 2)
	require.Equal(testInstance, "Role,Config File,Stanza,Setting,Expected Value,Actual Value,Status,Severity,Source,Message,Cause", lines[0])
	require.True(testInstance, strings.HasPrefix(lines[1], "search-head,web.conf,settings,enableSplunkWebSSL,true,"))
	require.Contains(testInstance, lines[1], "MISSING")
}

func TestCommandBuilderFailOnMissingFlag(testInstance *testing.T) {
	root := writeInstallation(testInstance, false)
	builder := audit.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() audit.CommandConfiguration {
			configuration := audit.DefaultCommandConfiguration()
			configuration.GoldenConfig = writeGoldenFile(testInstance)
			configuration.SplunkHome = root
			configuration.Role = "search-head"
			return configuration
		},
		Locator: fixedLocator(),
	}

	_, executionError := executeCommand(testInstance, builder, []string{"--format", "json", "--fail-on-missing"})
	require.Error(testInstance, executionError)
	require.True(testInstance, errors.Is(executionError, audit.ErrChecksFailed))
}
