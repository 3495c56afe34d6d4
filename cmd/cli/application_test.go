package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/goldencheck/cmd/cli"
	"github.com/temirov/goldencheck/internal/audit"
	"github.com/temirov/goldencheck/internal/report"
	"github.com/temirov/goldencheck/internal/testsupport"
)

const (
	testGoldenContentConstant = `###BEGIN indexer###
###server.conf###
[general]
serverName = idx1
parallelIngestionPipelines = 2
###END indexer###
###BEGIN search-head###
###web.conf###
[settings]
enableSplunkWebSSL = true
###END search-head###
`
	testConfigurationTemplateConstant = "common:\n  log_level: error\naudit:\n  golden_config: %s\n  splunk_home: %s\n  format: %s\n"
	testSubtestNameTemplateConstant   = "%d_%s"
)

func writeConfiguration(testInstance *testing.T, format string) string {
	testInstance.Helper()
	workspace := testInstance.TempDir()

	goldenPath := filepath.Join(workspace, "golden.txt")
	require.NoError(testInstance, os.WriteFile(goldenPath, []byte(testGoldenContentConstant), 0o600))

	installationRoot := filepath.Join(workspace, "splunk")
	testsupport.WriteInstallation(testInstance, installationRoot, map[string]string{
		"etc/system/local/server.conf": "[general]\nserverName = idx1\nparallelIngestionPipelines = 2\n",
		"etc/system/local/web.conf":    "[settings]\nenableSplunkWebSSL = false\n",
	})

	configurationPath := filepath.Join(workspace, "config.yaml")
	configurationContent := fmt.Sprintf(testConfigurationTemplateConstant, goldenPath, installationRoot, format)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(configurationContent), 0o600))
	return configurationPath
}

func executeApplication(testInstance *testing.T, arguments []string) (string, error) {
	testInstance.Helper()
	application := cli.NewApplication()
	outputBuffer := &bytes.Buffer{}
	application.SetOutput(outputBuffer, outputBuffer)
	executionError := application.ExecuteContext(context.Background(), arguments)
	return outputBuffer.String(), executionError
}

func decodeRecords(testInstance *testing.T, output string) []report.Record {
	testInstance.Helper()
	var records []report.Record
	require.NoError(testInstance, json.Unmarshal([]byte(output), &records))
	return records
}

func TestApplicationPrintsVersion(testInstance *testing.T) {
	output, executionError := executeApplication(testInstance, []string{"--version"})
	require.NoError(testInstance, executionError)
	require.True(testInstance, strings.HasPrefix(output, "goldencheck version: "))
}

func TestApplicationAuditUsesConfigurationFile(testInstance *testing.T) {
	testCases := []struct {
		name               string
		environment        map[string]string
		arguments          []string
		expectChecksFailed bool
		expectedRoles      []string
		expectedStatuses   []string
	}{
		{
			name:               "configuration_only",
			arguments:          []string{"audit"},
			expectChecksFailed: true,
			expectedRoles:      []string{"search-head", "indexer", "indexer"},
			expectedStatuses:   []string{"MISMATCH", "OK", "OK"},
		},
		{
			name:             "environment_role",
			environment:      map[string]string{"GOLDENCHECK_AUDIT_ROLE": "indexer"},
			arguments:        []string{"audit"},
			expectedRoles:    []string{"indexer", "indexer"},
			expectedStatuses: []string{"OK", "OK"},
		},
		{
			name:             "flag_role_and_dry_run",
			environment:      map[string]string{"GOLDENCHECK_AUDIT_ROLE": "indexer"},
			arguments:        []string{"audit", "--role", "search-head", "--dry-run"},
			expectedRoles:    []string{"search-head"},
			expectedStatuses: []string{"UNKNOWN"},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			for environmentName, environmentValue := range testCase.environment {
				testInstance.Setenv(environmentName, environmentValue)
			}
			configurationPath := writeConfiguration(testInstance, "json")

			output, executionError := executeApplication(testInstance, append([]string{"--config", configurationPath}, testCase.arguments...))
			if testCase.expectChecksFailed {
				require.True(testInstance, errors.Is(executionError, audit.ErrChecksFailed))
			} else {
				require.NoError(testInstance, executionError)
			}

			records := decodeRecords(testInstance, output)
			require.Len(testInstance, records, len(testCase.expectedRoles))
			for recordIndex, record := range records {
				require.Equal(testInstance, testCase.expectedRoles[recordIndex], record.Role)
				require.Equal(testInstance, testCase.expectedStatuses[recordIndex], record.Status)
			}
		})
	}
}

func TestApplicationRejectsInvalidLoggingConfiguration(testInstance *testing.T) {
	configurationPath := writeConfiguration(testInstance, "table")

	_, executionError := executeApplication(testInstance, []string{"--config", configurationPath, "--log-level", "verbose", "audit"})
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "unable to create logger")
}
