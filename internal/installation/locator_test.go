package installation_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/goldencheck/internal/installation"
	pathutils "github.com/temirov/goldencheck/internal/utils/path"
)

const subtestNameTemplateConstant = "%d_%s"

func writeBinary(testInstance *testing.T, root string, permissions os.FileMode) {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(filepath.Join(root, "bin"), 0o755))
	require.NoError(testInstance, os.WriteFile(installation.BinaryPath(root), []byte("#!/bin/sh\n"), permissions))
}

func TestLocatorResolutionOrder(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	withoutBinary := testInstance.TempDir()
	withBinary := testInstance.TempDir()
	writeBinary(testInstance, withBinary, 0o755)
	homeInstallation := filepath.Join(homeDirectory, "splunk")
	writeBinary(testInstance, homeInstallation, 0o755)

	expander := pathutils.NewExpanderWithDependencies(func() (string, error) { return homeDirectory, nil }, nil)
	noEnvironment := func(string) (string, bool) { return "", false }

	testCases := []struct {
		name         string
		explicit     string
		environment  installation.EnvironmentLookup
		candidates   []string
		expectedRoot string
		expectError  bool
	}{
		{
			name:         "explicit_wins",
			explicit:     withoutBinary,
			environment:  func(string) (string, bool) { return withBinary, true },
			candidates:   []string{withBinary},
			expectedRoot: withoutBinary,
		},
		{
			name:         "explicit_tilde",
			explicit:     "~/splunk",
			environment:  noEnvironment,
			expectedRoot: homeInstallation,
		},
		{
			name:         "environment_variable",
			environment:  func(name string) (string, bool) { return withoutBinary, name == installation.HomeEnvironmentVariable },
			candidates:   []string{withBinary},
			expectedRoot: withoutBinary,
		},
		{
			name:         "first_candidate_with_binary",
			environment:  noEnvironment,
			candidates:   []string{withoutBinary, "~/splunk", withBinary},
			expectedRoot: homeInstallation,
		},
		{
			name:        "nothing_found",
			environment: noEnvironment,
			candidates:  []string{withoutBinary},
			expectError: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(subtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			locator := installation.NewLocatorWithDependencies(testCase.environment, testCase.candidates, expander)
			root, locateError := locator.Locate(testCase.explicit)
			if testCase.expectError {
				require.ErrorIs(testInstance, locateError, installation.ErrInstallationNotFound)
				return
			}
			require.NoError(testInstance, locateError)
			require.Equal(testInstance, testCase.expectedRoot, root)
		})
	}
}

func TestHasBinaryRequiresExecutableFile(testInstance *testing.T) {
	executableRoot := testInstance.TempDir()
	writeBinary(testInstance, executableRoot, 0o755)
	require.True(testInstance, installation.HasBinary(executableRoot))

	plainRoot := testInstance.TempDir()
	writeBinary(testInstance, plainRoot, 0o644)
	require.False(testInstance, installation.HasBinary(plainRoot))

	require.False(testInstance, installation.HasBinary(testInstance.TempDir()))
}
