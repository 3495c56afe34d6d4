package execshell_test

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/goldencheck/internal/execshell"
)

func TestOSCommandRunnerReportsExitCodeAndEnvironment(testInstance *testing.T) {
	shellPath, lookupError := exec.LookPath("sh")
	if lookupError != nil {
		testInstance.Skip("sh is not available")
	}

	command := execshell.ShellCommand{
		Name: execshell.CommandName(shellPath),
		Details: execshell.CommandDetails{
			Arguments:            []string{"-c", `echo "$SPLUNK_HOME"; echo denied >&2; exit 3`},
			EnvironmentVariables: map[string]string{"SPLUNK_HOME": "/opt/splunk-test"},
		},
	}

	result, runError := execshell.NewOSCommandRunner().Run(context.Background(), command)
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 3, result.ExitCode)
	require.Equal(testInstance, "/opt/splunk-test\n", result.StandardOutput)
	require.Equal(testInstance, "denied\n", result.StandardError)
}

func TestOSCommandRunnerReturnsStartFailures(testInstance *testing.T) {
	command := execshell.ShellCommand{Name: "/nonexistent/bin/splunk", Details: execshell.CommandDetails{Arguments: []string{"btool", "server", "list"}}}

	_, runError := execshell.NewOSCommandRunner().Run(context.Background(), command)
	require.Error(testInstance, runError)
}
