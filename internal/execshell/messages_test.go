package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessageForBtoolStanzaListing(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    "/opt/splunk/bin/splunk",
		Details: CommandDetails{Arguments: []string{"btool", "outputs", "list", "tcpout"}},
	}

	require.Equal(t, "Listing effective outputs.conf [tcpout] via btool", formatter.BuildStartedMessage(command))
}

func TestGenericMessagesUseExecutableBaseName(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    "/usr/bin/openssl",
		Details: CommandDetails{Arguments: []string{"version"}, WorkingDirectory: "/tmp"},
	}

	require.Equal(t, "Running openssl version (in /tmp)", formatter.BuildStartedMessage(command))
	require.Equal(t, "openssl version (in /tmp) failed with exit code 3", formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 3}))
	require.Equal(t, "openssl version (in /tmp) failed: boom", formatter.BuildExecutionFailureMessage(command, errors.New("boom")))
}
