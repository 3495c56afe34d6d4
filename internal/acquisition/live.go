package acquisition

import (
	"context"
	"strings"
	"time"

	"github.com/temirov/goldencheck/internal/conffile"
	"github.com/temirov/goldencheck/internal/execshell"
	"github.com/temirov/goldencheck/internal/installation"
)

const (
	btoolSubcommandConstant     = "btool"
	btoolListActionConstant     = "list"
	configurationSuffixConstant = ".conf"
)

// CommandExecutor runs shell commands.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// LiveStrategy lists merged configuration through "<home>/bin/splunk btool <name> list".
type LiveStrategy struct {
	executor   CommandExecutor
	splunkHome string
	timeout    time.Duration
}

// NewLiveStrategy constructs a LiveStrategy for the installation at splunkHome.
func NewLiveStrategy(executor CommandExecutor, splunkHome string, timeout time.Duration) *LiveStrategy {
	return &LiveStrategy{
		executor:   executor,
		splunkHome: splunkHome,
		timeout:    timeout,
	}
}

// Name implements Strategy.
func (strategy *LiveStrategy) Name() StrategyName {
	return StrategyLive
}

// Fetch implements Strategy. btool runs with SPLUNK_HOME pointing at the
// installation. A successful listing is authoritative.
func (strategy *LiveStrategy) Fetch(executionContext context.Context, fileName string) (*conffile.Configuration, error) {
	command := execshell.ShellCommand{
		Name: execshell.CommandName(installation.BinaryPath(strategy.splunkHome)),
		Details: execshell.CommandDetails{
			Arguments:            []string{btoolSubcommandConstant, strings.TrimSuffix(fileName, configurationSuffixConstant), btoolListActionConstant},
			EnvironmentVariables: map[string]string{installation.HomeEnvironmentVariable: strategy.splunkHome},
			Timeout:              strategy.timeout,
		},
	}

	result, executionError := strategy.executor.Execute(executionContext, command)
	if executionError != nil {
		return nil, &StrategyError{Strategy: StrategyLive, File: fileName, Cause: executionError}
	}

	configuration, parseError := conffile.ParseBtoolListing(fileName, result.StandardOutput)
	if parseError != nil {
		return nil, &StrategyError{Strategy: StrategyLive, File: fileName, Cause: parseError}
	}
	return configuration, nil
}
