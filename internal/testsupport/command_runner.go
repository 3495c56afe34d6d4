package testsupport

import (
	"context"
	"sync"

	"github.com/temirov/goldencheck/internal/execshell"
)

// CommandRunnerStub serves canned btool listings keyed by configuration name
// (the argument after "btool") and records every invocation.
type CommandRunnerStub struct {
	Listings      map[string]string
	ExitCodes     map[string]int
	Errors        map[string]error
	BlockingFiles map[string]bool
	mutex         sync.Mutex
	recordedCalls []execshell.ShellCommand
}

// Run implements execshell.CommandRunner.
func (runner *CommandRunnerStub) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.mutex.Lock()
	runner.recordedCalls = append(runner.recordedCalls, command)
	runner.mutex.Unlock()

	configurationName := ""
	if len(command.Details.Arguments) > 1 {
		configurationName = command.Details.Arguments[1]
	}

	if runner.BlockingFiles[configurationName] {
		<-executionContext.Done()
		return execshell.ExecutionResult{ExitCode: -1}, nil
	}
	if runnerError, exists := runner.Errors[configurationName]; exists {
		return execshell.ExecutionResult{}, runnerError
	}
	if exitCode, exists := runner.ExitCodes[configurationName]; exists {
		return execshell.ExecutionResult{StandardError: "Permission denied", ExitCode: exitCode}, nil
	}
	return execshell.ExecutionResult{StandardOutput: runner.Listings[configurationName]}, nil
}

// Calls returns a snapshot of recorded invocations.
func (runner *CommandRunnerStub) Calls() []execshell.ShellCommand {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	return append([]execshell.ShellCommand(nil), runner.recordedCalls...)
}

// CallCount returns the number of invocations for configurationName.
func (runner *CommandRunnerStub) CallCount(configurationName string) int {
	count := 0
	for _, call := range runner.Calls() {
		if len(call.Details.Arguments) > 1 && call.Details.Arguments[1] == configurationName {
			count++
		}
	}
	return count
}
