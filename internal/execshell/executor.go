package execshell

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	commandFieldConstant    = "command"
	argumentsFieldConstant  = "arguments"
	exitCodeFieldConstant   = "exit_code"
	timeoutFieldConstant    = "timeout"
	argumentsJoinerConstant = " "
)

// ShellExecutor runs commands through a CommandRunner and logs their lifecycle.
type ShellExecutor struct {
	logger    *zap.Logger
	runner    CommandRunner
	formatter CommandMessageFormatter
	observer  CommandEventObserver
}

// NewShellExecutor validates dependencies and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ShellExecutor{logger: logger, runner: runner, observer: CombineObservers()}, nil
}

// WithObserver returns a copy of the executor that reports lifecycle events to observer.
func (executor *ShellExecutor) WithObserver(observer CommandEventObserver) *ShellExecutor {
	copied := *executor
	copied.observer = CombineObservers(observer)
	return &copied
}

// Execute runs command. A positive Details.Timeout bounds the run; exceeding
// it yields CommandTimeoutError. A non-zero exit yields CommandFailedError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandContext := executionContext
	if command.Details.Timeout > 0 {
		var cancel context.CancelFunc
		commandContext, cancel = context.WithTimeout(executionContext, command.Details.Timeout)
		defer cancel()
	}

	fields := []zap.Field{
		zap.String(commandFieldConstant, string(command.Name)),
		zap.String(argumentsFieldConstant, strings.Join(command.Details.Arguments, argumentsJoinerConstant)),
	}
	executor.logger.Debug(executor.formatter.BuildStartedMessage(command), fields...)
	executor.observer.CommandStarted(command)

	result, runError := executor.runner.Run(commandContext, command)
	timedOut := errors.Is(commandContext.Err(), context.DeadlineExceeded) && executionContext.Err() == nil

	if timedOut {
		failure := CommandTimeoutError{Command: command, Timeout: command.Details.Timeout}
		executor.logger.Warn(executor.formatter.BuildExecutionFailureMessage(command, failure), append(fields, zap.Duration(timeoutFieldConstant, command.Details.Timeout))...)
		executor.observer.CommandExecutionFailed(command, failure)
		return ExecutionResult{}, failure
	}

	if runError == nil && executionContext.Err() != nil {
		runError = executionContext.Err()
	}
	if runError != nil {
		failure := CommandExecutionError{Command: command, Cause: runError}
		executor.logger.Warn(executor.formatter.BuildExecutionFailureMessage(command, runError), append(fields, zap.Error(runError))...)
		executor.observer.CommandExecutionFailed(command, failure)
		return ExecutionResult{}, failure
	}

	executor.observer.CommandCompleted(command, result)
	if result.ExitCode != 0 {
		executor.logger.Warn(executor.formatter.BuildFailureMessage(command, result), append(fields, zap.Int(exitCodeFieldConstant, result.ExitCode))...)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: result}
	}

	executor.logger.Debug(executor.formatter.BuildSuccessMessage(command), fields...)
	return result, nil
}
