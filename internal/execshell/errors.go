package execshell

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	commandFailedErrorTemplate    = "%s exited with code %d%s"
	commandExecutionErrorTemplate = "%s could not be executed: %v"
	commandTimeoutErrorTemplate   = "%s timed out after %s"
	standardErrorDetailTemplate   = ": %s"
)

var (
	// ErrLoggerNotConfigured indicates that NewShellExecutor received a nil logger.
	ErrLoggerNotConfigured = errors.New("shell executor requires a logger")
	// ErrCommandRunnerNotConfigured indicates that NewShellExecutor received a nil runner.
	ErrCommandRunnerNotConfigured = errors.New("shell executor requires a command runner")
)

// CommandFailedError reports a command that ran and exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error implements error.
func (failedError CommandFailedError) Error() string {
	detail := ""
	if trimmed := strings.TrimSpace(failedError.Result.StandardError); len(trimmed) > 0 {
		detail = fmt.Sprintf(standardErrorDetailTemplate, trimmed)
	}
	return fmt.Sprintf(commandFailedErrorTemplate, failedError.Command.Name, failedError.Result.ExitCode, detail)
}

// CommandExecutionError reports a command that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error implements error.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplate, executionError.Command.Name, executionError.Cause)
}

// Unwrap exposes the underlying cause.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// CommandTimeoutError reports a command killed after exceeding its timeout.
type CommandTimeoutError struct {
	Command ShellCommand
	Timeout time.Duration
}

// Error implements error.
func (timeoutError CommandTimeoutError) Error() string {
	return fmt.Sprintf(commandTimeoutErrorTemplate, timeoutError.Command.Name, timeoutError.Timeout)
}
