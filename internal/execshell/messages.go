package execshell

import (
	"fmt"
	"path/filepath"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandLabelTemplateConstant            = "%s %s"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
)

const (
	btoolSubcommandNameConstant   = "btool"
	btoolListActionConstant       = "list"
	btoolMinimumArgumentsCount    = 3
	configurationSuffixConstant   = ".conf"
	btoolStartTemplate            = "Listing effective %s%s via btool"
	btoolSuccessTemplate          = "Listed effective %s%s via btool"
	btoolFailureTemplate          = "btool could not list %s%s (exit code %d%s)"
	btoolExecutionFailureTemplate = "Unable to list %s%s via btool: %s"
	btoolStanzaSuffixTemplate     = " [%s]"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if formatter.isBtoolListing(command.Details.Arguments) {
		return formatter.describeBtoolMessage(command, result, failure, stage)
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) isBtoolListing(arguments []string) bool {
	if len(arguments) < btoolMinimumArgumentsCount {
		return false
	}
	return strings.TrimSpace(arguments[0]) == btoolSubcommandNameConstant && strings.TrimSpace(arguments[2]) == btoolListActionConstant
}

func (formatter CommandMessageFormatter) describeBtoolMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	fileName := strings.TrimSpace(arguments[1]) + configurationSuffixConstant
	stanzaSuffix := emptyStringConstant
	if len(arguments) > btoolMinimumArgumentsCount {
		stanzaSuffix = fmt.Sprintf(btoolStanzaSuffixTemplate, strings.TrimSpace(arguments[btoolMinimumArgumentsCount]))
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(btoolStartTemplate, fileName, stanzaSuffix)
	case messageStageSuccess:
		return fmt.Sprintf(btoolSuccessTemplate, fileName, stanzaSuffix)
	case messageStageFailure:
		return fmt.Sprintf(btoolFailureTemplate, fileName, stanzaSuffix, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(btoolExecutionFailureTemplate, fileName, stanzaSuffix, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := filepath.Base(string(command.Name))
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf(commandLabelTemplateConstant, commandLabel, strings.Join(command.Details.Arguments, " "))
	}
	if trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory); len(trimmedWorkingDirectory) > 0 {
		commandLabel += fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
	}
	return commandLabel
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}
