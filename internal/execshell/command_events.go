package execshell

// CommandEventObserver is notified as ShellExecutor runs each command.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	// CommandCompleted receives every result the runner produced, including
	// non-zero exits.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed receives timeouts and runner failures.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// CombineObservers fans events out to every non-nil observer in order.
func CombineObservers(observers ...CommandEventObserver) CommandEventObserver {
	combined := make(observerGroup, 0, len(observers))
	for _, observer := range observers {
		if observer != nil {
			combined = append(combined, observer)
		}
	}
	return combined
}

type observerGroup []CommandEventObserver

func (group observerGroup) CommandStarted(command ShellCommand) {
	for _, observer := range group {
		observer.CommandStarted(command)
	}
}

func (group observerGroup) CommandCompleted(command ShellCommand, result ExecutionResult) {
	for _, observer := range group {
		observer.CommandCompleted(command, result)
	}
}

func (group observerGroup) CommandExecutionFailed(command ShellCommand, failure error) {
	for _, observer := range group {
		observer.CommandExecutionFailed(command, failure)
	}
}
