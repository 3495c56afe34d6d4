// Package execshell runs external tools with lifecycle logging, per-call
// timeouts, and typed failures.
//
// ShellExecutor wraps a CommandRunner (OSCommandRunner in production) so that
// callers such as the live btool strategy can be exercised with recording
// runners in tests.
package execshell
