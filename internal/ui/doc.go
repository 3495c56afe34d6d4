// Package ui provides helpers for human-readable console output.
//
// ConsoleCommandEventLogger turns btool lifecycle events into short messages
// when the console log format is selected, while structured logs keep the
// detailed fields emitted by execshell.
package ui
