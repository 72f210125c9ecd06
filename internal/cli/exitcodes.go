package cli

import "errors"

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: PDF writer failures, permission problems, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing arguments, malformed flag values,
	// or when the user needs to provide different arguments.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Missing spreadsheet, missing worksheet, missing logo.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Unreadable spreadsheets, sheets without a header,
	// or sheets that produce no printable tag.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Invalid configuration values, tags that do not fit the page,
	// negative quantities.
	ExitValidation = 5
)

// CommandError carries the exit code a failed command wants. The message has
// already been shown to the user when Reported is true.
type CommandError struct {
	Code     int
	Err      error
	Reported bool
}

func (e *CommandError) Error() string { return e.Err.Error() }

func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode returns the process exit code for an error returned by a command
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *CommandError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitError
}

// IsReported reports whether err was already printed by a formatter
func IsReported(err error) bool {
	var ee *CommandError
	return errors.As(err, &ee) && ee.Reported
}
