package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/daap14/roster/internal/employee"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Store operation failed
	ExitCommandError = 2 // Bad arguments or store configuration
)

// ExitError is an error that has already been reported to the user and
// carries the process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the JSON output of every command.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes data as JSON, or calls text to write the human-readable form.
func (f *OutputFormatter) Success(data interface{}, text func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	text(f.Writer)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
			},
		})
	}

	_, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return err
}

// usageError reports a bad invocation and returns the matching ExitError.
func usageError(f *OutputFormatter, message string) error {
	_ = f.Error("INVALID_ARGUMENT", message)
	return NewExitError(ExitCommandError, message)
}

// storeError reports a failed store operation and returns the matching
// ExitError.
func storeError(f *OutputFormatter, err error) error {
	code, message := "STORAGE_ERROR", "the store rejected the operation"
	switch {
	case errors.Is(err, employee.ErrNotFound):
		code, message = "NOT_FOUND", "employee not found"
	case errors.Is(err, employee.ErrDuplicateKey):
		code, message = "DUPLICATE_ID", "an employee with this id already exists"
	case errors.Is(err, employee.ErrOpenFailed):
		code, message = "STORE_UNAVAILABLE", "the employee store could not be opened"
	}
	_ = f.Error(code, message)
	return &ExitError{Code: ExitFailure, Message: code, Err: err}
}
