package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeFileNotFound       = "FILE_NOT_FOUND"
	CodeParseError         = "PARSE_ERROR"
	CodeConfigurationError = "CONFIGURATION_ERROR"
	CodeEmptyResult        = "EMPTY_RESULT"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeInvalidInput       = "INVALID_INPUT"
)

// Common error constructors

// ConfigInvalid flags a bad environment/configuration value.
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// FileNotFound flags a missing input workbook. Fatal at startup.
func FileNotFound(path string) *AppError {
	return New(CodeFileNotFound, fmt.Sprintf("input file not found: %s", path))
}

// ParseError flags a workbook that excelize could not read.
func ParseError(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeParseError,
		Message: fmt.Sprintf("failed to parse workbook %s", path),
		Cause:   cause,
	}
}

// ConfigurationError flags a join key column missing from a source sheet.
// Names both the offending column and the sheet so the message is actionable.
func ConfigurationError(column, sheet string) *AppError {
	return New(CodeConfigurationError, fmt.Sprintf("join key column %q not present in sheet %q", column, sheet))
}

// EmptyResult flags a filter selection that matched zero rows. Non-fatal.
func EmptyResult(message string) *AppError {
	return New(CodeEmptyResult, message)
}

// InvalidInput flags a bad request value.
func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
