package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrClosed       ErrorCode = "CLOSED"

	// Execution errors
	ErrAborted ErrorCode = "ABORTED"
	ErrTimeout ErrorCode = "TIMEOUT"
	ErrCleanup ErrorCode = "CLEANUP"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Command errors
	ErrCommandExecute ErrorCode = "COMMAND_EXECUTE"
)

// UnknownErrorMessage is the fixed message given to failures whose cause
// was not an error value.
const UnknownErrorMessage = "Unknown error"

// SettleError represents a structured error with code and details
type SettleError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SettleError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SettleError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SettleError) Is(target error) bool {
	var targetErr *SettleError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SettleError with the given code and message
func New(code ErrorCode, message string) *SettleError {
	return &SettleError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SettleError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SettleError {
	return &SettleError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SettleError
func Wrap(err error, code ErrorCode, message string) *SettleError {
	if err == nil {
		return nil
	}
	return &SettleError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SettleError {
	if err == nil {
		return nil
	}
	return &SettleError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SettleError) WithDetail(key string, value interface{}) *SettleError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Unknown returns the error used when a failure carried no error value.
// The raw value, if any, is kept under the "value" detail.
func Unknown(value interface{}) *SettleError {
	err := New(ErrUnknown, UnknownErrorMessage)
	if value != nil {
		err.WithDetail("value", value)
	}
	return err
}

// Aborted returns an abort error carrying the cancellation reason.
func Aborted(reason string) *SettleError {
	if reason == "" {
		return New(ErrAborted, "operation aborted")
	}
	return Newf(ErrAborted, "operation aborted: %s", reason).WithDetail("reason", reason)
}

// TimedOut returns a timeout error whose message states the configured duration.
func TimedOut(d time.Duration) *SettleError {
	return Newf(ErrTimeout, "operation timed out after %s", d).WithDetail("timeout", d)
}

// Cleanup wraps the failure of the deferred action registered at index.
func Cleanup(err error, index int) *SettleError {
	return Wrapf(err, ErrCleanup, "deferred action %d failed", index).WithDetail("index", index)
}

// Normalize turns an arbitrary recovered value into an error. Error values
// pass through unchanged; anything else becomes an Unknown error.
func Normalize(value interface{}) error {
	if err, ok := value.(error); ok && err != nil {
		return err
	}
	return Unknown(value)
}

// Reason returns the reason attached to an abort error, or "".
func Reason(err error) string {
	if reason, ok := GetErrorDetails(err)["reason"].(string); ok && IsAborted(err) {
		return reason
	}
	return ""
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var settleErr *SettleError
	if errors.As(err, &settleErr) {
		return settleErr.Code == code
	}
	return false
}

// IsAborted reports whether err is an abort error.
func IsAborted(err error) bool { return IsErrorCode(err, ErrAborted) }

// IsTimeout reports whether err is a timeout error.
func IsTimeout(err error) bool { return IsErrorCode(err, ErrTimeout) }

// IsCleanup reports whether err is a deferred action failure.
func IsCleanup(err error) bool { return IsErrorCode(err, ErrCleanup) }

// IsUnknown reports whether err is a normalized unknown error.
func IsUnknown(err error) bool { return IsErrorCode(err, ErrUnknown) }

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SettleError
func GetErrorCode(err error) ErrorCode {
	var settleErr *SettleError
	if errors.As(err, &settleErr) {
		return settleErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a SettleError
func GetErrorDetails(err error) map[string]interface{} {
	var settleErr *SettleError
	if errors.As(err, &settleErr) {
		return settleErr.Details
	}
	return nil
}
