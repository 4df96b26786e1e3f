package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Configuration errors
	ErrConfigLoad         ErrorCode = "CONFIG_LOAD"
	ErrConfigWrite        ErrorCode = "CONFIG_WRITE"
	ErrConfigInvalid      ErrorCode = "CONFIG_INVALID"
	ErrPassphraseRequired ErrorCode = "PASSPHRASE_REQUIRED"

	// Manifest errors
	ErrManifestRead  ErrorCode = "MANIFEST_READ"
	ErrManifestWrite ErrorCode = "MANIFEST_WRITE"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrLinkCreate   ErrorCode = "LINK_CREATE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"

	// Repository state errors
	ErrRepoOpen     ErrorCode = "REPO_OPEN"
	ErrRepoState    ErrorCode = "REPO_STATE"
	ErrConflict     ErrorCode = "CONFLICT"
	ErrPushRejected ErrorCode = "PUSH_REJECTED"

	// Transport errors
	ErrTransport ErrorCode = "TRANSPORT"
	ErrAuth      ErrorCode = "AUTH"
)

// SdfmError represents a structured error with code and details
type SdfmError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SdfmError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SdfmError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SdfmError) Is(target error) bool {
	var targetErr *SdfmError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SdfmError with the given code and message
func New(code ErrorCode, message string) *SdfmError {
	return &SdfmError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SdfmError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SdfmError {
	return &SdfmError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SdfmError
func Wrap(err error, code ErrorCode, message string) *SdfmError {
	if err == nil {
		return nil
	}
	return &SdfmError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SdfmError {
	if err == nil {
		return nil
	}
	return &SdfmError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SdfmError) WithDetail(key string, value interface{}) *SdfmError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var sdfmErr *SdfmError
	if errors.As(err, &sdfmErr) {
		return sdfmErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SdfmError
func GetErrorCode(err error) ErrorCode {
	var sdfmErr *SdfmError
	if errors.As(err, &sdfmErr) {
		return sdfmErr.Code
	}
	return ErrUnknown
}

// IsConflict reports whether err is a repository-state conflict rather than a
// hard failure.
func IsConflict(err error) bool {
	code := GetErrorCode(err)
	return code == ErrConflict || code == ErrPushRejected
}

// IsConfigError reports whether err stems from a usage mistake in configuration.
func IsConfigError(err error) bool {
	switch GetErrorCode(err) {
	case ErrConfigLoad, ErrConfigInvalid, ErrPassphraseRequired, ErrNotImplemented:
		return true
	}
	return false
}
