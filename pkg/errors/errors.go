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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrCanceled      ErrorCode = "CANCELED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Repository errors
	ErrRepoNotFound ErrorCode = "REPO_NOT_FOUND"
	ErrRepoExists   ErrorCode = "REPO_EXISTS"
	ErrRepoAccess   ErrorCode = "REPO_ACCESS"

	// Import and git errors
	ErrImportFetch ErrorCode = "IMPORT_FETCH"
	ErrGit         ErrorCode = "GIT"

	// Rendering errors
	ErrMissingVariable ErrorCode = "MISSING_VARIABLE"
	ErrTemplateRead    ErrorCode = "TEMPLATE_READ"

	// Manifest errors
	ErrManifestLoad ErrorCode = "MANIFEST_LOAD"
	ErrManifestSave ErrorCode = "MANIFEST_SAVE"

	// FileSystem errors
	ErrFileNotFound  ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrFileRemove    ErrorCode = "FILE_REMOVE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
	ErrBackup        ErrorCode = "BACKUP"
)

// HomieError represents a structured error with code and details
type HomieError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *HomieError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *HomieError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *HomieError) Is(target error) bool {
	var targetErr *HomieError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new HomieError with the given code and message
func New(code ErrorCode, message string) *HomieError {
	return &HomieError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new HomieError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *HomieError {
	return &HomieError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a HomieError
func Wrap(err error, code ErrorCode, message string) *HomieError {
	if err == nil {
		return nil
	}
	return &HomieError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *HomieError {
	if err == nil {
		return nil
	}
	return &HomieError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *HomieError) WithDetail(key string, value interface{}) *HomieError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *HomieError) WithDetails(details map[string]interface{}) *HomieError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var homieErr *HomieError
	if errors.As(err, &homieErr) {
		return homieErr.Code == code
	}
	return false
}

// HasErrorCode reports whether any error in the chain carries the code.
func HasErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var homieErr *HomieError
		if !errors.As(err, &homieErr) {
			return false
		}
		if homieErr.Code == code {
			return true
		}
		err = homieErr.Wrapped
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a HomieError
func GetErrorCode(err error) ErrorCode {
	var homieErr *HomieError
	if errors.As(err, &homieErr) {
		return homieErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a HomieError
func GetErrorDetails(err error) map[string]interface{} {
	var homieErr *HomieError
	if errors.As(err, &homieErr) {
		return homieErr.Details
	}
	return nil
}

// IsConfigError reports whether err is fatal configuration trouble.
func IsConfigError(err error) bool {
	switch GetErrorCode(err) {
	case ErrConfigLoad, ErrConfigParse, ErrConfigValid:
		return true
	}
	return false
}
