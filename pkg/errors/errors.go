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

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Git errors
	ErrGitOperation  ErrorCode = "GIT_OPERATION"
	ErrGitRefUnknown ErrorCode = "GIT_REF_UNKNOWN"

	// Plugin errors
	ErrPluginInvalid  ErrorCode = "PLUGIN_INVALID"
	ErrPluginManifest ErrorCode = "PLUGIN_MANIFEST"
	ErrPluginState    ErrorCode = "PLUGIN_STATE"

	// Template errors
	ErrTemplateNotFound ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrTemplateRender   ErrorCode = "TEMPLATE_RENDER"

	// Cache errors
	ErrCacheIO ErrorCode = "CACHE_IO"

	// Output errors
	ErrOutputWrite  ErrorCode = "OUTPUT_WRITE"
	ErrOutputEscape ErrorCode = "OUTPUT_ESCAPE"

	// Validation errors
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"
)

// ForgeError represents a structured error with code and details
type ForgeError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ForgeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ForgeError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ForgeError) Is(target error) bool {
	var targetErr *ForgeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ForgeError with the given code and message
func New(code ErrorCode, message string) *ForgeError {
	return &ForgeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ForgeError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ForgeError {
	return &ForgeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ForgeError
func Wrap(err error, code ErrorCode, message string) *ForgeError {
	if err == nil {
		return nil
	}
	return &ForgeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ForgeError {
	if err == nil {
		return nil
	}
	return &ForgeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ForgeError) WithDetail(key string, value interface{}) *ForgeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *ForgeError) WithDetails(details map[string]interface{}) *ForgeError {
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
	var forgeErr *ForgeError
	if errors.As(err, &forgeErr) {
		return forgeErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ForgeError
func GetErrorCode(err error) ErrorCode {
	var forgeErr *ForgeError
	if errors.As(err, &forgeErr) {
		return forgeErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ForgeError
func GetErrorDetails(err error) map[string]interface{} {
	var forgeErr *ForgeError
	if errors.As(err, &forgeErr) {
		return forgeErr.Details
	}
	return nil
}
