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
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrLocked       ErrorCode = "LOCKED"

	// Install errors
	ErrArtifactMissing      ErrorCode = "ARTIFACT_MISSING"
	ErrTargetUnwritable     ErrorCode = "TARGET_UNWRITABLE"
	ErrTargetConflict       ErrorCode = "TARGET_CONFLICT"
	ErrCopyFailed           ErrorCode = "COPY_FAILED"
	ErrShortcutRegistration ErrorCode = "SHORTCUT_REGISTRATION_FAILED"

	// Uninstall errors
	ErrShortcutNotFound ErrorCode = "SHORTCUT_NOT_FOUND"
	ErrShortcutRemoval  ErrorCode = "SHORTCUT_REMOVAL_FAILED"
	ErrDeleteFailed     ErrorCode = "DELETE_FAILED"
	ErrMoveFailed       ErrorCode = "MOVE_FAILED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Receipt errors
	ErrReceiptNotFound ErrorCode = "RECEIPT_NOT_FOUND"
	ErrReceiptWrite    ErrorCode = "RECEIPT_WRITE"
)

// Detail keys shared by every component
const (
	DetailExecutable = "executable"
	DetailStep       = "step"
	DetailPath       = "path"
	DetailRollback   = "rollback"
	DetailState      = "state"
	DetailShortcuts  = "shortcuts"
)

// PrebuiltError is an error with a stable code and structured details.
// Tests and callers branch on Code, never on Message.
type PrebuiltError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *PrebuiltError) Error() string {
	if e.Wrapped == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
}

func (e *PrebuiltError) Unwrap() error {
	return e.Wrapped
}

// Is matches any PrebuiltError carrying the same code
func (e *PrebuiltError) Is(target error) bool {
	other, ok := target.(*PrebuiltError)
	return ok && other.Code == e.Code
}

func build(code ErrorCode, message string, wrapped error) *PrebuiltError {
	return &PrebuiltError{
		Code:    code,
		Message: message,
		Details: map[string]interface{}{},
		Wrapped: wrapped,
	}
}

// New returns an error with code and message
func New(code ErrorCode, message string) *PrebuiltError {
	return build(code, message, nil)
}

// Newf is New with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PrebuiltError {
	return build(code, fmt.Sprintf(format, args...), nil)
}

// Wrap attaches code and message to err. A nil err gives nil.
func Wrap(err error, code ErrorCode, message string) *PrebuiltError {
	if err == nil {
		return nil
	}
	return build(code, message, err)
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PrebuiltError {
	if err == nil {
		return nil
	}
	return build(code, fmt.Sprintf(format, args...), err)
}

// WithDetail sets one detail and returns e for chaining
func (e *PrebuiltError) WithDetail(key string, value interface{}) *PrebuiltError {
	return e.WithDetails(map[string]interface{}{key: value})
}

// WithDetails merges details into e and returns e for chaining
func (e *PrebuiltError) WithDetails(details map[string]interface{}) *PrebuiltError {
	if e.Details == nil {
		e.Details = make(map[string]interface{}, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// find returns the outermost PrebuiltError in err's chain
func find(err error) *PrebuiltError {
	var pe *PrebuiltError
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}

// IsErrorCode reports whether the outermost PrebuiltError in err has code
func IsErrorCode(err error, code ErrorCode) bool {
	pe := find(err)
	return pe != nil && pe.Code == code
}

// GetErrorCode returns the code of err, or ErrUnknown for foreign errors
func GetErrorCode(err error) ErrorCode {
	if pe := find(err); pe != nil {
		return pe.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details of err, or nil for foreign errors
func GetErrorDetails(err error) map[string]interface{} {
	if pe := find(err); pe != nil {
		return pe.Details
	}
	return nil
}

// GetDetailString returns a string detail, or "" when absent.
func GetDetailString(err error, key string) string {
	if s, ok := GetErrorDetails(err)[key].(string); ok {
		return s
	}
	return ""
}
