package errors

import (
	"errors"
	"fmt"
)

// Type classifies an application error so callers can react without string
// matching. Every failure that crosses a component boundary carries one.
type Type string

const (
	TypeInvalidInput         Type = "invalid_input"
	TypeAlreadyExists        Type = "already_exists"
	TypeInvalidCredentials   Type = "invalid_credentials"
	TypeStorageUnavailable   Type = "storage_unavailable"
	TypeDeviceNotFound       Type = "device_not_found"
	TypeDeviceUnreachable    Type = "device_unreachable"
	TypeInvalidConfiguration Type = "invalid_configuration"
	TypeTimeout              Type = "timeout"
)

// Error is an application error with a classification and an optional cause.
type Error struct {
	Type     Type
	Message  string
	Internal error
}

func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Internal
}

// Is matches two application errors by type, so sentinel-style checks like
// errors.Is(err, &Error{Type: TypeAlreadyExists}) work across wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Type == t.Type
	}
	return false
}

// New creates a classified error.
func New(errType Type, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// Wrap classifies an existing error without losing the cause.
func Wrap(err error, errType Type, message string) *Error {
	return &Error{Type: errType, Message: message, Internal: err}
}

// IsType reports whether err (or anything it wraps) carries the given type.
func IsType(err error, errType Type) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Convenience constructors for the common cases.

func NewInvalidInput(message string) *Error {
	return New(TypeInvalidInput, message)
}

func NewAlreadyExists(message string) *Error {
	return New(TypeAlreadyExists, message)
}

func NewInvalidCredentials(message string) *Error {
	return New(TypeInvalidCredentials, message)
}

func NewStorageUnavailable(err error, message string) *Error {
	return Wrap(err, TypeStorageUnavailable, message)
}

func NewDeviceNotFound(message string) *Error {
	return New(TypeDeviceNotFound, message)
}

func NewDeviceUnreachable(err error, message string) *Error {
	return Wrap(err, TypeDeviceUnreachable, message)
}

func NewInvalidConfiguration(message string) *Error {
	return New(TypeInvalidConfiguration, message)
}

func NewTimeout(message string) *Error {
	return New(TypeTimeout, message)
}
