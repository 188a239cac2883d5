package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrMissingCredential = errors.New("missing credential")
	ErrNoResult          = errors.New("no result produced")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrProviderFailure   = errors.New("provider failure")
	ErrTimeout           = errors.New("timeout")
	ErrBusy              = errors.New("operation in progress")
	ErrNotFound          = errors.New("not found")
)

// Error carries one of the sentinel kinds above together with a message that
// is safe to show to the caller. errors.Is matches against the kind.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a typed error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError builds a typed error of the given kind around cause.
func WrapError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Message returns the caller-facing message for err. Untyped errors fall back
// to their own text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var typed *Error
	if errors.As(err, &typed) && typed.Message != "" {
		return typed.Message
	}
	return err.Error()
}
