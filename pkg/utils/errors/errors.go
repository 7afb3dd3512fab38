// Package errors provides categorised errors with a captured stack, used at
// the outer edges of tweetbridge (client construction, CLI, webhook server).
package errors

import (
	"fmt"
	"runtime"
)

// ErrorType is the category an Error belongs to.
type ErrorType string

const (
	TypeValidation    ErrorType = "validation"
	TypeConfig        ErrorType = "config"
	TypeTwitter       ErrorType = "twitter"
	TypeSerialization ErrorType = "serialization"
	TypeWebhook       ErrorType = "webhook"
)

const maxStackSize = 4096

// Error carries a category and the stack of the goroutine that created it.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
	Stack   string
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same category, so callers can test
// errors.Is(err, &Error{Type: TypeConfig}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// New creates an Error, capturing the current stack.
func New(errType ErrorType, message string, err error) *Error {
	stack := make([]byte, maxStackSize)
	n := runtime.Stack(stack, false)
	return &Error{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   string(stack[:n]),
	}
}

// Wrap adds a category and message to err. If err is already an *Error its
// stack is kept.
func Wrap(err error, errType ErrorType, message string) *Error {
	if inner, ok := err.(*Error); ok {
		return &Error{
			Type:    errType,
			Message: message,
			Err:     inner,
			Stack:   inner.Stack,
		}
	}
	return New(errType, message, err)
}

// StackOf returns the captured stack of err if it is an *Error.
func StackOf(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Stack
	}
	return ""
}
