package api

import (
	"errors"
	"fmt"

	"github.com/signadot/classmod/class"
	"github.com/signadot/classmod/modify"
)

// Error represents an API error response.
type Error struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Is implements the errors.Is interface for error matching.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	if t.Message != "" {
		return e.Message == t.Message
	}
	return false
}

// Common error codes.
const (
	ErrCodePermissionDenied = "permission_denied"
	ErrCodeMethodNotFound   = "method_not_found"
	ErrCodeMethodExists     = "method_exists"
	ErrCodeNoSuchPatch      = "no_such_patch"
	ErrCodeNoSuchClass      = "no_such_class"
	ErrCodeBadRequest       = "bad_request"
)

// NewError creates a new Error with the given code and message.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// FromErr maps engine errors onto API error codes.
func FromErr(err error) *Error {
	if err == nil {
		return nil
	}
	code := ErrCodeBadRequest
	switch {
	case errors.Is(err, modify.ErrPermissionDenied):
		code = ErrCodePermissionDenied
	case errors.Is(err, modify.ErrMethodNotFound), errors.Is(err, class.ErrNoMethod):
		code = ErrCodeMethodNotFound
	case errors.Is(err, modify.ErrMethodAlreadyExists):
		code = ErrCodeMethodExists
	case errors.Is(err, modify.ErrNoSuchPatch):
		code = ErrCodeNoSuchPatch
	case errors.Is(err, class.ErrNoClass):
		code = ErrCodeNoSuchClass
	}
	return &Error{Code: code, Message: err.Error()}
}
