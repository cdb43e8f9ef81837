package entity

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures of a completion or round trip.
type ErrorKind string

const (
	KindBackendUnavailable ErrorKind = "BACKEND_UNAVAILABLE"
	KindInvalidRequest     ErrorKind = "INVALID_REQUEST"
	KindUnknownTool        ErrorKind = "UNKNOWN_TOOL"
	KindInvalidArguments   ErrorKind = "INVALID_ARGUMENTS"
	KindToolFailed         ErrorKind = "TOOL_FAILED"
	KindSchemaMismatch     ErrorKind = "SCHEMA_MISMATCH"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrBackendUnavailable = &Error{Kind: KindBackendUnavailable}
	ErrInvalidRequest     = &Error{Kind: KindInvalidRequest}
	ErrUnknownTool        = &Error{Kind: KindUnknownTool}
	ErrInvalidArguments   = &Error{Kind: KindInvalidArguments}
	ErrToolFailed         = &Error{Kind: KindToolFailed}
	ErrSchemaMismatch     = &Error{Kind: KindSchemaMismatch}
)

type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

func NewError(kind ErrorKind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// WrapError returns nil when err is nil.
func WrapError(err error, kind ErrorKind, op, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Message == "" && t.Err == nil
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
