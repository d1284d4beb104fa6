// Package serrors attaches a semantic kind to errors. Both the kind and the
// wrapped cause stay reachable through errors.Is and errors.As, so callers
// branch on the category without losing the underlying error.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a semantic error category. Only NewKind creates one.
type Kind interface {
	error
	isKind()
}

type kind string

func (k kind) Error() string { return string(k) }
func (kind) isKind()         {}

// NewKind returns a comparable sentinel named name.
func NewKind(name string) Kind { return kind(name) }

var (
	// ErrFetch marks a page that could not be retrieved. Traversal recovers it
	// per URL.
	ErrFetch = NewKind("FETCH")
	// ErrTimeout marks a deadline hit. Fetch timeouts carry ErrFetch as well.
	ErrTimeout = NewKind("TIMEOUT")
	// ErrNotify marks an undelivered notification.
	ErrNotify = NewKind("NOTIFY")
	// ErrPersistence marks a registry read or write failure. It aborts the
	// invocation.
	ErrPersistence = NewKind("PERSISTENCE")
	// ErrBadRequest marks invalid input: a malformed URL, pattern or setting.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrInternal marks a broken invariant.
	ErrInternal = NewKind("INTERNAL")
)

// Error pairs a Kind with an optional cause and message.
//
// Error() renders "<msg>: <cause>", dropping whichever part is empty, and
// falls back to the kind name when both are.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With returns an error of kind k with a formatted message and no cause.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap returns an error of kind k wrapping err with a formatted message.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

func (e *Error) Error() string {
	switch {
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

// Unwrap exposes both the kind and the cause to the errors package.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.err != nil {
		errs = append(errs, e.err)
	}

	return errs
}

// Kind returns the semantic kind, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message without the cause.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped error, or nil.
func (e *Error) Cause() error { return e.err }

// KindOf returns the kind of the outermost *Error in err's chain, or nil.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind()
	}

	return nil
}
