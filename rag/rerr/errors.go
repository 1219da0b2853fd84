// Package rerr defines the behavioral error kinds shared across the raggo
// retrieval core: input validation failures, decode failures, upstream
// (LLM/store) failures, transient failures, and invariant violations.
// Callers distinguish kinds with errors.Is / errors.As, never by string
// matching.
package rerr

import (
	"errors"
	"fmt"
)

// Kind is a behavioral error category, not a concrete type. Handlers
// branch on Kind via errors.Is against the sentinel values below.
type Kind int

const (
	// KindInputRejected marks unsupported formats, invalid URIs, empty
	// queries, or malformed filters. Surfaced verbatim to the caller;
	// never aborts the enclosing batch.
	KindInputRejected Kind = iota
	// KindDecode marks text that could not be decoded in any candidate
	// charset. Surfaced per-file; siblings in a batch proceed.
	KindDecode
	// KindUpstream marks an error returned by the LLM or the vector
	// store.
	KindUpstream
	// KindTransient marks timeouts and stream interruptions. No
	// automatic retry is attempted by this package.
	KindTransient
	// KindInvariant marks a collection-not-found or schema-mismatch
	// condition: fatal to the current operation.
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindInputRejected:
		return "input_rejected"
	case KindDecode:
		return "decode"
	case KindUpstream:
		return "upstream"
	case KindTransient:
		return "transient"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind and the name of the
// source/collection the failure is about, so user-visible output can
// name the failing thing without a stack trace.
type Error struct {
	Kind   Kind
	Source string
	Cause  error
}

func (e *Error) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %v", e.Kind, e.Source, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error of the given kind, naming the failing source
// (a file path, URL, or collection name) and wrapping cause.
func New(kind Kind, source string, cause error) *Error {
	return &Error{Kind: kind, Source: source, Cause: cause}
}

func InputRejected(source string, format string, args ...interface{}) *Error {
	return New(KindInputRejected, source, fmt.Errorf(format, args...))
}

func Decode(source string, cause error) *Error {
	return New(KindDecode, source, cause)
}

func Upstream(source string, cause error) *Error {
	return New(KindUpstream, source, cause)
}

func Transient(source string, cause error) *Error {
	return New(KindTransient, source, cause)
}

func Invariant(source string, format string, args ...interface{}) *Error {
	return New(KindInvariant, source, fmt.Errorf(format, args...))
}

// Is allows errors.Is(err, rerr.InputRejected("", "")) style kind checks
// by comparing Kind rather than the wrapped cause.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// ErrNotFound is the sentinel returned by Catalog.Load when a collection
// has no catalog entry. Per spec: "missing entry yields 'not found', not
// an error" — callers check errors.Is(err, rerr.ErrNotFound) rather than
// treating every non-nil error as fatal.
var ErrNotFound = errors.New("catalog: collection not found")
