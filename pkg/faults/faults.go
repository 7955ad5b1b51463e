package faults

import (
	"errors"
	"fmt"
)

// Kind classifies a core error so callers can map it to transport-level
// handling without inspecting messages.
type Kind string

const (
	// KindValidation marks input rejected before any state change.
	KindValidation Kind = "validation"
	// KindConflict marks a request that clashes with current state
	// (duplicate auto-bid, auction no longer active, already blocked).
	KindConflict Kind = "conflict"
	// KindAuthorization marks a caller acting on a record they do not own.
	KindAuthorization Kind = "authorization"
	// KindInvariant marks a broken internal invariant. Never retried,
	// never swallowed.
	KindInvariant Kind = "invariant"
	// KindContention marks a bounded lock wait that timed out. The
	// operation had no effect and may be retried by the caller.
	KindContention Kind = "contention"
)

// Fault is an error carrying a Kind. Domain packages declare sentinel
// faults and return them directly or wrapped with %w.
type Fault struct {
	kind Kind
	err  error
}

// New creates a fault with the given kind and message.
func New(kind Kind, format string, args ...any) *Fault {
	return &Fault{kind: kind, err: fmt.Errorf(format, args...)}
}

// Wrap attaches a kind to an existing error.
func Wrap(kind Kind, err error) *Fault {
	return &Fault{kind: kind, err: err}
}

func (f *Fault) Error() string { return f.err.Error() }

func (f *Fault) Unwrap() error { return f.err }

// Kind returns the fault's classification.
func (f *Fault) Kind() Kind { return f.kind }

// KindOf returns the kind of the first Fault in err's chain, or "" if
// the chain carries none.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.kind
	}
	return ""
}

// IsRetryable reports whether the error is a transient contention error
// that left no side effects.
func IsRetryable(err error) bool {
	return KindOf(err) == KindContention
}
