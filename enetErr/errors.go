// Package enetErr defines the error taxonomy shared across the solver:
// invalid shapes, invalid parameters, and numerical failures. Each layer
// above the kernel (path, cv) tags an error with its own index as it
// propagates up, so the facade can surface one error with a full tag
// chain.
package enetErr

import (
	"fmt"
	"strings"
)

// Kind distinguishes the three error categories a caller can react to
// differently. ConvergenceWarning is deliberately not a Kind: it is
// never raised as an error (see Warning).
type Kind int

const (
	InvalidShape Kind = iota
	InvalidParameter
	NumericalError
)

func (k Kind) String() string {
	switch k {
	case InvalidShape:
		return "invalid-shape"
	case InvalidParameter:
		return "invalid-parameter"
	case NumericalError:
		return "numerical-error"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by every layer of the solver.
type Error struct {
	Kind Kind
	Msg  string
	Tags []string
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if len(e.Tags) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s [%s]", e.Kind, e.Msg, strings.Join(e.Tags, " "))
}

// With returns a copy of e with tag appended, letting each layer stamp
// its own index without mutating the error a lower layer already
// returned.
func (e *Error) With(tag string) *Error {
	tags := make([]string, len(e.Tags), len(e.Tags)+1)
	copy(tags, e.Tags)
	tags = append(tags, tag)
	return &Error{Kind: e.Kind, Msg: e.Msg, Tags: tags}
}

// Is allows errors.Is(err, &enetErr.Error{Kind: enetErr.InvalidParameter})
// style checks by comparing Kind, since *Error values are never
// singletons.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Warning is a non-fatal diagnostic: a convergence failure or a
// numerical-conditioning note. It is never returned as an error.
type Warning struct {
	AlphaIndex int
	Alpha      float64
	Gap        float64
	Threshold  float64
	Message    string
}

func (w Warning) String() string {
	if w.Message != "" {
		return w.Message
	}
	return fmt.Sprintf("alpha[%d]=%g did not converge: gap=%g > tol*||y||^2=%g",
		w.AlphaIndex, w.Alpha, w.Gap, w.Threshold)
}
