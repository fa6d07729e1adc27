// Package diag implements the diagnostics of the haml frontend.
//
// Problems found while scanning, parsing or checking a file are never returned as Go errors,
// they are reported through an [Emitter] as they are found and collected (typically by an
// [Accumulator]) to be inspected later. Whether or not the current operation carries on
// after reporting a problem is a decision for the caller, not the emitter.
package diag

import (
	"slices"

	"go.followtheprocess.codes/haml/internal/syntax"
)

// Level is the severity of a [Diagnostic].
type Level int

const (
	LevelError   Level = iota // error
	LevelWarning              // warning
	LevelInfo                 // info
)

// String implements [fmt.Stringer] for [Level].
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText implements [encoding.TextMarshaler] for [Level].
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Diagnostic is a single problem found in a source file.
type Diagnostic struct {
	Message     string      `json:"message"`               // Headline describing the problem
	SpanMessage string      `json:"spanMessage,omitempty"` // Short message pointing at the span, may be empty
	Span        syntax.Span `json:"-"`                     // The offending source, the zero Span if there is none
	Level       Level       `json:"level"`                 // Severity
}

// HasSpan reports whether the diagnostic points at a piece of source text.
func (d Diagnostic) HasSpan() bool {
	return !d.Span.IsZero()
}

// Position returns the source position of the diagnostic.
func (d Diagnostic) Position() syntax.Position {
	return d.Span.Position()
}

// String prints a [Diagnostic] in the plain "file:line:col: message" form.
func (d Diagnostic) String() string {
	if !d.HasSpan() {
		return d.Message + "\n"
	}

	return d.Position().String() + ": " + d.Message + "\n"
}

// HasErrors reports whether any of the diagnostics are at [LevelError].
func HasErrors(diagnostics []Diagnostic) bool {
	return slices.ContainsFunc(diagnostics, func(d Diagnostic) bool {
		return d.Level == LevelError
	})
}

// Errors returns the number of diagnostics at [LevelError].
func Errors(diagnostics []Diagnostic) int {
	n := 0

	for _, d := range diagnostics {
		if d.Level == LevelError {
			n++
		}
	}

	return n
}
