package diag

import (
	"fmt"
	"sync"

	"go.followtheprocess.codes/haml/internal/syntax/token"
)

// Emitter is the capability through which every problem is reported, there
// is one method per situation.
//
// Implementations must not panic and must not stop the caller, they simply
// record what they're given.
type Emitter interface {
	// Emit reports an arbitrary [Diagnostic], for problems not covered by
	// the other methods.
	Emit(d Diagnostic)

	// Message reports a problem that is not tied to any source text.
	Message(msg string)

	// UnexpectedEOF reports that the file ended while reading tok.
	UnexpectedEOF(tok token.Token)

	// DuplicateIdentifier reports that tok names something that is already declared.
	DuplicateIdentifier(tok token.Token)

	// UnexpectedToken reports that tok was found where expected was wanted.
	UnexpectedToken(tok token.Token, expected string)

	// UnterminatedComment reports a block comment with no closing "*/".
	UnterminatedComment(tok token.Token)

	// UnterminatedString reports a string literal with no closing quote.
	UnterminatedString(tok token.Token)

	// UnknownToken reports a character that is not part of the language.
	UnknownToken(tok token.Token)
}

// NewMessage builds the [Diagnostic] reported by [Emitter.Message].
func NewMessage(msg string) Diagnostic {
	return Diagnostic{Level: LevelError, Message: msg}
}

// NewUnexpectedEOF builds the [Diagnostic] reported by [Emitter.UnexpectedEOF].
func NewUnexpectedEOF(tok token.Token) Diagnostic {
	return Diagnostic{
		Level:       LevelError,
		Message:     fmt.Sprintf("file ended unexpectedly when reading `%s`", tok.Kind),
		Span:        tok.Span,
		SpanMessage: "expected more code, but the file ended",
	}
}

// NewDuplicateIdentifier builds the [Diagnostic] reported by [Emitter.DuplicateIdentifier].
func NewDuplicateIdentifier(tok token.Token) Diagnostic {
	return Diagnostic{
		Level:       LevelError,
		Message:     fmt.Sprintf("type `%s` defined multiple times", tok.Text()),
		Span:        tok.Span,
		SpanMessage: "there can only be one type with this name",
	}
}

// NewUnexpectedToken builds the [Diagnostic] reported by [Emitter.UnexpectedToken].
func NewUnexpectedToken(tok token.Token, expected string) Diagnostic {
	return Diagnostic{
		Level:       LevelError,
		Message:     fmt.Sprintf("expected %s but found a %s", expected, tok.Kind.Description()),
		Span:        tok.Span,
		SpanMessage: "expected " + expected,
	}
}

// NewUnterminatedComment builds the [Diagnostic] reported by [Emitter.UnterminatedComment].
func NewUnterminatedComment(tok token.Token) Diagnostic {
	return Diagnostic{
		Level:       LevelError,
		Message:     "found unterminated comment",
		Span:        tok.Span,
		SpanMessage: "this comment must be ended with a `*/` characters",
	}
}

// NewUnterminatedString builds the [Diagnostic] reported by [Emitter.UnterminatedString].
func NewUnterminatedString(tok token.Token) Diagnostic {
	return Diagnostic{
		Level:       LevelError,
		Message:     "found unterminated string",
		Span:        tok.Span,
		SpanMessage: "add a `\"` character",
	}
}

// NewUnknownToken builds the [Diagnostic] reported by [Emitter.UnknownToken].
func NewUnknownToken(tok token.Token) Diagnostic {
	return Diagnostic{
		Level:       LevelError,
		Message:     fmt.Sprintf("found unknown character `%s`", tok.Text()),
		Span:        tok.Span,
		SpanMessage: "this character is not part of the language",
	}
}

// NewDuplicateField builds the [Diagnostic] for a field name used twice in the
// same block or annotation.
func NewDuplicateField(tok token.Token) Diagnostic {
	return Diagnostic{
		Level:       LevelError,
		Message:     fmt.Sprintf("field `%s` defined multiple times", tok.Text()),
		Span:        tok.Span,
		SpanMessage: "there can only be one field with this name",
	}
}

// NewDuplicatePackage builds the [Diagnostic] for a second package statement in a file.
func NewDuplicatePackage(tok token.Token) Diagnostic {
	return Diagnostic{
		Level:       LevelError,
		Message:     "package declared multiple times",
		Span:        tok.Span,
		SpanMessage: "a file can only belong to one package",
	}
}

// NewDuplicateImport builds the warning for a path imported more than once.
func NewDuplicateImport(tok token.Token) Diagnostic {
	return Diagnostic{
		Level:       LevelWarning,
		Message:     fmt.Sprintf("%s imported multiple times", tok.Text()),
		Span:        tok.Span,
		SpanMessage: "this import is redundant",
	}
}

// NewDuplicateAnnotation builds the warning for an annotation applied to the
// same declaration more than once.
func NewDuplicateAnnotation(tok token.Token) Diagnostic {
	return Diagnostic{
		Level:       LevelWarning,
		Message:     fmt.Sprintf("annotation `%s` applied multiple times", tok.Text()),
		Span:        tok.Span,
		SpanMessage: "this annotation is redundant",
	}
}

// Accumulator is an [Emitter] that collects every [Diagnostic] it is given,
// in the order it was given them.
//
// It is safe for concurrent use.
type Accumulator struct {
	diagnostics []Diagnostic
	mu          sync.RWMutex
}

// Emit adds a [Diagnostic] to the accumulator.
func (a *Accumulator) Emit(d Diagnostic) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.diagnostics = append(a.diagnostics, d)
}

// Diagnostics returns everything collected so far.
func (a *Accumulator) Diagnostics() []Diagnostic {
	a.mu.RLock()
	defer a.mu.RUnlock()

	// Copy so the caller can't mutate ours
	diagCopy := make([]Diagnostic, 0, len(a.diagnostics))
	diagCopy = append(diagCopy, a.diagnostics...)

	return diagCopy
}

// Len returns the number of diagnostics collected.
func (a *Accumulator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.diagnostics)
}

// Message implements [Emitter].
func (a *Accumulator) Message(msg string) {
	a.Emit(NewMessage(msg))
}

// UnexpectedEOF implements [Emitter].
func (a *Accumulator) UnexpectedEOF(tok token.Token) {
	a.Emit(NewUnexpectedEOF(tok))
}

// DuplicateIdentifier implements [Emitter].
func (a *Accumulator) DuplicateIdentifier(tok token.Token) {
	a.Emit(NewDuplicateIdentifier(tok))
}

// UnexpectedToken implements [Emitter].
func (a *Accumulator) UnexpectedToken(tok token.Token, expected string) {
	a.Emit(NewUnexpectedToken(tok, expected))
}

// UnterminatedComment implements [Emitter].
func (a *Accumulator) UnterminatedComment(tok token.Token) {
	a.Emit(NewUnterminatedComment(tok))
}

// UnterminatedString implements [Emitter].
func (a *Accumulator) UnterminatedString(tok token.Token) {
	a.Emit(NewUnterminatedString(tok))
}

// UnknownToken implements [Emitter].
func (a *Accumulator) UnknownToken(tok token.Token) {
	a.Emit(NewUnknownToken(tok))
}
