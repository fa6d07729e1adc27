// Package syntaxtest provides syntax level test utilities.
package syntaxtest

import (
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.followtheprocess.codes/haml/internal/syntax/diag"
	"go.followtheprocess.codes/haml/internal/syntax/token"
)

// MockEmitter is a [diag.Emitter] that records a short description of every call
// made to it, for asserting on exactly which emitter methods were called and with what.
type MockEmitter struct {
	calls []string
	mu    sync.Mutex
}

// Calls returns the recorded calls in order, each formatted like
// "UnexpectedToken(Semi, a field value type)".
func (m *MockEmitter) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.calls...)
}

// String returns all the recorded calls, one per line.
func (m *MockEmitter) String() string {
	calls := m.Calls()
	if len(calls) == 0 {
		return ""
	}

	return strings.Join(calls, "\n") + "\n"
}

func (m *MockEmitter) record(format string, a ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, fmt.Sprintf(format, a...))
}

// Emit implements [diag.Emitter].
func (m *MockEmitter) Emit(d diag.Diagnostic) {
	m.record("Emit(%s: %s)", d.Level, d.Message)
}

// Message implements [diag.Emitter].
func (m *MockEmitter) Message(msg string) {
	m.record("Message(%s)", msg)
}

// UnexpectedEOF implements [diag.Emitter].
func (m *MockEmitter) UnexpectedEOF(tok token.Token) {
	m.record("UnexpectedEOF(%s)", tok.Kind)
}

// DuplicateIdentifier implements [diag.Emitter].
func (m *MockEmitter) DuplicateIdentifier(tok token.Token) {
	m.record("DuplicateIdentifier(%s)", tok.Text())
}

// UnexpectedToken implements [diag.Emitter].
func (m *MockEmitter) UnexpectedToken(tok token.Token, expected string) {
	m.record("UnexpectedToken(%s, %s)", tok.Kind, expected)
}

// UnterminatedComment implements [diag.Emitter].
func (m *MockEmitter) UnterminatedComment(tok token.Token) {
	m.record("UnterminatedComment(%s)", tok.Kind)
}

// UnterminatedString implements [diag.Emitter].
func (m *MockEmitter) UnterminatedString(tok token.Token) {
	m.record("UnterminatedString(%s)", tok.Kind)
}

// UnknownToken implements [diag.Emitter].
func (m *MockEmitter) UnknownToken(tok token.Token) {
	m.record("UnknownToken(%s)", tok.Text())
}

// FailEmitter returns a [diag.Emitter] that fails the enclosing test on any call,
// for use with source that is expected to be valid.
func FailEmitter(tb testing.TB) diag.Emitter {
	tb.Helper()
	return failEmitter{tb: tb}
}

type failEmitter struct {
	tb testing.TB
}

func (f failEmitter) fail(d diag.Diagnostic) {
	f.tb.Helper()
	f.tb.Fatalf("unexpected diagnostic: %s", d)
}

func (f failEmitter) Emit(d diag.Diagnostic)              { f.fail(d) }
func (f failEmitter) Message(msg string)                  { f.fail(diag.NewMessage(msg)) }
func (f failEmitter) UnexpectedEOF(tok token.Token)       { f.fail(diag.NewUnexpectedEOF(tok)) }
func (f failEmitter) DuplicateIdentifier(tok token.Token) { f.fail(diag.NewDuplicateIdentifier(tok)) }
func (f failEmitter) UnterminatedComment(tok token.Token) { f.fail(diag.NewUnterminatedComment(tok)) }
func (f failEmitter) UnterminatedString(tok token.Token)  { f.fail(diag.NewUnterminatedString(tok)) }
func (f failEmitter) UnknownToken(tok token.Token)        { f.fail(diag.NewUnknownToken(tok)) }

func (f failEmitter) UnexpectedToken(tok token.Token, expected string) {
	f.fail(diag.NewUnexpectedToken(tok, expected))
}

// AllFilesWithExtension returns an iterator over all filepaths under
// root with the matching extension, recursively.
//
// A call to AllFilesWithExtension like this:
//
//	for file, err := range AllFilesWithExtension(".", ".go") {
//	    // Loop body
//	}
//
// Is roughly equivalent to the following in bash:
//
//	for file in **/*.go; do { # stuff }; done
func AllFilesWithExtension(root, ext string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				yield("", walkErr)
				return walkErr
			}

			if d.Type().IsRegular() && filepath.Ext(d.Name()) == ext {
				if !yield(path, nil) {
					return fs.SkipAll
				}
			}

			return nil
		})
		// handle the error returned by WalkDir itself
		if err != nil {
			yield("", err)
		}
	}
}
