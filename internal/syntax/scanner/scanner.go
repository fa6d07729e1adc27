// Package scanner implements a lexical scanner for haml files, reading the raw
// source text and producing a stream of tokens to be consumed by the parser.
//
// The scanner is a state-function based scanner similar to that described by Rob Pike
// in his talk [Lexical Scanning in Go], based on the implementation of text/template in the Go
// standard library.
//
// Unlike the talk (and text/template) the state machine is not run in its own goroutine and
// nothing is sent over a channel. Instead each call to [Scanner.Scan] drives the state machine
// forward just until the next token is emitted. This keeps the scanner free of goroutines
// (so there is nothing to leak if a parser gives up halfway through a file) and means it
// can only ever be as far ahead of the parser as a single token.
//
// The state of the scanner is maintained between token emits unlike a more conventional
// switch-based scanner that must determine it's current state from scratch in every loop.
//
// Problems are reported to the [diag.Emitter] passed to [New]. Unknown characters are
// not an error as far as the scanner is concerned, they are returned as [token.Invalid]
// so the parser can report them with the context of what it was expecting. Unterminated
// strings and comments, and a file ending in the middle of a number, are fatal: the
// scanner reports them and produces no more tokens.
//
// [Lexical Scanning in Go]: https://go.dev/talks/2011/lex.slide#1
package scanner

import (
	"iter"
	"strings"
	"unicode/utf8"

	"go.followtheprocess.codes/haml/internal/syntax"
	"go.followtheprocess.codes/haml/internal/syntax/diag"
	"go.followtheprocess.codes/haml/internal/syntax/token"
)

// eof signifies we have reached the end of the input.
const eof = rune(-1)

// scanFn represents the state of the scanner as a function that does the work
// associated with the current state, then returns the next state.
type scanFn func(*Scanner) scanFn

// Scanner is the haml file scanner.
type Scanner struct {
	emitter diag.Emitter      // Where problems are reported
	state   scanFn            // The next state to run, nil once the scanner is finished
	file    syntax.SourceFile // The file being scanned
	src     string            // Raw source text, file.Text
	tok     token.Token       // The most recently emitted token
	start   int               // The start position of the current token
	pos     int               // Current scanner position in src (bytes, 0 indexed)
	emitted bool              // Whether tok holds a token not yet returned by Scan
}

// New returns a new [Scanner] over file, reporting problems to emitter.
func New(file syntax.SourceFile, emitter diag.Emitter) *Scanner {
	return &Scanner{
		emitter: emitter,
		state:   scanStart,
		file:    file,
		src:     file.Text,
	}
}

// Scan returns the next token in the file.
//
// A single [token.EOF] is returned at the end of the input, after which Scan
// returns false forever. Scan also returns false after a fatal error, which will
// already have been passed to the emitter.
func (s *Scanner) Scan() (token.Token, bool) {
	for !s.emitted {
		if s.state == nil {
			return token.Token{}, false
		}

		s.state = s.state(s)
	}

	s.emitted = false

	return s.tok, true
}

// All returns an iterator over every token in the file, up to and including
// [token.EOF], or until a fatal error.
func (s *Scanner) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok, ok := s.Scan()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// next returns the next utf8 rune in the input, or [eof], and advances the scanner
// over that rune such that successive calls to [Scanner.next] iterate through
// src one rune at a time.
func (s *Scanner) next() rune {
	if s.pos >= len(s.src) {
		return eof
	}

	char, width := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += width

	return char
}

// peek returns the next utf8 rune in the input, or [eof], but does not
// advance the scanner.
//
// Successive calls to peek simply return the same rune again and again.
func (s *Scanner) peek() rune {
	if s.pos >= len(s.src) {
		return eof
	}

	char, _ := utf8.DecodeRuneInString(s.src[s.pos:])

	return char
}

// rest returns the rest of the input from the current scanner position.
func (s *Scanner) rest() string {
	return s.src[s.pos:]
}

// skip ignores any characters for which the predicate returns true, stopping at the
// first one that returns false such that after it returns, [Scanner.next] returns the
// first 'false' char.
//
// The scanner start position is brought up to the current position before returning, effectively
// ignoring everything it's travelled over in the meantime.
func (s *Scanner) skip(predicate func(r rune) bool) {
	for predicate(s.peek()) {
		s.next()
	}

	s.start = s.pos
}

// takeWhile consumes characters so long as the predicate returns true, stopping at the
// first one that returns false such that after it returns, [Scanner.next] returns the first 'false' rune.
func (s *Scanner) takeWhile(predicate func(r rune) bool) {
	for predicate(s.peek()) {
		s.next()
	}
}

// takeUntil consumes characters until it hits the specified rune or eof.
//
// It stops before it consumes the rune such that after it returns,
// the next call to [Scanner.next] returns it.
func (s *Scanner) takeUntil(r rune) {
	for {
		next := s.peek()
		if next == r || next == eof {
			return
		}

		s.next()
	}
}

// token returns a token of the given kind covering everything from the start
// of the current token to the current position.
func (s *Scanner) token(kind token.Kind) token.Token {
	return token.Token{
		Kind: kind,
		Span: syntax.Span{File: s.file, Start: s.start, End: s.pos},
	}
}

// emit hands a token to the next call to Scan.
func (s *Scanner) emit(kind token.Kind) {
	s.tok = s.token(kind)
	s.emitted = true
	s.start = s.pos
}

// scanStart is the initial state of the scanner.
func scanStart(s *Scanner) scanFn {
	s.skip(isWhitespace)

	switch char := s.next(); char {
	case eof:
		s.emit(token.EOF)
		return nil
	case '(':
		s.emit(token.OpenParen)
	case ')':
		s.emit(token.CloseParen)
	case '{':
		s.emit(token.OpenBrace)
	case '}':
		s.emit(token.CloseBrace)
	case '<':
		s.emit(token.OpenChevron)
	case '>':
		s.emit(token.CloseChevron)
	case ':':
		s.emit(token.Colon)
	case ';':
		s.emit(token.Semi)
	case ',':
		s.emit(token.Comma)
	case '@':
		s.emit(token.At)
	case '.':
		s.emit(token.Period)
	case '?':
		s.emit(token.QuestionMark)
	case '"':
		return scanString
	case '/':
		return scanComment
	default:
		switch {
		case isDigit(char):
			return scanNumber
		case isIdentStart(char):
			return scanIdent
		default:
			s.emit(token.Invalid)
		}
	}

	return scanStart
}

// scanString scans a string literal.
//
// The opening quote has already been consumed.
func scanString(s *Scanner) scanFn {
	s.takeUntil('"')

	if s.next() == eof {
		s.emitter.UnterminatedString(s.token(token.StringLiteral))
		return nil
	}

	s.emit(token.StringLiteral)

	return scanStart
}

// scanNumber scans an integer or float literal.
//
// The first digit has already been consumed.
func scanNumber(s *Scanner) scanFn {
	s.takeWhile(isDigit)

	if s.peek() != '.' {
		s.emit(token.IntLiteral)
		return scanStart
	}

	s.next() // '.'

	if s.peek() == eof {
		s.emitter.UnexpectedEOF(s.token(token.FloatLiteral))
		return nil
	}

	s.takeWhile(isDigit)
	s.emit(token.FloatLiteral)

	return scanStart
}

// scanIdent scans an identifier or keyword.
//
// The first character has already been consumed.
func scanIdent(s *Scanner) scanFn {
	s.takeWhile(isIdent)

	kind, _ := token.Keyword(s.src[s.start:s.pos])
	s.emit(kind)

	return scanStart
}

// scanComment scans a '//' line comment or a '/* */' block comment.
//
// The first '/' has already been consumed.
func scanComment(s *Scanner) scanFn {
	switch s.peek() {
	case '/':
		s.takeUntil('\n')
		s.emit(token.Comment)
	case '*':
		s.next()

		end := strings.Index(s.rest(), "*/")
		if end == -1 {
			s.pos = len(s.src)
			s.emitter.UnterminatedComment(s.token(token.Comment))

			return nil
		}

		s.pos += end + len("*/")
		s.emit(token.Comment)
	default:
		// A lone '/' means nothing
		s.emit(token.Invalid)
	}

	return scanStart
}

// isWhitespace reports whether r is ASCII whitespace or an ASCII control character.
func isWhitespace(r rune) bool {
	return r == ' ' || (r >= 0 && r < 0x20) || r == 0x7f
}

// isAlpha reports whether r is an ASCII letter.
func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isDigit reports whether r is a valid ASCII digit.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isIdentStart reports whether r may begin an identifier.
func isIdentStart(r rune) bool {
	return isAlpha(r) || r == '_'
}

// isIdent reports whether r is a valid identifier character.
func isIdent(r rune) bool {
	return isAlpha(r) || isDigit(r) || r == '_'
}
