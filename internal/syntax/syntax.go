// Package syntax holds the source model shared by every stage of the haml frontend: the
// content addressed [SourceFile], byte [Span]s into it and the human readable [Position]
// a span resolves to.
//
// Everything downstream (the scanner, parser, diagnostics and the query database)
// refers back to source text through these types, so they are deliberately small,
// comparable values that can be used as map keys.
package syntax

import (
	"cmp"
	"fmt"
	"strings"
)

// SourceFile is a single haml source unit.
//
// A SourceFile is identified entirely by its contents, two files with the same Path and Text
// are interchangeable. Editing a file never mutates an existing SourceFile, it produces a new one.
type SourceFile struct {
	Path string // Path the text was read from (or "stdin", or an editor URI)
	Text string // The full source text
}

// Span is a byte range [Start, End) within exactly one [SourceFile].
//
// The zero Span means "no span".
type Span struct {
	File  SourceFile // The file the offsets index into
	Start int        // Byte offset of the first byte
	End   int        // Byte offset one past the last byte
}

// NewSpan returns a [Span] over file, clamping start and end so that
// 0 <= start <= end <= len(file.Text) always holds.
func NewSpan(file SourceFile, start, end int) Span {
	start = max(0, min(start, len(file.Text)))
	end = max(start, min(end, len(file.Text)))

	return Span{File: file, Start: start, End: end}
}

// IsZero reports whether s is the zero Span.
func (s Span) IsZero() bool {
	return s == Span{}
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Text returns the source text covered by the span.
func (s Span) Text() string {
	return s.File.Text[s.Start:s.End]
}

// Line returns the 1 indexed line containing the start of the span, the byte offset
// at which that line begins and the text of the line without its terminator.
func (s Span) Line() (number, start int, text string) {
	src := s.File.Text

	number = 1 + strings.Count(src[:s.Start], "\n")
	start = strings.LastIndexByte(src[:s.Start], '\n') + 1

	end := strings.IndexByte(src[start:], '\n')
	if end == -1 {
		end = len(src)
	} else {
		end += start
	}

	text = strings.TrimSuffix(src[start:end], "\r")

	return number, start, text
}

// Position resolves the span to a [Position].
//
// Spans covering more than one line are truncated to the end of their first line.
func (s Span) Position() Position {
	line, lineStart, text := s.Line()

	startCol := 1 + s.Start - lineStart

	endCol := startCol
	if s.End > s.Start {
		endCol = min(s.End-lineStart, len(text))
		endCol = max(endCol, startCol)
	}

	return Position{
		Name:     s.File.Path,
		Offset:   s.Start,
		Line:     line,
		StartCol: startCol,
		EndCol:   endCol,
	}
}

// Position is an arbitrary source file position including file, line
// and column information. It can also express a range of source via StartCol
// and EndCol, this is useful for error reporting.
//
// Positions without filenames are considered invalid, in the case of stdin
// the string "stdin" may be used.
type Position struct {
	Name     string `json:"name"`     // Filename
	Offset   int    `json:"offset"`   // Byte offset of the position from the start of the file
	Line     int    `json:"line"`     // Line number (1 indexed)
	StartCol int    `json:"startCol"` // Start column (1 indexed)
	EndCol   int    `json:"endCol"`   // End column (1 indexed), EndCol == StartCol when pointing to a single character
}

// IsValid reports whether the [Position] describes a valid source position.
//
// The rules are:
//
//   - At least Name, Line and StartCol must be set (and non zero)
//   - EndCol cannot be 0, it's only allowed values are StartCol or any number greater than StartCol
func (p Position) IsValid() bool {
	if p.Name == "" || p.Line < 1 || p.StartCol < 1 || p.EndCol < 1 ||
		(p.EndCol >= 1 && p.EndCol < p.StartCol) {
		return false
	}

	return true
}

// String returns a string representation of a [Position].
//
// It is formatted such that most text editors/terminals will be able to support clicking on it
// and navigating to the position.
//
// Depending on which fields are set, the string returned will be different:
//
//   - "file:line:start-end": valid position pointing to a range of text on the line
//   - "file:line:start": valid position pointing to a single character on the line (EndCol == StartCol)
//
// If the position is not valid, an error string is returned instead.
func (p Position) String() string {
	if !p.IsValid() {
		return fmt.Sprintf(
			"BadPosition: {Name: %q, Line: %d, StartCol: %d, EndCol: %d}",
			p.Name,
			p.Line,
			p.StartCol,
			p.EndCol,
		)
	}

	if p.StartCol == p.EndCol {
		return fmt.Sprintf("%s:%d:%d", p.Name, p.Line, p.StartCol)
	}

	return fmt.Sprintf("%s:%d:%d-%d", p.Name, p.Line, p.StartCol, p.EndCol)
}

// ComparePosition is like [cmp.Compare] for a [syntax.Position].
//
// If x and y are equal ComparePosition returns 0.
//
// If x and y refer to the same file, it returns [cmp.Compare] of
// the two offsets.
//
// If the positions refer to different files, they are compared alphabetically.
func ComparePosition(x, y Position) int {
	if x == y {
		return 0
	}

	if x.Name == y.Name {
		return cmp.Compare(x.Offset, y.Offset)
	}

	return cmp.Compare(x.Name, y.Name)
}
