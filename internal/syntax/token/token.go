// Package token provides the set of lexical tokens for a haml file.
package token

import (
	"fmt"
	"slices"

	"go.followtheprocess.codes/haml/internal/syntax"
)

// Token is a lexical token in a haml file.
type Token struct {
	Span syntax.Span // The source the token covers
	Kind Kind        // The kind of token this is
}

// String implement [fmt.Stringer] for a [Token].
func (t Token) String() string {
	return fmt.Sprintf("<Token::%s start=%d, end=%d>", t.Kind, t.Span.Start, t.Span.End)
}

// Is reports whether the token is any of the provided [Kind]s.
func (t Token) Is(kinds ...Kind) bool {
	return slices.Contains(kinds, t.Kind)
}

// Text returns the source text of the token.
func (t Token) Text() string {
	return t.Span.Text()
}
