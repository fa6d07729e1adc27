// Package ast defines an abstract syntax tree for the haml grammar.
//
// A parsed file is a [File] holding an ordered list of top level [Statement]s. Every
// node keeps the tokens it was built from so downstream passes can always point a
// diagnostic back at the exact piece of source responsible.
//
// The tree is a plain value tree, parents own their children and there are no cycles.
// Use [Walk] or [Inspect] to traverse it.
package ast

import (
	"go.followtheprocess.codes/haml/internal/syntax/token"
)

// Node is the interface for ast nodes.
type Node interface {
	// Start returns the first token associated with the node.
	Start() token.Token

	// End returns the last token associated with the node.
	End() token.Token

	// Kind returns the kind of node this is.
	Kind() Kind
}

// File is an ast [Node] representing a single haml file.
type File struct {
	// Name is the name of the file.
	Name string

	// Statements is the list of ast statements in the file.
	Statements []Statement
}

// Start returns the first token in a file.
//
// If the file is empty, [token.EOF] is returned.
func (f File) Start() token.Token {
	if len(f.Statements) == 0 {
		return token.Token{Kind: token.EOF}
	}

	return f.Statements[0].Start()
}

// End returns the final token in the file.
func (f File) End() token.Token {
	if len(f.Statements) == 0 {
		return token.Token{Kind: token.EOF}
	}

	return f.Statements[len(f.Statements)-1].End()
}

// Kind returns [KindFile].
func (f File) Kind() Kind {
	return KindFile
}

// Declarations returns the constructor, struct and annotation declarations
// in the file, in source order.
func (f File) Declarations() []Declaration {
	var decls []Declaration

	for _, statement := range f.Statements {
		if decl, ok := statement.(Declaration); ok {
			decls = append(decls, decl)
		}
	}

	return decls
}
