package ast

import "go.followtheprocess.codes/haml/internal/syntax/token"

// Statement is a top level statement node.
type Statement interface {
	Node
	statementNode() // Prevents accidental misuse as another node type
}

// Declaration is a [Statement] that declares a named type: a [ConstructorDecl],
// [StructDecl] or [AnnotationDecl].
type Declaration interface {
	Statement

	// Ident returns the name token of the declaration.
	Ident() token.Token

	// Annotated returns the '@' annotations applied to the declaration.
	Annotated() []token.Token
}

// PackageStmt declares the package a file belongs to, e.g.
//
//	package http.request;
type PackageStmt struct {
	// Segments are the dot separated [token.Ident]s of the package name.
	Segments []token.Token

	// Keyword is the 'package' token.
	Keyword token.Token

	// Semi is the terminating ';'.
	Semi token.Token
}

// Start returns the 'package' keyword.
func (p PackageStmt) Start() token.Token {
	return p.Keyword
}

// End returns the terminating ';'.
func (p PackageStmt) End() token.Token {
	return p.Semi
}

// Kind returns [KindPackage].
func (p PackageStmt) Kind() Kind {
	return KindPackage
}

// Name returns the dotted package name.
func (p PackageStmt) Name() string {
	name := ""

	for i, segment := range p.Segments {
		if i > 0 {
			name += "."
		}

		name += segment.Text()
	}

	return name
}

func (p PackageStmt) statementNode() {}

// ImportStmt imports another file, e.g.
//
//	import "testing";
type ImportStmt struct {
	// Keyword is the 'import' token.
	Keyword token.Token

	// Path is the [token.StringLiteral] naming the import, including quotes.
	Path token.Token

	// Semi is the terminating ';'.
	Semi token.Token
}

// Start returns the 'import' keyword.
func (i ImportStmt) Start() token.Token {
	return i.Keyword
}

// End returns the terminating ';'.
func (i ImportStmt) End() token.Token {
	return i.Semi
}

// Kind returns [KindImport].
func (i ImportStmt) Kind() Kind {
	return KindImport
}

// Value returns the import path without its quotes.
func (i ImportStmt) Value() string {
	return unquote(i.Path.Text())
}

func (i ImportStmt) statementNode() {}

// ConstructorDecl declares a constructor.
//
//	@singleton
//	constructor api {
//	    get: int64;
//	}
type ConstructorDecl struct {
	// Content is the body of the constructor.
	Content Block

	// Annotations are the names of the annotations applied with '@', in order.
	Annotations []token.Token

	// Keyword is the 'constructor' token.
	Keyword token.Token

	// Name is the name of the constructor.
	Name token.Token
}

// Start returns the first '@' annotation name if there is one, otherwise the keyword.
func (c ConstructorDecl) Start() token.Token {
	if len(c.Annotations) != 0 {
		return c.Annotations[0]
	}

	return c.Keyword
}

// End returns the final token of the content block.
func (c ConstructorDecl) End() token.Token {
	if c.Content == nil {
		return c.Name
	}

	return c.Content.End()
}

// Kind returns [KindConstructor].
func (c ConstructorDecl) Kind() Kind {
	return KindConstructor
}

// Ident returns the name of the constructor.
func (c ConstructorDecl) Ident() token.Token {
	return c.Name
}

// Annotated returns the constructor's annotations.
func (c ConstructorDecl) Annotated() []token.Token {
	return c.Annotations
}

func (c ConstructorDecl) statementNode() {}

// StructDecl declares a struct.
//
//	struct User {
//	    name: string;
//	}
type StructDecl struct {
	// Content is the body of the struct.
	Content Block

	// Annotations are the names of the annotations applied with '@', in order.
	Annotations []token.Token

	// Keyword is the 'struct' token.
	Keyword token.Token

	// Name is the name of the struct.
	Name token.Token
}

// Start returns the first '@' annotation name if there is one, otherwise the keyword.
func (s StructDecl) Start() token.Token {
	if len(s.Annotations) != 0 {
		return s.Annotations[0]
	}

	return s.Keyword
}

// End returns the final token of the content block.
func (s StructDecl) End() token.Token {
	if s.Content == nil {
		return s.Name
	}

	return s.Content.End()
}

// Kind returns [KindStruct].
func (s StructDecl) Kind() Kind {
	return KindStruct
}

// Ident returns the name of the struct.
func (s StructDecl) Ident() token.Token {
	return s.Name
}

// Annotated returns the struct's annotations.
func (s StructDecl) Annotated() []token.Token {
	return s.Annotations
}

func (s StructDecl) statementNode() {}

// AnnotationDecl declares an annotation, a flat map of names to literal values.
//
//	annotation route {
//	    path: string,
//	}
type AnnotationDecl struct {
	// Annotations are the names of the annotations applied with '@', in order.
	Annotations []token.Token

	// Fields are the annotation's fields.
	Fields []AnnotationField

	// Keyword is the 'annotation' token.
	Keyword token.Token

	// Name is the name of the annotation.
	Name token.Token

	// Open is the '{' opening the fields.
	Open token.Token

	// Close is the '}' closing the fields.
	Close token.Token
}

// Start returns the first '@' annotation name if there is one, otherwise the keyword.
func (a AnnotationDecl) Start() token.Token {
	if len(a.Annotations) != 0 {
		return a.Annotations[0]
	}

	return a.Keyword
}

// End returns the closing '}'.
func (a AnnotationDecl) End() token.Token {
	return a.Close
}

// Kind returns [KindAnnotation].
func (a AnnotationDecl) Kind() Kind {
	return KindAnnotation
}

// Ident returns the name of the annotation.
func (a AnnotationDecl) Ident() token.Token {
	return a.Name
}

// Annotated returns the annotation's own annotations.
func (a AnnotationDecl) Annotated() []token.Token {
	return a.Annotations
}

func (a AnnotationDecl) statementNode() {}

// Comment is a line or block comment at the top level of a file.
//
// Comments inside declarations are not kept.
type Comment struct {
	// Token is the [token.Comment].
	Token token.Token
}

// Start returns the comment token.
func (c Comment) Start() token.Token {
	return c.Token
}

// End returns the comment token.
func (c Comment) End() token.Token {
	return c.Token
}

// Kind returns [KindComment].
func (c Comment) Kind() Kind {
	return KindComment
}

// Text returns the raw text of the comment, including the comment markers.
func (c Comment) Text() string {
	return c.Token.Text()
}

func (c Comment) statementNode() {}

// unquote strips the surrounding double quotes from a string literal.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}

	return s
}
