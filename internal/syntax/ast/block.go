package ast

import "go.followtheprocess.codes/haml/internal/syntax/token"

// Block is the braced body of a constructor or struct, one of
// [Alias], [Repeatable] or [FieldSet].
type Block interface {
	Node
	blockNode() // Prevents accidental misuse as another node type
}

// Alias is a block that makes the declaration another name for a map type.
//
//	struct Lookup {
//	    map<string, uint64>
//	}
type Alias struct {
	// Map is the aliased map type.
	Map MapType

	// Open is the block's '{'.
	Open token.Token

	// Close is the block's '}'.
	Close token.Token
}

// Start returns the block's '{'.
func (a Alias) Start() token.Token {
	return a.Open
}

// End returns the block's '}'.
func (a Alias) End() token.Token {
	return a.Close
}

// Kind returns [KindAlias].
func (a Alias) Kind() Kind {
	return KindAlias
}

func (a Alias) blockNode() {}

// Repeatable is a block whose fields may appear any number of times.
//
//	struct Tags {
//	    repeatable {
//	        tag: string;
//	    }
//	}
type Repeatable struct {
	// Fields are the repeated fields.
	Fields []Field

	// Open is the block's outer '{'.
	Open token.Token

	// Keyword is the 'repeatable' token.
	Keyword token.Token

	// Close is the block's outer '}'.
	Close token.Token
}

// Start returns the block's '{'.
func (r Repeatable) Start() token.Token {
	return r.Open
}

// End returns the block's '}'.
func (r Repeatable) End() token.Token {
	return r.Close
}

// Kind returns [KindRepeatable].
func (r Repeatable) Kind() Kind {
	return KindRepeatable
}

func (r Repeatable) blockNode() {}

// FieldSet is a block of named, typed fields.
//
// A 'union' block is also a FieldSet, with Union set to the 'union' keyword.
type FieldSet struct {
	// Fields are the fields, in source order.
	Fields []Field

	// Open is the block's outer '{'.
	Open token.Token

	// Union is the 'union' keyword if the fields were declared in a union,
	// the zero token otherwise.
	Union token.Token

	// Close is the block's outer '}'.
	Close token.Token
}

// Start returns the block's '{'.
func (f FieldSet) Start() token.Token {
	return f.Open
}

// End returns the block's '}'.
func (f FieldSet) End() token.Token {
	return f.Close
}

// Kind returns [KindFieldSet].
func (f FieldSet) Kind() Kind {
	return KindFieldSet
}

// IsUnion reports whether the fields were declared in a union block.
func (f FieldSet) IsUnion() bool {
	return f.Union.Kind == token.Union
}

func (f FieldSet) blockNode() {}

// Field is a single 'name: type;' or 'name?: type;' entry in a block.
type Field struct {
	// Type is the type of the field.
	Type FieldType

	// Name is the field name.
	Name token.Token

	// Semi is the terminating ';'.
	Semi token.Token

	// Optional is whether the field was declared with a '?'.
	Optional bool
}

// Start returns the field name.
func (f Field) Start() token.Token {
	return f.Name
}

// End returns the terminating ';'.
func (f Field) End() token.Token {
	return f.Semi
}

// Kind returns [KindField].
func (f Field) Kind() Kind {
	return KindField
}

// AnnotationField is a single 'name: value,' entry in an annotation.
type AnnotationField struct {
	// Value is the field's value.
	Value Literal

	// Name is the field name.
	Name token.Token

	// Comma is the terminating ','.
	Comma token.Token

	// Optional is whether the field was declared with a '?'.
	Optional bool
}

// Start returns the field name.
func (a AnnotationField) Start() token.Token {
	return a.Name
}

// End returns the terminating ','.
func (a AnnotationField) End() token.Token {
	return a.Comma
}

// Kind returns [KindAnnotationField].
func (a AnnotationField) Kind() Kind {
	return KindAnnotationField
}

// Literal is the value of an [AnnotationField]: a string, int or float literal,
// or one of the scalar type keywords.
type Literal struct {
	// Token is the literal or keyword token.
	Token token.Token
}

// Start returns the literal token.
func (l Literal) Start() token.Token {
	return l.Token
}

// End returns the literal token.
func (l Literal) End() token.Token {
	return l.Token
}

// Kind returns [KindLiteral].
func (l Literal) Kind() Kind {
	return KindLiteral
}

// IsType reports whether the literal is a type keyword rather than a value.
func (l Literal) IsType() bool {
	return l.Token.Kind.IsScalar()
}

// Value returns the literal text, string literals have their quotes removed.
func (l Literal) Value() string {
	if l.Token.Kind == token.StringLiteral {
		return unquote(l.Token.Text())
	}

	return l.Token.Text()
}
