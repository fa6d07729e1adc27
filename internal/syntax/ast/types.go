package ast

import "go.followtheprocess.codes/haml/internal/syntax/token"

// FieldType is the type of a [Field] or a [MapType] key or value, one of
// [Primitive], [TypeRef] or [MapType].
type FieldType interface {
	Node

	// String returns the canonical spelling of the type, e.g. "map<string, int32>".
	String() string

	fieldTypeNode() // Prevents accidental misuse as another node type
}

// Primitive is one of the built in types: string, uint32, uint64, int32, int64,
// float32, float64, unknown or struct.
type Primitive struct {
	// Token is the type keyword.
	Token token.Token
}

// Start returns the type keyword.
func (p Primitive) Start() token.Token {
	return p.Token
}

// End returns the type keyword.
func (p Primitive) End() token.Token {
	return p.Token
}

// Kind returns [KindPrimitive].
func (p Primitive) Kind() Kind {
	return KindPrimitive
}

// String returns the keyword.
func (p Primitive) String() string {
	return p.Token.Kind.Description()
}

func (p Primitive) fieldTypeNode() {}

// TypeRef refers to another declared type by name.
type TypeRef struct {
	// Name is the referenced [token.Ident].
	Name token.Token
}

// Start returns the name.
func (t TypeRef) Start() token.Token {
	return t.Name
}

// End returns the name.
func (t TypeRef) End() token.Token {
	return t.Name
}

// Kind returns [KindTypeRef].
func (t TypeRef) Kind() Kind {
	return KindTypeRef
}

// String returns the referenced name.
func (t TypeRef) String() string {
	return t.Name.Text()
}

func (t TypeRef) fieldTypeNode() {}

// MapType is 'map<Key, Value>', maps may nest to any depth.
type MapType struct {
	// Key is the key type.
	Key FieldType

	// Value is the value type.
	Value FieldType

	// Keyword is the 'map' token.
	Keyword token.Token

	// Close is the closing '>'.
	Close token.Token
}

// Start returns the 'map' keyword.
func (m MapType) Start() token.Token {
	return m.Keyword
}

// End returns the closing '>'.
func (m MapType) End() token.Token {
	return m.Close
}

// Kind returns [KindMap].
func (m MapType) Kind() Kind {
	return KindMap
}

// String returns "map<key, value>".
func (m MapType) String() string {
	return "map<" + typeString(m.Key) + ", " + typeString(m.Value) + ">"
}

func (m MapType) fieldTypeNode() {}

func typeString(t FieldType) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
