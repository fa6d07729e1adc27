package ast

import "fmt"

// A Visitor's Visit method is invoked for each node encountered by [Walk].
// If the result visitor w is not nil, [Walk] visits each of the children
// of node with the visitor w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order: It starts by calling v.Visit(node);
// node must not be nil. If the visitor w returned by v.Visit(node) is not nil,
// Walk is invoked recursively with visitor w for each of the non-nil children
// of node, followed by a call of w.Visit(nil).
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case File:
		for _, statement := range n.Statements {
			Walk(v, statement)
		}
	case PackageStmt, ImportStmt, Comment:
		// Leaves
	case ConstructorDecl:
		if n.Content != nil {
			Walk(v, n.Content)
		}
	case StructDecl:
		if n.Content != nil {
			Walk(v, n.Content)
		}
	case AnnotationDecl:
		for _, field := range n.Fields {
			Walk(v, field)
		}
	case Alias:
		Walk(v, n.Map)
	case Repeatable:
		for _, field := range n.Fields {
			Walk(v, field)
		}
	case FieldSet:
		for _, field := range n.Fields {
			Walk(v, field)
		}
	case Field:
		if n.Type != nil {
			Walk(v, n.Type)
		}
	case AnnotationField:
		Walk(v, n.Value)
	case Literal, Primitive, TypeRef:
		// Leaves
	case MapType:
		if n.Key != nil {
			Walk(v, n.Key)
		}

		if n.Value != nil {
			Walk(v, n.Value)
		}
	default:
		panic(fmt.Sprintf("ast.Walk: unexpected node type %T", n))
	}

	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}

	return nil
}

// Inspect traverses an AST in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the non-nil children of node, followed by a
// call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}
