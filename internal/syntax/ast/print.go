package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.followtheprocess.codes/haml/internal/syntax/token"
)

// Fprint writes an indented, human readable dump of node and all its children to w,
// one node per line.
//
//	File api.haml
//	  Package example.api
//	  Struct User
//	    FieldSet
//	      Field name
//	        Primitive string
func Fprint(w io.Writer, node Node) error {
	p := &printer{w: w}
	Walk(p, node)

	return p.err
}

// printer is a [Visitor] that writes each node it visits on its own line,
// indented by its depth in the tree.
type printer struct {
	w     io.Writer
	err   error
	depth int
}

func (p *printer) Visit(node Node) Visitor {
	if node == nil {
		p.depth--
		return nil
	}

	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.depth), describe(node))
	}

	p.depth++

	return p
}

// describe returns the single line description of a node used by [Fprint].
func describe(node Node) string {
	switch n := node.(type) {
	case File:
		return "File " + n.Name
	case PackageStmt:
		return "Package " + n.Name()
	case ImportStmt:
		return "Import " + strconv.Quote(n.Value())
	case Comment:
		return "Comment " + strconv.Quote(n.Text())
	case ConstructorDecl:
		return "Constructor " + n.Name.Text() + annotations(n.Annotations)
	case StructDecl:
		return "Struct " + n.Name.Text() + annotations(n.Annotations)
	case AnnotationDecl:
		return "Annotation " + n.Name.Text() + annotations(n.Annotations)
	case FieldSet:
		if n.IsUnion() {
			return "FieldSet union"
		}

		return "FieldSet"
	case Field:
		return "Field " + n.Name.Text() + optional(n.Optional)
	case AnnotationField:
		return "AnnotationField " + n.Name.Text() + optional(n.Optional)
	case Literal:
		return "Literal " + n.Token.Text()
	case Primitive:
		return "Primitive " + n.String()
	case TypeRef:
		return "TypeRef " + n.String()
	default:
		return node.Kind().String()
	}
}

func annotations(names []token.Token) string {
	var s strings.Builder
	for _, name := range names {
		s.WriteString(" @")
		s.WriteString(name.Text())
	}

	return s.String()
}

func optional(opt bool) string {
	if opt {
		return "?"
	}

	return ""
}
