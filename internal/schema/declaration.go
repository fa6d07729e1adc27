package schema

import (
	"fmt"
	"strings"
)

// DeclKind is the kind of a [Declaration].
type DeclKind string

// Declaration kinds.
const (
	KindConstructor DeclKind = "constructor"
	KindStruct      DeclKind = "struct"
	KindAnnotation  DeclKind = "annotation"
)

// BlockKind is the shape of the body of a constructor or struct.
type BlockKind string

// Block kinds.
const (
	BlockFields     BlockKind = "fields"     // A plain set of fields
	BlockUnion      BlockKind = "union"      // Exactly one of the fields is set
	BlockRepeatable BlockKind = "repeatable" // The fields may be repeated
	BlockAlias      BlockKind = "alias"      // Another name for a map type
)

// ValueKind is the kind of value held by an [AnnotationField].
type ValueKind string

// Annotation value kinds.
const (
	ValueString ValueKind = "string" // A string literal
	ValueInt    ValueKind = "int"    // An integer literal
	ValueFloat  ValueKind = "float"  // A float literal
	ValueType   ValueKind = "type"   // A scalar type keyword e.g. string or int32
)

// Declaration is a single constructor, struct or annotation.
type Declaration struct {
	// Name of the declared type
	Name string `json:"name" toml:"name" yaml:"name"`

	// Kind of declaration
	Kind DeclKind `json:"kind" toml:"kind" yaml:"kind"`

	// Annotations applied to the declaration with '@', in order
	Annotations []string `json:"annotations,omitempty" toml:"annotations,omitempty" yaml:"annotations,omitempty"`

	// Block is the shape of a constructor or struct body, empty for an annotation
	Block BlockKind `json:"block,omitempty" toml:"block,omitempty" yaml:"block,omitempty"`

	// Alias is the aliased map type for a [BlockAlias] e.g. "map<string, int32>"
	Alias string `json:"alias,omitempty" toml:"alias,omitempty" yaml:"alias,omitempty"`

	// Fields of a constructor or struct, in order
	Fields []Field `json:"fields,omitempty" toml:"fields,omitempty" yaml:"fields,omitempty"`

	// AnnotationFields of an annotation, in order
	AnnotationFields []AnnotationField `json:"annotationFields,omitempty" toml:"annotationFields,omitempty" yaml:"annotationFields,omitempty"`
}

// Field is a single field of a constructor or struct.
type Field struct {
	// Name of the field
	Name string `json:"name" toml:"name" yaml:"name"`

	// Type is the canonical spelling of the field type e.g. "map<string, User>"
	Type string `json:"type" toml:"type" yaml:"type"`

	// Optional is whether the field may be omitted
	Optional bool `json:"optional,omitempty" toml:"optional,omitempty" yaml:"optional,omitempty"`
}

// AnnotationField is a single field of an annotation.
type AnnotationField struct {
	// Name of the field
	Name string `json:"name" toml:"name" yaml:"name"`

	// Value as written, string values have their quotes removed
	Value string `json:"value" toml:"value" yaml:"value"`

	// Kind of value
	Kind ValueKind `json:"kind" toml:"kind" yaml:"kind"`

	// Optional is whether the field may be omitted
	Optional bool `json:"optional,omitempty" toml:"optional,omitempty" yaml:"optional,omitempty"`
}

// String implements [fmt.Stringer] for a [Declaration] and formats
// it as canonical haml source.
func (d Declaration) String() string {
	builder := &strings.Builder{}

	for _, annotation := range d.Annotations {
		fmt.Fprintf(builder, "@%s\n", annotation)
	}

	fmt.Fprintf(builder, "%s %s ", d.Kind, d.Name)

	if d.Kind == KindAnnotation {
		if len(d.AnnotationFields) == 0 {
			builder.WriteString("{}\n")
			return builder.String()
		}

		builder.WriteString("{\n")

		for _, field := range d.AnnotationFields {
			fmt.Fprintf(builder, "    %s%s %s,\n", field.Name, colon(field.Optional), field.literal())
		}

		builder.WriteString("}\n")

		return builder.String()
	}

	switch d.Block {
	case BlockAlias:
		fmt.Fprintf(builder, "{\n    %s\n}\n", d.Alias)
	case BlockUnion, BlockRepeatable:
		fmt.Fprintf(builder, "{\n    %s {\n", d.Block)
		writeFields(builder, d.Fields, "        ")
		builder.WriteString("    }\n}\n")
	default:
		if len(d.Fields) == 0 {
			builder.WriteString("{}\n")
			return builder.String()
		}

		builder.WriteString("{\n")
		writeFields(builder, d.Fields, "    ")
		builder.WriteString("}\n")
	}

	return builder.String()
}

// literal returns the field value as it would be written in source, haml
// strings have no escapes so the value is quoted verbatim.
func (a AnnotationField) literal() string {
	if a.Kind == ValueString {
		return `"` + a.Value + `"`
	}

	return a.Value
}

func writeFields(builder *strings.Builder, fields []Field, indent string) {
	for _, field := range fields {
		fmt.Fprintf(builder, "%s%s%s %s;\n", indent, field.Name, colon(field.Optional), field.Type)
	}
}

func colon(optional bool) string {
	if optional {
		return "?:"
	}

	return ":"
}
