package ast

// Kind is the type of an ast Node.
type Kind int

// AST Node kinds.
const (
	KindInvalid         Kind = iota // Invalid
	KindFile                        // File
	KindPackage                     // Package
	KindImport                      // Import
	KindConstructor                 // Constructor
	KindStruct                      // Struct
	KindAnnotation                  // Annotation
	KindComment                     // Comment
	KindAlias                       // Alias
	KindRepeatable                  // Repeatable
	KindFieldSet                    // FieldSet
	KindField                       // Field
	KindAnnotationField             // AnnotationField
	KindLiteral                     // Literal
	KindPrimitive                   // Primitive
	KindTypeRef                     // TypeRef
	KindMap                         // Map
)

var kindNames = [...]string{
	KindInvalid:         "Invalid",
	KindFile:            "File",
	KindPackage:         "Package",
	KindImport:          "Import",
	KindConstructor:     "Constructor",
	KindStruct:          "Struct",
	KindAnnotation:      "Annotation",
	KindComment:         "Comment",
	KindAlias:           "Alias",
	KindRepeatable:      "Repeatable",
	KindFieldSet:        "FieldSet",
	KindField:           "Field",
	KindAnnotationField: "AnnotationField",
	KindLiteral:         "Literal",
	KindPrimitive:       "Primitive",
	KindTypeRef:         "TypeRef",
	KindMap:             "Map",
}

// String implements [fmt.Stringer] for [Kind].
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindInvalid]
	}

	return kindNames[k]
}

// MarshalText implements [encoding.TextMarshaler] for [Kind].
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
