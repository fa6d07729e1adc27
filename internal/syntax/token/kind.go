package token

import "strconv"

// Kind is the kind of a token.
type Kind int

// Token definitions.
const (
	EOF           Kind = iota // EOF
	Invalid                   // Invalid
	Comment                   // Comment
	Ident                     // Ident
	StringLiteral             // StringLiteral
	IntLiteral                // IntLiteral
	FloatLiteral              // FloatLiteral
	OpenParen                 // OpenParen
	CloseParen                // CloseParen
	OpenBrace                 // OpenBrace
	CloseBrace                // CloseBrace
	OpenChevron               // OpenChevron
	CloseChevron              // CloseChevron
	Colon                     // Colon
	Semi                      // Semi
	Comma                     // Comma
	At                        // At
	Period                    // Period
	QuestionMark              // QuestionMark
	Package                   // Package
	Import                    // Import
	Constructor               // Constructor
	Annotation                // Annotation
	Struct                    // Struct
	Map                       // Map
	Unknown                   // Unknown
	Union                     // Union
	Repeatable                // Repeatable
	Tagged                    // Tagged
	Uint32                    // Uint32
	Uint64                    // Uint64
	Int32                     // Int32
	Int64                     // Int64
	Float32                   // Float32
	Float64                   // Float64
	String                    // String
)

// kindInfo is the name and human readable description of each [Kind].
var kindInfo = [...]struct {
	name        string
	description string
}{
	EOF:           {"EOF", "end of file"},
	Invalid:       {"Invalid", "invalid token"},
	Comment:       {"Comment", "comment"},
	Ident:         {"Ident", "identifier"},
	StringLiteral: {"StringLiteral", "string literal"},
	IntLiteral:    {"IntLiteral", "int literal"},
	FloatLiteral:  {"FloatLiteral", "float literal"},
	OpenParen:     {"OpenParen", "("},
	CloseParen:    {"CloseParen", ")"},
	OpenBrace:     {"OpenBrace", "{"},
	CloseBrace:    {"CloseBrace", "}"},
	OpenChevron:   {"OpenChevron", "<"},
	CloseChevron:  {"CloseChevron", ">"},
	Colon:         {"Colon", ":"},
	Semi:          {"Semi", ";"},
	Comma:         {"Comma", ","},
	At:            {"At", "@"},
	Period:        {"Period", "."},
	QuestionMark:  {"QuestionMark", "?"},
	Package:       {"Package", "package"},
	Import:        {"Import", "import"},
	Constructor:   {"Constructor", "constructor"},
	Annotation:    {"Annotation", "annotation"},
	Struct:        {"Struct", "struct"},
	Map:           {"Map", "map"},
	Unknown:       {"Unknown", "unknown"},
	Union:         {"Union", "union"},
	Repeatable:    {"Repeatable", "repeatable"},
	Tagged:        {"Tagged", "tagged"},
	Uint32:        {"Uint32", "uint32"},
	Uint64:        {"Uint64", "uint64"},
	Int32:         {"Int32", "int32"},
	Int64:         {"Int64", "int64"},
	Float32:       {"Float32", "float32"},
	Float64:       {"Float64", "float64"},
	String:        {"String", "string"},
}

// String implements [fmt.Stringer] for [Kind].
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindInfo) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindInfo[k].name
}

// Description returns the way a [Kind] is described to a user in a diagnostic,
// e.g. "identifier" or "{".
func (k Kind) Description() string {
	if k < 0 || int(k) >= len(kindInfo) {
		return k.String()
	}

	return kindInfo[k].description
}

// MarshalText implements [encoding.TextMarshaler] for [Kind].
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsKeyword reports whether k is one of the reserved words.
func (k Kind) IsKeyword() bool {
	return k >= Package && k <= String
}

// IsScalar reports whether k is one of the built in scalar type keywords
// (string or one of the numeric types).
func (k Kind) IsScalar() bool {
	return k >= Uint32 && k <= String
}

// Keyword reports whether a string refers to a keyword, returning it's [Kind]
// and true if it is. Otherwise [Ident] and false are returned.
func Keyword(text string) (kind Kind, ok bool) {
	switch text {
	case "package":
		return Package, true
	case "import":
		return Import, true
	case "constructor":
		return Constructor, true
	case "annotation":
		return Annotation, true
	case "struct":
		return Struct, true
	case "map":
		return Map, true
	case "unknown":
		return Unknown, true
	case "union":
		return Union, true
	case "repeatable":
		return Repeatable, true
	case "tagged":
		return Tagged, true
	case "uint32":
		return Uint32, true
	case "uint64":
		return Uint64, true
	case "int32":
		return Int32, true
	case "int64":
		return Int64, true
	case "float32":
		return Float32, true
	case "float64":
		return Float64, true
	case "string":
		return String, true
	default:
		return Ident, false
	}
}
