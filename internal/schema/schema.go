// Package schema provides the File and Declaration types, the concrete,
// canonical data structures describing a haml file and the types declared in it.
//
// Unlike the representations in the syntax package, the data structures here hold
// no tokens or source positions, only what the file means. They are what gets handed
// to code generators and exporters.
//
// A [File] renders back to canonical haml source with its String method.
package schema

import (
	"fmt"
	"strings"
)

// File represents a single haml file as lowered from its syntax tree.
type File struct {
	// Name of the file, typically its path
	Name string `json:"name" toml:"name" yaml:"name"`

	// Package is the dotted package name, empty if the file declares none
	Package string `json:"package,omitempty" toml:"package,omitempty" yaml:"package,omitempty"`

	// Imports in source order
	Imports []Import `json:"imports,omitempty" toml:"imports,omitempty" yaml:"imports,omitempty"`

	// Declarations in source order
	Declarations []Declaration `json:"declarations,omitempty" toml:"declarations,omitempty" yaml:"declarations,omitempty"`
}

// Import is a single import statement.
type Import struct {
	// Path is the import path as written, without quotes
	Path string `json:"path" toml:"path" yaml:"path"`

	// File is where the imported file would be found under the import root,
	// empty if no import root was configured. It is not checked to exist.
	File string `json:"file,omitempty" toml:"file,omitempty" yaml:"file,omitempty"`
}

// String implements [fmt.Stringer] for a [File] and renders
// the file as canonical haml source.
func (f File) String() string {
	builder := &strings.Builder{}

	if f.Package != "" {
		fmt.Fprintf(builder, "package %s;\n", f.Package)
	}

	if len(f.Imports) != 0 {
		if f.Package != "" {
			builder.WriteByte('\n')
		}

		for _, imp := range f.Imports {
			fmt.Fprintf(builder, "import \"%s\";\n", imp.Path)
		}
	}

	for i, decl := range f.Declarations {
		// Separate each declaration from whatever came before
		if i > 0 || f.Package != "" || len(f.Imports) != 0 {
			builder.WriteByte('\n')
		}

		builder.WriteString(decl.String())
	}

	return builder.String()
}

// Lookup returns the declaration with the given name.
func (f File) Lookup(name string) (Declaration, bool) {
	for _, decl := range f.Declarations {
		if decl.Name == name {
			return decl, true
		}
	}

	return Declaration{}, false
}
