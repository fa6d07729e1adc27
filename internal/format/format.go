// Package format provides mechanisms for converting haml files to and from other formats.
//
// Notably, the package provides the [Importer] and [Exporter] interfaces for doing this
// in a format-agnostic way, along with the built in JSON, YAML, TOML, text and markdown
// implementations.
package format

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.followtheprocess.codes/haml/internal/schema"
)

// ErrUnknownFormat is returned when asking for an exporter or importer that doesn't exist.
var ErrUnknownFormat = errors.New("unknown format")

// Exporter is the interface defining a mechanism for exporting a haml file
// into an external format.
type Exporter interface {
	// Export exports the [schema.File] into an external format, written to w.
	Export(w io.Writer, file schema.File) error
}

// Importer is the interface defining a mechanism for importing external formats
// into haml files.
type Importer interface {
	// Import imports the data from the external format into a [schema.File].
	Import(r io.Reader) (schema.File, error)
}

// Format names.
const (
	JSON     = "json"
	YAML     = "yaml"
	TOML     = "toml"
	Text     = "text"
	Markdown = "markdown"
)

// Exporters returns the names of every supported export format, sorted.
func Exporters() []string {
	return []string{JSON, Markdown, Text, TOML, YAML}
}

// Importers returns the names of every supported import format, sorted.
func Importers() []string {
	return []string{JSON, TOML, YAML}
}

// NewExporter returns the [Exporter] for the named format.
func NewExporter(name string) (Exporter, error) {
	switch strings.ToLower(name) {
	case JSON:
		return JSONExporter{}, nil
	case YAML, "yml":
		return YAMLExporter{}, nil
	case TOML:
		return TOMLExporter{}, nil
	case Text, "haml":
		return TextExporter{}, nil
	case Markdown, "md":
		return MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("%w %q, allowed values are %s", ErrUnknownFormat, name, quoted(Exporters()))
	}
}

// NewImporter returns the [Importer] for the named format.
//
// A file extension with or without the leading '.' is also accepted, so
// callers can pass [path/filepath.Ext] straight in.
func NewImporter(name string) (Importer, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case JSON:
		return JSONImporter{}, nil
	case YAML, "yml":
		return YAMLImporter{}, nil
	case TOML:
		return TOMLImporter{}, nil
	default:
		return nil, fmt.Errorf("%w %q, allowed values are %s", ErrUnknownFormat, name, quoted(Importers()))
	}
}

// quoted formats names as a comma separated list of single quoted names.
func quoted(names []string) string {
	names = slices.Clone(names)
	for i, name := range names {
		names[i] = "'" + name + "'"
	}

	return strings.Join(names, ", ")
}
