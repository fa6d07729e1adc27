package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.followtheprocess.codes/haml/internal/schema"
)

// JSONExporter is an [Exporter] that writes the lowered form of a haml file as
// an indented JSON document.
//
// Field types like map<string, int32> are written as is rather than HTML escaped.
type JSONExporter struct{}

// Export implements [Exporter] for [JSONExporter].
func (j JSONExporter) Export(w io.Writer, file schema.File) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	return encoder.Encode(file)
}

// JSONImporter is an [Importer] that reads a single JSON document in the shape
// written by [JSONExporter] back into a [schema.File].
//
// Unknown keys, values of the wrong type and anything after the document are errors.
type JSONImporter struct{}

// Import implements [Importer] for [JSONImporter].
func (j JSONImporter) Import(r io.Reader) (schema.File, error) {
	var file schema.File

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&file); err != nil {
		var (
			syntaxErr *json.SyntaxError
			typeErr   *json.UnmarshalTypeError
		)

		switch {
		case errors.As(err, &syntaxErr):
			return schema.File{}, fmt.Errorf("invalid JSON at byte %d: %w", syntaxErr.Offset, err)
		case errors.As(err, &typeErr):
			return schema.File{}, fmt.Errorf("field %q: cannot use a JSON %s as %s", typeErr.Field, typeErr.Value, typeErr.Type)
		default:
			return schema.File{}, fmt.Errorf("could not decode JSON: %w", err)
		}
	}

	if decoder.More() {
		return schema.File{}, errors.New("could not decode JSON: unexpected data after the document")
	}

	return file, nil
}
