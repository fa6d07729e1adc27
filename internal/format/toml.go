package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"go.followtheprocess.codes/haml/internal/schema"
)

// TOMLExporter is an [Exporter] that transforms haml files into TOML documents.
type TOMLExporter struct{}

// Export implements [Exporter] for [TOMLExporter] and exports the given file
// as a complete TOML document.
func (t TOMLExporter) Export(w io.Writer, file schema.File) error {
	encoder := toml.NewEncoder(w)
	encoder.Indent = ""

	return encoder.Encode(file)
}

// TOMLImporter is an [Importer] that transforms TOML representations of
// haml files into the equivalent [schema.File].
type TOMLImporter struct{}

// Import implements [Importer] for [TOMLImporter] and imports the given
// TOML document into a [schema.File].
func (t TOMLImporter) Import(r io.Reader) (schema.File, error) {
	var file schema.File

	meta, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return schema.File{}, fmt.Errorf("could not decode TOML: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}

		return schema.File{}, fmt.Errorf("could not decode TOML: unknown keys %s", strings.Join(keys, ", "))
	}

	return file, nil
}
