package format

import (
	"fmt"
	"io"

	"go.followtheprocess.codes/haml/internal/schema"
	"go.yaml.in/yaml/v4"
)

const yamlIndent = 2

// YAMLExporter is an [Exporter] that transforms haml files into YAML documents.
type YAMLExporter struct{}

// Export implements [Exporter] for [YAMLExporter] and exports the given file as
// a complete YAML document.
func (y YAMLExporter) Export(w io.Writer, file schema.File) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(yamlIndent)

	if err := encoder.Encode(file); err != nil {
		return err
	}

	return encoder.Close()
}

// YAMLImporter is an [Importer] that transforms YAML representations of
// haml files into the equivalent [schema.File].
type YAMLImporter struct{}

// Import implements [Importer] for [YAMLImporter] and imports the given
// YAML document into a [schema.File].
func (y YAMLImporter) Import(r io.Reader) (schema.File, error) {
	var file schema.File

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&file); err != nil {
		return schema.File{}, fmt.Errorf("could not decode YAML: %w", err)
	}

	return file, nil
}
