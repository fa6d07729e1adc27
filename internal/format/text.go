package format

import (
	"io"

	"go.followtheprocess.codes/haml/internal/schema"
)

// TextExporter is an [Exporter] that writes haml files back out as canonical
// haml source.
type TextExporter struct{}

// Export implements [Exporter] for [TextExporter].
func (t TextExporter) Export(w io.Writer, file schema.File) error {
	_, err := io.WriteString(w, file.String())
	return err
}
