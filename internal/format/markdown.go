package format

import (
	_ "embed"
	"io"
	"strings"
	"text/template"

	"go.followtheprocess.codes/haml/internal/schema"
)

//go:embed templates/markdown.md.tmpl
var markdownTempl string

// markdownFunctions are custom template functions available in the markdownTemplate.
//
//nolint:gochecknoglobals // This has to be here
var markdownFunctions = template.FuncMap{
	"annotations": func(annotations []string) string {
		formatted := make([]string, 0, len(annotations))
		for _, annotation := range annotations {
			formatted = append(formatted, "`@"+annotation+"`")
		}

		return strings.Join(formatted, ", ")
	},
	"yesno": func(b bool) string {
		if b {
			return "yes"
		}

		return "no"
	},
}

// markdownTemplate is the parsed markdown document text/template.
//
//nolint:gochecknoglobals // Having the template as a global means it's parsed only once
var markdownTemplate = template.Must(template.New("markdown").Funcs(markdownFunctions).Parse(markdownTempl))

// MarkdownExporter is an [Exporter] that documents haml files as markdown, one
// section per declaration.
type MarkdownExporter struct{}

// Export implements [Exporter] for [MarkdownExporter].
func (m MarkdownExporter) Export(w io.Writer, file schema.File) error {
	return markdownTemplate.Execute(w, file)
}
