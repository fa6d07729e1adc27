package haml

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"go.followtheprocess.codes/haml/internal/format"
	"go.followtheprocess.codes/haml/internal/frontend"
	"go.followtheprocess.codes/haml/internal/syntax"
)

// ImportOptions are the options passed to the import subcommand.
type ImportOptions struct {
	// Format is the format of the data to import, if empty it's
	// taken from the file extension.
	Format string

	// Output is the .haml file to write, empty means stdout.
	Output string

	// Debug enables debug logging.
	Debug bool
}

// Import implements the import subcommand, converting a JSON, YAML or TOML description
// of a haml file (as written by export) back into haml source.
//
// The generated source is checked before it's written so nothing invalid is produced.
func (h Haml) Import(ctx context.Context, file string, options ImportOptions) error {
	logger := h.logger.Prefixed("import").With(slog.String("file", file))

	name := options.Format
	if name == "" {
		name = filepath.Ext(file)
	}

	importer, err := format.NewImporter(name)
	if err != nil {
		return fmt.Errorf("could not import %s: %w", file, err)
	}

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("could not open file: %w", err)
	}
	defer f.Close()

	imported, err := importer.Import(f)
	if err != nil {
		return fmt.Errorf("could not import %s: %w", file, err)
	}

	logger.Debug("Imported file", slog.String("format", name), slog.Int("declarations", len(imported.Declarations)))

	path := options.Output
	if path == "" {
		path = imported.Name
	}

	src := syntax.SourceFile{Path: path, Text: imported.String()}

	fe := frontend.New(frontend.OSReadFunc, frontend.WithLogger(logger))

	if _, ok := fe.LowerFile(src); !ok {
		render(h.stderr, src, fe.LowerDiagnostics(src))
		return ErrInvalid
	}

	var out io.Writer = h.stdout

	if options.Output != "" {
		created, err := os.Create(options.Output)
		if err != nil {
			return fmt.Errorf("could not create output file: %w", err)
		}
		defer created.Close()

		out = created
	}

	if _, err := io.WriteString(out, src.Text); err != nil {
		return fmt.Errorf("could not write haml: %w", err)
	}

	return nil
}
