package haml

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.followtheprocess.codes/haml/internal/format"
)

// defaultExportFormat is used when neither the flag nor haml.toml set one.
const defaultExportFormat = format.JSON

// ExportOptions are the flags passed to the export subcommand.
type ExportOptions struct {
	// Format is the format of the export e.g. json, yaml etc. Empty means
	// use the format from haml.toml, or JSON.
	Format string

	// Output is the file to write the export to, empty means stdout.
	Output string

	// ImportRoot is the directory imports are resolved against.
	ImportRoot string

	// Debug controls debug logging.
	Debug bool
}

// Validate reports whether the ExportOptions is valid, returning a non-nil
// error if it's not.
func (e ExportOptions) Validate() error {
	if e.Format == "" {
		return nil
	}

	if _, err := format.NewExporter(e.Format); err != nil {
		return fmt.Errorf("invalid option for --format: %w", err)
	}

	return nil
}

// Export handles the export subcommand.
func (h Haml) Export(ctx context.Context, file string, options ExportOptions) error {
	logger := h.logger.Prefixed("export")

	logger.Debug("Export configuration", slog.String("options", fmt.Sprintf("%+v", options)))

	if err := options.Validate(); err != nil {
		return err
	}

	cfg, err := h.loadConfig(logger)
	if err != nil {
		return err
	}

	name := options.Format
	if name == "" {
		name = cfg.Export.Format
	}

	if name == "" {
		name = defaultExportFormat
	}

	exporter, err := format.NewExporter(name)
	if err != nil {
		return fmt.Errorf("could not export %s: %w", file, err)
	}

	start := time.Now()
	fe := h.newFrontend(logger, importRoot(options.ImportRoot, cfg, ""))

	result := checkFile(fe, file)
	if !result.ok {
		render(h.stderr, result.file, result.diagnostics)
		return ErrInvalid
	}

	// Warnings
	render(h.stderr, result.file, result.diagnostics)

	lowered, _ := fe.LowerFile(result.file)

	logger.Debug(
		"Lowered file successfully",
		slog.String("file", file),
		slog.String("format", name),
		slog.Duration("took", time.Since(start)),
	)

	var out io.Writer = h.stdout

	if options.Output != "" {
		f, err := os.Create(options.Output)
		if err != nil {
			return fmt.Errorf("could not create output file: %w", err)
		}
		defer f.Close()

		out = f
	}

	if err := exporter.Export(out, lowered); err != nil {
		return fmt.Errorf("could not export %s as %s: %w", file, name, err)
	}

	return nil
}
