// Package haml implements the functionality of the program, the CLI in package cmd is simply the
// entrypoint to exported functions and methods in this package.
package haml

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"go.followtheprocess.codes/haml/internal/config"
	"go.followtheprocess.codes/haml/internal/frontend"
	"go.followtheprocess.codes/haml/internal/syntax"
	"go.followtheprocess.codes/haml/internal/syntax/diag"
	"go.followtheprocess.codes/log"
)

// ErrInvalid is returned when one or more haml files have errors, the errors themselves
// have already been shown to the user by the time it's returned.
var ErrInvalid = errors.New("invalid haml")

// Haml represents the haml program.
type Haml struct {
	stdin   io.Reader   // Where interactive input is read from
	stdout  io.Writer   // Normal program output is written here
	stderr  io.Writer   // Logs and errors are written here
	logger  *log.Logger // The logger for the application
	version string      // The program version
}

// New returns a new [Haml].
func New(debug bool, version string, stdin io.Reader, stdout, stderr io.Writer) Haml {
	level := log.LevelInfo
	if debug {
		level = log.LevelDebug
	}

	logger := log.New(stderr, log.WithLevel(level))

	return Haml{
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		logger:  logger,
		version: version,
	}
}

// loadConfig loads the haml.toml for the working directory, if there is one.
func (h Haml) loadConfig(logger *log.Logger) (config.Config, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return config.Config{}, fmt.Errorf("could not load %s: %w", config.FileName, err)
	}

	if cfg.Path != "" {
		logger.Debug(
			"Loaded config",
			slog.String("path", cfg.Path),
			slog.String("module.root", cfg.Module.Root),
			slog.String("export.format", cfg.Export.Format),
		)
	}

	return cfg, nil
}

// newFrontend returns a [frontend.Frontend] reading from the filesystem.
func (h Haml) newFrontend(logger *log.Logger, importRoot string) *frontend.Frontend {
	logger.Debug("Import root", slog.String("root", importRoot))

	return frontend.New(
		frontend.OSReadFunc,
		frontend.WithLogger(logger),
		frontend.WithImportRoot(importRoot),
	)
}

// importRoot picks the import root from the flag first, then the config file,
// then fallback.
func importRoot(flag string, cfg config.Config, fallback string) string {
	switch {
	case flag != "":
		return filepath.Clean(flag)
	case cfg.Module.Root != "":
		return cfg.Module.Root
	default:
		return fallback
	}
}

// render writes every diagnostic to w as a rendered block followed by a blank line.
func render(w io.Writer, file syntax.SourceFile, diagnostics []diag.Diagnostic) {
	for _, d := range diagnostics {
		fmt.Fprintf(w, "%s\n\n", diag.Render(file, d))
	}
}

// collect returns every .haml file under path, or path itself if it's a file.
func collect(logger *log.Logger, path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("could not get path info: %w", err)
	}

	if !info.IsDir() {
		logger.Debug("Path is a file")
		return []string{path}, nil
	}

	logger.Debug("Path is a directory")

	var paths []string

	err = filepath.WalkDir(path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && filepath.Ext(path) == ".haml" {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not walk %s: %w", path, err)
	}

	slices.Sort(paths)

	return paths, nil
}
