package haml

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"go.followtheprocess.codes/haml/internal/syntax"
	"go.followtheprocess.codes/haml/internal/syntax/ast"
	"go.followtheprocess.codes/haml/internal/syntax/diag"
)

// RootOptions are the options passed to the root command.
type RootOptions struct {
	// Path is the file to check, if empty and the session is interactive
	// the user is asked to pick one.
	Path string

	// ImportRoot is the directory imports are resolved against, defaults
	// to the module root from haml.toml or the directory containing Path.
	ImportRoot string

	// ModuleRoot is another name for ImportRoot, ImportRoot wins if both are set.
	ModuleRoot string

	// Debug enables debug logging.
	Debug bool
}

// Root implements the root command, checking a single file and showing its syntax
// tree if it's valid.
//
// Everything, including diagnostics, goes to stdout.
func (h Haml) Root(ctx context.Context, options RootOptions) error {
	logger := h.logger.Prefixed("haml")

	path := options.Path
	if path == "" {
		if !h.interactive() {
			return errors.New("no path given, pass the .haml file to check")
		}

		picked, err := h.pick(ctx)
		if err != nil {
			return err
		}

		path = picked
	}

	cfg, err := h.loadConfig(logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(h.stdout, "%s %s\n", diag.Bold(diag.Green("Checking")), path)

	start := time.Now()
	root := options.ImportRoot
	if root == "" {
		root = options.ModuleRoot
	}

	fe := h.newFrontend(logger, importRoot(root, cfg, filepath.Dir(path)))

	file, ok := fe.ReadFile(path)
	if !ok {
		diagnostics := fe.ReadFileDiagnostics(path)

		fmt.Fprintln(h.stdout)
		render(h.stdout, syntax.SourceFile{Path: path}, diagnostics)
		fmt.Fprintf(h.stdout, "%s with %d errors\n", diag.Bold(diag.Red("Failed")), diag.Errors(diagnostics))

		return ErrInvalid
	}

	lowered, ok := fe.LowerFile(file)
	diagnostics := fe.LowerDiagnostics(file)

	logger.Debug(
		"Checked file",
		slog.String("file", path),
		slog.Bool("ok", ok),
		slog.Int("declarations", len(lowered.Declarations)),
		slog.Int("diagnostics", len(diagnostics)),
		slog.Duration("took", time.Since(start)),
	)

	if !ok {
		fmt.Fprintln(h.stdout)
		render(h.stdout, file, diagnostics)
		fmt.Fprintf(h.stdout, "%s with %d errors\n", diag.Bold(diag.Red("Failed")), diag.Errors(diagnostics))

		return ErrInvalid
	}

	parsed, _ := fe.ParseFile(file)
	if err := ast.Fprint(h.stdout, parsed); err != nil {
		return fmt.Errorf("could not print syntax tree: %w", err)
	}

	if len(diagnostics) != 0 {
		// Only warnings, or it wouldn't have lowered
		fmt.Fprintln(h.stdout)
		render(h.stdout, file, diagnostics)
	}

	fmt.Fprintf(h.stdout, "%s successfully!\n", diag.Bold(diag.Green("Finished")))

	return nil
}

// interactive reports whether stdin is a terminal a user could answer a prompt on.
func (h Haml) interactive() bool {
	f, ok := h.stdin.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// pick asks the user to choose one of the .haml files under the working directory.
func (h Haml) pick(ctx context.Context) (string, error) {
	paths, err := collect(h.logger.Prefixed("pick"), ".")
	if err != nil {
		return "", err
	}

	if len(paths) == 0 {
		return "", errors.New("no .haml files found in the current directory")
	}

	var path string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which file do you want to check?").
				Options(huh.NewOptions(paths...)...).
				Value(&path),
		),
	).WithInput(h.stdin).WithOutput(h.stderr)

	if err := form.RunWithContext(ctx); err != nil {
		return "", fmt.Errorf("could not pick a file: %w", err)
	}

	return path, nil
}
