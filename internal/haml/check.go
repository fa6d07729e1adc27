package haml

import (
	"context"
	"log/slog"

	"go.followtheprocess.codes/haml/internal/frontend"
	"go.followtheprocess.codes/haml/internal/syntax"
	"go.followtheprocess.codes/haml/internal/syntax/diag"
	"go.followtheprocess.codes/msg"
	"golang.org/x/sync/errgroup"
)

// CheckOptions are the options passed to the check subcommand.
type CheckOptions struct {
	// Path is the path (file or directory) to check.
	Path string

	// ImportRoot is the directory imports are resolved against.
	ImportRoot string

	// Debug enables debug logging.
	Debug bool
}

// checked is the outcome of checking a single file.
type checked struct {
	file        syntax.SourceFile
	diagnostics []diag.Diagnostic
	ok          bool
}

// Check implements the check subcommand.
func (h Haml) Check(ctx context.Context, options CheckOptions) error {
	logger := h.logger.Prefixed("check").With(slog.String("path", options.Path))
	logger.Debug("Checking path")

	cfg, err := h.loadConfig(logger)
	if err != nil {
		return err
	}

	paths, err := collect(logger, options.Path)
	if err != nil {
		return err
	}

	logger.Debug("Checking haml files given by path", slog.Int("number", len(paths)))

	fe := h.newFrontend(logger, importRoot(options.ImportRoot, cfg, ""))
	results := make([]checked, len(paths))

	group, ctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = checkFile(fe, path)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	failed := 0

	for i, path := range paths {
		result := results[i]

		// Warnings are shown for valid files too
		render(h.stderr, result.file, result.diagnostics)

		if !result.ok {
			failed++
			continue
		}

		msg.Fsuccess(h.stdout, "%s is valid", path)
	}

	if failed != 0 {
		msg.Ferror(h.stderr, "%d of %d files had errors", failed, len(paths))
		return ErrInvalid
	}

	return nil
}

// checkFile reads and lowers a single file.
func checkFile(fe *frontend.Frontend, path string) checked {
	file, ok := fe.ReadFile(path)
	if !ok {
		return checked{
			file:        syntax.SourceFile{Path: path},
			diagnostics: fe.ReadFileDiagnostics(path),
		}
	}

	_, ok = fe.LowerFile(file)

	return checked{
		file:        file,
		diagnostics: fe.LowerDiagnostics(file),
		ok:          ok,
	}
}
