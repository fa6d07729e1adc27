package haml

import (
	"context"

	"go.followtheprocess.codes/haml/internal/lsp"
)

// LSPOptions are the options passed to the lsp subcommand.
type LSPOptions struct {
	// ImportRoot is the directory imports are resolved against.
	ImportRoot string

	// Debug enables debug logging.
	Debug bool
}

// LSP implements the lsp subcommand, running the language server over stdio
// until the client goes away.
func (h Haml) LSP(ctx context.Context, options LSPOptions) error {
	logger := h.logger.Prefixed("lsp")

	cfg, err := h.loadConfig(logger)
	if err != nil {
		return err
	}

	server := lsp.New(
		h.version,
		lsp.WithLogger(logger),
		lsp.WithImportRoot(importRoot(options.ImportRoot, cfg, "")),
		lsp.WithDebug(options.Debug),
	)

	return server.RunStdio()
}
