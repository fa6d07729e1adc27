package cmd

import (
	"context"

	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/cli/flag"
	"go.followtheprocess.codes/haml/internal/haml"
)

// lsp returns the haml lsp subcommand.
func lsp() (*cli.Command, error) {
	var options haml.LSPOptions

	return cli.New(
		"lsp",
		cli.Short("Run the haml language server over stdio"),
		cli.Flag(
			&options.ImportRoot,
			"import-root",
			flag.NoShortHand,
			"Directory imports are resolved against",
		),
		cli.Flag(&options.Debug, "debug", 'd', "Enable debug logging"),
		cli.Run(func(ctx context.Context, cmd *cli.Command) error {
			// Logs go to stderr, stdout belongs to the protocol
			app := haml.New(options.Debug, version, cmd.Stdin(), cmd.Stderr(), cmd.Stderr())
			return app.LSP(ctx, options)
		}),
	)
}
