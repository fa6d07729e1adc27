package cmd

import (
	"context"

	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/haml/internal/haml"
)

// tokens returns the haml tokens subcommand.
func tokens() (*cli.Command, error) {
	var (
		options haml.TokensOptions
		file    string
	)

	return cli.New(
		"tokens",
		cli.Short("Print the tokens in a .haml file, one per line"),
		cli.Arg(&file, "file", "Path to the .haml file"),
		cli.Flag(&options.Debug, "debug", 'd', "Enable debug logging"),
		cli.Run(func(ctx context.Context, cmd *cli.Command) error {
			app := haml.New(options.Debug, version, cmd.Stdin(), cmd.Stdout(), cmd.Stderr())
			return app.Tokens(ctx, file, options)
		}),
	)
}
