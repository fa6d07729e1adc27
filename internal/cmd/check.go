package cmd

import (
	"context"

	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/cli/flag"
	"go.followtheprocess.codes/haml/internal/haml"
)

const checkLong = `
The path argument may be a directory or a file.

If it is the name of a .haml file, then this file alone is checked
for validity.

If it is a directory, this directory is scanned recursively for all
files with the '.haml' extension and any matching files will be validated
concurrently.

Warnings are shown but do not make a file invalid.
`

// check returns the check subcommand.
func check() (*cli.Command, error) {
	var options haml.CheckOptions

	return cli.New(
		"check",
		cli.Short("Check haml files for errors"),
		cli.Long(checkLong),
		cli.Arg(&options.Path, "path", "Path to check, may be directory or file", cli.ArgDefault(".")),
		cli.Flag(
			&options.ImportRoot,
			"import-root",
			flag.NoShortHand,
			"Directory imports are resolved against",
		),
		cli.Flag(&options.Debug, "debug", 'd', "Enable debug logging"),
		cli.Run(func(ctx context.Context, cmd *cli.Command) error {
			app := haml.New(options.Debug, version, cmd.Stdin(), cmd.Stdout(), cmd.Stderr())
			return app.Check(ctx, options)
		}),
	)
}
