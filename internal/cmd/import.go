package cmd

import (
	"context"

	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/haml/internal/haml"
)

const importLong = `
Converts a JSON, YAML or TOML document in the shape written by
'haml export' back into .haml source.

The format is taken from the file extension unless '--format' is given.
The generated source is checked before it's written.
`

// buildImport returns the haml import subcommand.
func buildImport() (*cli.Command, error) {
	var (
		options haml.ImportOptions
		file    string
	)

	return cli.New(
		"import",
		cli.Short("Import a schema in another format to .haml"),
		cli.Long(importLong),
		cli.Arg(&file, "file", "Path to a file containing the import data"),
		cli.Flag(&options.Format, "format", 'f', "Format of the data to import, one of (json|yaml|toml)"),
		cli.Flag(&options.Output, "output", 'o', "Name of the .haml file to write"),
		cli.Flag(&options.Debug, "debug", 'd', "Enable debug logging"),
		cli.Run(func(ctx context.Context, cmd *cli.Command) error {
			app := haml.New(options.Debug, version, cmd.Stdin(), cmd.Stdout(), cmd.Stderr())
			return app.Import(ctx, file, options)
		}),
	)
}
