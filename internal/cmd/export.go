package cmd

import (
	"context"

	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/cli/flag"
	"go.followtheprocess.codes/haml/internal/haml"
)

const exportLong = `
The file is checked first and only exported if it's valid.

If '--format' is not given, the format is taken from 'export.format' in
the nearest haml.toml, falling back to JSON.
`

// export returns the haml export subcommand.
func export() (*cli.Command, error) {
	var (
		options haml.ExportOptions
		file    string
	)

	return cli.New(
		"export",
		cli.Short("Export a .haml file to an alternative format"),
		cli.Long(exportLong),
		cli.Arg(&file, "file", "Path to the .haml file"),
		cli.Flag(
			&options.Format,
			"format",
			'f',
			"Export format, one of (json|yaml|toml|text|markdown)",
		),
		cli.Flag(&options.Output, "output", 'o', "Name of a file to write the export to"),
		cli.Flag(
			&options.ImportRoot,
			"import-root",
			flag.NoShortHand,
			"Directory imports are resolved against",
		),
		cli.Flag(&options.Debug, "debug", 'd', "Enable debug logging"),
		cli.Run(func(ctx context.Context, cmd *cli.Command) error {
			app := haml.New(options.Debug, version, cmd.Stdin(), cmd.Stdout(), cmd.Stderr())
			return app.Export(ctx, file, options)
		}),
	)
}
