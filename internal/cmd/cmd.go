// Package cmd implements haml's CLI.
package cmd

import (
	"context"

	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/cli/flag"
	"go.followtheprocess.codes/haml/internal/haml"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

const rootLong = `
Checks a single .haml file, printing its syntax tree if it's valid or
every problem found with it if it's not.

Imports are resolved against the import root, which is taken from the
'--import-root' flag (or its alias '--module-root'), then 'module.root'
in the nearest haml.toml and finally the directory containing the file.

If no path is given and haml is run in an interactive terminal, you will
be asked to pick one of the .haml files under the current directory.
`

// Build builds and returns the haml CLI.
func Build() (*cli.Command, error) {
	var options haml.RootOptions

	return cli.New(
		"haml",
		cli.Short("A compiler frontend for the haml interface definition language"),
		cli.Long(rootLong),
		cli.Version(version),
		cli.Commit(commit),
		cli.BuildDate(date),
		cli.Example("Pick a .haml file interactively and check it", "haml"),
		cli.Example("Check a file and show its syntax tree", "haml ./api.haml"),
		cli.Example("Resolve imports against a different directory", "haml ./api.haml --import-root ./schemas"),
		cli.Example("Check every .haml file in a directory (recursively)", "haml check ./schemas"),
		cli.Example("Export a file as YAML", "haml export ./api.haml --format yaml"),
		cli.Arg(&options.Path, "path", "Path to the .haml file to check", cli.ArgDefault("")),
		cli.Flag(
			&options.ImportRoot,
			"import-root",
			flag.NoShortHand,
			"Directory imports are resolved against",
		),
		cli.Flag(
			&options.ModuleRoot,
			"module-root",
			flag.NoShortHand,
			"Alias for --import-root",
		),
		cli.Flag(&options.Debug, "debug", 'd', "Enable debug logging"),
		cli.SubCommands(check, export, tokens, buildImport, lsp),
		cli.Run(func(ctx context.Context, cmd *cli.Command) error {
			app := haml.New(options.Debug, version, cmd.Stdin(), cmd.Stdout(), cmd.Stderr())
			return app.Root(ctx, options)
		}),
	)
}
