// Package config handles discovering and decoding the haml.toml project file.
//
// The file is optional, when present it sets defaults for the command line:
//
//	[module]
//	root = "schemas" # Directory imports are resolved against
//
//	[export]
//	format = "json"  # Default format for haml export
//
// Relative paths in the file are relative to the directory containing it, not the
// working directory. Command line flags always take precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the project file.
const FileName = "haml.toml"

// Config is the decoded contents of a haml.toml file.
type Config struct {
	// Path is the file the config was loaded from, empty if there wasn't one.
	Path string `toml:"-"`

	// Module holds module settings.
	Module Module `toml:"module"`

	// Export holds settings for the export command.
	Export Export `toml:"export"`
}

// Module is the [module] table.
type Module struct {
	// Root is the directory imports are resolved against.
	Root string `toml:"root"`
}

// Export is the [export] table.
type Export struct {
	// Format is the default export format.
	Format string `toml:"format"`
}

// Find walks up from dir looking for a haml.toml file, returning its path
// and whether one was found.
func Find(dir string) (string, bool, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false, fmt.Errorf("could not resolve %s: %w", dir, err)
	}

	for {
		candidate := filepath.Join(dir, FileName)

		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			return candidate, true, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("could not stat %s: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Hit the root
			return "", false, nil
		}

		dir = parent
	}
}

// Load finds and decodes the haml.toml for dir, if there is one. No file is
// not an error, the returned Config is simply empty.
func Load(dir string) (Config, error) {
	path, ok, err := Find(dir)
	if err != nil {
		return Config{}, err
	}

	if !ok {
		return Config{}, nil
	}

	return Decode(path)
}

// Decode decodes the haml.toml file at path.
//
// Unknown keys are an error, as is setting a key to an empty value.
func Decode(path string) (Config, error) {
	var cfg Config

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("could not decode %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}

		return Config{}, fmt.Errorf("%s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("module", "root") {
		if cfg.Module.Root == "" {
			return Config{}, fmt.Errorf("%s: module.root cannot be empty", path)
		}

		if !filepath.IsAbs(cfg.Module.Root) {
			cfg.Module.Root = filepath.Join(filepath.Dir(path), cfg.Module.Root)
		}
	}

	if meta.IsDefined("export", "format") && cfg.Export.Format == "" {
		return Config{}, fmt.Errorf("%s: export.format cannot be empty", path)
	}

	cfg.Path = path

	return cfg, nil
}
