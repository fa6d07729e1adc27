package haml

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"go.followtheprocess.codes/haml/internal/syntax"
	"go.followtheprocess.codes/haml/internal/syntax/diag"
	"go.followtheprocess.codes/haml/internal/syntax/scanner"
	"go.followtheprocess.codes/haml/internal/syntax/token"
	"go.followtheprocess.codes/hue"
)

// Styles.
const (
	// kindStyle is the style used for the token kind.
	kindStyle = hue.Cyan | hue.Bold

	// keywordStyle is the style used for keyword token kinds.
	keywordStyle = hue.Green | hue.Bold

	// invalidStyle is the style used for invalid tokens.
	invalidStyle = hue.Red | hue.Bold

	// dimmed is the style used for token positions.
	dimmed = hue.BrightBlack | hue.Italic
)

// TokensOptions are the options passed to the tokens subcommand.
type TokensOptions struct {
	// Debug enables debug logging.
	Debug bool
}

// Tokens implements the tokens subcommand, printing every token in file, one per line.
func (h Haml) Tokens(ctx context.Context, file string, options TokensOptions) error {
	logger := h.logger.Prefixed("tokens").With(slog.String("file", file))

	contents, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("could not read file: %w", err)
	}

	src := syntax.SourceFile{Path: file, Text: string(contents)}
	acc := &diag.Accumulator{}

	count := 0

	for tok := range scanner.New(src, acc).All() {
		count++

		style := kindStyle

		switch {
		case tok.Kind == token.Invalid:
			style = invalidStyle
		case tok.Kind.IsKeyword():
			style = keywordStyle
		}

		fmt.Fprintf(
			h.stdout,
			"%s %s %s\n",
			style.Text(tok.Kind.String()),
			dimmed.Text(tok.Span.Position().String()),
			strconv.Quote(tok.Text()),
		)
	}

	logger.Debug("Scanned file", slog.Int("tokens", count))

	if diagnostics := acc.Diagnostics(); len(diagnostics) != 0 {
		render(h.stderr, src, diagnostics)
		return ErrInvalid
	}

	return nil
}
