package scanner_test

import (
	"flag"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"go.followtheprocess.codes/haml/internal/syntax"
	"go.followtheprocess.codes/haml/internal/syntax/diag"
	"go.followtheprocess.codes/haml/internal/syntax/scanner"
	"go.followtheprocess.codes/haml/internal/syntax/syntaxtest"
	"go.followtheprocess.codes/haml/internal/syntax/token"
	"go.followtheprocess.codes/test"
	"go.followtheprocess.codes/txtar"
	"go.uber.org/goleak"
)

var update = flag.Bool("update", false, "Update testdata")

// kindSpan is a token without its file, for compact table tests.
type kindSpan struct {
	kind       token.Kind
	start, end int
}

func scanAll(tb testing.TB, name, src string, emitter diag.Emitter) []kindSpan {
	tb.Helper()

	s := scanner.New(syntax.SourceFile{Path: name, Text: src}, emitter)

	var got []kindSpan
	for tok := range s.All() {
		got = append(got, kindSpan{kind: tok.Kind, start: tok.Span.Start, end: tok.Span.End})
	}

	return got
}

func TestBasics(t *testing.T) {
	tests := []struct {
		name string     // Identifies the test case
		src  string     // Source text to scan
		want []kindSpan // Expected tokens
	}{
		{
			name: "empty",
			src:  "",
			want: []kindSpan{{token.EOF, 0, 0}},
		},
		{
			name: "whitespace and control characters",
			src:  " \t\r\n\x00\x7f",
			want: []kindSpan{{token.EOF, 6, 6}},
		},
		{
			name: "open paren",
			src:  "(",
			want: []kindSpan{{token.OpenParen, 0, 1}, {token.EOF, 1, 1}},
		},
		{
			name: "close paren",
			src:  ")",
			want: []kindSpan{{token.CloseParen, 0, 1}, {token.EOF, 1, 1}},
		},
		{
			name: "open brace",
			src:  "{",
			want: []kindSpan{{token.OpenBrace, 0, 1}, {token.EOF, 1, 1}},
		},
		{
			name: "close brace",
			src:  "}",
			want: []kindSpan{{token.CloseBrace, 0, 1}, {token.EOF, 1, 1}},
		},
		{
			name: "open chevron",
			src:  "<",
			want: []kindSpan{{token.OpenChevron, 0, 1}, {token.EOF, 1, 1}},
		},
		{
			name: "close chevron",
			src:  ">",
			want: []kindSpan{{token.CloseChevron, 0, 1}, {token.EOF, 1, 1}},
		},
		{
			name: "colon",
			src:  ":",
			want: []kindSpan{{token.Colon, 0, 1}, {token.EOF, 1, 1}},
		},
		{
			name: "semi",
			src:  ";",
			want: []kindSpan{{token.Semi, 0, 1}, {token.EOF, 1, 1}},
		},
		{
			name: "comma",
			src:  ",",
			want: []kindSpan{{token.Comma, 0, 1}, {token.EOF, 1, 1}},
		},
		{
			name: "at",
			src:  "@",
			want: []kindSpan{{token.At, 0, 1}, {token.EOF, 1, 1}},
		},
		{
			name: "period",
			src:  ".",
			want: []kindSpan{{token.Period, 0, 1}, {token.EOF, 1, 1}},
		},
		{
			name: "question mark",
			src:  "?",
			want: []kindSpan{{token.QuestionMark, 0, 1}, {token.EOF, 1, 1}},
		},
		{
			name: "ident",
			src:  "foo",
			want: []kindSpan{{token.Ident, 0, 3}, {token.EOF, 3, 3}},
		},
		{
			name: "ident with underscore",
			src:  "foo_bar",
			want: []kindSpan{{token.Ident, 0, 7}, {token.EOF, 7, 7}},
		},
		{
			name: "ident mixed case",
			src:  "FooBar",
			want: []kindSpan{{token.Ident, 0, 6}, {token.EOF, 6, 6}},
		},
		{
			name: "ident leading underscore",
			src:  "_foo",
			want: []kindSpan{{token.Ident, 0, 4}, {token.EOF, 4, 4}},
		},
		{
			name: "ident leading underscore with digit",
			src:  "_Foo9",
			want: []kindSpan{{token.Ident, 0, 5}, {token.EOF, 5, 5}},
		},
		{
			name: "int",
			src:  "1",
			want: []kindSpan{{token.IntLiteral, 0, 1}, {token.EOF, 1, 1}},
		},
		{
			name: "longer int",
			src:  "123",
			want: []kindSpan{{token.IntLiteral, 0, 3}, {token.EOF, 3, 3}},
		},
		{
			name: "float",
			src:  "1.2",
			want: []kindSpan{{token.FloatLiteral, 0, 3}, {token.EOF, 3, 3}},
		},
		{
			name: "longer float",
			src:  "12.34",
			want: []kindSpan{{token.FloatLiteral, 0, 5}, {token.EOF, 5, 5}},
		},
		{
			name: "float with no fraction digits",
			src:  "1.;",
			want: []kindSpan{{token.FloatLiteral, 0, 2}, {token.Semi, 2, 3}, {token.EOF, 3, 3}},
		},
		{
			name: "string",
			src:  `"testing"`,
			want: []kindSpan{{token.StringLiteral, 0, 9}, {token.EOF, 9, 9}},
		},
		{
			name: "line comment",
			src:  "// hello\nstruct",
			want: []kindSpan{{token.Comment, 0, 8}, {token.Struct, 9, 15}, {token.EOF, 15, 15}},
		},
		{
			name: "block comment",
			src:  "/* a\nb */ map",
			want: []kindSpan{{token.Comment, 0, 9}, {token.Map, 10, 13}, {token.EOF, 13, 13}},
		},
		{
			name: "lone slash",
			src:  "/ a",
			want: []kindSpan{{token.Invalid, 0, 1}, {token.Ident, 2, 3}, {token.EOF, 3, 3}},
		},
		{
			name: "unknown character",
			src:  "a $ b",
			want: []kindSpan{{token.Ident, 0, 1}, {token.Invalid, 2, 3}, {token.Ident, 4, 5}, {token.EOF, 5, 5}},
		},
		{
			name: "non ascii character",
			src:  "é",
			want: []kindSpan{{token.Invalid, 0, 2}, {token.EOF, 2, 2}},
		},
		{
			name: "field",
			src:  "get?: map<string,int32>;",
			want: []kindSpan{
				{token.Ident, 0, 3},
				{token.QuestionMark, 3, 4},
				{token.Colon, 4, 5},
				{token.Map, 6, 9},
				{token.OpenChevron, 9, 10},
				{token.String, 10, 16},
				{token.Comma, 16, 17},
				{token.Int32, 17, 22},
				{token.CloseChevron, 22, 23},
				{token.Semi, 23, 24},
				{token.EOF, 24, 24},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)

			got := scanAll(t, tt.name, tt.src, syntaxtest.FailEmitter(t))
			test.EqualFunc(t, got, tt.want, slices.Equal, test.Context("token stream mismatch"))
		})
	}
}

func TestKeywords(t *testing.T) {
	keywords := []string{
		"package", "import", "constructor", "annotation", "struct", "map", "unknown", "union",
		"repeatable", "tagged", "uint32", "uint64", "int32", "int64", "float32", "float64", "string",
	}

	for _, keyword := range keywords {
		t.Run(keyword, func(t *testing.T) {
			want, ok := token.Keyword(keyword)
			test.True(t, ok)

			got := scanAll(t, keyword, keyword, syntaxtest.FailEmitter(t))
			test.Equal(t, len(got), 2)
			test.Equal(t, got[0], kindSpan{kind: want, start: 0, end: len(keyword)})
			test.True(t, got[0].kind != token.Ident, test.Context("%q scanned as an identifier", keyword))
		})
	}
}

func TestFatal(t *testing.T) {
	tests := []struct {
		name  string     // Identifies the test case
		src   string     // Source text to scan
		calls []string   // Expected emitter calls
		want  []kindSpan // Tokens produced before the scanner gave up
	}{
		{
			name:  "unterminated string",
			src:   `"abc`,
			calls: []string{"UnterminatedString(StringLiteral)"},
			want:  nil,
		},
		{
			name:  "unterminated string after tokens",
			src:   `import "abc`,
			calls: []string{"UnterminatedString(StringLiteral)"},
			want:  []kindSpan{{token.Import, 0, 6}},
		},
		{
			name:  "unterminated block comment",
			src:   "struct /* oops",
			calls: []string{"UnterminatedComment(Comment)"},
			want:  []kindSpan{{token.Struct, 0, 6}},
		},
		{
			name:  "eof after decimal point",
			src:   "12.",
			calls: []string{"UnexpectedEOF(FloatLiteral)"},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)

			mock := &syntaxtest.MockEmitter{}

			got := scanAll(t, tt.name, tt.src, mock)
			test.EqualFunc(t, got, tt.want, slices.Equal)
			test.EqualFunc(t, mock.Calls(), tt.calls, slices.Equal)
		})
	}
}

func TestScanAfterEnd(t *testing.T) {
	s := scanner.New(syntax.SourceFile{Path: "end.haml", Text: "a"}, syntaxtest.FailEmitter(t))

	tok, ok := s.Scan()
	test.True(t, ok)
	test.Equal(t, tok.Kind, token.Ident)

	tok, ok = s.Scan()
	test.True(t, ok)
	test.Equal(t, tok.Kind, token.EOF)

	// Exhausted, stays that way
	for range 3 {
		_, ok = s.Scan()
		test.True(t, !ok)
	}
}

func TestValid(t *testing.T) {
	// Force colour for diffs but only locally
	test.ColorEnabled(os.Getenv("CI") == "")

	pattern := filepath.Join("testdata", "valid", "*.txtar")
	files, err := filepath.Glob(pattern)
	test.Ok(t, err)

	for _, file := range files {
		name := filepath.Base(file)
		t.Run(name, func(t *testing.T) {
			defer goleak.VerifyNone(t)

			archive, err := txtar.ParseFile(file)
			test.Ok(t, err)

			src, ok := archive.Read("src.haml")
			test.True(t, ok, test.Context("%s missing src.haml", file))

			want, ok := archive.Read("tokens.txt")
			test.True(t, ok, test.Context("%s missing tokens.txt", file))

			s := scanner.New(syntax.SourceFile{Path: name, Text: src}, syntaxtest.FailEmitter(t))

			var formattedTokens strings.Builder
			for tok := range s.All() {
				formattedTokens.WriteString(tok.String())
				formattedTokens.WriteByte('\n')
			}

			got := formattedTokens.String()

			if *update {
				err := archive.Write("tokens.txt", got)
				test.Ok(t, err)

				err = txtar.DumpFile(file, archive)
				test.Ok(t, err)

				return
			}

			test.Diff(t, got, want)
		})
	}
}

func TestInvalid(t *testing.T) {
	// Force colour for diffs but only locally
	test.ColorEnabled(os.Getenv("CI") == "")

	pattern := filepath.Join("testdata", "invalid", "*.txtar")
	files, err := filepath.Glob(pattern)
	test.Ok(t, err)

	for _, file := range files {
		name := filepath.Base(file)
		t.Run(name, func(t *testing.T) {
			defer goleak.VerifyNone(t)

			archive, err := txtar.ParseFile(file)
			test.Ok(t, err)

			src, ok := archive.Read("src.haml")
			test.True(t, ok, test.Context("%s missing src.haml", file))

			want, ok := archive.Read("tokens.txt")
			test.True(t, ok, test.Context("%s missing tokens.txt", file))

			errs, ok := archive.Read("errors.txt")
			test.True(t, ok, test.Context("%s missing errors.txt", file))

			acc := &diag.Accumulator{}
			s := scanner.New(syntax.SourceFile{Path: name, Text: src}, acc)

			var formattedTokens strings.Builder
			for tok := range s.All() {
				formattedTokens.WriteString(tok.String())
				formattedTokens.WriteByte('\n')
			}

			got := formattedTokens.String()

			var diagnostics strings.Builder
			for _, d := range acc.Diagnostics() {
				diagnostics.WriteString(d.String())
			}

			gotErrs := diagnostics.String()

			if *update {
				err := archive.Write("tokens.txt", got)
				test.Ok(t, err)

				err = archive.Write("errors.txt", gotErrs)
				test.Ok(t, err)

				err = txtar.DumpFile(file, archive)
				test.Ok(t, err)

				return
			}

			test.Diff(t, got, want)
			test.Diff(t, gotErrs, errs)
		})
	}
}

func FuzzScanner(f *testing.F) {
	// Get all the haml source from testdata for the corpus
	pattern := filepath.Join("testdata", "*", "*.txtar")
	files, err := filepath.Glob(pattern)
	test.Ok(f, err)

	for _, file := range files {
		archive, err := txtar.ParseFile(file)
		test.Ok(f, err)

		if archive == nil {
			f.Fatal("txtar.ParseFile returned nil archive")
		}

		src, ok := archive.Read("src.haml")
		test.True(f, ok, test.Context("%s missing src.haml", file))

		f.Add(src)
	}

	// Property: The scanner never panics or loops indefinitely, fuzz
	// by default will catch both of these
	f.Fuzz(func(t *testing.T, src string) {
		s := scanner.New(syntax.SourceFile{Path: "fuzz", Text: src}, &diag.Accumulator{})

		previousEnd := 0

		for tok := range s.All() {
			// Property: Spans must be within the source text
			test.True(t, tok.Span.Start >= 0, test.Context("token start position (%d) was negative", tok.Span.Start))
			test.True(t, tok.Span.End <= len(src), test.Context("token %s ends past the end of the input", tok))

			// Property: End must be >= Start
			test.True(t, tok.Span.End >= tok.Span.Start, test.Context("token %s had invalid start and end positions", tok))

			// Property: Tokens never overlap and always move forward
			test.True(t, tok.Span.Start >= previousEnd, test.Context("token %s overlaps the previous one", tok))

			// Property: The kind must be one of the known kinds
			test.True(
				t,
				(tok.Kind >= token.EOF) && (tok.Kind <= token.String),
				test.Context("token %s was not one of the pre-defined kinds", tok),
			)

			previousEnd = tok.Span.End
		}
	})
}

func BenchmarkScanner(b *testing.B) {
	file := filepath.Join("testdata", "valid", "full.txtar")
	archive, err := txtar.ParseFile(file)
	test.Ok(b, err)

	if archive == nil {
		b.Fatal("txtar.ParseFile returned nil archive")
	}

	src, ok := archive.Read("src.haml")
	test.True(b, ok, test.Context("%s missing src.haml", file))

	sourceFile := syntax.SourceFile{Path: "bench", Text: src}

	for b.Loop() {
		s := scanner.New(sourceFile, &diag.Accumulator{})
		for range s.All() {
		}
	}
}
