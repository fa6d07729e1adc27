// Package frontend wires the haml compiler stages together as tracked queries
// in a [query.Database].
//
// Every stage is memoized on its input: reading a path, parsing a [syntax.SourceFile],
// collecting its symbols and lowering it to a [schema.File]. An edited file is simply
// a new SourceFile, so callers like the language server can keep one [Frontend] for the
// life of the process and only the stages for the changed text are run again.
package frontend

import (
	"fmt"
	"os"

	"go.followtheprocess.codes/haml/internal/query"
	"go.followtheprocess.codes/haml/internal/schema"
	"go.followtheprocess.codes/haml/internal/syntax"
	"go.followtheprocess.codes/haml/internal/syntax/ast"
	"go.followtheprocess.codes/haml/internal/syntax/diag"
	"go.followtheprocess.codes/haml/internal/syntax/parser"
	"go.followtheprocess.codes/haml/internal/syntax/resolver"
	"go.followtheprocess.codes/haml/internal/syntax/symbols"
	"go.followtheprocess.codes/haml/internal/syntax/token"
	"go.followtheprocess.codes/log"
)

// Query names.
const (
	queryReadFile    = "read_file"
	queryParseFile   = "parse_file"
	querySymbolTable = "build_symbol_table"
	queryReadSpan    = "read_span"
	queryLowerFile   = "lower_file"
)

// ReadFunc reads the full contents of the file at path.
type ReadFunc func(path string) (string, error)

// OSReadFunc is a [ReadFunc] that reads from the local filesystem.
func OSReadFunc(path string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(contents), nil
}

// Option is a functional option for configuring a [Frontend].
type Option func(*Frontend)

// WithLogger sets the logger query executions are reported to.
func WithLogger(logger *log.Logger) Option {
	return func(f *Frontend) {
		f.logger = logger
	}
}

// WithImportRoot sets the directory imports are looked up in when lowering.
func WithImportRoot(root string) Option {
	return func(f *Frontend) {
		f.importRoot = root
	}
}

// spanKey is the argument to the read_span query.
type spanKey struct {
	Path string
	Span syntax.Span
}

// Frontend owns a query database and the queries that run in it.
type Frontend struct {
	read        ReadFunc
	logger      *log.Logger
	db          *query.Database
	readFile    *query.Query[string, syntax.SourceFile]
	parseFile   *query.Query[syntax.SourceFile, ast.File]
	symbolTable *query.Query[syntax.SourceFile, []token.Token]
	readSpan    *query.Query[spanKey, string]
	lowerFile   *query.Query[syntax.SourceFile, schema.File]
	importRoot  string
}

// New returns a new [Frontend] reading files with read.
func New(read ReadFunc, options ...Option) *Frontend {
	f := &Frontend{read: read}

	for _, option := range options {
		option(f)
	}

	f.db = query.NewDatabase(query.WithLogger(f.logger))

	f.readFile = query.New(queryReadFile, f.doReadFile)
	f.parseFile = query.New(queryParseFile, f.doParseFile)
	f.symbolTable = query.New(querySymbolTable, f.doBuildSymbolTable)
	f.readSpan = query.New(queryReadSpan, f.doReadSpan)
	f.lowerFile = query.New(queryLowerFile, f.doLowerFile)

	return f
}

// ReadFile returns the [syntax.SourceFile] for path, or false if it could not be read.
func (f *Frontend) ReadFile(path string) (syntax.SourceFile, bool) {
	return f.readFile.Get(f.db, path)
}

// ReadFileDiagnostics returns the diagnostics reported reading path.
func (f *Frontend) ReadFileDiagnostics(path string) []diag.Diagnostic {
	return f.readFile.Accumulated(f.db, path)
}

// ParseFile parses file, returning false on the first syntax error.
func (f *Frontend) ParseFile(file syntax.SourceFile) (ast.File, bool) {
	return f.parseFile.Get(f.db, file)
}

// ParseDiagnostics returns the diagnostics reported parsing file.
func (f *Frontend) ParseDiagnostics(file syntax.SourceFile) []diag.Diagnostic {
	return f.parseFile.Accumulated(f.db, file)
}

// BuildSymbolTable returns the names declared at the top level of file in the order
// they were declared, keeping only the first of any duplicates.
//
// Duplicates are reported but do not fail the query, it's only false if file does not parse.
func (f *Frontend) BuildSymbolTable(file syntax.SourceFile) ([]token.Token, bool) {
	return f.symbolTable.Get(f.db, file)
}

// SymbolDiagnostics returns the diagnostics reported building the symbol table
// for file, including those from parsing it.
func (f *Frontend) SymbolDiagnostics(file syntax.SourceFile) []diag.Diagnostic {
	return f.symbolTable.Accumulated(f.db, file)
}

// ReadSpan reads path and returns the text covered by span, false if the file
// cannot be read or the span does not fit inside it.
func (f *Frontend) ReadSpan(path string, span syntax.Span) (string, bool) {
	return f.readSpan.Get(f.db, spanKey{Path: path, Span: span})
}

// LowerFile lowers file to a [schema.File].
//
// It fails if any error has been reported for file along the way, warnings are
// allowed.
func (f *Frontend) LowerFile(file syntax.SourceFile) (schema.File, bool) {
	return f.lowerFile.Get(f.db, file)
}

// LowerDiagnostics returns every diagnostic reported lowering file, which is every
// diagnostic reported for file by any stage.
func (f *Frontend) LowerDiagnostics(file syntax.SourceFile) []diag.Diagnostic {
	return f.lowerFile.Accumulated(f.db, file)
}

// Forget drops everything memoized about file, returning how many results were
// dropped. Callers use it once file has been superseded by new text and won't be
// asked about again, diagnostics already handed out are unaffected.
func (f *Frontend) Forget(file syntax.SourceFile) int {
	forgotten := 0

	for _, evicted := range []bool{
		f.lowerFile.Evict(f.db, file),
		f.symbolTable.Evict(f.db, file),
		f.parseFile.Evict(f.db, file),
	} {
		if evicted {
			forgotten++
		}
	}

	return forgotten
}

func (f *Frontend) doReadFile(ctx *query.Context, path string) (syntax.SourceFile, bool) {
	text, err := f.read(path)
	if err != nil {
		ctx.Emitter().Message(fmt.Sprintf("could not read %s: %v", path, err))
		return syntax.SourceFile{}, false
	}

	return syntax.SourceFile{Path: path, Text: text}, true
}

func (f *Frontend) doParseFile(ctx *query.Context, file syntax.SourceFile) (ast.File, bool) {
	parsed, err := parser.New(file, ctx.Emitter()).Parse()
	if err != nil {
		return ast.File{}, false
	}

	return parsed, true
}

func (f *Frontend) doBuildSymbolTable(ctx *query.Context, file syntax.SourceFile) ([]token.Token, bool) {
	parsed, ok := f.parseFile.Get(ctx, file)
	if !ok {
		return nil, false
	}

	return symbols.Collect(parsed, ctx.Emitter()).Names(), true
}

func (f *Frontend) doReadSpan(ctx *query.Context, key spanKey) (string, bool) {
	file, ok := f.readFile.Get(ctx, key.Path)
	if !ok {
		return "", false
	}

	if key.Span.Start < 0 || key.Span.Start > key.Span.End || key.Span.End > len(file.Text) {
		return "", false
	}

	return file.Text[key.Span.Start:key.Span.End], true
}

func (f *Frontend) doLowerFile(ctx *query.Context, file syntax.SourceFile) (schema.File, bool) {
	if _, ok := f.symbolTable.Get(ctx, file); !ok {
		return schema.File{}, false
	}

	if diag.HasErrors(f.symbolTable.Accumulated(ctx, file)) {
		return schema.File{}, false
	}

	parsed, _ := f.parseFile.Get(ctx, file)

	lowered, err := resolver.New(ctx.Emitter(), resolver.WithImportRoot(f.importRoot)).Resolve(parsed)
	if err != nil {
		return schema.File{}, false
	}

	return lowered, true
}
