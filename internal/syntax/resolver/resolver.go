// Package resolver implements a resolver for the AST.
//
// The resolution stage lowers a parsed [ast.File] into a concrete [schema.File],
// spelling out field types, unquoting literals and checking the parts of the tree
// the grammar alone cannot, such as a field being declared twice in the same block.
//
// Names declared at the top level of a file are checked by the symbols package,
// not here.
package resolver

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.followtheprocess.codes/haml/internal/schema"
	"go.followtheprocess.codes/haml/internal/syntax/ast"
	"go.followtheprocess.codes/haml/internal/syntax/diag"
	"go.followtheprocess.codes/haml/internal/syntax/token"
)

// ErrResolve is a generic resolving error, details on the error are passed
// to the resolver's [diag.Emitter] at the moment it occurs.
var ErrResolve = errors.New("resolve error")

// Option is a functional option for configuring a [Resolver].
type Option func(*Resolver)

// WithImportRoot sets the directory imports are looked up in, each [schema.Import]
// then carries the path its file would have under root.
func WithImportRoot(root string) Option {
	return func(r *Resolver) {
		r.importRoot = root
	}
}

// Resolver is the ast resolver for haml files.
//
// It transforms an [ast.File] into a concrete [schema.File], reporting any
// problems it finds along the way to its emitter.
type Resolver struct {
	emitter    diag.Emitter // Where problems are reported
	importRoot string       // Directory imports are relative to, may be empty
	hadErrors  bool         // Whether we reported any errors
}

// New returns a new [Resolver] reporting problems to emitter.
func New(emitter diag.Emitter, options ...Option) *Resolver {
	r := &Resolver{emitter: emitter}

	for _, option := range options {
		option(r)
	}

	return r
}

// Resolve resolves an [ast.File] into a concrete [schema.File].
//
// Resolving carries on past errors so every problem in the file is reported. If any
// of them were errors rather than warnings, Resolve returns the zero [schema.File]
// and [ErrResolve].
func (r *Resolver) Resolve(in ast.File) (schema.File, error) {
	r.hadErrors = false

	file := schema.File{Name: in.Name}

	imported := make(map[string]bool)

	for _, statement := range in.Statements {
		switch stmt := statement.(type) {
		case ast.PackageStmt:
			if file.Package != "" {
				r.emit(diag.NewDuplicatePackage(stmt.Keyword))
				continue
			}

			file.Package = stmt.Name()
		case ast.ImportStmt:
			path := stmt.Value()
			if imported[path] {
				r.emit(diag.NewDuplicateImport(stmt.Path))
				continue
			}

			imported[path] = true

			file.Imports = append(file.Imports, r.resolveImport(path))
		case ast.Comment:
			// Nothing to lower
		case ast.ConstructorDecl:
			file.Declarations = append(file.Declarations, r.resolveBlockDecl(stmt, schema.KindConstructor, stmt.Content))
		case ast.StructDecl:
			file.Declarations = append(file.Declarations, r.resolveBlockDecl(stmt, schema.KindStruct, stmt.Content))
		case ast.AnnotationDecl:
			file.Declarations = append(file.Declarations, r.resolveAnnotation(stmt))
		default:
			r.emitter.Message(fmt.Sprintf("unexpected statement %T", stmt))
			r.hadErrors = true
		}
	}

	if r.hadErrors {
		return schema.File{}, ErrResolve
	}

	return file, nil
}

// emit passes d to the emitter, noting whether it was an error.
func (r *Resolver) emit(d diag.Diagnostic) {
	if d.Level == diag.LevelError {
		r.hadErrors = true
	}

	r.emitter.Emit(d)
}

// resolveImport lowers an import path, working out where its file would live
// under the import root. Dotted paths name nested directories so "a.b" is
// "<root>/a/b.haml", anything already ending in ".haml" is used as is.
func (r *Resolver) resolveImport(path string) schema.Import {
	imp := schema.Import{Path: path}

	if r.importRoot == "" {
		return imp
	}

	if strings.HasSuffix(path, ".haml") {
		imp.File = filepath.Join(r.importRoot, filepath.FromSlash(path))
		return imp
	}

	parts := strings.Split(path, ".")
	parts[len(parts)-1] += ".haml"
	imp.File = filepath.Join(append([]string{r.importRoot}, parts...)...)

	return imp
}

// resolveBlockDecl lowers a constructor or struct.
func (r *Resolver) resolveBlockDecl(decl ast.Declaration, kind schema.DeclKind, content ast.Block) schema.Declaration {
	out := schema.Declaration{
		Name:        decl.Ident().Text(),
		Kind:        kind,
		Annotations: r.resolveAnnotations(decl.Annotated()),
	}

	switch block := content.(type) {
	case ast.FieldSet:
		out.Block = schema.BlockFields
		if block.IsUnion() {
			out.Block = schema.BlockUnion
		}

		out.Fields = r.resolveFields(block.Fields)
	case ast.Repeatable:
		out.Block = schema.BlockRepeatable
		out.Fields = r.resolveFields(block.Fields)
	case ast.Alias:
		out.Block = schema.BlockAlias
		out.Alias = block.Map.String()
	default:
		r.emitter.Message(fmt.Sprintf("unexpected block %T in %s", content, out.Name))
		r.hadErrors = true
	}

	return out
}

// resolveAnnotations returns the names of the applied annotations, each
// repeat is reported and dropped.
func (r *Resolver) resolveAnnotations(annotations []token.Token) []string {
	if len(annotations) == 0 {
		return nil
	}

	names := make([]string, 0, len(annotations))
	seen := make(map[string]bool, len(annotations))

	for _, annotation := range annotations {
		name := annotation.Text()
		if seen[name] {
			r.emit(diag.NewDuplicateAnnotation(annotation))
			continue
		}

		seen[name] = true

		names = append(names, name)
	}

	return names
}

func (r *Resolver) resolveFields(fields []ast.Field) []schema.Field {
	if len(fields) == 0 {
		return nil
	}

	out := make([]schema.Field, 0, len(fields))
	seen := make(map[string]bool, len(fields))

	for _, field := range fields {
		name := field.Name.Text()
		if seen[name] {
			r.emit(diag.NewDuplicateField(field.Name))
			continue
		}

		seen[name] = true

		out = append(out, schema.Field{
			Name:     name,
			Type:     field.Type.String(),
			Optional: field.Optional,
		})
	}

	return out
}

func (r *Resolver) resolveAnnotation(decl ast.AnnotationDecl) schema.Declaration {
	out := schema.Declaration{
		Name:        decl.Name.Text(),
		Kind:        schema.KindAnnotation,
		Annotations: r.resolveAnnotations(decl.Annotations),
	}

	if len(decl.Fields) == 0 {
		return out
	}

	seen := make(map[string]bool, len(decl.Fields))

	for _, field := range decl.Fields {
		name := field.Name.Text()
		if seen[name] {
			r.emit(diag.NewDuplicateField(field.Name))
			continue
		}

		seen[name] = true

		out.AnnotationFields = append(out.AnnotationFields, schema.AnnotationField{
			Name:     name,
			Value:    field.Value.Value(),
			Kind:     valueKind(field.Value),
			Optional: field.Optional,
		})
	}

	return out
}

// valueKind returns the [schema.ValueKind] of an annotation literal.
func valueKind(lit ast.Literal) schema.ValueKind {
	switch lit.Token.Kind {
	case token.StringLiteral:
		return schema.ValueString
	case token.IntLiteral:
		return schema.ValueInt
	case token.FloatLiteral:
		return schema.ValueFloat
	default:
		return schema.ValueType
	}
}
