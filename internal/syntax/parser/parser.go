// Package parser implements the haml file parser.
//
// The parser is a recursive descent parser consuming tokens from the scanner one at a
// time. The scanner offers no lookahead so where two productions share a prefix, the
// parser consumes the discriminating token itself and hands it down to the production
// that turns out to own it (see [Parser.fieldSet]).
//
// Parsing stops at the first problem. Exactly one diagnostic is passed to the emitter
// given to [New], be that from the scanner (e.g. an unterminated string) or the parser
// (e.g. an unexpected token), and [Parser.Parse] returns [ErrParse]. There is no attempt
// at recovery.
package parser

import (
	"errors"

	"go.followtheprocess.codes/haml/internal/syntax"
	"go.followtheprocess.codes/haml/internal/syntax/ast"
	"go.followtheprocess.codes/haml/internal/syntax/diag"
	"go.followtheprocess.codes/haml/internal/syntax/scanner"
	"go.followtheprocess.codes/haml/internal/syntax/token"
)

// ErrParse is a generic parsing error, details on the error are passed
// to the parser's [diag.Emitter] at the moment it occurs.
var ErrParse = errors.New("parse error")

// Expected descriptions passed to [diag.Emitter.UnexpectedToken].
const (
	expectStatement       = "a package, import or declaration"
	expectPackageSegment  = "period or semicolon"
	expectDeclaration     = "an annotation, constructor or struct"
	expectBlock           = "union, repeatable or an identifier"
	expectOptionalOrColon = "a question mark or colon"
	expectField           = "a closing brace or identifier"
	expectFieldType       = "a field value type"
	expectAnnotationField = "closing brace or identifier"
	expectAnnotationValue = "a string or number"
)

// Parser is the haml file parser.
type Parser struct {
	emitter diag.Emitter     // Where problems are reported
	scanner *scanner.Scanner // Scanner to produce tokens
	name    string           // Name of the file being parsed
	prev    token.Token      // The last significant token consumed
}

// New initialises and returns a new [Parser] that parses file, reporting
// any problem to emitter.
func New(file syntax.SourceFile, emitter diag.Emitter) *Parser {
	return &Parser{
		emitter: emitter,
		scanner: scanner.New(file, emitter),
		name:    file.Path,
	}
}

// Parse parses the file to completion returning an [ast.File].
//
// If the file could not be parsed, the returned error is [ErrParse], the statements
// parsed up to that point are returned but should not be relied upon. The emitter passed
// to [New] will have been given the full detail.
func (p *Parser) Parse() (ast.File, error) {
	if p == nil {
		return ast.File{}, errors.New("Parse called on nil parser")
	}

	file := ast.File{Name: p.name}

	for {
		tok, err := p.advance()
		if err != nil {
			return file, err
		}

		if tok.Is(token.EOF) {
			return file, nil
		}

		statement, err := p.parseStatement(tok)
		if err != nil {
			return file, err
		}

		file.Statements = append(file.Statements, statement)
	}
}

// advance consumes the next token from the scanner, comments included.
//
// A fatal scanner error will already have been reported so is simply turned into
// an [ErrParse]. An invalid token is reported here.
func (p *Parser) advance() (token.Token, error) {
	tok, ok := p.scanner.Scan()
	if !ok {
		return token.Token{}, ErrParse
	}

	if tok.Is(token.Invalid) {
		p.emitter.UnknownToken(tok)
		return token.Token{}, ErrParse
	}

	if !tok.Is(token.EOF, token.Comment) {
		p.prev = tok
	}

	return tok, nil
}

// next returns the next significant token inside a statement, skipping comments.
//
// The statement is necessarily incomplete so reaching the end of the file here is an error.
func (p *Parser) next() (token.Token, error) {
	for {
		tok, err := p.advance()
		if err != nil {
			return token.Token{}, err
		}

		switch tok.Kind {
		case token.Comment:
			continue
		case token.EOF:
			p.emitter.UnexpectedEOF(p.prev)
			return token.Token{}, ErrParse
		default:
			return tok, nil
		}
	}
}

// expect consumes the next token, asserting it is of the given kind.
func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	tok, err := p.next()
	if err != nil {
		return token.Token{}, err
	}

	if !tok.Is(kind) {
		return token.Token{}, p.unexpected(tok, kind.Description())
	}

	return tok, nil
}

// unexpected reports tok as unexpected and returns [ErrParse].
func (p *Parser) unexpected(tok token.Token, expected string) error {
	p.emitter.UnexpectedToken(tok, expected)
	return ErrParse
}

// parseStatement parses a top level statement, tok is its first token.
func (p *Parser) parseStatement(tok token.Token) (ast.Statement, error) {
	switch tok.Kind {
	case token.Comment:
		return ast.Comment{Token: tok}, nil
	case token.Package:
		return p.parsePackage(tok)
	case token.Import:
		return p.parseImport(tok)
	case token.At:
		return p.parseAnnotated()
	case token.Constructor:
		return p.parseConstructor(nil, tok)
	case token.Struct:
		return p.parseStruct(nil, tok)
	case token.Annotation:
		return p.parseAnnotation(nil, tok)
	default:
		return nil, p.unexpected(tok, expectStatement)
	}
}

// parsePackage parses a package statement.
//
//	package http.request;
func (p *Parser) parsePackage(keyword token.Token) (ast.PackageStmt, error) {
	stmt := ast.PackageStmt{Keyword: keyword}

	for {
		segment, err := p.expect(token.Ident)
		if err != nil {
			return ast.PackageStmt{}, err
		}

		stmt.Segments = append(stmt.Segments, segment)

		tok, err := p.next()
		if err != nil {
			return ast.PackageStmt{}, err
		}

		switch tok.Kind {
		case token.Period:
			continue
		case token.Semi:
			stmt.Semi = tok
			return stmt, nil
		default:
			return ast.PackageStmt{}, p.unexpected(tok, expectPackageSegment)
		}
	}
}

// parseImport parses an import statement.
//
//	import "testing";
func (p *Parser) parseImport(keyword token.Token) (ast.ImportStmt, error) {
	path, err := p.expect(token.StringLiteral)
	if err != nil {
		return ast.ImportStmt{}, err
	}

	semi, err := p.expect(token.Semi)
	if err != nil {
		return ast.ImportStmt{}, err
	}

	return ast.ImportStmt{Keyword: keyword, Path: path, Semi: semi}, nil
}

// parseAnnotated parses a run of '@' annotations and the declaration they
// are applied to. The first '@' has already been consumed.
func (p *Parser) parseAnnotated() (ast.Statement, error) {
	var annotations []token.Token

	for {
		name, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}

		annotations = append(annotations, name)

		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case token.At:
			continue
		case token.Constructor:
			return p.parseConstructor(annotations, tok)
		case token.Struct:
			return p.parseStruct(annotations, tok)
		case token.Annotation:
			return p.parseAnnotation(annotations, tok)
		default:
			return nil, p.unexpected(tok, expectDeclaration)
		}
	}
}

func (p *Parser) parseConstructor(annotations []token.Token, keyword token.Token) (ast.ConstructorDecl, error) {
	name, err := p.expect(token.Ident)
	if err != nil {
		return ast.ConstructorDecl{}, err
	}

	content, err := p.parseBlock()
	if err != nil {
		return ast.ConstructorDecl{}, err
	}

	return ast.ConstructorDecl{
		Annotations: annotations,
		Keyword:     keyword,
		Name:        name,
		Content:     content,
	}, nil
}

func (p *Parser) parseStruct(annotations []token.Token, keyword token.Token) (ast.StructDecl, error) {
	name, err := p.expect(token.Ident)
	if err != nil {
		return ast.StructDecl{}, err
	}

	content, err := p.parseBlock()
	if err != nil {
		return ast.StructDecl{}, err
	}

	return ast.StructDecl{
		Annotations: annotations,
		Keyword:     keyword,
		Name:        name,
		Content:     content,
	}, nil
}

// parseBlock parses the braced body of a constructor or struct.
//
// The token after the '{' decides what kind of block this is, an identifier is
// the name of the first field in a plain field set and is passed on as such.
func (p *Parser) parseBlock() (ast.Block, error) {
	open, err := p.expect(token.OpenBrace)
	if err != nil {
		return nil, err
	}

	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case token.Union:
		fields, closeBrace, err := p.parseNestedFieldSet()
		if err != nil {
			return nil, err
		}

		return ast.FieldSet{Open: open, Union: tok, Fields: fields, Close: closeBrace}, nil
	case token.Repeatable:
		fields, closeBrace, err := p.parseNestedFieldSet()
		if err != nil {
			return nil, err
		}

		return ast.Repeatable{Open: open, Keyword: tok, Fields: fields, Close: closeBrace}, nil
	case token.Map:
		m, err := p.parseMap(tok)
		if err != nil {
			return nil, err
		}

		closeBrace, err := p.expect(token.CloseBrace)
		if err != nil {
			return nil, err
		}

		return ast.Alias{Open: open, Map: m, Close: closeBrace}, nil
	case token.Ident:
		fields, closeBrace, err := p.fieldSet(&tok)
		if err != nil {
			return nil, err
		}

		return ast.FieldSet{Open: open, Fields: fields, Close: closeBrace}, nil
	case token.CloseBrace:
		return ast.FieldSet{Open: open, Close: tok}, nil
	default:
		return nil, p.unexpected(tok, expectBlock)
	}
}

// parseNestedFieldSet parses the '{ fields } }' following a 'union' or 'repeatable'
// keyword, returning the fields and the outer closing brace.
func (p *Parser) parseNestedFieldSet() ([]ast.Field, token.Token, error) {
	if _, err := p.expect(token.OpenBrace); err != nil {
		return nil, token.Token{}, err
	}

	fields, _, err := p.fieldSet(nil)
	if err != nil {
		return nil, token.Token{}, err
	}

	closeBrace, err := p.expect(token.CloseBrace)
	if err != nil {
		return nil, token.Token{}, err
	}

	return fields, closeBrace, nil
}

// fieldSet parses fields up to and including the closing brace, which is returned.
//
// If leading is not nil, it has already been consumed by the caller and is the name
// of the first field.
func (p *Parser) fieldSet(leading *token.Token) ([]ast.Field, token.Token, error) {
	var fields []ast.Field

	if leading != nil {
		field, err := p.parseField(*leading)
		if err != nil {
			return nil, token.Token{}, err
		}

		fields = append(fields, field)
	}

	for {
		tok, err := p.next()
		if err != nil {
			return nil, token.Token{}, err
		}

		switch tok.Kind {
		case token.CloseBrace:
			return fields, tok, nil
		case token.Ident:
			field, err := p.parseField(tok)
			if err != nil {
				return nil, token.Token{}, err
			}

			fields = append(fields, field)
		default:
			return nil, token.Token{}, p.unexpected(tok, expectField)
		}
	}
}

// parseField parses the rest of a field after its name.
//
//	name?: type;
func (p *Parser) parseField(name token.Token) (ast.Field, error) {
	optional, err := p.parseOptional()
	if err != nil {
		return ast.Field{}, err
	}

	typ, err := p.parseFieldType()
	if err != nil {
		return ast.Field{}, err
	}

	semi, err := p.expect(token.Semi)
	if err != nil {
		return ast.Field{}, err
	}

	return ast.Field{Name: name, Optional: optional, Type: typ, Semi: semi}, nil
}

// parseOptional parses the '?:' or ':' between a field name and its value,
// reporting whether the field is optional.
func (p *Parser) parseOptional() (bool, error) {
	tok, err := p.next()
	if err != nil {
		return false, err
	}

	switch tok.Kind {
	case token.QuestionMark:
		if _, err := p.expect(token.Colon); err != nil {
			return false, err
		}

		return true, nil
	case token.Colon:
		return false, nil
	default:
		return false, p.unexpected(tok, expectOptionalOrColon)
	}
}

func (p *Parser) parseFieldType() (ast.FieldType, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case token.Ident:
		return ast.TypeRef{Name: tok}, nil
	case token.String,
		token.Uint32,
		token.Uint64,
		token.Int32,
		token.Int64,
		token.Float32,
		token.Float64,
		token.Unknown,
		token.Struct:
		return ast.Primitive{Token: tok}, nil
	case token.Map:
		return p.parseMap(tok)
	default:
		return nil, p.unexpected(tok, expectFieldType)
	}
}

// parseMap parses a map type, the 'map' keyword has already been consumed.
//
//	map<string, int32>
func (p *Parser) parseMap(keyword token.Token) (ast.MapType, error) {
	if _, err := p.expect(token.OpenChevron); err != nil {
		return ast.MapType{}, err
	}

	key, err := p.parseFieldType()
	if err != nil {
		return ast.MapType{}, err
	}

	if _, err = p.expect(token.Comma); err != nil {
		return ast.MapType{}, err
	}

	value, err := p.parseFieldType()
	if err != nil {
		return ast.MapType{}, err
	}

	closeChevron, err := p.expect(token.CloseChevron)
	if err != nil {
		return ast.MapType{}, err
	}

	return ast.MapType{Keyword: keyword, Key: key, Value: value, Close: closeChevron}, nil
}

// parseAnnotation parses an annotation declaration.
//
//	annotation route {
//	    path: string,
//	    retries?: 3,
//	}
func (p *Parser) parseAnnotation(annotations []token.Token, keyword token.Token) (ast.AnnotationDecl, error) {
	name, err := p.expect(token.Ident)
	if err != nil {
		return ast.AnnotationDecl{}, err
	}

	open, err := p.expect(token.OpenBrace)
	if err != nil {
		return ast.AnnotationDecl{}, err
	}

	decl := ast.AnnotationDecl{
		Annotations: annotations,
		Keyword:     keyword,
		Name:        name,
		Open:        open,
	}

	for {
		tok, err := p.next()
		if err != nil {
			return ast.AnnotationDecl{}, err
		}

		switch tok.Kind {
		case token.CloseBrace:
			decl.Close = tok
			return decl, nil
		case token.Ident:
			field, err := p.parseAnnotationField(tok)
			if err != nil {
				return ast.AnnotationDecl{}, err
			}

			decl.Fields = append(decl.Fields, field)
		default:
			return ast.AnnotationDecl{}, p.unexpected(tok, expectAnnotationField)
		}
	}
}

func (p *Parser) parseAnnotationField(name token.Token) (ast.AnnotationField, error) {
	optional, err := p.parseOptional()
	if err != nil {
		return ast.AnnotationField{}, err
	}

	tok, err := p.next()
	if err != nil {
		return ast.AnnotationField{}, err
	}

	if !tok.Is(token.StringLiteral, token.IntLiteral, token.FloatLiteral) && !tok.Kind.IsScalar() {
		return ast.AnnotationField{}, p.unexpected(tok, expectAnnotationValue)
	}

	comma, err := p.expect(token.Comma)
	if err != nil {
		return ast.AnnotationField{}, err
	}

	return ast.AnnotationField{
		Name:     name,
		Optional: optional,
		Value:    ast.Literal{Token: tok},
		Comma:    comma,
	}, nil
}
