// Package symbols builds the table of names declared by a haml file.
//
// Every constructor, struct and annotation declares a name at the top level of its file
// and those names must be unique. [Collect] walks a parsed file, recording the first
// declaration of each name and reporting every later one as a duplicate.
package symbols

import (
	"go.followtheprocess.codes/haml/internal/syntax/ast"
	"go.followtheprocess.codes/haml/internal/syntax/diag"
	"go.followtheprocess.codes/haml/internal/syntax/token"
)

// Symbol is a declared name.
type Symbol struct {
	// Name is the name token of the declaration.
	Name token.Token

	// Kind is the kind of declaration: [ast.KindConstructor], [ast.KindStruct]
	// or [ast.KindAnnotation].
	Kind ast.Kind

	// ID is the interned ID of the name.
	ID ID
}

// Table is the set of names declared in a file.
type Table struct {
	interner *Interner
	symbols  map[ID]Symbol
	order    []ID
}

// NewTable returns a new, empty [Table].
func NewTable() *Table {
	return &Table{
		interner: NewInterner(),
		symbols:  make(map[ID]Symbol),
	}
}

// Declare records the declaration of name.
//
// If the name has already been declared, the existing symbol is kept, a
// duplicate identifier diagnostic pointing at name is passed to emitter and
// Declare returns false.
func (t *Table) Declare(kind ast.Kind, name token.Token, emitter diag.Emitter) bool {
	id := t.interner.Intern(name.Text())
	if _, exists := t.symbols[id]; exists {
		emitter.DuplicateIdentifier(name)
		return false
	}

	t.symbols[id] = Symbol{Name: name, Kind: kind, ID: id}
	t.order = append(t.order, id)

	return true
}

// Lookup returns the symbol declared with the given name.
func (t *Table) Lookup(name string) (Symbol, bool) {
	id, ok := t.interner.ids[name]
	if !ok {
		return Symbol{}, false
	}

	symbol, ok := t.symbols[id]

	return symbol, ok
}

// Len returns the number of distinct names declared.
func (t *Table) Len() int {
	return len(t.order)
}

// Symbols returns the declared symbols in the order they were first declared.
func (t *Table) Symbols() []Symbol {
	symbols := make([]Symbol, 0, len(t.order))
	for _, id := range t.order {
		symbols = append(symbols, t.symbols[id])
	}

	return symbols
}

// Names returns the name tokens of the declared symbols in declaration order.
func (t *Table) Names() []token.Token {
	names := make([]token.Token, 0, len(t.order))
	for _, id := range t.order {
		names = append(names, t.symbols[id].Name)
	}

	return names
}

// Collect walks file declaring every top level declaration in a new [Table].
//
// Duplicates are reported to emitter as they are found, the walk carries on
// regardless so every duplicate in the file is reported.
func Collect(file ast.File, emitter diag.Emitter) *Table {
	c := &collector{table: NewTable(), emitter: emitter}
	ast.Walk(c, file)

	return c.table
}

// collector is the [ast.Visitor] behind [Collect].
type collector struct {
	table   *Table
	emitter diag.Emitter
}

func (c *collector) Visit(node ast.Node) ast.Visitor {
	switch n := node.(type) {
	case ast.File:
		return c
	case ast.Declaration:
		c.table.Declare(n.Kind(), n.Ident(), c.emitter)
	}

	// Names are only declared at the top level
	return nil
}
