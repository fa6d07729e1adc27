// Package query implements a small incremental computation database.
//
// A tracked query is a pure function from a comparable key to a value, built with [New].
// Results are memoized in a [Database] by (query name, key) so asking the same question
// twice returns the first answer without running the function again. Inputs are
// values, not mutable cells: a changed input is a new key and the stale entry is
// simply never asked for again, nothing is ever invalidated.
//
// Diagnostics reported while a query runs go to the [diag.Accumulator] of that one
// execution, available through [Context.Emitter]. They are stored next to the result and
// can be retrieved for any key with [Query.Accumulated], which also collects the diagnostics
// of every query it depended on.
//
// A Database is safe for concurrent use. Each (query, key) pair is computed at most
// once, any other goroutine asking for it while it runs waits for the result, and the
// result and its diagnostics become visible together.
package query

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.followtheprocess.codes/haml/internal/syntax/diag"
	"go.followtheprocess.codes/log"
)

// maxKeyLen is the longest a key is allowed to be in log lines and cycle reports.
const maxKeyLen = 40

// Caller is anything a query may be requested through, either a [*Database] directly
// or the [*Context] of another query, in which case the dependency is recorded.
type Caller interface {
	frame() (*Database, *Context)
}

// Option is a functional option for configuring a [Database].
type Option func(*Database)

// WithLogger sets the logger the database reports query executions to, at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(db *Database) {
		if logger != nil {
			db.logger = logger
		}
	}
}

// Database is the memo table shared by every query.
type Database struct {
	logger  *log.Logger
	entries map[slot]*entry
	mu      sync.RWMutex
}

// NewDatabase returns a new, empty [Database].
func NewDatabase(options ...Option) *Database {
	db := &Database{
		logger:  log.New(io.Discard),
		entries: make(map[slot]*entry),
	}

	for _, option := range options {
		option(db)
	}

	return db
}

// Len returns the number of (query, key) pairs the database has computed or is computing.
func (db *Database) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.entries)
}

// evict removes the entry for s, returning whether there was one.
func (db *Database) evict(s slot) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, found := db.entries[s]
	delete(db.entries, s)

	return found
}

func (db *Database) frame() (*Database, *Context) {
	return db, nil
}

// slot identifies a single memoized computation.
type slot struct {
	key   any    // The argument, must be comparable
	query string // Name of the query
}

func (s slot) String() string {
	return s.query + "(" + describe(s.key) + ")"
}

// entry is the memoized result of one execution.
//
// Everything other than ready is written once by the executing goroutine before
// ready is closed and is read only after.
type entry struct {
	ready       chan struct{}
	value       any
	panicked    any
	slot        slot
	diagnostics []diag.Diagnostic
	deps        []*entry
	ok          bool
}

// fetch returns the finished entry for s, running compute to produce it if nobody
// has yet. If parent is not nil, the entry is recorded as one of its dependencies.
func (db *Database) fetch(s slot, parent *Context, compute func(*Context) (any, bool)) *entry {
	if parent != nil {
		parent.checkCycle(s)
	}

	db.mu.RLock()
	e, found := db.entries[s]
	db.mu.RUnlock()

	if !found {
		db.mu.Lock()

		e, found = db.entries[s]
		if !found {
			e = &entry{slot: s, ready: make(chan struct{})}
			db.entries[s] = e
		}

		db.mu.Unlock()

		if !found {
			db.execute(e, parent, compute)
		}
	}

	<-e.ready

	if e.panicked != nil {
		panic(e.panicked)
	}

	if parent != nil {
		parent.depend(e)
	}

	return e
}

// execute runs compute for e and publishes the result.
func (db *Database) execute(e *entry, parent *Context, compute func(*Context) (any, bool)) {
	ctx := &Context{
		db:     db,
		parent: parent,
		slot:   e.slot,
		acc:    &diag.Accumulator{},
	}

	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			// Forget the entry so a later request can try again, and wake anyone
			// waiting on it so they see the same panic rather than hang
			db.mu.Lock()
			delete(db.entries, e.slot)
			db.mu.Unlock()

			e.panicked = r
			close(e.ready)

			panic(r)
		}
	}()

	value, ok := compute(ctx)

	e.value = value
	e.ok = ok
	e.diagnostics = ctx.acc.Diagnostics()
	e.deps = ctx.dependencies()

	close(e.ready)

	db.logger.Debug(
		"Executed query",
		slog.String("query", e.slot.query),
		slog.String("key", describe(e.slot.key)),
		slog.Bool("ok", ok),
		slog.Int("diagnostics", len(e.diagnostics)),
		slog.Int("dependencies", len(e.deps)),
		slog.Duration("took", time.Since(start)),
	)
}

// Context is handed to a query function while it runs.
type Context struct {
	db     *Database
	parent *Context
	acc    *diag.Accumulator
	slot   slot
	deps   []*entry
	mu     sync.Mutex
}

// Emitter returns the emitter for the running execution, diagnostics reported
// to it are accumulated against this query and key.
func (c *Context) Emitter() diag.Emitter {
	return c.acc
}

// Database returns the database the query is running in.
func (c *Context) Database() *Database {
	return c.db
}

func (c *Context) frame() (*Database, *Context) {
	return c.db, c
}

// depend records e as a dependency, once.
func (c *Context) depend(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, dep := range c.deps {
		if dep == e {
			return
		}
	}

	c.deps = append(c.deps, e)
}

func (c *Context) dependencies() []*entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.deps
}

// checkCycle panics if s is already being computed somewhere up the chain
// of queries that led to c.
func (c *Context) checkCycle(s slot) {
	var chain []string

	for frame := c; frame != nil; frame = frame.parent {
		chain = append(chain, frame.slot.String())
		if frame.slot == s {
			// chain is innermost first
			path := make([]string, 0, len(chain)+1)
			for i := len(chain) - 1; i >= 0; i-- {
				path = append(path, chain[i])
			}

			path = append(path, s.String())

			panic(fmt.Sprintf("query: cycle detected: %s", strings.Join(path, " -> ")))
		}
	}
}

// Query is a tracked, memoized function from K to V.
type Query[K comparable, V any] struct {
	fn   func(ctx *Context, key K) (V, bool)
	name string
}

// New returns a new tracked [Query].
//
// The name identifies the query in the database so must be unique amongst the queries
// sharing one. fn must be deterministic: its result and diagnostics may depend only on
// key and on other queries requested through ctx.
func New[K comparable, V any](name string, fn func(ctx *Context, key K) (V, bool)) *Query[K, V] {
	return &Query[K, V]{name: name, fn: fn}
}

// Name returns the name of the query.
func (q *Query[K, V]) Name() string {
	return q.name
}

// Get returns the result of the query for key, computing it if this is the
// first time it's been asked for.
//
// If caller is the [Context] of another query, that query is recorded as
// depending on this one. Get panics if doing so would create a cycle.
func (q *Query[K, V]) Get(caller Caller, key K) (V, bool) {
	e := q.entry(caller, key)

	value, _ := e.value.(V)

	return value, e.ok
}

// Accumulated returns every diagnostic reported while computing the query for key,
// computing it first if needed.
//
// The diagnostics of the execution itself come first, followed by those of each query
// it depended on in the order they were first requested, recursively. Each dependency
// contributes once no matter how many paths lead to it.
func (q *Query[K, V]) Accumulated(caller Caller, key K) []diag.Diagnostic {
	e := q.entry(caller, key)

	var diagnostics []diag.Diagnostic

	seen := make(map[*entry]bool)

	var collect func(e *entry)

	collect = func(e *entry) {
		if seen[e] {
			return
		}

		seen[e] = true

		diagnostics = append(diagnostics, e.diagnostics...)
		for _, dep := range e.deps {
			collect(dep)
		}
	}

	collect(e)

	return diagnostics
}

// Evict drops the memoized result for key from db, returning whether there was one.
//
// Queries that already depended on it keep the result they saw. The next request
// for key runs the query again.
func (q *Query[K, V]) Evict(db *Database, key K) bool {
	return db.evict(slot{query: q.name, key: key})
}

func (q *Query[K, V]) entry(caller Caller, key K) *entry {
	db, parent := caller.frame()

	return db.fetch(slot{query: q.name, key: key}, parent, func(ctx *Context) (any, bool) {
		return q.fn(ctx, key)
	})
}

// describe renders a key for log lines, truncated so file contents don't flood the output.
func describe(key any) string {
	var s string

	switch k := key.(type) {
	case fmt.Stringer:
		s = k.String()
	case string:
		s = k
	default:
		s = fmt.Sprintf("%+v", key)
	}

	s = strings.ReplaceAll(s, "\n", `\n`)
	if len(s) > maxKeyLen {
		s = s[:maxKeyLen] + "..."
	}

	return s
}
