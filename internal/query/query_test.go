package query_test

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"go.followtheprocess.codes/haml/internal/query"
	"go.followtheprocess.codes/haml/internal/syntax/diag"
	"go.followtheprocess.codes/log"
	"go.followtheprocess.codes/test"
	"go.uber.org/goleak"
)

func TestMemoization(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls atomic.Int64

	double := query.New("double", func(ctx *query.Context, n int) (int, bool) {
		calls.Add(1)
		ctx.Emitter().Message(fmt.Sprintf("doubled %d", n))

		return n * 2, true
	})

	db := query.NewDatabase()

	got, ok := double.Get(db, 21)
	test.True(t, ok)
	test.Equal(t, got, 42)

	got, ok = double.Get(db, 21)
	test.True(t, ok)
	test.Equal(t, got, 42)

	test.Equal(t, calls.Load(), 1, test.Context("query re-executed for the same key"))

	// Diagnostics are not duplicated by asking twice
	test.Equal(t, len(double.Accumulated(db, 21)), 1)
	test.Equal(t, len(double.Accumulated(db, 21)), 1)

	// A new key is a new computation
	got, _ = double.Get(db, 5)
	test.Equal(t, got, 10)
	test.Equal(t, calls.Load(), 2)
	test.Equal(t, db.Len(), 2)
}

func TestFailureIsMemoized(t *testing.T) {
	var calls atomic.Int64

	fail := query.New("fail", func(ctx *query.Context, key string) (string, bool) {
		calls.Add(1)
		ctx.Emitter().Message("no " + key)

		return "", false
	})

	db := query.NewDatabase()

	_, ok := fail.Get(db, "thanks")
	test.True(t, !ok)

	_, ok = fail.Get(db, "thanks")
	test.True(t, !ok)

	test.Equal(t, calls.Load(), 1)

	diagnostics := fail.Accumulated(db, "thanks")
	test.Equal(t, len(diagnostics), 1)
	test.Equal(t, diagnostics[0].Message, "no thanks")
}

func TestAccumulatorIsolation(t *testing.T) {
	inner := query.New("inner", func(ctx *query.Context, key string) (string, bool) {
		ctx.Emitter().Message("inner " + key)
		return key, true
	})

	outer := query.New("outer", func(ctx *query.Context, key string) (string, bool) {
		ctx.Emitter().Message("outer " + key)

		value, ok := inner.Get(ctx, key)

		return strings.ToUpper(value), ok
	})

	db := query.NewDatabase()

	got, ok := outer.Get(db, "a")
	test.True(t, ok)
	test.Equal(t, got, "A")

	// Each execution only sees its own diagnostics directly, but accumulating
	// the outer one pulls in everything it depended on
	test.EqualFunc(t, messages(inner.Accumulated(db, "a")), []string{"inner a"}, slices.Equal)
	test.EqualFunc(t, messages(outer.Accumulated(db, "a")), []string{"outer a", "inner a"}, slices.Equal)

	// Another key only ever sees its own
	test.EqualFunc(t, messages(inner.Accumulated(db, "b")), []string{"inner b"}, slices.Equal)
	test.EqualFunc(t, messages(outer.Accumulated(db, "a")), []string{"outer a", "inner a"}, slices.Equal)

	quiet := query.New("quiet", func(ctx *query.Context, key string) (string, bool) {
		return key, true
	})

	test.Equal(t, len(quiet.Accumulated(db, "a")), 0)
}

func TestEvict(t *testing.T) {
	var calls atomic.Int64

	inner := query.New("inner", func(ctx *query.Context, key int) (int, bool) {
		calls.Add(1)
		ctx.Emitter().Message("inner")

		return key * 2, true
	})

	outer := query.New("outer", func(ctx *query.Context, key int) (int, bool) {
		return inner.Get(ctx, key)
	})

	db := query.NewDatabase()

	got, ok := outer.Get(db, 2)
	test.True(t, ok)
	test.Equal(t, got, 4)
	test.Equal(t, db.Len(), 2)

	test.True(t, inner.Evict(db, 2))
	test.True(t, !inner.Evict(db, 2), test.Context("second evict should find nothing"))
	test.True(t, !inner.Evict(db, 3), test.Context("never computed"))
	test.Equal(t, db.Len(), 1)

	// The dependent still has what it saw
	test.EqualFunc(t, messages(outer.Accumulated(db, 2)), []string{"inner"}, slices.Equal)
	test.Equal(t, calls.Load(), int64(1))

	// Asking directly computes it again
	got, ok = inner.Get(db, 2)
	test.True(t, ok)
	test.Equal(t, got, 4)
	test.Equal(t, calls.Load(), int64(2))
	test.Equal(t, db.Len(), 2)
}

func TestDiamondDependency(t *testing.T) {
	var leafCalls atomic.Int64

	leaf := query.New("leaf", func(ctx *query.Context, key int) (int, bool) {
		leafCalls.Add(1)
		ctx.Emitter().Message("leaf")

		return key, true
	})

	left := query.New("left", func(ctx *query.Context, key int) (int, bool) {
		ctx.Emitter().Message("left")
		return leaf.Get(ctx, key)
	})

	right := query.New("right", func(ctx *query.Context, key int) (int, bool) {
		ctx.Emitter().Message("right")

		// Asking twice records the dependency once
		leaf.Get(ctx, key)

		return leaf.Get(ctx, key)
	})

	top := query.New("top", func(ctx *query.Context, key int) (int, bool) {
		ctx.Emitter().Message("top")

		l, _ := left.Get(ctx, key)
		r, _ := right.Get(ctx, key)

		return l + r, true
	})

	db := query.NewDatabase()

	got, ok := top.Get(db, 3)
	test.True(t, ok)
	test.Equal(t, got, 6)
	test.Equal(t, leafCalls.Load(), 1)

	test.EqualFunc(t, messages(top.Accumulated(db, 3)), []string{"top", "left", "leaf", "right"}, slices.Equal)
}

func TestConcurrentComputeOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls atomic.Int64

	release := make(chan struct{})

	slow := query.New("slow", func(ctx *query.Context, key string) (string, bool) {
		calls.Add(1)
		<-release

		ctx.Emitter().Message("computed " + key)

		return key + key, true
	})

	db := query.NewDatabase()

	const callers = 50

	var (
		wg      sync.WaitGroup
		started sync.WaitGroup
	)

	results := make([]string, callers)
	counts := make([]int, callers)

	started.Add(callers)

	for i := range callers {
		wg.Go(func() {
			started.Done()

			results[i], _ = slow.Get(db, "x")
			counts[i] = len(slow.Accumulated(db, "x"))
		})
	}

	started.Wait()
	close(release)
	wg.Wait()

	test.Equal(t, calls.Load(), 1, test.Context("query computed more than once under concurrent callers"))

	for i := range callers {
		test.Equal(t, results[i], "xx")
		test.Equal(t, counts[i], 1)
	}
}

func TestCycle(t *testing.T) {
	var (
		ping *query.Query[int, int]
		pong *query.Query[int, int]
	)

	ping = query.New("ping", func(ctx *query.Context, key int) (int, bool) {
		return pong.Get(ctx, key)
	})

	pong = query.New("pong", func(ctx *query.Context, key int) (int, bool) {
		return ping.Get(ctx, key)
	})

	db := query.NewDatabase()

	got := catch(func() { ping.Get(db, 1) })
	test.Equal(t, got, "query: cycle detected: ping(1) -> pong(1) -> ping(1)")

	// The failed entries are forgotten, the same thing panics again rather than hanging
	got = catch(func() { ping.Get(db, 1) })
	test.Equal(t, got, "query: cycle detected: ping(1) -> pong(1) -> ping(1)")
	test.Equal(t, db.Len(), 0)
}

func TestSelfCycle(t *testing.T) {
	var self *query.Query[string, int]

	self = query.New("self", func(ctx *query.Context, key string) (int, bool) {
		return self.Get(ctx, key)
	})

	got := catch(func() { self.Get(query.NewDatabase(), "me") })
	test.Equal(t, got, "query: cycle detected: self(me) -> self(me)")
}

func TestLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := log.New(buf, log.WithLevel(log.LevelDebug))

	name := query.New("name", func(ctx *query.Context, key string) (string, bool) {
		return key, true
	})

	db := query.NewDatabase(query.WithLogger(logger))

	name.Get(db, strings.Repeat("a", 100))
	name.Get(db, strings.Repeat("a", 100))

	logs := buf.String()
	test.Equal(t, strings.Count(logs, "Executed query"), 1)
	test.True(t, strings.Contains(logs, strings.Repeat("a", 40)+"..."))
	test.True(t, !strings.Contains(logs, strings.Repeat("a", 41)))
}

func BenchmarkGet(b *testing.B) {
	identity := query.New("identity", func(ctx *query.Context, key int) (int, bool) {
		return key, true
	})

	db := query.NewDatabase()
	identity.Get(db, 1)

	for b.Loop() {
		identity.Get(db, 1)
	}
}

// catch runs fn, returning the value it panicked with.
func catch(fn func()) (recovered any) {
	defer func() {
		recovered = recover()
	}()

	fn()

	return nil
}

func messages(diagnostics []diag.Diagnostic) []string {
	out := make([]string, 0, len(diagnostics))
	for _, d := range diagnostics {
		out = append(out, d.Message)
	}

	return out
}
