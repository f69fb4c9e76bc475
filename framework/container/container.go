package container

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/km-arc/go-ioc/framework/logging"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a value asynchronously. It runs on its own goroutine; the
// container hands its result to the caller through a Future. The ctx is the
// one passed to the Get call that triggered construction.
type Factory func(ctx context.Context, c *Container, args ...any) (any, error)

// ErrNotFound is returned (wrapped with the name) when Get is called for a
// name with no binding and no memoized result.
var ErrNotFound = errors.New("service not found")

// TypeError is returned by the generic resolution helpers when a name
// resolves to a value of an unexpected type.
type TypeError struct {
	Want string
	Got  any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("container: resolved to %T, want %s", e.Got, e.Want)
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is an asynchronous IoC container. Names resolve to Futures, and
// registration is split across three parallel maps:
//
//   - bindings:   per-call factories — a fresh value every Get
//   - singletons: at-most-once factories
//   - results:    memoized pending-or-settled Futures
//
// Keeping the three maps separate (rather than one map with a mode flag) is
// what makes the singleton first-resolution race trivial to close: claiming
// the name is a single insertion into results under the container lock,
// performed before the factory goroutine starts. A second Get arriving while
// the first factory is still running finds the slot occupied and shares the
// in-flight Future.
type Container struct {
	mu  sync.Mutex
	log logging.Logger

	// name → per-call factory
	bindings map[string]Factory

	// name → at-most-once factory
	singletons map[string]Factory

	// name → memoized Future (pending or settled)
	results map[string]*Future

	// alias → canonical name
	aliases map[string]string

	// tag → []name
	tags map[string][]string
}

// Option configures a Container at construction.
type Option func(*Container)

// WithLogger replaces the default console sink.
func WithLogger(log logging.Logger) Option {
	return func(c *Container) { c.log = log }
}

// WithSuppressedLogs discards all container log output.
func WithSuppressedLogs() Option {
	return func(c *Container) { c.log = logging.Nop }
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		log:        logging.New("container"),
		bindings:   make(map[string]Factory),
		singletons: make(map[string]Factory),
		results:    make(map[string]*Future),
		aliases:    make(map[string]string),
		tags:       make(map[string][]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	// The container is resolvable from itself.
	c.Instance("container", c)
	return c
}

// Logger returns the container's log sink, for collaborators that report
// through the same channel.
func (c *Container) Logger() logging.Logger { return c.log }

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a per-call factory: every Get for name invokes factory again
// and returns an independent value. Results are never memoized. Overwrites
// any prior per-call binding for name.
func (c *Container) Bind(name string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[c.canonical(name)] = factory
}

// Singleton registers an at-most-once factory. Nothing is invoked until the
// first Get for name; see Get for the memoization contract.
func (c *Container) Singleton(name string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.singletons[c.canonical(name)] = factory
}

// Instance stores value as the already-settled memoized result for name —
// equivalent to a singleton whose factory trivially returns value, minus the
// factory invocation.
func (c *Container) Instance(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[c.canonical(name)] = resolved(value)
}

// Alias registers an alternative name for an existing slot. Registration and
// resolution through the alias both reach the canonical slot.
func (c *Container) Alias(name, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", name))
	}
	c.aliases[alias] = c.canonical(name)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves name to a Future. Resolution order, first match wins:
//
//  1. Per-call binding: the factory runs with args on a fresh goroutine and
//     the resulting Future is NOT memoized — factory side effects happen once
//     per Get.
//  2. Memoized result: the stored Future is returned as-is, pending or not.
//     Nothing is re-invoked.
//  3. Singleton factory: a pending Future is inserted into the memoized map
//     before the factory goroutine starts, so every concurrent caller from
//     here on shares it. The factory runs exactly once for the container's
//     lifetime.
//  4. No match: the error is logged and an already-rejected Future wrapping
//     ErrNotFound is returned.
func (c *Container) Get(ctx context.Context, name string, args ...any) *Future {
	c.mu.Lock()
	key := c.canonical(name)

	if factory, ok := c.bindings[key]; ok {
		c.mu.Unlock()
		return c.launch(ctx, factory, args)
	}

	if fut, ok := c.results[key]; ok {
		c.mu.Unlock()
		return fut
	}

	if factory, ok := c.singletons[key]; ok {
		fut := newFuture()
		// Claim the slot before releasing the lock: a racing Get must find
		// the in-flight Future, never the factory.
		c.results[key] = fut
		c.mu.Unlock()
		go c.run(ctx, fut, factory, args)
		return fut
	}

	c.mu.Unlock()
	err := fmt.Errorf("container: %w: [%s]", ErrNotFound, name)
	c.log.Errorf("%v", err)
	return rejected(err)
}

// launch runs a per-call factory on its own goroutine and returns its
// (unmemoized) Future.
func (c *Container) launch(ctx context.Context, factory Factory, args []any) *Future {
	fut := newFuture()
	go c.run(ctx, fut, factory, args)
	return fut
}

// run drives one factory invocation to settlement, converting panics into
// rejections so a crashing factory cannot leave waiters hanging.
func (c *Container) run(ctx context.Context, fut *Future, factory Factory, args []any) {
	defer func() {
		if rec := recover(); rec != nil {
			fut.complete(nil, fmt.Errorf("container: factory panic: %v", rec))
		}
	}()
	v, err := factory(ctx, c, args...)
	fut.complete(v, err)
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates names under a named group.
func (c *Container) Tag(names []string, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[tag] = append(c.tags[tag], names...)
}

// Tagged resolves every name registered under tag, in registration order.
func (c *Container) Tagged(ctx context.Context, tag string) []*Future {
	c.mu.Lock()
	names := make([]string, len(c.tags[tag]))
	copy(names, c.tags[tag])
	c.mu.Unlock()

	futs := make([]*Future, 0, len(names))
	for _, name := range names {
		futs = append(futs, c.Get(ctx, name))
	}
	return futs
}

// ── Introspection ─────────────────────────────────────────────────────────────

// Bound reports whether name has been registered through any mechanism.
func (c *Container) Bound(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(name)
	if _, ok := c.bindings[key]; ok {
		return true
	}
	if _, ok := c.results[key]; ok {
		return true
	}
	_, ok := c.singletons[key]
	return ok
}

// Resolved reports whether name has a memoized result — i.e. its singleton
// factory has been triggered (possibly still pending) or an Instance was
// supplied.
func (c *Container) Resolved(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.results[c.canonical(name)]
	return ok
}

// Names returns every registered name, for debugging.
func (c *Container) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, m := range []map[string]Factory{c.bindings, c.singletons} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	for k := range c.results {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// Flush resets the container to empty (minus the self-binding).
func (c *Container) Flush() {
	c.mu.Lock()
	c.bindings = make(map[string]Factory)
	c.singletons = make(map[string]Factory)
	c.results = make(map[string]*Future)
	c.aliases = make(map[string]string)
	c.tags = make(map[string][]string)
	c.mu.Unlock()
	c.Instance("container", c)
}

// canonical resolves an alias to its canonical key. Caller holds mu.
func (c *Container) canonical(name string) string {
	if target, ok := c.aliases[name]; ok {
		return target
	}
	return name
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve gets and awaits name, type-asserting the result.
//
//	cfg, err := container.Resolve[*config.Config](ctx, c, "config")
func Resolve[T any](ctx context.Context, c *Container, name string, args ...any) (T, error) {
	return Await[T](ctx, c.Get(ctx, name, args...))
}

// MustResolve is Resolve for wiring paths where a failure is a programming
// error; it panics instead of returning one.
func MustResolve[T any](ctx context.Context, c *Container, name string, args ...any) T {
	v, err := Resolve[T](ctx, c, name, args...)
	if err != nil {
		panic(fmt.Sprintf("container: MustResolve[%s]: %v", typeName[T](), err))
	}
	return v
}

func typeName[T any]() string {
	return fmt.Sprintf("%T", *new(T))
}
