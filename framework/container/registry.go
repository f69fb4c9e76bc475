package container

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/km-arc/go-ioc/framework/logging"
)

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry drives batches of ProviderDefinitions through the
// two-phase lifecycle: instantiate, register everything, then boot
// everything.
//
// The two phases fail differently on purpose. A register error is
// structural — a missing binding breaks everything downstream — so any
// failure rejects the whole Add call and no provider boots. A boot error is
// operational — one provider's initialization failing should not stop its
// siblings — so boot errors are logged against the offending provider and
// swallowed.
type ProviderRegistry struct {
	app *Container
	log logging.Logger
}

// NewProviderRegistry creates a registry bound to app, reporting through the
// app's log sink.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{app: app, log: app.Logger()}
}

// RegisterError wraps a failure from one provider's register chain. Add
// returns it so callers can identify the offender with errors.As.
type RegisterError struct {
	Provider string
	Err      error
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("container: provider %s register failed: %v", e.Provider, e.Err)
}

func (e *RegisterError) Unwrap() error { return e.Err }

// instance pairs a constructed provider with its log name.
type instance struct {
	name     string
	provider ServiceProvider
}

// Add runs defs through the full lifecycle:
//
//  1. Instantiation, in input order. A definition whose Defer predicate
//     returns true is skipped for this call with an info log.
//  2. Register phase: every instance's BeforeRegister → Register →
//     AfterRegister chain runs concurrently. The chains are joined as a
//     conjunction — the first error (or panic) rejects Add and the boot
//     phase never starts.
//  3. Boot phase: every instance's BeforeBoot → Boot → AfterBoot chain runs
//     concurrently. Errors and panics are caught per provider, logged, and
//     do not affect the other chains or Add's return value.
//
// Instances are not retained after Add returns.
func (r *ProviderRegistry) Add(ctx context.Context, defs ...ProviderDefinition) error {
	instances := r.instantiate(defs)

	if err := r.registerAll(ctx, instances); err != nil {
		return err
	}

	r.bootAll(ctx, instances)
	return nil
}

func (r *ProviderRegistry) instantiate(defs []ProviderDefinition) []instance {
	instances := make([]instance, 0, len(defs))
	for i, def := range defs {
		name := def.Name
		if name == "" {
			name = fmt.Sprintf("provider[%d]", i)
		}
		if def.Defer != nil && def.Defer() {
			r.log.Infof("container: provider %s deferred, skipping", name)
			continue
		}
		instances = append(instances, instance{name: name, provider: def.New()})
	}
	return instances
}

func (r *ProviderRegistry) registerAll(ctx context.Context, instances []instance) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, in := range instances {
		in := in
		g.Go(func() error {
			p := in.provider
			err := runChain(gctx, r.app, p.BeforeRegister, p.Register, p.AfterRegister)
			if err != nil {
				return &RegisterError{Provider: in.name, Err: err}
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *ProviderRegistry) bootAll(ctx context.Context, instances []instance) {
	var wg sync.WaitGroup
	for _, in := range instances {
		in := in
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := in.provider
			if err := runChain(ctx, r.app, p.BeforeBoot, p.Boot, p.AfterBoot); err != nil {
				r.log.Errorf("container: provider %s boot failed: %v", in.name, err)
			}
		}()
	}
	wg.Wait()
}

// runChain executes one provider's hooks in order, stopping at the first
// error. A panic anywhere in the chain is recovered and reported as an
// error, so it follows the same propagation rules as a returned one.
func runChain(ctx context.Context, app *Container, hooks ...func(context.Context, *Container) error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	for _, hook := range hooks {
		if err := hook(ctx, app); err != nil {
			return err
		}
	}
	return nil
}
