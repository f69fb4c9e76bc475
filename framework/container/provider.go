package container

import "context"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider is the lifecycle contract a provider instance fulfils.
//
// Register is mandatory: it binds services into the container and must not
// resolve other providers' bindings (the register phase gives no ordering
// guarantee between providers). Boot runs after every provider in the batch
// has registered, so it may resolve anything.
//
// The before/after hooks bracket their main hook within the same provider:
// BeforeRegister → Register → AfterRegister runs strictly in order for one
// provider, concurrently with every other provider's chain. Embed
// BaseProvider to get no-op implementations of everything but Register.
//
//	type CacheServiceProvider struct{ container.BaseProvider }
//
//	func (p *CacheServiceProvider) Register(ctx context.Context, app *container.Container) error {
//	    app.Singleton("cache", func(ctx context.Context, c *container.Container, _ ...any) (any, error) {
//	        cfg, err := container.Resolve[*config.Config](ctx, c, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return cache.Dial(ctx, cfg.Cache.Addr)
//	    })
//	    return nil
//	}
//
//	func (p *CacheServiceProvider) Boot(ctx context.Context, app *container.Container) error {
//	    cache, err := container.Resolve[*cache.Client](ctx, app, "cache")
//	    if err != nil {
//	        return err
//	    }
//	    return cache.Ping(ctx)
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	Register(ctx context.Context, app *Container) error

	// BeforeRegister runs immediately before Register.
	BeforeRegister(ctx context.Context, app *Container) error

	// AfterRegister runs once Register has completed.
	AfterRegister(ctx context.Context, app *Container) error

	// BeforeBoot runs immediately before Boot.
	BeforeBoot(ctx context.Context, app *Container) error

	// Boot runs after the whole batch has finished registering. A boot
	// error is logged and isolated to this provider.
	Boot(ctx context.Context, app *Container) error

	// AfterBoot runs once Boot has completed.
	AfterBoot(ctx context.Context, app *Container) error
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct providing no-op implementations of
// every hook except Register. Embed it and override what you need.
//
//	type MyProvider struct{ container.BaseProvider }
//	func (p *MyProvider) Register(ctx context.Context, app *container.Container) error { ... }
type BaseProvider struct{}

func (BaseProvider) BeforeRegister(context.Context, *Container) error { return nil }
func (BaseProvider) AfterRegister(context.Context, *Container) error  { return nil }
func (BaseProvider) BeforeBoot(context.Context, *Container) error     { return nil }
func (BaseProvider) Boot(context.Context, *Container) error           { return nil }
func (BaseProvider) AfterBoot(context.Context, *Container) error      { return nil }

// ── ProviderDefinition ────────────────────────────────────────────────────────

// ProviderDefinition is the blueprint handed to ProviderRegistry.Add. The
// registry constructs at most one instance per Add call and discards it once
// the boot phase finishes.
//
// Name identifies the provider in log output; an empty Name falls back to
// the definition's position in the batch. Defer, when non-nil, is evaluated
// synchronously before construction: returning true skips the definition for
// this Add call entirely (no instance, no register, no boot).
type ProviderDefinition struct {
	Name  string
	Defer func() bool
	New   func() ServiceProvider
}

// Define is shorthand for the common always-eager case.
//
//	registry.Add(ctx, container.Define("routing", func() container.ServiceProvider {
//	    return &RoutingServiceProvider{}
//	}))
func Define(name string, newFn func() ServiceProvider) ProviderDefinition {
	return ProviderDefinition{Name: name, New: newFn}
}
