// Package container provides an asynchronous IoC (Inversion of Control)
// container and a two-phase service-provider lifecycle for Go.
//
// # Overview
//
// The container maps names to dependencies whose construction may be slow or
// asynchronous: Get returns a Future immediately, and the value (or error)
// arrives when the factory settles. Providers declare their bindings in a
// register phase and perform post-registration initialization in a boot
// phase; both phases fan out across providers concurrently.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Add providers: registry.Add(ctx, defs...) — registers then boots
//  3. Resolve: container.Resolve[T](ctx, c, "name")
//
// # Bindings
//
//	// Per-call — a fresh value every Get
//	c.Bind("report", func(ctx context.Context, c *container.Container, args ...any) (any, error) {
//	    return buildReport(ctx, args)
//	})
//
//	// Singleton — the factory runs at most once; every Get shares the result
//	c.Singleton("db", func(ctx context.Context, c *container.Container, _ ...any) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](ctx, c, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return sql.Open(cfg.DB.Driver, cfg.DB.DSN())
//	})
//
//	// Pre-built value
//	c.Instance("config", cfg)
//
//	// Alias
//	c.Alias("db", "database")
//
// # Resolving
//
//	// Raw Future
//	fut := c.Get(ctx, "db")
//	v, err := fut.Await(ctx)
//
//	// Generic (preferred — no type assertion required)
//	db, err := container.Resolve[*sql.DB](ctx, c, "db")
//
// Concurrent first resolutions of a singleton share a single factory
// invocation: the pending Future is memoized before the factory starts, so a
// racing Get observes the in-flight result rather than triggering a second
// construction.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(ctx context.Context, app *container.Container) error {
//	    app.Singleton("mailer", func(ctx context.Context, c *container.Container, _ ...any) (any, error) {
//	        cfg, err := container.Resolve[*config.Config](ctx, c, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return mail.NewSMTP(cfg.Mail), nil
//	    })
//	    return nil
//	}
//
//	registry := container.NewProviderRegistry(c)
//	err := registry.Add(ctx,
//	    container.Define("config", func() container.ServiceProvider { return &ConfigServiceProvider{} }),
//	    container.Define("app", func() container.ServiceProvider { return &AppServiceProvider{} }),
//	)
//
// A register error from any provider rejects Add and nothing boots. A boot
// error is logged against the provider that raised it and the remaining
// providers boot normally.
//
// # Deferred Providers
//
//	registry.Add(ctx, container.ProviderDefinition{
//	    Name:  "telemetry",
//	    Defer: func() bool { return os.Getenv("TELEMETRY_ENABLED") == "" },
//	    New:   func() container.ServiceProvider { return &TelemetryProvider{} },
//	})
//
// When Defer returns true the definition is skipped for that Add call —
// never instantiated, registered, or booted — and an informational log entry
// names it.
package container
