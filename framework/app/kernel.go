package app

import (
	"context"
	"net/http"

	"github.com/km-arc/go-ioc/framework/config"
	"github.com/km-arc/go-ioc/framework/container"
	"github.com/km-arc/go-ioc/framework/providers"
	"github.com/km-arc/go-ioc/routing"
)

// Application is the top-level kernel. It embeds the container so user code
// can call app.Bind(), app.Singleton(), app.Get() directly, and queues
// provider definitions until Boot drives them through the lifecycle.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	pending []container.ProviderDefinition
	booted  bool
}

// New creates the application and queues the framework core providers
// (config, logging, routing). Nothing runs until Boot.
func New(envFiles ...string) *Application {
	c := container.New()
	app := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
	}

	app.Register(
		container.Define("config", func() container.ServiceProvider {
			return &providers.ConfigServiceProvider{EnvFiles: envFiles}
		}),
		container.Define("logging", func() container.ServiceProvider {
			return &providers.LogServiceProvider{}
		}),
		container.Define("routing", func() container.ServiceProvider {
			return &providers.RoutingServiceProvider{}
		}),
	)
	return app
}

// Register queues provider definitions for the next Boot.
func (a *Application) Register(defs ...container.ProviderDefinition) {
	a.pending = append(a.pending, defs...)
}

// Boot drives every queued definition through register and boot. Definitions
// registered after a Boot are picked up by the next call.
func (a *Application) Boot(ctx context.Context) error {
	defs := a.pending
	a.pending = nil
	if err := a.Providers.Add(ctx, defs...); err != nil {
		return err
	}
	a.booted = true
	return nil
}

// Booted reports whether Boot has completed successfully at least once.
func (a *Application) Booted() bool { return a.booted }

// Config resolves *config.Config from the container.
func (a *Application) Config(ctx context.Context) (*config.Config, error) {
	return container.Resolve[*config.Config](ctx, a.Container, "config")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router(ctx context.Context) (*routing.Router, error) {
	return container.Resolve[*routing.Router](ctx, a.Container, "router")
}

// Run boots the application (if needed) and serves HTTP on APP_PORT.
func (a *Application) Run(ctx context.Context) error {
	if !a.booted {
		if err := a.Boot(ctx); err != nil {
			return err
		}
	}
	cfg, err := a.Config(ctx)
	if err != nil {
		return err
	}
	router, err := a.Router(ctx)
	if err != nil {
		return err
	}
	addr := ":" + cfg.App.Port
	a.Logger().Infof("%s listening on http://localhost%s [%s]", cfg.App.Name, addr, cfg.App.Env)
	return http.ListenAndServe(addr, router)
}

// Environment returns the APP_ENV value, or "local" before boot.
func (a *Application) Environment(ctx context.Context) string {
	cfg, err := a.Config(ctx)
	if err != nil {
		return "local"
	}
	return cfg.App.Env
}
