package providers

import (
	"context"

	"github.com/km-arc/go-ioc/framework/config"
	"github.com/km-arc/go-ioc/framework/container"
	"github.com/km-arc/go-ioc/framework/logging"
	"github.com/km-arc/go-ioc/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container as "config".
//
// Bound names:
//   - "config"        → *config.Config
//   - "configuration" → alias for "config"
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(_ context.Context, app *container.Container) error {
	envFiles := p.EnvFiles
	app.Singleton("config", func(_ context.Context, _ *container.Container, _ ...any) (any, error) {
		return config.Load(envFiles...), nil
	})
	app.Alias("config", "configuration")
	return nil
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider binds the application log sink, honouring the
// LOG_SUPPRESS flag from configuration.
//
// Bound names:
//   - "logger" → logging.Logger
type LogServiceProvider struct {
	container.BaseProvider
}

func (p *LogServiceProvider) Register(_ context.Context, app *container.Container) error {
	app.Singleton("logger", func(ctx context.Context, c *container.Container, _ ...any) (any, error) {
		cfg, err := container.Resolve[*config.Config](ctx, c, "config")
		if err != nil {
			return nil, err
		}
		if cfg.Log.Suppress {
			return logging.Nop, nil
		}
		return logging.New(cfg.App.Name), nil
	})
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Bound names:
//   - "router" → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(_ context.Context, app *container.Container) error {
	app.Singleton("router", func(_ context.Context, _ *container.Container, _ ...any) (any, error) {
		return routing.New(), nil
	})
	return nil
}
