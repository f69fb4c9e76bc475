package main

import (
	"context"
	"net/http"
	"os"
	"sync"

	"github.com/km-arc/go-ioc/framework/app"
	"github.com/km-arc/go-ioc/framework/container"
	"github.com/km-arc/go-ioc/framework/logging"
	"github.com/km-arc/go-ioc/httpx"
	"github.com/km-arc/go-ioc/routing"
)

func main() {
	application := app.New() // loads .env automatically

	application.Register(
		container.Define("users", func() container.ServiceProvider {
			return &UserServiceProvider{}
		}),
		container.Define("web", func() container.ServiceProvider {
			return &WebServiceProvider{}
		}),
		container.ProviderDefinition{
			Name:  "telemetry",
			Defer: func() bool { return os.Getenv("TELEMETRY_ENABLED") == "" },
			New:   func() container.ServiceProvider { return &TelemetryProvider{} },
		},
	)

	ctx := context.Background()
	if err := application.Run(ctx); err != nil {
		logging.New("go-ioc").Errorf("server error: %v", err)
		os.Exit(1)
	}
}

// ── Users ────────────────────────────────────────────────────────────────────

type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// UserStore is an in-memory repository standing in for a database.
type UserStore struct {
	mu    sync.Mutex
	next  int
	users []User
}

func (s *UserStore) All() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *UserStore) Add(name string) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	u := User{ID: s.next, Name: name}
	s.users = append(s.users, u)
	return u
}

// UserServiceProvider binds the user store as a singleton and a per-call
// report builder that reads from it.
type UserServiceProvider struct {
	container.BaseProvider
}

func (p *UserServiceProvider) Register(_ context.Context, c *container.Container) error {
	c.Singleton("users.store", func(_ context.Context, _ *container.Container, _ ...any) (any, error) {
		store := &UserStore{}
		store.Add("Alice")
		store.Add("Bob")
		return store, nil
	})

	// Per-call: every resolution counts the store afresh.
	c.Bind("users.report", func(ctx context.Context, c *container.Container, _ ...any) (any, error) {
		store, err := container.Resolve[*UserStore](ctx, c, "users.store")
		if err != nil {
			return nil, err
		}
		return map[string]any{"count": len(store.All())}, nil
	})
	return nil
}

// ── Web ──────────────────────────────────────────────────────────────────────

// WebServiceProvider wires HTTP routes in its boot phase, once the router
// and the user store are guaranteed registered.
type WebServiceProvider struct {
	container.BaseProvider
}

func (p *WebServiceProvider) Register(context.Context, *container.Container) error { return nil }

func (p *WebServiceProvider) Boot(ctx context.Context, c *container.Container) error {
	router, err := container.Resolve[*routing.Router](ctx, c, "router")
	if err != nil {
		return err
	}

	router.Get("/", func(w http.ResponseWriter, req *http.Request) {
		httpx.NewResponse(w).Success(map[string]any{"message": "Welcome!"})
	})

	router.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/users", func(w http.ResponseWriter, req *http.Request) {
			store, err := container.Resolve[*UserStore](req.Context(), c, "users.store")
			if err != nil {
				httpx.NewResponse(w).ServerError(err.Error())
				return
			}
			httpx.NewResponse(w).Success(store.All())
		})

		api.Get("/users/report", func(w http.ResponseWriter, req *http.Request) {
			report, err := container.Resolve[map[string]any](req.Context(), c, "users.report")
			if err != nil {
				httpx.NewResponse(w).ServerError(err.Error())
				return
			}
			httpx.NewResponse(w).Success(report)
		})
	})
	return nil
}

// ── Telemetry ────────────────────────────────────────────────────────────────

// TelemetryProvider only participates when TELEMETRY_ENABLED is set; the
// deferral predicate on its definition skips it otherwise.
type TelemetryProvider struct {
	container.BaseProvider
}

func (p *TelemetryProvider) Register(_ context.Context, c *container.Container) error {
	c.Instance("telemetry.enabled", true)
	return nil
}

func (p *TelemetryProvider) Boot(ctx context.Context, c *container.Container) error {
	log, err := container.Resolve[logging.Logger](ctx, c, "logger")
	if err != nil {
		return err
	}
	log.Infof("telemetry enabled")
	return nil
}
