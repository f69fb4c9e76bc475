package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-ioc/framework/app"
	"github.com/km-arc/go-ioc/framework/container"
	"github.com/km-arc/go-ioc/routing"
)

// webProvider registers a route against the framework router during boot.
type webProvider struct {
	container.BaseProvider
}

func (p *webProvider) Register(context.Context, *container.Container) error { return nil }

func (p *webProvider) Boot(ctx context.Context, c *container.Container) error {
	router, err := container.Resolve[*routing.Router](ctx, c, "router")
	if err != nil {
		return err
	}
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return nil
}

// TestApplication_BootAndServe verifies the kernel drives core and user
// providers through the lifecycle and ends with a serving router.
func TestApplication_BootAndServe(t *testing.T) {
	ctx := context.Background()

	a := app.New("testdata/empty.env")
	a.Register(container.Define("web", func() container.ServiceProvider {
		return &webProvider{}
	}))

	require.False(t, a.Booted())
	require.NoError(t, a.Boot(ctx))
	require.True(t, a.Booted())

	router, err := a.Router(ctx)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

// TestApplication_ConfigResolvable verifies the config core provider binds a
// resolvable configuration.
func TestApplication_ConfigResolvable(t *testing.T) {
	ctx := context.Background()

	a := app.New("testdata/empty.env")
	require.NoError(t, a.Boot(ctx))

	cfg, err := a.Config(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.App.Name)
	assert.Equal(t, cfg.App.Env, a.Environment(ctx))
}

// failingProvider rejects the register phase.
type failingProvider struct {
	container.BaseProvider
}

var errRegister = errors.New("register refused")

func (p *failingProvider) Register(context.Context, *container.Container) error {
	return errRegister
}

// TestApplication_BootPropagatesRegisterFailure verifies a register error
// from any queued provider rejects Boot.
func TestApplication_BootPropagatesRegisterFailure(t *testing.T) {
	ctx := context.Background()

	a := app.New("testdata/empty.env")
	a.Register(container.Define("failing", func() container.ServiceProvider {
		return &failingProvider{}
	}))

	err := a.Boot(ctx)
	require.ErrorIs(t, err, errRegister)
	assert.False(t, a.Booted())
}

// TestApplication_SecondBootPicksUpLateProviders verifies definitions queued
// after a Boot run on the next one.
func TestApplication_SecondBootPicksUpLateProviders(t *testing.T) {
	ctx := context.Background()

	a := app.New("testdata/empty.env")
	require.NoError(t, a.Boot(ctx))

	a.Register(container.Define("late", func() container.ServiceProvider {
		return &bindOneProvider{}
	}))
	require.NoError(t, a.Boot(ctx))

	got, err := container.Resolve[string](ctx, a.Container, "late.value")
	require.NoError(t, err)
	assert.Equal(t, "present", got)
}

type bindOneProvider struct {
	container.BaseProvider
}

func (p *bindOneProvider) Register(_ context.Context, c *container.Container) error {
	c.Instance("late.value", "present")
	return nil
}
