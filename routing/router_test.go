package routing_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/km-arc/go-ioc/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router *routing.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := routing.New()
	r.Get("/hello", okHandler)
	r.Post("/users", okHandler)
	r.Put("/users/{id}", okHandler)
	r.Patch("/users/{id}", okHandler)
	r.Delete("/users/{id}", okHandler)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/hello"},
		{http.MethodPost, "/users"},
		{http.MethodPut, "/users/1"},
		{http.MethodPatch, "/users/1"},
		{http.MethodDelete, "/users/1"},
	}

	for _, tt := range tests {
		rr := do(t, r, tt.method, tt.path)
		if rr.Code != http.StatusOK {
			t.Errorf("%s %s: got %d want 200", tt.method, tt.path, rr.Code)
		}
	}
}

func TestRouter_Any(t *testing.T) {
	r := routing.New()
	r.Any("/ping", okHandler)

	for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE"} {
		rr := do(t, r, method, "/ping")
		if rr.Code != http.StatusOK {
			t.Errorf("ANY %s /ping: got %d want 200", method, rr.Code)
		}
	}
}

// ── 404 for unregistered routes ──────────────────────────────────────────────

func TestRouter_NotFound(t *testing.T) {
	r := routing.New()
	rr := do(t, r, http.MethodGet, "/not-registered")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

// ── Route params ─────────────────────────────────────────────────────────────

func TestRouter_Param(t *testing.T) {
	r := routing.New()
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(routing.Param(req, "id")))
	})

	rr := do(t, r, http.MethodGet, "/users/42")
	if rr.Body.String() != "42" {
		t.Errorf("param: got %q want %q", rr.Body.String(), "42")
	}
}

// ── Prefix & Group ───────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := routing.New()
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/users", okHandler)
	})

	rr := do(t, r, http.MethodGet, "/api/v1/users")
	if rr.Code != http.StatusOK {
		t.Errorf("GET /api/v1/users: got %d want 200", rr.Code)
	}
}

func TestRouter_Group_MiddlewareScoped(t *testing.T) {
	r := routing.New()

	guard := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Header.Get("Authorization") == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, req)
		})
	}

	r.Group(func(protected *routing.Router) {
		protected.Middleware(guard)
		protected.Get("/profile", okHandler)
	})
	r.Get("/public", okHandler)

	// Guarded route rejects without the header.
	if rr := do(t, r, http.MethodGet, "/profile"); rr.Code != http.StatusUnauthorized {
		t.Errorf("GET /profile without auth: got %d want 401", rr.Code)
	}

	// Sibling route outside the group is unaffected.
	if rr := do(t, r, http.MethodGet, "/public"); rr.Code != http.StatusOK {
		t.Errorf("GET /public: got %d want 200", rr.Code)
	}

	// Guarded route passes with the header.
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer token")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("GET /profile with auth: got %d want 200", rr.Code)
	}
}
