package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
	"github.com/ErlanBelekov/calendar-api/internal/health"
	"github.com/ErlanBelekov/calendar-api/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var alice = domain.Identity{UserID: "11111111-1111-1111-1111-111111111111", Email: "alice@example.com"}

// asCaller stands in for middleware.Auth by storing id the same way.
func asCaller(id domain.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("identity", id)
		c.Next()
	}
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestProtected_WithoutIdentity_Returns401(t *testing.T) {
	called := false
	r := gin.New()
	r.GET("/x", handler.Protected(func(c *gin.Context, _ domain.Identity) {
		called = true
		c.Status(http.StatusOK)
	}))

	w := doJSON(r, http.MethodGet, "/x", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if called {
		t.Error("protected handler ran without identity")
	}
}

func TestProtected_PassesIdentity(t *testing.T) {
	var got domain.Identity
	r := gin.New()
	r.GET("/x", asCaller(alice), handler.Protected(func(c *gin.Context, id domain.Identity) {
		got = id
		c.Status(http.StatusOK)
	}))

	if w := doJSON(r, http.MethodGet, "/x", ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got != alice {
		t.Errorf("identity = %+v, want %+v", got, alice)
	}
}

type stubChecker struct{ ready bool }

func (s stubChecker) Liveness(context.Context) health.HealthResult {
	return health.HealthResult{Status: "up"}
}

func (s stubChecker) Readiness(context.Context) health.HealthResult {
	if s.ready {
		return health.HealthResult{Status: "up"}
	}
	return health.HealthResult{Status: "down"}
}

func TestHealth_Readiness(t *testing.T) {
	for _, tc := range []struct {
		ready bool
		want  int
	}{{true, http.StatusOK}, {false, http.StatusServiceUnavailable}} {
		h := handler.NewHealthHandler(stubChecker{ready: tc.ready})
		r := gin.New()
		r.GET("/readyz", h.Readiness)

		if w := doJSON(r, http.MethodGet, "/readyz", ""); w.Code != tc.want {
			t.Errorf("ready=%v: status = %d, want %d", tc.ready, w.Code, tc.want)
		}
	}
}
