package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ErlanBelekov/calendar-api/internal/requestid"
	"github.com/ErlanBelekov/calendar-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func requestIDEngine() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, requestid.FromContext(c.Request.Context()))
	})
	return r
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	w := httptest.NewRecorder()
	requestIDEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	id := w.Header().Get("X-Request-ID")
	if !requestid.Valid(id) {
		t.Fatalf("X-Request-ID = %q, want generated id", id)
	}
	if w.Body.String() != id {
		t.Errorf("context id = %q, header id = %q", w.Body.String(), id)
	}
}

func TestRequestID_PreservesIncoming(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "edge-7f3a")
	requestIDEngine().ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "edge-7f3a" {
		t.Errorf("X-Request-ID = %q, want edge-7f3a", got)
	}
}

func TestRequestID_ReplacesMalformedIncoming(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "bad id\twith spaces")
	requestIDEngine().ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got == "bad id\twith spaces" || got == "" {
		t.Errorf("X-Request-ID = %q, want replacement", got)
	}
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"http://localhost:5173"}))
	r.GET("/events", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/events", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("foreign origin status = %d, want 403", w.Code)
	}
}
