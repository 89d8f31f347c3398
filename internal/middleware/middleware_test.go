package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/edusched/school-services/internal/config"
)

func serve(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestResponseCachePassThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "t"}
	e.Use(ResponseCache(cfg, nil))
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := serve(e, "/x")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("expected plain pass-through, got %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Cache") == "HIT" {
		t.Error("no cache hit is possible without a Redis client")
	}
}

func TestResponseCacheSkipList(t *testing.T) {
	skip := []string{"/api/v1/turmas/:id", "/api/v1/professores/:id", "/api/v1/alunos/:id"}
	for _, path := range skip {
		if !skipPath(path, skip) {
			t.Errorf("%s must be skipped", path)
		}
	}
	for _, path := range []string{"/api/v1/turmas", "/api/v1/turmas/:id/alunos", "/api/v1/reservas/:id"} {
		if skipPath(path, skip) {
			t.Errorf("%s must not be skipped", path)
		}
	}
}

func TestRateLimitPassThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillInterval: time.Second, TTL: time.Minute, Prefix: "t"}
	e.Use(RateLimit(cfg, nil))
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// Without Redis the limiter never throttles.
	for i := 0; i < 5; i++ {
		if rec := serve(e, "/x"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestMetricsMiddlewareAndEndpoint(t *testing.T) {
	e := echo.New()
	e.Use(Metrics("testsvc"))
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", MetricsHandler())

	if rec := serve(e, "/x"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec := serve(e, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics endpoint: expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("metrics exposition must not be empty")
	}
}
