package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHealth_Liveness(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	if err := NewHealthHandler().Liveness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealth_Readiness_MissingMongo(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := newEcho()
	rec := httptest.NewRecorder()
	h := NewHealthDependenciesHandler(nil, rdb)
	if err := h.Readiness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	resp := decode(t, rec)
	deps := resp["dependencies"].(map[string]any)
	if deps["redis"].(map[string]any)["status"] != "ok" {
		t.Fatalf("redis should be healthy: %v", deps)
	}
	if deps["mongodb"].(map[string]any)["status"] != "unhealthy" {
		t.Fatalf("mongodb should be unhealthy: %v", deps)
	}
}

func TestHealth_Readiness_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	e := newEcho()
	rec := httptest.NewRecorder()
	h := NewHealthDependenciesHandler(nil, rdb)
	if err := h.Readiness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	deps := decode(t, rec)["dependencies"].(map[string]any)
	if deps["redis"].(map[string]any)["status"] != "unhealthy" {
		t.Fatalf("redis should be unhealthy: %v", deps)
	}
}
