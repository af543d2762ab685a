package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type stubMongo struct{ err error }

func (s stubMongo) Ping(ctx context.Context, rp *readpref.ReadPref) error { return s.err }

type stubRedis struct{ err error }

func (s stubRedis) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", s.err)
}

func readiness(t *testing.T, h *HealthDependenciesHandler) (int, readinessResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, resp
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness_AllUp(t *testing.T) {
	code, resp := readiness(t, NewHealthDependenciesHandler(stubMongo{}, stubRedis{}))
	if code != http.StatusOK || resp.Status != "ok" {
		t.Fatalf("expected ok, got %d %+v", code, resp)
	}
}

func TestReadiness_MongoDown(t *testing.T) {
	code, resp := readiness(t, NewHealthDependenciesHandler(stubMongo{err: errors.New("no primary")}, stubRedis{}))
	if code != http.StatusServiceUnavailable || resp.Status != "unavailable" {
		t.Fatalf("expected unavailable, got %d %+v", code, resp)
	}
	if resp.Dependencies["mongodb"].Status != "unhealthy" {
		t.Fatalf("expected unhealthy mongo, got %+v", resp.Dependencies)
	}
}

// Checkout runs without the lock, so Redis alone never takes the service out.
func TestReadiness_RedisDownDegrades(t *testing.T) {
	code, resp := readiness(t, NewHealthDependenciesHandler(stubMongo{}, stubRedis{err: errors.New("refused")}))
	if code != http.StatusOK || resp.Status != "degraded" {
		t.Fatalf("expected degraded 200, got %d %+v", code, resp)
	}
	if resp.Dependencies["redis"].Error != "refused" {
		t.Fatalf("expected redis error, got %+v", resp.Dependencies)
	}
}

func TestReadiness_BothDown(t *testing.T) {
	code, resp := readiness(t, NewHealthDependenciesHandler(stubMongo{err: errors.New("x")}, stubRedis{err: errors.New("y")}))
	if code != http.StatusServiceUnavailable || resp.Status != "unavailable" {
		t.Fatalf("expected unavailable, got %d %+v", code, resp)
	}
}

func TestReadiness_RedisDisabled(t *testing.T) {
	code, resp := readiness(t, NewHealthDependenciesHandler(stubMongo{}, nil))
	if code != http.StatusOK || resp.Dependencies["redis"].Status != "disabled" {
		t.Fatalf("expected ok with redis disabled, got %d %+v", code, resp)
	}
}
