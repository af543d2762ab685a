package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const readinessTimeout = 3 * time.Second

// HealthHandler serves GET /health. It answers as long as the process runs.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// MongoPinger is satisfied by *mongo.Client.
type MongoPinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// RedisPinger is satisfied by *redis.Client.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// probe is one dependency check. A failing required probe makes the service
// unavailable; an optional one only degrades it.
type probe struct {
	name     string
	required bool
	ping     func(ctx context.Context) error
}

// HealthDependenciesHandler serves GET /health/ready.
//
// Mongo holds every record, so it is required. Redis only backs the checkout
// lock and checkout runs without it, so a Redis failure degrades readiness
// without failing it; a nil Redis is reported as "disabled".
type HealthDependenciesHandler struct {
	probes   []probe
	disabled []string
}

func NewHealthDependenciesHandler(mongo MongoPinger, rdb RedisPinger) *HealthDependenciesHandler {
	h := &HealthDependenciesHandler{}
	h.probes = append(h.probes, probe{
		name:     "mongodb",
		required: true,
		// Primary, because checkout writes run in transactions.
		ping: func(ctx context.Context) error { return mongo.Ping(ctx, readpref.Primary()) },
	})
	if rdb == nil {
		h.disabled = append(h.disabled, "redis")
	} else {
		h.probes = append(h.probes, probe{
			name: "redis",
			ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}
	return h
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	resp := readinessResponse{
		Status:       "ok",
		Dependencies: make(map[string]dependencyStatus, len(h.probes)+len(h.disabled)),
	}
	code := http.StatusOK

	for _, name := range h.disabled {
		resp.Dependencies[name] = dependencyStatus{Status: "disabled"}
	}
	for _, p := range h.probes {
		err := p.ping(ctx)
		if err == nil {
			resp.Dependencies[p.name] = dependencyStatus{Status: "ok"}
			continue
		}
		resp.Dependencies[p.name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		if p.required {
			resp.Status = "unavailable"
			code = http.StatusServiceUnavailable
		} else if code == http.StatusOK {
			resp.Status = "degraded"
		}
	}

	return c.JSON(code, resp)
}
