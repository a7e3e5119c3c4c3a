package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const probeTimeout = 3 * time.Second

// HealthHandler serves the liveness and readiness probes. Liveness only
// confirms the process responds; readiness pings MongoDB and Redis.
type HealthHandler struct {
	mongo *mongo.Database
	redis *redis.Client
}

func NewHealthHandler(db *mongo.Database, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{mongo: db, redis: rdb}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type probeResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                 `json:"status"`
	Dependencies map[string]probeResult `json:"dependencies"`
}

func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
	defer cancel()

	resp := readinessResponse{
		Status:       "ok",
		Dependencies: map[string]probeResult{},
	}

	record := func(name string, err error) {
		if err != nil {
			resp.Dependencies[name] = probeResult{Status: "unhealthy", Error: err.Error()}
			resp.Status = "degraded"
			return
		}
		resp.Dependencies[name] = probeResult{Status: "ok"}
	}

	record("mongodb", h.mongo.Client().Ping(ctx, nil))
	record("redis", h.redis.Ping(ctx).Err())

	code := http.StatusOK
	if resp.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, resp)
}
