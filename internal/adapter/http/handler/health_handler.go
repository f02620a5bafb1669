package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// readinessTimeout bounds the dependency pings so a stalled backend turns
// into a 503 instead of a hung probe.
const readinessTimeout = 5 * time.Second

// PostgresPinger is the slice of the pgx pool the readiness probe needs.
type PostgresPinger interface {
	Ping(ctx context.Context) error
}

// RedisPinger is the slice of the redis client the readiness probe needs.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	db    PostgresPinger
	cache RedisPinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db PostgresPinger, cache RedisPinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Liveness reports that the process is up. It deliberately checks nothing
// else: a wedged dependency must not get the service restarted.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness reports whether the service can take traffic: both postgres
// and redis must answer a ping within the probe timeout.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "postgres unhealthy", err.Error())
		return
	}

	if err := h.cache.Ping(ctx).Err(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "redis unhealthy", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"postgres": "ok",
		"redis":    "ok",
	})
}
