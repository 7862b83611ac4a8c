package handler

import (
	"net/http"
	"time"

	"hoa-backend/pkg/database"
	"hoa-backend/pkg/redis"
)

type HealthHandler struct {
	db    *database.PostgresDB
	redis *redis.Client
}

func NewHealthHandler(db *database.PostgresDB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}
	status := http.StatusOK

	if h.db != nil {
		if err := h.db.Health(ctx); err != nil {
			checks["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	if h.redis != nil {
		if err := h.redis.Health(ctx); err != nil {
			checks["redis"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	respondJSON(w, status, map[string]interface{}{
		"status":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
