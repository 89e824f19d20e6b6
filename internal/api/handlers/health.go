package handlers

import (
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler reports on the dependencies the API needs to serve traffic:
// postgres always, redis and the job queue when configured.
type HealthHandler struct {
	db        *gorm.DB
	redis     *redis.Client
	inspector *asynq.Inspector
}

func NewHealthHandler(db *gorm.DB, redis *redis.Client, inspector *asynq.Inspector) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, inspector: inspector}
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := "ok"

	if h.pingDB() != nil {
		checks["postgres"] = "down"
		status = "degraded"
	} else {
		checks["postgres"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(r.Context()).Err(); err != nil {
			checks["redis"] = "down"
			status = "degraded"
		} else {
			checks["redis"] = "ok"
		}
	}

	// The inspector reaches the same redis the worker consumes from, so a
	// failing check means welcome emails are piling up or being dropped.
	if h.inspector != nil {
		if _, err := h.inspector.Queues(); err != nil {
			checks["queue"] = "down"
			status = "degraded"
		} else {
			checks["queue"] = "ok"
		}
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{Status: status, Checks: checks})
}

// Ready gates load-balancer traffic on the database alone; a redis outage
// degrades email delivery but the API can still serve.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.pingDB() != nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *HealthHandler) pingDB() error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
