package http

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatsProvider отдает состояние фоновой записи кликов
type StatsProvider interface {
	Stats() map[string]interface{}
}

// HealthHandler обработчик health checks
type HealthHandler struct {
	storage   Pinger
	recorder  StatsProvider
	log       *zap.Logger
	startedAt time.Time
}

// NewHealthHandler создает новый health handler
func NewHealthHandler(storage Pinger, recorder StatsProvider, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		storage:   storage,
		recorder:  recorder,
		log:       log,
		startedAt: time.Now(),
	}
}

// HealthResponse структура ответа health check
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	DatabaseStatus string    `json:"database_status"`
	Uptime         string    `json:"uptime"`
}

// Health проверяет хранилище
//
//	@Summary	Health check
//	@Tags		System
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Failure	503	{object}	HealthResponse
//	@Router		/health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:         "healthy",
		Timestamp:      time.Now(),
		DatabaseStatus: "healthy",
		Uptime:         time.Since(h.startedAt).Round(time.Second).String(),
	}
	statusCode := http.StatusOK

	if err := h.storage.Ping(ctx); err != nil {
		h.log.Error("database health check failed", zap.Error(err))
		response.Status = "unhealthy"
		response.DatabaseStatus = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, h.log, statusCode, response)
}

// Ready readiness probe
//
//	@Summary	Readiness probe
//	@Tags		System
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now(),
	}
	if h.recorder != nil {
		response["click_recorder"] = h.recorder.Stats()
	}

	writeJSON(w, h.log, http.StatusOK, response)
}
