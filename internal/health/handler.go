// Package health serves liveness and readiness probes.
package health

import (
	"context"
	"net/http"
	"time"

	httputil "clinic/pkg/http"
	kafka_middleware "clinic/pkg/kafka/middleware"
	"clinic/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const readyTimeout = 2 * time.Second

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

type Response struct {
	Status   string                            `json:"status"`
	Database string                            `json:"database,omitempty"`
	Events   *kafka_middleware.MetricsSnapshot `json:"events,omitempty"`
}

type Handler struct {
	db      Pinger
	metrics *kafka_middleware.Metrics
	log     *logger.Logger
}

// NewHandler builds the probe handler. metrics may be nil when event
// publishing is disabled.
func NewHandler(db Pinger, metrics *kafka_middleware.Metrics, log *logger.Logger) *Handler {
	return &Handler{
		db:      db,
		metrics: metrics,
		log:     log,
	}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	resp := Response{Status: "ok"}
	if h.metrics != nil {
		snap := h.metrics.Snapshot()
		resp.Events = &snap
	}
	h.write(w, "Health", http.StatusOK, resp)
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.db.Ping(ctx, nil); err != nil {
		h.log.Error("Database health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		h.write(w, "Ready", http.StatusServiceUnavailable, Response{Status: "unavailable", Database: "error"})
		return
	}

	h.write(w, "Ready", http.StatusOK, Response{Status: "ready", Database: "ok"})
}

func (h *Handler) write(w http.ResponseWriter, handler string, status int, resp Response) {
	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
