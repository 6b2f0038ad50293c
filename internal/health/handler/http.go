// Package handler exposes liveness and readiness probes.
package handler

import (
	"context"
	"net/http"

	"truedial/internal/server/httpx"
)

// Pinger checks whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves health endpoints.
type Handler struct {
	db Pinger
}

// NewHandler returns a health handler checking the given store.
func NewHandler(db Pinger) *Handler {
	return &Handler{db: db}
}

type healthResponse struct {
	Status string `json:"status"`
}

// Live handles GET /healthz. It always reports ok while the process is up.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// Ready handles GET /readyz. It reports degraded when the database is unreachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded"})
			return
		}
	}
	httpx.JSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
