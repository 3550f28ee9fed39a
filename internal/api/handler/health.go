package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/daap14/roster/internal/api/middleware"
	"github.com/daap14/roster/internal/api/response"
	"github.com/daap14/roster/internal/employee"
)

// StoreChecker reports whether the employee store can be opened.
type StoreChecker interface {
	Ping(ctx context.Context) error
	State() employee.State
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	store   StoreChecker
	backend string
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store StoreChecker, backend, version string) *HealthHandler {
	return &HealthHandler{
		store:   store,
		backend: backend,
		version: version,
	}
}

type storeStatus struct {
	Backend string `json:"backend"`
	State   string `json:"state"`
}

type healthData struct {
	Status  string      `json:"status"`
	Version string      `json:"version"`
	Store   storeStatus `json:"store"`
}

// ServeHTTP handles the health check request. Opening the store is part of
// the check, so the first request may trigger the open.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	status := "healthy"
	if err := h.store.Ping(r.Context()); err != nil {
		slog.Warn("employee store unavailable", "error", err)
		status = "degraded"
	}

	data := healthData{
		Status:  status,
		Version: h.version,
		Store: storeStatus{
			Backend: h.backend,
			State:   h.store.State().String(),
		},
	}

	response.Success(w, http.StatusOK, data, requestID)
}
