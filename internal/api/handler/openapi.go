package handler

import (
	"log/slog"
	"net/http"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/daap14/roster/internal/api/middleware"
	"github.com/daap14/roster/internal/api/response"
)

// OpenAPIHandler serves the OpenAPI document as JSON.
type OpenAPIHandler struct {
	toJSON func() ([]byte, error)
}

// NewOpenAPIHandler creates a handler that converts yamlSpec to JSON on the
// first request and reuses the result afterwards.
func NewOpenAPIHandler(yamlSpec []byte) *OpenAPIHandler {
	return &OpenAPIHandler{
		toJSON: sync.OnceValues(func() ([]byte, error) {
			return yaml.YAMLToJSON(yamlSpec)
		}),
	}
}

// ServeHTTP writes the converted document.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	spec, err := h.toJSON()
	if err != nil {
		slog.Error("failed to convert OpenAPI spec to JSON", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to convert OpenAPI spec", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(spec); err != nil {
		slog.Error("failed to write OpenAPI spec response", "error", err)
	}
}
