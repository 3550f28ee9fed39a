package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daap14/roster/internal/api/middleware"
	"github.com/daap14/roster/internal/api/response"
	"github.com/daap14/roster/internal/api/validation"
	"github.com/daap14/roster/internal/employee"
)

type createEmployeeRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Team string `json:"team"`
}

// updateEmployeeRequest is the request body for PATCH /api/employees/{id}.
type updateEmployeeRequest struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
	Team *string `json:"team"`
}

type employeeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Team string `json:"team"`
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{
		ID:   e.ExternalID,
		Name: e.Name,
		Team: e.Team,
	}
}

// EmployeeHandler handles the employee JSON endpoints.
type EmployeeHandler struct {
	repo employee.Repository
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(repo employee.Repository) *EmployeeHandler {
	return &EmployeeHandler{repo: repo}
}

// Create handles POST /api/employees. A missing id is generated.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateEmployeeRequest(validation.CreateEmployeeRequest{
		ID:   req.ID,
		Name: req.Name,
		Team: req.Team,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	e := &employee.Employee{
		ExternalID: req.ID,
		Name:       req.Name,
		Team:       req.Team,
	}

	if err := h.repo.Insert(r.Context(), e); err != nil {
		if errors.Is(err, employee.ErrDuplicateKey) {
			response.Err(w, http.StatusConflict, "DUPLICATE_ID", fmt.Sprintf("An employee with id %q already exists", req.ID), requestID)
			return
		}
		writeStoreError(w, err, "create", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toEmployeeResponse(e), requestID)
}

// List handles GET /api/employees.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	employees, err := h.repo.FetchAll(r.Context())
	if err != nil {
		writeStoreError(w, err, "list", requestID)
		return
	}

	items := make([]employeeResponse, 0, len(employees))
	for i := range employees {
		items = append(items, toEmployeeResponse(&employees[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Update handles PATCH /api/employees/{id}.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	if req.ID != nil && *req.ID != id {
		response.Err(w, http.StatusBadRequest, "IMMUTABLE_FIELD", "id is immutable", requestID)
		return
	}

	fieldErrors := validation.ValidateUpdateEmployeeRequest(validation.UpdateEmployeeRequest{
		Name: req.Name,
		Team: req.Team,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	err := h.repo.UpdateByExternalID(r.Context(), id, employee.UpdateFields{Name: req.Name, Team: req.Team})
	if err != nil {
		writeStoreError(w, err, "update", requestID)
		return
	}

	employees, err := h.repo.FetchAll(r.Context())
	if err != nil {
		writeStoreError(w, err, "update", requestID)
		return
	}
	for i := range employees {
		if employees[i].ExternalID == id {
			response.Success(w, http.StatusOK, toEmployeeResponse(&employees[i]), requestID)
			return
		}
	}

	// Deleted between the update and the re-fetch.
	response.Err(w, http.StatusNotFound, "NOT_FOUND", "Employee not found", requestID)
}

// Delete handles DELETE /api/employees/{id}.
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.repo.DeleteByExternalID(r.Context(), id); err != nil {
		writeStoreError(w, err, "delete", requestID)
		return
	}

	response.NoContent(w)
}

// DeleteAll handles DELETE /api/employees.
func (h *EmployeeHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := h.repo.ClearAll(r.Context()); err != nil {
		writeStoreError(w, err, "delete all", requestID)
		return
	}

	response.NoContent(w)
}

// writeStoreError maps a store error onto an API error response.
func writeStoreError(w http.ResponseWriter, err error, action, requestID string) {
	switch {
	case errors.Is(err, employee.ErrNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Employee not found", requestID)
	case errors.Is(err, employee.ErrDuplicateKey):
		response.Err(w, http.StatusConflict, "DUPLICATE_ID", "Employee id already exists", requestID)
	case errors.Is(err, employee.ErrOpenFailed):
		response.Err(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Employee store is unavailable", requestID)
	default:
		slog.Error("employee store operation failed", "action", action, "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", fmt.Sprintf("Failed to %s employees", action), requestID)
	}
}
