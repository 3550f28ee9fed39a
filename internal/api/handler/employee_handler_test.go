package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/roster/internal/api/handler"
	"github.com/daap14/roster/internal/employee"
)

// --- Mock Employee Repository ---

type mockEmployeeRepo struct {
	insertFn   func(ctx context.Context, e *employee.Employee) error
	fetchAllFn func(ctx context.Context) ([]employee.Employee, error)
	updateFn   func(ctx context.Context, externalID string, fields employee.UpdateFields) error
	deleteFn   func(ctx context.Context, externalID string) error
	clearAllFn func(ctx context.Context) error
}

func (m *mockEmployeeRepo) Insert(ctx context.Context, e *employee.Employee) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, e)
	}
	e.InternalKey = 1
	return nil
}

func (m *mockEmployeeRepo) FetchAll(ctx context.Context) ([]employee.Employee, error) {
	if m.fetchAllFn != nil {
		return m.fetchAllFn(ctx)
	}
	return []employee.Employee{}, nil
}

func (m *mockEmployeeRepo) UpdateByExternalID(ctx context.Context, externalID string, fields employee.UpdateFields) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, externalID, fields)
	}
	return nil
}

func (m *mockEmployeeRepo) DeleteByExternalID(ctx context.Context, externalID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, externalID)
	}
	return nil
}

func (m *mockEmployeeRepo) ClearAll(ctx context.Context) error {
	if m.clearAllFn != nil {
		return m.clearAllFn(ctx)
	}
	return nil
}

// --- Helpers ---

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, httptest.NewRecorder()
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := parseEnvelope(t, w)
	errObj, ok := env["error"].(map[string]interface{})
	require.True(t, ok, "expected error object in %s", w.Body.String())
	return errObj["code"].(string)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

// ===== POST /api/employees =====

func TestEmployeeCreate_Success(t *testing.T) {
	t.Parallel()

	var inserted *employee.Employee
	repo := &mockEmployeeRepo{
		insertFn: func(_ context.Context, e *employee.Employee) error {
			inserted = e
			return nil
		},
	}
	h := handler.NewEmployeeHandler(repo)

	req, w := makeChiRequest(http.MethodPost, "/api/employees",
		mustJSON(t, map[string]string{"name": "Ada", "team": "platform"}), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := parseEnvelope(t, w)
	assert.Nil(t, env["error"])
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "Ada", data["name"])
	assert.Equal(t, "platform", data["team"])
	assert.NotEmpty(t, data["id"])
	_, hasKey := data["internalKey"]
	assert.False(t, hasKey)

	require.NotNil(t, inserted)
	assert.Equal(t, data["id"], inserted.ExternalID)
}

func TestEmployeeCreate_KeepsSuppliedID(t *testing.T) {
	t.Parallel()

	h := handler.NewEmployeeHandler(&mockEmployeeRepo{})

	req, w := makeChiRequest(http.MethodPost, "/api/employees",
		mustJSON(t, map[string]string{"id": "emp-42", "name": "Ada", "team": "platform"}), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "emp-42", data["id"])
}

func TestEmployeeCreate_InvalidJSON(t *testing.T) {
	t.Parallel()

	h := handler.NewEmployeeHandler(&mockEmployeeRepo{})

	req, w := makeChiRequest(http.MethodPost, "/api/employees", []byte("{not json"), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_JSON", errorCode(t, w))
}

func TestEmployeeCreate_ValidationError(t *testing.T) {
	t.Parallel()

	h := handler.NewEmployeeHandler(&mockEmployeeRepo{})

	req, w := makeChiRequest(http.MethodPost, "/api/employees", mustJSON(t, map[string]string{}), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := parseEnvelope(t, w)
	errObj := env["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
	assert.Len(t, errObj["details"], 2) // name + team
}

func TestEmployeeCreate_RejectsUnsafeID(t *testing.T) {
	t.Parallel()

	repo := &mockEmployeeRepo{
		insertFn: func(_ context.Context, _ *employee.Employee) error {
			t.Error("insert must not be called")
			return nil
		},
	}
	h := handler.NewEmployeeHandler(repo)

	req, w := makeChiRequest(http.MethodPost, "/api/employees",
		mustJSON(t, map[string]string{"id": "a/delete", "name": "Ada", "team": "platform"}), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errObj := parseEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
	details := errObj["details"].([]interface{})
	require.Len(t, details, 1)
	assert.Equal(t, "id", details[0].(map[string]interface{})["field"])
}

func TestEmployeeCreate_Duplicate(t *testing.T) {
	t.Parallel()

	repo := &mockEmployeeRepo{
		insertFn: func(_ context.Context, _ *employee.Employee) error {
			return employee.ErrDuplicateKey
		},
	}
	h := handler.NewEmployeeHandler(repo)

	req, w := makeChiRequest(http.MethodPost, "/api/employees",
		mustJSON(t, map[string]string{"id": "emp-1", "name": "Ada", "team": "platform"}), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_ID", errorCode(t, w))
}

func TestEmployeeCreate_StoreUnavailable(t *testing.T) {
	t.Parallel()

	repo := &mockEmployeeRepo{
		insertFn: func(_ context.Context, _ *employee.Employee) error {
			return employee.ErrOpenFailed
		},
	}
	h := handler.NewEmployeeHandler(repo)

	req, w := makeChiRequest(http.MethodPost, "/api/employees",
		mustJSON(t, map[string]string{"name": "Ada", "team": "platform"}), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "STORE_UNAVAILABLE", errorCode(t, w))
}

// ===== GET /api/employees =====

func TestEmployeeList_Success(t *testing.T) {
	t.Parallel()

	repo := &mockEmployeeRepo{
		fetchAllFn: func(_ context.Context) ([]employee.Employee, error) {
			return []employee.Employee{
				{InternalKey: 1, ExternalID: "a", Name: "Ada", Team: "platform"},
				{InternalKey: 2, ExternalID: "b", Name: "Grace", Team: "compilers"},
			}, nil
		},
	}
	h := handler.NewEmployeeHandler(repo)

	req, w := makeChiRequest(http.MethodGet, "/api/employees", nil, nil)
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := parseEnvelope(t, w)
	data := env["data"].([]interface{})
	require.Len(t, data, 2)
	assert.Equal(t, "a", data[0].(map[string]interface{})["id"])
	assert.Equal(t, "Grace", data[1].(map[string]interface{})["name"])
	meta := env["meta"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["total"])
}

func TestEmployeeList_Empty(t *testing.T) {
	t.Parallel()

	h := handler.NewEmployeeHandler(&mockEmployeeRepo{})

	req, w := makeChiRequest(http.MethodGet, "/api/employees", nil, nil)
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].([]interface{})
	assert.Empty(t, data)
}

func TestEmployeeList_StorageError(t *testing.T) {
	t.Parallel()

	repo := &mockEmployeeRepo{
		fetchAllFn: func(_ context.Context) ([]employee.Employee, error) {
			return nil, errors.Join(employee.ErrStorage, errors.New("disk I/O error"))
		},
	}
	h := handler.NewEmployeeHandler(repo)

	req, w := makeChiRequest(http.MethodGet, "/api/employees", nil, nil)
	h.List(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, w))
}

// ===== PATCH /api/employees/{id} =====

func TestEmployeeUpdate_Success(t *testing.T) {
	t.Parallel()

	var gotFields employee.UpdateFields
	repo := &mockEmployeeRepo{
		updateFn: func(_ context.Context, externalID string, fields employee.UpdateFields) error {
			assert.Equal(t, "emp-1", externalID)
			gotFields = fields
			return nil
		},
		fetchAllFn: func(_ context.Context) ([]employee.Employee, error) {
			return []employee.Employee{{InternalKey: 1, ExternalID: "emp-1", Name: "Ada", Team: "X"}}, nil
		},
	}
	h := handler.NewEmployeeHandler(repo)

	req, w := makeChiRequest(http.MethodPatch, "/api/employees/emp-1",
		mustJSON(t, map[string]string{"team": "X"}), map[string]string{"id": "emp-1"})
	h.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, gotFields.Name)
	require.NotNil(t, gotFields.Team)
	assert.Equal(t, "X", *gotFields.Team)

	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Ada", data["name"])
	assert.Equal(t, "X", data["team"])
}

func TestEmployeeUpdate_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockEmployeeRepo{
		updateFn: func(_ context.Context, _ string, _ employee.UpdateFields) error {
			return employee.ErrNotFound
		},
	}
	h := handler.NewEmployeeHandler(repo)

	req, w := makeChiRequest(http.MethodPatch, "/api/employees/missing",
		mustJSON(t, map[string]string{"team": "X"}), map[string]string{"id": "missing"})
	h.Update(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestEmployeeUpdate_ImmutableID(t *testing.T) {
	t.Parallel()

	h := handler.NewEmployeeHandler(&mockEmployeeRepo{})

	req, w := makeChiRequest(http.MethodPatch, "/api/employees/emp-1",
		mustJSON(t, map[string]string{"id": "emp-2"}), map[string]string{"id": "emp-1"})
	h.Update(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "IMMUTABLE_FIELD", errorCode(t, w))
}

func TestEmployeeUpdate_EmptyBody(t *testing.T) {
	t.Parallel()

	h := handler.NewEmployeeHandler(&mockEmployeeRepo{})

	req, w := makeChiRequest(http.MethodPatch, "/api/employees/emp-1",
		mustJSON(t, map[string]string{}), map[string]string{"id": "emp-1"})
	h.Update(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

// ===== DELETE /api/employees/{id} =====

func TestEmployeeDelete_Success(t *testing.T) {
	t.Parallel()

	var deleted string
	repo := &mockEmployeeRepo{
		deleteFn: func(_ context.Context, externalID string) error {
			deleted = externalID
			return nil
		},
	}
	h := handler.NewEmployeeHandler(repo)

	req, w := makeChiRequest(http.MethodDelete, "/api/employees/emp-1", nil, map[string]string{"id": "emp-1"})
	h.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "emp-1", deleted)
}

func TestEmployeeDelete_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockEmployeeRepo{
		deleteFn: func(_ context.Context, _ string) error {
			return employee.ErrNotFound
		},
	}
	h := handler.NewEmployeeHandler(repo)

	req, w := makeChiRequest(http.MethodDelete, "/api/employees/missing", nil, map[string]string{"id": "missing"})
	h.Delete(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

// ===== DELETE /api/employees =====

func TestEmployeeDeleteAll_Success(t *testing.T) {
	t.Parallel()

	cleared := false
	repo := &mockEmployeeRepo{
		clearAllFn: func(_ context.Context) error {
			cleared = true
			return nil
		},
	}
	h := handler.NewEmployeeHandler(repo)

	req, w := makeChiRequest(http.MethodDelete, "/api/employees", nil, nil)
	h.DeleteAll(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, cleared)
}
