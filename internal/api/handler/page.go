package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daap14/roster/internal/employee"
	"github.com/daap14/roster/internal/ui"
)

// PageHandler serves the HTML form-and-table page. Form posts redirect back
// to the page on success and re-render it with a notice on failure.
type PageHandler struct {
	controller *ui.Controller
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(controller *ui.Controller) *PageHandler {
	return &PageHandler{controller: controller}
}

// Show handles GET /. With ?edit=<id> the form opens in edit mode.
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	s, err := h.controller.Load(r.Context(), ui.State{})
	if err != nil {
		h.render(w, statusFor(err), s)
		return
	}

	if editID := r.URL.Query().Get("edit"); editID != "" {
		found := false
		for _, e := range s.Employees {
			if e.ExternalID == editID {
				s = ui.Reduce(s, ui.BeginEdit(e))
				found = true
				break
			}
		}
		if !found {
			h.render(w, http.StatusNotFound, ui.Reduce(s, ui.Failed(ui.NoticeNotFound)))
			return
		}
	}

	h.render(w, http.StatusOK, s)
}

// Submit handles POST /employees.
func (h *PageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.formState(w, r)
	if !ok {
		return
	}

	h.finish(w, r)(h.controller.Submit(r.Context(), s))
}

// Update handles POST /employees/{id}.
func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	s, ok := h.formState(w, r)
	if !ok {
		return
	}
	s.ExternalID = chi.URLParam(r, "id")
	s.Editing = true

	h.finish(w, r)(h.controller.Update(r.Context(), s))
}

// Delete handles POST /employees/{id}/delete.
func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s, ok := h.listState(w, r)
	if !ok {
		return
	}

	h.finish(w, r)(h.controller.Delete(r.Context(), s, chi.URLParam(r, "id")))
}

// DeleteAll handles POST /clear-all.
func (h *PageHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	s, ok := h.listState(w, r)
	if !ok {
		return
	}

	h.finish(w, r)(h.controller.DeleteAll(r.Context(), s))
}

// formState builds the state for a form post: the current list plus the
// posted field values.
func (h *PageHandler) formState(w http.ResponseWriter, r *http.Request) (ui.State, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return ui.State{}, false
	}

	s, ok := h.listState(w, r)
	if !ok {
		return s, false
	}
	s = ui.Reduce(s, ui.SetName(r.PostFormValue("name")))
	s = ui.Reduce(s, ui.SetTeam(r.PostFormValue("team")))
	return s, true
}

// listState loads the list so that a failed action re-renders with the
// list as it was before the action.
func (h *PageHandler) listState(w http.ResponseWriter, r *http.Request) (ui.State, bool) {
	s, err := h.controller.Load(r.Context(), ui.State{})
	if err != nil {
		h.render(w, statusFor(err), s)
		return s, false
	}
	return s, true
}

func (h *PageHandler) finish(w http.ResponseWriter, r *http.Request) func(ui.State, error) {
	return func(s ui.State, err error) {
		if err != nil {
			h.render(w, statusFor(err), s)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (h *PageHandler) render(w http.ResponseWriter, status int, s ui.State) {
	var buf bytes.Buffer
	if err := ui.Render(&buf, s); err != nil {
		slog.Error("failed to render page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to write page", "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ui.ErrMissingFields):
		return http.StatusBadRequest
	case errors.Is(err, employee.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, employee.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, employee.ErrOpenFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
