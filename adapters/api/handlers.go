package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"cutoffrank/app"
	"cutoffrank/domain/core"
	"cutoffrank/domain/selection"
	"cutoffrank/internal"
	"cutoffrank/internal/errors"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 16 << 10

// Handler serves the JSON API
type Handler struct {
	svc *app.SelectionService
}

// ErrorResponse is the body of every non-2xx JSON reply
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EntriesResponse is the body of a Show reply
type EntriesResponse struct {
	Entries []selection.Entry `json:"entries"`
	Message string            `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		internal.DefaultLogger.Warn("[API] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.Classify(err)
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		internal.DefaultLogger.Error("[API] %s: %v", code, err)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: err.Error()})
}

func param(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func sessionID(r *http.Request) (core.SessionID, error) {
	return core.ParseSessionID(chi.URLParam(r, "id"))
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"rows":   h.svc.Dataset().Len(),
	})
}

func (h *Handler) handleDataset(w http.ResponseWriter, r *http.Request) {
	ds := h.svc.Dataset()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows":       ds.Len(),
		"colleges":   len(ds.Colleges()),
		"categories": ds.Categories(),
	})
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Categories())
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(param(r, "category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleColleges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Colleges())
}

func (h *Handler) handleBranches(w http.ResponseWriter, r *http.Request) {
	college := r.URL.Query().Get("college")
	if college == "" {
		writeError(w, errors.InvalidInput("college query parameter is required"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Branches(college))
}

func (h *Handler) handleCutoff(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entry, err := h.svc.Lookup(selection.Picks{
		Category: q.Get("category"),
		College:  q.Get("college"),
		Branch:   q.Get("branch"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.NewSession(r.Context())
	if err == nil {
		v, err = h.svc.Start(r.Context(), v.ID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("%s/sessions/%s", Prefix, v.ID))
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id core.SessionID) {
		v, err := h.svc.Status(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	})
}

func (h *Handler) handleDiscardSession(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id core.SessionID) {
		if err := h.svc.Discard(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id core.SessionID) {
		v, err := h.svc.Start(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	})
}

func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id core.SessionID) {
		v, err := h.svc.End(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	})
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id core.SessionID) {
		var picks selection.Picks
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err == nil {
			err = json.Unmarshal(body, &picks)
		}
		if err != nil {
			writeError(w, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("invalid request body: %w", err)))
			return
		}

		entry, err := h.svc.Add(r.Context(), id, picks)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	})
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id core.SessionID) {
		entries, err := h.svc.Show(r.Context(), id)
		if core.IsEmptyListError(err) {
			writeJSON(w, http.StatusOK, EntriesResponse{Entries: []selection.Entry{}, Message: err.Error()})
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, EntriesResponse{Entries: entries})
	})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id core.SessionID) {
		export, err := h.svc.Export(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", export.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(export.Content); err != nil {
			internal.DefaultLogger.Warn("[API] Failed to write export: %v", err)
		}
	})
}

func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, fn func(core.SessionID)) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	fn(id)
}
