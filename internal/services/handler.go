package services

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glowsalon/loyalty-platform/pkg/logging"
)

// Handler handles HTTP requests for the service catalog. Reads are
// public to authenticated users; writes are staff-only (enforced by the
// router).
type Handler struct {
	store   *Store
	catalog *Catalog
	logger  *logging.Logger
}

// NewHandler creates a services handler.
func NewHandler(store *Store, catalog *Catalog, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, catalog: catalog, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// List handles GET /api/servicios.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	if out == nil {
		out = []*Service{}
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/servicios/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	svc, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		h.logger.Error("failed to load service", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// Create handles POST /api/servicios (staff only).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_servicio")
		return
	}
	svc, err := h.store.Insert(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to create service", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	h.logger.Info("service created", "id", svc.ID, "nombre", svc.Name)
	writeJSON(w, http.StatusCreated, svc)
}

// Update handles PATCH /api/servicios/{id} (staff only).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	svc, err := h.store.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		h.logger.Error("failed to update service", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	if h.catalog != nil {
		h.catalog.Invalidate(r.Context(), id)
	}
	writeJSON(w, http.StatusOK, svc)
}

// Delete handles DELETE /api/servicios/{id} (staff only).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete service", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if h.catalog != nil {
		h.catalog.Invalidate(r.Context(), id)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
