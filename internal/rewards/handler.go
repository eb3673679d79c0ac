package rewards

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glowsalon/loyalty-platform/pkg/logging"
)

// Handler handles HTTP requests for loyalty rewards. Listing is open to
// authenticated users; writes are staff-only (enforced by the router).
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a rewards handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// List handles GET /api/premios. Inactive rewards are included; clients
// filter on activo.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list rewards", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	if out == nil {
		out = []*Reward{}
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/premios (staff only).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_premio")
		return
	}
	p, err := h.store.Insert(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to create reward", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	h.logger.Info("reward created", "id", p.ID, "nombre", p.Name)
	writeJSON(w, http.StatusCreated, p)
}

// Update handles PATCH /api/premios/{id} (staff only).
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
	if req.Empty() {
		writeError(w, http.StatusBadRequest, "no_updates")
		return
	}
	p, err := h.store.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		h.logger.Error("failed to update reward", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/premios/{id} (staff only).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete reward", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
