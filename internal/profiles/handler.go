package profiles

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glowsalon/loyalty-platform/internal/authctx"
	"github.com/glowsalon/loyalty-platform/pkg/logging"
)

// Handler handles HTTP requests for profiles and the points endpoints.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a profiles handler.
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

// List handles GET /api/profiles (staff only), optionally filtered by rol.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		out []*Profile
		err error
	)
	if role := r.URL.Query().Get("rol"); role != "" {
		if !authctx.Role(role).Valid() {
			writeError(w, http.StatusBadRequest, "invalid_rol")
			return
		}
		out, err = h.store.ListByRole(r.Context(), authctx.Role(role))
	} else {
		out, err = h.store.List(r.Context())
	}
	if err != nil {
		h.logger.Error("failed to list profiles", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	if out == nil {
		out = []*Profile{}
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/profiles/{id} (staff, or the profile owner).
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := authctx.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	if !actor.IsAdmin() && actor.ID != id {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	p, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update handles PATCH /api/profiles/{id} (staff, or owner).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := authctx.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	if !actor.IsAdmin() && actor.ID != id {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	p, err := h.store.Update(r.Context(), id, req)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PointsRequest is the body of the manual credit/debit endpoints.
type PointsRequest struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Amount    int       `json:"cantidad"`
}

// CreditPoints handles POST /api/puntos/sumar (staff only): a manual
// relative credit, e.g. a goodwill bonus.
func (h *Handler) CreditPoints(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, 1)
}

// DebitPoints handles POST /api/puntos/restar (staff only).
func (h *Handler) DebitPoints(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, -1)
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request, sign int) {
	var req PointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_cantidad")
		return
	}
	p, err := h.store.AdjustPoints(r.Context(), req.ProfileID, sign*req.Amount)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.logger.Info("points adjusted",
		"profile_id", req.ProfileID,
		"delta", sign*req.Amount,
		"puntos", p.Points,
	)
	writeJSON(w, http.StatusOK, p)
}

// TopPoints handles GET /api/puntos/top?limit=N: the client leaderboard.
func (h *Handler) TopPoints(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	out, err := h.store.TopByPoints(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list top clients", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	if out == nil {
		out = []*Profile{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	h.logger.Error("profiles storage error", "error", err)
	writeError(w, http.StatusInternalServerError, "internal_server_error")
}

func parseID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}
