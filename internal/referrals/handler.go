package referrals

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/glowsalon/loyalty-platform/internal/authctx"
	"github.com/glowsalon/loyalty-platform/internal/observability/metrics"
	"github.com/glowsalon/loyalty-platform/pkg/logging"
)

// Handler handles HTTP requests for referrals.
type Handler struct {
	store   *Store
	logger  *logging.Logger
	metrics *metrics.LoyaltyMetrics
}

// NewHandler creates a referrals handler. metrics may be nil.
func NewHandler(store *Store, logger *logging.Logger, m *metrics.LoyaltyMetrics) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger, metrics: m}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// List handles GET /api/referidos. Without a referente_id filter only
// staff may list; with one, staff or the referrer herself.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := authctx.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	raw := r.URL.Query().Get("referente_id")
	if raw == "" {
		if !actor.IsAdmin() {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		out, err := h.store.ListAll(r.Context())
		if err != nil {
			h.logger.Error("failed to list referrals", "error", err)
			writeError(w, http.StatusInternalServerError, "internal_server_error")
			return
		}
		if out == nil {
			out = []*Referral{}
		}
		writeJSON(w, http.StatusOK, out)
		return
	}

	referrerID, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_referente_id")
		return
	}
	if !actor.IsAdmin() && actor.ID != referrerID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	out, err := h.store.ListByReferrer(r.Context(), referrerID)
	if err != nil {
		h.logger.Error("failed to list referrals", "error", err, "referente_id", referrerID)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	if out == nil {
		out = []*Referral{}
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/referidos (staff only).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.ReferrerID == uuid.Nil || req.ReferredID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	ref, err := h.store.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrReferrerNotFound):
			writeError(w, http.StatusNotFound, "referente_not_found")
		case errors.Is(err, ErrReferredNotFound):
			writeError(w, http.StatusNotFound, "referida_not_found")
		default:
			h.logger.Error("failed to create referral", "error", err)
			writeError(w, http.StatusInternalServerError, "internal_server_error")
		}
		return
	}

	h.metrics.ObserveReferral()
	h.logger.Info("referral recorded",
		"referente_id", ref.ReferrerID,
		"referida_id", ref.ReferredID,
		"puntos", ref.PointsEarned,
	)
	writeJSON(w, http.StatusCreated, ref)
}
