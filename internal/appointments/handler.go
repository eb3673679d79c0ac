package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glowsalon/loyalty-platform/internal/authctx"
	"github.com/glowsalon/loyalty-platform/pkg/logging"
)

// Handler handles HTTP requests for appointments.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates an appointments handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// CreateRequest is the POST /api/citas body.
type CreateRequest struct {
	ClientID    *uuid.UUID `json:"clienta_id,omitempty"`
	Items       []Item     `json:"items"`
	ScheduledAt time.Time  `json:"fecha_hora"`
	Notes       *string    `json:"notas,omitempty"`
}

// PatchRequest is the PATCH /api/citas/{id} body.
type PatchRequest struct {
	State *State  `json:"estado,omitempty"`
	Notes *string `json:"notas,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// List handles GET /api/citas. Staff may list everything or filter by
// clienta_id; clients only ever see their own appointments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := authctx.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	clientFilter := r.URL.Query().Get("clienta_id")

	if actor.IsAdmin() {
		if clientFilter != "" && clientFilter != "me" {
			clientID, err := uuid.Parse(clientFilter)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_clienta_id")
				return
			}
			h.respondList(w, r, func() ([]*Appointment, error) {
				return h.svc.ListByClient(r.Context(), clientID)
			})
			return
		}
		h.respondList(w, r, func() ([]*Appointment, error) {
			return h.svc.ListAll(r.Context())
		})
		return
	}

	if clientFilter != "" && clientFilter != "me" && clientFilter != actor.ID.String() {
		writeJSON(w, http.StatusOK, []*Appointment{})
		return
	}
	h.respondList(w, r, func() ([]*Appointment, error) {
		return h.svc.ListByClient(r.Context(), actor.ID)
	})
}

// ListUpcoming handles GET /api/citas/proximas (staff only).
func (h *Handler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, func() ([]*Appointment, error) {
		return h.svc.ListUpcoming(r.Context())
	})
}

// ListOpen handles GET /api/citas/pendientes (staff only): pending and
// confirmed appointments awaiting action.
func (h *Handler) ListOpen(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, func() ([]*Appointment, error) {
		return h.svc.ListOpen(r.Context())
	})
}

func (h *Handler) respondList(w http.ResponseWriter, r *http.Request, load func() ([]*Appointment, error)) {
	appts, err := load()
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	if appts == nil {
		appts = []*Appointment{}
	}
	writeJSON(w, http.StatusOK, appts)
}

// Create handles POST /api/citas. Staff may book for any client; clients
// always book for themselves.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := authctx.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items_required")
		return
	}
	for _, item := range req.Items {
		if !item.Kind.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_tipo")
			return
		}
	}

	clientID := actor.ID
	if actor.IsAdmin() {
		if req.ClientID == nil {
			writeError(w, http.StatusBadRequest, "clienta_id_required")
			return
		}
		clientID = *req.ClientID
	}

	appt, err := h.svc.Create(r.Context(), CreateParams{
		ClientID:    clientID,
		Items:       req.Items,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
	})
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Code)
			return
		}
		h.logger.Error("failed to create appointment", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// Patch handles PATCH /api/citas/{id}: the decide/settle pipeline.
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	actor, ok := authctx.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	var req PatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.State == nil && req.Notes == nil {
		writeError(w, http.StatusBadRequest, "no_updates")
		return
	}

	// Ownership gate before the decider: clients touch only their rows.
	if !actor.IsAdmin() {
		current, err := h.svc.Get(r.Context(), id)
		if err != nil {
			h.respondPatchError(w, err)
			return
		}
		if current.ClientID != actor.ID {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
	}

	appt, err := h.svc.Patch(r.Context(), actor.Role, id, Intent{State: req.State, Notes: req.Notes})
	if err != nil {
		h.respondPatchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *Handler) respondPatchError(w http.ResponseWriter, err error) {
	var rej *RejectionError
	switch {
	case errors.As(err, &rej):
		writeError(w, http.StatusForbidden, string(rej.Code))
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, ErrInvalidState):
		writeError(w, http.StatusBadRequest, "invalid_estado")
	case errors.Is(err, ErrInsufficientPoints):
		writeError(w, http.StatusConflict, "insufficient_points")
	case errors.Is(err, ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	default:
		h.logger.Error("failed to patch appointment", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
	}
}

// Delete handles DELETE /api/citas/{id} (staff or owner).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := authctx.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	if !actor.IsAdmin() {
		current, err := h.svc.Get(r.Context(), id)
		if err != nil {
			h.respondPatchError(w, err)
			return
		}
		if current.ClientID != actor.ID {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		h.logger.Error("failed to delete appointment", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
