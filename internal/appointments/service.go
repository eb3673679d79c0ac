package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/glowsalon/loyalty-platform/internal/authctx"
	"github.com/glowsalon/loyalty-platform/internal/observability/metrics"
	"github.com/glowsalon/loyalty-platform/pkg/logging"
)

// CatalogReader supplies the read-only catalog rows for a set of service
// ids. The services package implements it; the core never writes catalog
// data.
type CatalogReader interface {
	Entries(ctx context.Context, ids []uuid.UUID) ([]CatalogEntry, error)
}

// RejectionError carries a decider rejection across the service boundary
// so the HTTP layer can map the code to a status.
type RejectionError struct {
	Code RejectionCode
}

func (e *RejectionError) Error() string {
	return string(e.Code)
}

// Service ties the pure decider and settlement executor to storage.
type Service struct {
	store   *Store
	catalog CatalogReader
	logger  *logging.Logger
	metrics *metrics.LoyaltyMetrics
}

// NewService creates the appointments service.
func NewService(store *Store, catalog CatalogReader, logger *logging.Logger, m *metrics.LoyaltyMetrics) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:   store,
		catalog: catalog,
		logger:  logger,
		metrics: m,
	}
}

// CreateParams are the inputs to Create after HTTP decoding.
type CreateParams struct {
	ClientID    uuid.UUID
	Items       []Item
	ScheduledAt time.Time
	Notes       *string
}

// Create validates the requested items against the catalog, fixes the
// point totals, and inserts the appointment in state pendiente.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Appointment, error) {
	ids := make([]uuid.UUID, len(p.Items))
	for i, item := range p.Items {
		ids[i] = item.ServiceID
	}
	catalog, err := s.catalog.Entries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("appointments: load catalog: %w", err)
	}

	if err := ValidateItems(p.Items, catalog); err != nil {
		return nil, err
	}
	totals := ComputeTotals(p.Items, catalog)

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("appointments: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	appt, err := s.store.Insert(ctx, tx, NewAppointment{
		ClientID:    p.ClientID,
		Items:       p.Items,
		Catalog:     catalog,
		ScheduledAt: p.ScheduledAt,
		Totals:      totals,
		Notes:       p.Notes,
	})
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("appointments: commit: %w", err)
	}

	s.logger.Info("appointment created",
		"id", appt.ID,
		"clienta_id", appt.ClientID,
		"puntos_ganados", appt.PointsEarned,
		"puntos_utilizados", appt.PointsSpent,
	)
	return appt, nil
}

// Patch applies a state and/or notes change for the given actor. The
// decider runs against the loaded row; the settlement executor re-checks
// the persisted state inside the transaction, so a stale read here only
// ever produces a conflict, never a double settlement.
func (s *Service) Patch(ctx context.Context, role authctx.Role, id uuid.UUID, intent Intent) (*Appointment, error) {
	if intent.State != nil && !intent.State.Valid() {
		return nil, ErrInvalidState
	}

	current, err := s.store.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	decision := Decide(role, current.State, intent)
	s.metrics.ObserveTransition(string(role), transitionResult(decision))
	if !decision.OK {
		return nil, &RejectionError{Code: decision.Reason}
	}

	var nextNotes *string
	if decision.NotesAllowed {
		nextNotes = intent.Notes
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("appointments: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var observed int
	if decision.SettlePoints {
		observed, err = s.store.GetClientPoints(ctx, tx, current.ClientID)
		if err != nil {
			return nil, err
		}
	}

	patched, err := Settle(ctx, s.store.Tx(tx), SettleParams{
		AppointmentID:   id,
		NextState:       decision.NextState,
		NextNotes:       nextNotes,
		SettlePoints:    decision.SettlePoints,
		ObservedBalance: observed,
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientPoints) {
			s.metrics.ObserveSettlement("insufficient")
		} else {
			s.metrics.ObserveSettlement("error")
		}
		return nil, err
	}
	if patched == nil {
		s.metrics.ObserveSettlement("conflict")
		return nil, ErrConflict
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("appointments: commit: %w", err)
	}

	if decision.SettlePoints {
		s.metrics.ObserveSettlement("applied")
		s.logger.Info("appointment settled",
			"id", patched.ID,
			"clienta_id", patched.ClientID,
			"credited", patched.PointsEarned,
			"debited", patched.PointsSpent,
		)
	}
	return patched, nil
}

// Delete removes an appointment.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// ListAll, ListByClient, ListUpcoming, and ListOpen expose the store's
// read paths to the HTTP layer.
func (s *Service) ListAll(ctx context.Context) ([]*Appointment, error) {
	return s.store.ListAll(ctx)
}

func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Appointment, error) {
	return s.store.ListByClient(ctx, clientID)
}

func (s *Service) ListUpcoming(ctx context.Context) ([]*Appointment, error) {
	return s.store.ListUpcoming(ctx, time.Now().UTC())
}

func (s *Service) ListOpen(ctx context.Context) ([]*Appointment, error) {
	return s.store.ListOpen(ctx)
}

// Get loads one appointment.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.store.GetByID(ctx, nil, id)
}

func transitionResult(d Decision) string {
	if d.OK {
		return "authorized"
	}
	return string(d.Reason)
}
