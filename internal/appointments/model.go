package appointments

import (
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of an appointment. Values are the Spanish
// wire/database representation the public API has always used.
type State string

const (
	StatePending   State = "pendiente"
	StateConfirmed State = "confirmada"
	StateCompleted State = "completada"
	StateCancelled State = "cancelada"
)

// Valid reports whether s is one of the four known states.
func (s State) Valid() bool {
	switch s {
	case StatePending, StateConfirmed, StateCompleted, StateCancelled:
		return true
	}
	return false
}

// Final reports whether s is terminal. Final appointments never change
// state again, for any actor.
func (s State) Final() bool {
	return s == StateCompleted || s == StateCancelled
}

// ItemKind says how a service item is acquired: paid for, or redeemed
// against the client's points balance.
type ItemKind string

const (
	KindPurchased ItemKind = "comprado"
	KindRedeemed  ItemKind = "canjeado"
)

// Valid reports whether k is a known acquisition kind.
func (k ItemKind) Valid() bool {
	return k == KindPurchased || k == KindRedeemed
}

// Item is one requested service line on an appointment.
type Item struct {
	ServiceID uuid.UUID `json:"servicio_id"`
	Kind      ItemKind  `json:"tipo"`
}

// CatalogEntry is the read-only slice of a catalog service the core needs:
// the redemption cost (nil means the service cannot be redeemed) and the
// points awarded when the service is purchased.
type CatalogEntry struct {
	ID             uuid.UUID
	PointsRequired *int
	PointsAwarded  int
}

// Appointment is a booked salon visit ("cita") with its fixed point totals.
// PointsEarned and PointsSpent are computed once at creation and never
// change; the balance effect happens exactly once, when the appointment
// completes.
type Appointment struct {
	ID           uuid.UUID   `json:"id"`
	ClientID     uuid.UUID   `json:"clienta_id"`
	ServiceIDs   []uuid.UUID `json:"servicio_ids"`
	ScheduledAt  time.Time   `json:"fecha_hora"`
	PointsEarned int         `json:"puntos_ganados"`
	PointsSpent  int         `json:"puntos_utilizados"`
	State        State       `json:"estado"`
	Notes        *string     `json:"notas,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Totals are the point sums an appointment fixes at creation.
type Totals struct {
	PointsEarned int `json:"puntos_ganados"`
	PointsSpent  int `json:"puntos_utilizados"`
}
