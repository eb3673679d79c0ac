package appointments

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when an appointment does not exist.
	ErrNotFound = errors.New("appointment not found")

	// ErrInsufficientPoints is returned by settlement when the observed
	// balance cannot cover the appointment's redeemed points. It must
	// abort the surrounding transaction.
	ErrInsufficientPoints = errors.New("insufficient_points")

	// ErrConflict is returned when the guarded update matched zero rows
	// because a concurrent request already transitioned the appointment.
	ErrConflict = errors.New("appointment no longer in an eligible state")

	// ErrInvalidState is returned when a patch requests an unknown state.
	ErrInvalidState = errors.New("invalid_estado")
)

// Item validation codes, surfaced verbatim to the HTTP layer.
const (
	CodeDuplicateService = "duplicate_service"
	CodeUnknownService   = "unknown_service"
	CodeNonRedeemable    = "non_redeemable"
)

// ValidationError reports the first item-level violation found while
// validating an appointment request against the service catalog.
type ValidationError struct {
	Code      string
	ServiceID uuid.UUID
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.ServiceID)
}
