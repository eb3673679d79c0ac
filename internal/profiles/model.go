package profiles

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/glowsalon/loyalty-platform/internal/authctx"
)

var (
	// ErrNotFound is returned when a profile does not exist.
	ErrNotFound = errors.New("profile not found")
)

// Profile is a salon client or staff member. Puntos is the loyalty
// balance; it is mutated only through relative adjustments (settlement,
// referral bonus, manual staff correction).
type Profile struct {
	ID        uuid.UUID    `json:"id"`
	FirstName string       `json:"nombre"`
	LastName  string       `json:"apellido"`
	Phone     string       `json:"telefono"`
	Email     string       `json:"email"`
	Role      authctx.Role `json:"rol"`
	Points    int          `json:"puntos"`
	CreatedAt time.Time    `json:"created_at"`
}

// UpdateRequest carries the editable profile fields. Nil means leave
// untouched.
type UpdateRequest struct {
	FirstName *string `json:"nombre,omitempty"`
	LastName  *string `json:"apellido,omitempty"`
	Phone     *string `json:"telefono,omitempty"`
}
