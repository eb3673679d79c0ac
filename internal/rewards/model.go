package rewards

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a reward does not exist.
	ErrNotFound = errors.New("reward not found")

	// ErrInvalidReward is returned when a create request is malformed.
	ErrInvalidReward = errors.New("invalid reward")
)

// Reward is a redeemable loyalty prize. Inactive rewards stay listed so
// the front end can filter them.
type Reward struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"nombre"`
	Description    string    `json:"descripcion"`
	PointsRequired int       `json:"puntos_requeridos"`
	Active         bool      `json:"activo"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateRequest is the POST /api/premios body. Active defaults to true.
type CreateRequest struct {
	Name           string `json:"nombre"`
	Description    string `json:"descripcion"`
	PointsRequired int    `json:"puntos_requeridos"`
	Active         *bool  `json:"activo,omitempty"`
}

// Validate checks the request's field constraints.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidReward
	}
	if r.PointsRequired <= 0 {
		return ErrInvalidReward
	}
	return nil
}

// UpdateRequest is the PATCH /api/premios/{id} body; nil fields are
// left untouched.
type UpdateRequest struct {
	Name           *string `json:"nombre,omitempty"`
	Description    *string `json:"descripcion,omitempty"`
	PointsRequired *int    `json:"puntos_requeridos,omitempty"`
	Active         *bool   `json:"activo,omitempty"`
}

// Empty reports whether the patch carries no updates.
func (r *UpdateRequest) Empty() bool {
	return r.Name == nil && r.Description == nil && r.PointsRequired == nil && r.Active == nil
}
