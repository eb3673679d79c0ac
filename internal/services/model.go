package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a catalog service does not exist.
	ErrNotFound = errors.New("service not found")

	// ErrInvalidService is returned when a create/update request is
	// malformed.
	ErrInvalidService = errors.New("invalid service")
)

// Service is one bookable salon service. PointsRequired is the redemption
// cost; nil means the service cannot be paid for with points.
type Service struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"nombre"`
	Description    string    `json:"descripcion"`
	PriceCents     int       `json:"precio"`
	DurationMin    int       `json:"duracion_min"`
	PointsAwarded  int       `json:"puntos_otorgados"`
	PointsRequired *int      `json:"puntos_requeridos,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateRequest is the POST /api/servicios body.
type CreateRequest struct {
	Name           string `json:"nombre"`
	Description    string `json:"descripcion"`
	PriceCents     int    `json:"precio"`
	DurationMin    int    `json:"duracion_min"`
	PointsAwarded  int    `json:"puntos_otorgados"`
	PointsRequired *int   `json:"puntos_requeridos,omitempty"`
}

// Validate checks the request's field constraints.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidService
	}
	if r.PriceCents < 0 || r.DurationMin <= 0 || r.PointsAwarded < 0 {
		return ErrInvalidService
	}
	if r.PointsRequired != nil && *r.PointsRequired <= 0 {
		return ErrInvalidService
	}
	return nil
}

// UpdateRequest is the PATCH /api/servicios/{id} body. Nil leaves a field
// untouched; ClearPointsRequired removes redeemability.
type UpdateRequest struct {
	Name                *string `json:"nombre,omitempty"`
	Description         *string `json:"descripcion,omitempty"`
	PriceCents          *int    `json:"precio,omitempty"`
	DurationMin         *int    `json:"duracion_min,omitempty"`
	PointsAwarded       *int    `json:"puntos_otorgados,omitempty"`
	PointsRequired      *int    `json:"puntos_requeridos,omitempty"`
	ClearPointsRequired bool    `json:"quitar_puntos_requeridos,omitempty"`
}
