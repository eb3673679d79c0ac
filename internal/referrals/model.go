package referrals

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrReferrerNotFound is returned when the referring client does not
	// exist.
	ErrReferrerNotFound = errors.New("referrer not found")

	// ErrReferredNotFound is returned when the referred client does not
	// exist.
	ErrReferredNotFound = errors.New("referred profile not found")
)

// Referral records one client bringing in another. PointsEarned is the
// bonus credited to the referrer when the record is created.
type Referral struct {
	ID           uuid.UUID `json:"id"`
	ReferrerID   uuid.UUID `json:"referente_id"`
	ReferredID   uuid.UUID `json:"referida_id"`
	PointsEarned int       `json:"puntos_ganados"`
	Date         time.Time `json:"fecha"`
}

// CreateRequest is the POST /api/referidos body.
type CreateRequest struct {
	ReferrerID   uuid.UUID `json:"referente_id"`
	ReferredID   uuid.UUID `json:"referida_id"`
	PointsEarned int       `json:"puntos_ganados"`
}
