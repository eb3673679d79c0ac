package appointments

import (
	"context"

	"github.com/google/uuid"
)

// FieldUpdates are the writable appointment fields a patch may touch.
type FieldUpdates struct {
	State *State
	Notes *string
}

// SettlementTx is the transaction-scoped capability set settlement needs
// from storage. All four primitives must execute inside one transaction;
// the guarded update is the sole concurrency primitive.
type SettlementTx interface {
	// UpdateAppointment applies updates unconditionally. Returns nil when
	// the row no longer exists.
	UpdateAppointment(ctx context.Context, id uuid.UUID, updates FieldUpdates) (*Appointment, error)

	// UpdateAppointmentIfStateIn applies updates only if the row's
	// persisted state is currently one of allowed. Returns nil when zero
	// rows matched.
	UpdateAppointmentIfStateIn(ctx context.Context, id uuid.UUID, allowed []State, updates FieldUpdates) (*Appointment, error)

	// CreditPoints and DebitPoints adjust the client balance relatively
	// (balance = balance ± amount), never absolutely, so they compose
	// with concurrent adjustments from the referral subsystem.
	CreditPoints(ctx context.Context, clientID uuid.UUID, amount int) error
	DebitPoints(ctx context.Context, clientID uuid.UUID, amount int) error
}

// SettleParams carries one decided patch into storage.
type SettleParams struct {
	AppointmentID uuid.UUID
	NextState     *State
	NextNotes     *string
	SettlePoints  bool

	// ObservedBalance is the client's balance as read by the caller
	// inside the same transaction. It is used only for the pre-flight
	// sufficiency check, never as the value written.
	ObservedBalance int
}

// settleableStates are the persisted states a completion may move from.
// The guarded update against this set is what makes settlement
// exactly-once: concurrent completions race on it and all but one match
// zero rows.
var settleableStates = []State{StatePending, StateConfirmed}

// Settle performs the guarded persistence update for a decided patch and,
// when authorized, the one-time points adjustment. Returns (nil, nil)
// when the row was not in an eligible state (concurrency miss) or no
// longer exists. ErrInsufficientPoints aborts before any ledger write;
// the caller's transaction must roll back the state change with it.
func Settle(ctx context.Context, tx SettlementTx, p SettleParams) (*Appointment, error) {
	updates := FieldUpdates{State: p.NextState, Notes: p.NextNotes}

	if !p.SettlePoints || p.NextState == nil || *p.NextState != StateCompleted {
		return tx.UpdateAppointment(ctx, p.AppointmentID, updates)
	}

	updated, err := tx.UpdateAppointmentIfStateIn(ctx, p.AppointmentID, settleableStates, updates)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Lost the race: another request already transitioned the row.
		// No ledger mutation may happen on this path.
		return nil, nil
	}

	if updated.PointsSpent > 0 {
		if p.ObservedBalance < updated.PointsSpent {
			return nil, ErrInsufficientPoints
		}
		if err := tx.DebitPoints(ctx, updated.ClientID, updated.PointsSpent); err != nil {
			return nil, err
		}
	}
	if updated.PointsEarned > 0 {
		if err := tx.CreditPoints(ctx, updated.ClientID, updated.PointsEarned); err != nil {
			return nil, err
		}
	}
	return updated, nil
}
