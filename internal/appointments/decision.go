package appointments

import "github.com/glowsalon/loyalty-platform/internal/authctx"

// Intent is the requested change on an appointment: an optional target
// state and/or optional notes text. Nil means "leave untouched".
type Intent struct {
	State *State
	Notes *string
}

// RejectionCode classifies why a patch was refused. Values are surfaced
// verbatim as API error codes.
type RejectionCode string

const (
	RejectForbiddenNotes      RejectionCode = "forbidden_notas"
	RejectForbiddenTransition RejectionCode = "forbidden_transition"
	RejectFinalState          RejectionCode = "final_state"
	RejectNoStateChange       RejectionCode = "no_state_change"
)

// Decision is the outcome of evaluating a patch intent. When OK is true,
// NextState carries the authorized transition (nil for a notes-only patch),
// NotesAllowed says whether the notes field may be written, and
// SettlePoints authorizes the one-time ledger adjustment. When OK is
// false, Reason holds exactly one rejection code.
type Decision struct {
	OK           bool
	NextState    *State
	NotesAllowed bool
	SettlePoints bool
	Reason       RejectionCode
}

func reject(reason RejectionCode) Decision {
	return Decision{Reason: reason}
}

// Decide evaluates whether the actor may apply the intent to an
// appointment currently in state current. It is a pure function: no
// storage, no clock, no retries. The side effects it authorizes are
// executed separately by Settle.
//
// Transition table (intentionally asymmetric):
//
//	clienta: pendiente -> confirmada | cancelada
//	admin:   pendiente | confirmada -> cancelada | completada
//
// Staff never set confirmada (that acknowledgment belongs to the client),
// and completada/cancelada are terminal for everyone.
func Decide(role authctx.Role, current State, intent Intent) Decision {
	wantsState := intent.State != nil
	wantsNotes := intent.Notes != nil

	// Notes are a staff-only field, checked before anything else.
	if role == authctx.RoleClient && wantsNotes {
		return reject(RejectForbiddenNotes)
	}

	// Terminal states only block requests for a *different* state. A
	// same-state or notes-only request on a final appointment falls
	// through to the remaining rules; product has not decided whether
	// that should be allowed, so the shipped behavior is preserved.
	if current.Final() && wantsState && *intent.State != current {
		return reject(RejectFinalState)
	}

	if !wantsState {
		return Decision{
			OK:           true,
			NotesAllowed: role == authctx.RoleAdmin,
		}
	}

	requested := *intent.State
	if requested == current {
		return reject(RejectNoStateChange)
	}

	if role == authctx.RoleClient {
		if current != StatePending {
			return reject(RejectForbiddenTransition)
		}
		if requested != StateConfirmed && requested != StateCancelled {
			return reject(RejectForbiddenTransition)
		}
		next := requested
		return Decision{OK: true, NextState: &next}
	}

	if current != StatePending && current != StateConfirmed {
		return reject(RejectFinalState)
	}
	if requested != StateCancelled && requested != StateCompleted {
		return reject(RejectForbiddenTransition)
	}

	next := requested
	return Decision{
		OK:           true,
		NextState:    &next,
		NotesAllowed: true,
		SettlePoints: requested == StateCompleted,
	}
}
