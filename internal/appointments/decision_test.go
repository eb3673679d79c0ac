package appointments

import (
	"testing"

	"github.com/glowsalon/loyalty-platform/internal/authctx"
)

func statePtr(s State) *State { return &s }

func strPtr(s string) *string { return &s }

func TestDecideClientTransitions(t *testing.T) {
	tests := []struct {
		name    string
		current State
		target  State
		wantOK  bool
		reason  RejectionCode
	}{
		{"pending to confirmed", StatePending, StateConfirmed, true, ""},
		{"pending to cancelled", StatePending, StateCancelled, true, ""},
		{"pending to completed forbidden", StatePending, StateCompleted, false, RejectForbiddenTransition},
		{"confirmed to cancelled forbidden", StateConfirmed, StateCancelled, false, RejectForbiddenTransition},
		{"completed is terminal", StateCompleted, StateCancelled, false, RejectFinalState},
		{"cancelled is terminal", StateCancelled, StateConfirmed, false, RejectFinalState},
		{"same state rejected", StatePending, StatePending, false, RejectNoStateChange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(authctx.RoleClient, tt.current, Intent{State: statePtr(tt.target)})
			if d.OK != tt.wantOK {
				t.Fatalf("OK = %v, want %v (decision %+v)", d.OK, tt.wantOK, d)
			}
			if !tt.wantOK && d.Reason != tt.reason {
				t.Fatalf("Reason = %q, want %q", d.Reason, tt.reason)
			}
			if d.OK {
				if d.NextState == nil || *d.NextState != tt.target {
					t.Fatalf("NextState = %v, want %v", d.NextState, tt.target)
				}
				if d.NotesAllowed {
					t.Fatal("clients may never write notes")
				}
				if d.SettlePoints {
					t.Fatal("client transitions never settle points")
				}
			}
		})
	}
}

func TestDecideStaffTransitions(t *testing.T) {
	tests := []struct {
		name       string
		current    State
		target     State
		wantOK     bool
		reason     RejectionCode
		wantSettle bool
	}{
		{"pending to completed settles", StatePending, StateCompleted, true, "", true},
		{"confirmed to completed settles", StateConfirmed, StateCompleted, true, "", true},
		{"pending to cancelled", StatePending, StateCancelled, true, "", false},
		{"confirmed to cancelled", StateConfirmed, StateCancelled, true, "", false},
		{"staff cannot confirm", StatePending, StateConfirmed, false, RejectForbiddenTransition, false},
		{"completed is terminal", StateCompleted, StateCancelled, false, RejectFinalState, false},
		{"cancelled is terminal", StateCancelled, StateCompleted, false, RejectFinalState, false},
		{"same state rejected", StateConfirmed, StateConfirmed, false, RejectNoStateChange, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(authctx.RoleAdmin, tt.current, Intent{State: statePtr(tt.target)})
			if d.OK != tt.wantOK {
				t.Fatalf("OK = %v, want %v (decision %+v)", d.OK, tt.wantOK, d)
			}
			if !tt.wantOK && d.Reason != tt.reason {
				t.Fatalf("Reason = %q, want %q", d.Reason, tt.reason)
			}
			if d.OK {
				if !d.NotesAllowed {
					t.Fatal("staff transitions allow notes")
				}
				if d.SettlePoints != tt.wantSettle {
					t.Fatalf("SettlePoints = %v, want %v", d.SettlePoints, tt.wantSettle)
				}
			}
		})
	}
}

func TestDecideClientNotesForbidden(t *testing.T) {
	d := Decide(authctx.RoleClient, StatePending, Intent{Notes: strPtr("hola")})
	if d.OK || d.Reason != RejectForbiddenNotes {
		t.Fatalf("expected forbidden_notas, got %+v", d)
	}

	// Notes check runs first, even when the transition itself would be
	// allowed.
	d = Decide(authctx.RoleClient, StatePending, Intent{State: statePtr(StateConfirmed), Notes: strPtr("hola")})
	if d.OK || d.Reason != RejectForbiddenNotes {
		t.Fatalf("expected forbidden_notas, got %+v", d)
	}
}

func TestDecideNotesOnly(t *testing.T) {
	d := Decide(authctx.RoleAdmin, StateConfirmed, Intent{Notes: strPtr("llega tarde")})
	if !d.OK || d.NextState != nil || !d.NotesAllowed || d.SettlePoints {
		t.Fatalf("unexpected decision %+v", d)
	}

	// Open product question: a notes-only patch on a terminal
	// appointment currently passes staff authorization because the
	// terminal check only fires on a different requested state.
	d = Decide(authctx.RoleAdmin, StateCancelled, Intent{Notes: strPtr("no show")})
	if !d.OK || !d.NotesAllowed {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestDecideIsPure(t *testing.T) {
	intent := Intent{State: statePtr(StateCompleted), Notes: strPtr("x")}
	first := Decide(authctx.RoleAdmin, StateConfirmed, intent)
	for i := 0; i < 100; i++ {
		got := Decide(authctx.RoleAdmin, StateConfirmed, intent)
		if got.OK != first.OK || got.NotesAllowed != first.NotesAllowed ||
			got.SettlePoints != first.SettlePoints || got.Reason != first.Reason ||
			(got.NextState == nil) != (first.NextState == nil) ||
			(got.NextState != nil && *got.NextState != *first.NextState) {
			t.Fatalf("decision changed between identical calls: %+v vs %+v", first, got)
		}
	}
}
