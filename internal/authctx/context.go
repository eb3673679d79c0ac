package authctx

import (
	"context"

	"github.com/google/uuid"
)

// Role identifies the kind of actor behind a request.
type Role string

const (
	// RoleAdmin is salon staff: full visibility, owns appointment notes.
	RoleAdmin Role = "admin"
	// RoleClient is a booking client ("clienta").
	RoleClient Role = "clienta"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

// Actor is the authenticated subject of a request.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// IsAdmin reports whether the actor is salon staff.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type ctxKey string

const actorKey ctxKey = "loyalty.actor"

// WithActor stores the authenticated actor in context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext extracts the authenticated actor if present.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	val := ctx.Value(actorKey)
	if val == nil {
		return Actor{}, false
	}
	actor, ok := val.(Actor)
	return actor, ok && actor.ID != uuid.Nil
}
