package authctx

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestActorRoundTrip(t *testing.T) {
	actor := Actor{ID: uuid.New(), Role: RoleClient}
	ctx := WithActor(context.Background(), actor)

	got, ok := ActorFromContext(ctx)
	if !ok {
		t.Fatal("expected actor in context")
	}
	if got.ID != actor.ID || got.Role != RoleClient {
		t.Fatalf("unexpected actor: %+v", got)
	}
	if got.IsAdmin() {
		t.Fatal("clienta must not be admin")
	}
}

func TestActorMissing(t *testing.T) {
	if _, ok := ActorFromContext(context.Background()); ok {
		t.Fatal("expected no actor on empty context")
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleClient.Valid() {
		t.Fatal("known roles must be valid")
	}
	if Role("root").Valid() {
		t.Fatal("unknown role must be invalid")
	}
}
