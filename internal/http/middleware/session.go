package middleware

import (
	"net/http"
	"strings"

	"github.com/glowsalon/loyalty-platform/internal/auth"
	"github.com/glowsalon/loyalty-platform/internal/authctx"
)

// TokenVerifier resolves a session token to an actor.
type TokenVerifier interface {
	Verify(token string) (authctx.Actor, error)
}

// Session resolves the session token — Authorization bearer header or
// the auth cookie — and, when valid, stores the actor on the request
// context. Requests without a token pass through anonymously; route
// guards decide what requires auth.
func Session(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if c, err := r.Cookie(auth.CookieName); err == nil {
					token = c.Value
				}
			}
			if token != "" {
				if actor, err := verifier.Verify(token); err == nil {
					r = r.WithContext(authctx.WithActor(r.Context(), actor))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests that carry no valid session.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authctx.ActorFromContext(r.Context()); !ok {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose session is missing or not staff.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := authctx.ActorFromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !actor.IsAdmin() {
			writeAuthError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + code + `"}`))
}
