package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/glowsalon/loyalty-platform/internal/authctx"
	"github.com/glowsalon/loyalty-platform/internal/profiles"
	"github.com/glowsalon/loyalty-platform/pkg/logging"
)

const (
	// CookieName carries the session token.
	CookieName = "auth"

	bcryptCost = 10
)

// Handler handles signup, signin, signout and session introspection.
type Handler struct {
	accounts *Store
	profiles *profiles.Store
	issuer   *TokenIssuer
	secure   bool
	logger   *logging.Logger
}

// NewHandler creates the auth handler. secure controls the session
// cookie's Secure/SameSite attributes; enable it in production.
func NewHandler(accounts *Store, profileStore *profiles.Store, issuer *TokenIssuer, secure bool, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		accounts: accounts,
		profiles: profileStore,
		issuer:   issuer,
		secure:   secure,
		logger:   logger,
	}
}

// SignupRequest is the POST /api/auth/signup body.
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Phone     string `json:"telefono"`
}

// SigninRequest is the POST /api/auth/signin body.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by signup, signin and me. Token is only
// set when a fresh token was minted.
type SessionResponse struct {
	User    PublicUser        `json:"user"`
	Profile *profiles.Profile `json:"profile"`
	Token   string            `json:"token,omitempty"`
}

// PublicUser is the account without its password hash.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.secure {
		// SameSite=None requires Secure; browsers reject it otherwise.
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: sameSite,
	}
}

func validSignup(req SignupRequest) bool {
	return strings.TrimSpace(req.Email) != "" &&
		len(req.Password) >= 8 &&
		strings.TrimSpace(req.FirstName) != "" &&
		strings.TrimSpace(req.LastName) != ""
}

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if !validSignup(req) {
		writeError(w, http.StatusBadRequest, "invalid_signup")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}

	account, profile, err := h.accounts.CreateAccount(r.Context(), NewAccount{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email_already_exists")
			return
		}
		h.logger.Error("failed to create account", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}

	token, err := h.issuer.Sign(authctx.Actor{ID: account.ID, Role: profile.Role})
	if err != nil {
		h.logger.Error("failed to sign token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(h.issuer.TTL().Seconds())))
	h.logger.Info("account created", "id", account.ID, "email", account.Email)
	writeJSON(w, http.StatusCreated, SessionResponse{
		User:    PublicUser{ID: account.ID.String(), Email: account.Email},
		Profile: profile,
		Token:   token,
	})
}

// Signin handles POST /api/auth/signin.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	account, err := h.accounts.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		h.logger.Error("failed to load account", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	profile, err := h.profiles.GetByID(r.Context(), account.ID)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "profile_not_found")
			return
		}
		h.logger.Error("failed to load profile", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}

	token, err := h.issuer.Sign(authctx.Actor{ID: account.ID, Role: profile.Role})
	if err != nil {
		h.logger.Error("failed to sign token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(h.issuer.TTL().Seconds())))
	writeJSON(w, http.StatusOK, SessionResponse{
		User:    PublicUser{ID: account.ID.String(), Email: account.Email},
		Profile: profile,
		Token:   token,
	})
}

// Signout handles POST /api/auth/signout: it clears the session cookie.
func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := authctx.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	account, err := h.accounts.GetByID(r.Context(), actor.ID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	profile, err := h.profiles.GetByID(r.Context(), actor.ID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{
		User:    PublicUser{ID: account.ID.String(), Email: account.Email},
		Profile: profile,
	})
}
