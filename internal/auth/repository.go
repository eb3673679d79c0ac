package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/glowsalon/loyalty-platform/internal/authctx"
	"github.com/glowsalon/loyalty-platform/internal/profiles"
)

var (
	// ErrEmailTaken is returned when a signup reuses an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrAccountNotFound is returned when no account matches.
	ErrAccountNotFound = errors.New("account not found")
)

const uniqueViolation = "23505"

// Account is one login credential row. The profile shares the same id.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
}

// Querier is the subset of pgx both pools and transactions satisfy.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgxPool is the pool surface the store needs; pgxmock implements it.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Querier
}

// Store persists login accounts in Postgres.
type Store struct {
	pool PgxPool
}

// NewStore creates a store backed by a pgx pool.
func NewStore(pool PgxPool) *Store {
	if pool == nil {
		panic("auth: pgx pool required")
	}
	return &Store{pool: pool}
}

// NewAccount carries everything a signup creates.
type NewAccount struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
}

// CreateAccount inserts the credential row and its client profile in
// one transaction. New signups always start as clients with zero
// points.
func (s *Store) CreateAccount(ctx context.Context, req NewAccount) (*Account, *profiles.Profile, error) {
	email := normalizeEmail(req.Email)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("auth: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	account := Account{ID: uuid.New(), Email: email, PasswordHash: req.PasswordHash}
	if _, err := tx.Exec(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
		account.ID, account.Email, account.PasswordHash,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("auth: insert user: %w", err)
	}

	var profile profiles.Profile
	if err := tx.QueryRow(ctx,
		`INSERT INTO profiles (id, nombre, apellido, telefono, email, rol, puntos)
		 VALUES ($1, $2, $3, $4, $5, $6, 0)
		 RETURNING id, nombre, apellido, telefono, email, rol, puntos, created_at`,
		account.ID,
		strings.TrimSpace(req.FirstName),
		strings.TrimSpace(req.LastName),
		strings.TrimSpace(req.Phone),
		email,
		authctx.RoleClient,
	).Scan(
		&profile.ID, &profile.FirstName, &profile.LastName, &profile.Phone,
		&profile.Email, &profile.Role, &profile.Points, &profile.CreatedAt,
	); err != nil {
		return nil, nil, fmt.Errorf("auth: insert profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("auth: commit: %w", err)
	}
	return &account, &profile, nil
}

// GetByEmail loads an account by its normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	if err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash FROM users WHERE email = $1`,
		normalizeEmail(email),
	).Scan(&account.ID, &account.Email, &account.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("auth: select by email: %w", err)
	}
	return &account, nil
}

// GetByID loads an account by id.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	var account Account
	if err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash FROM users WHERE id = $1`,
		id,
	).Scan(&account.ID, &account.Email, &account.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("auth: select by id: %w", err)
	}
	return &account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
