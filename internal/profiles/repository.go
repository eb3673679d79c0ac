package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/glowsalon/loyalty-platform/internal/authctx"
)

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

// Store persists client/staff profiles in Postgres.
type Store struct {
	pool PgxPool
}

// NewStore creates a store backed by a pgx pool.
func NewStore(pool PgxPool) *Store {
	if pool == nil {
		panic("profiles: pgx pool required")
	}
	return &Store{pool: pool}
}

const profileColumns = `id, nombre, apellido, telefono, email, rol, puntos, created_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	if err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.Phone,
		&p.Email,
		&p.Role,
		&p.Points,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProfiles(rows pgx.Rows) ([]*Profile, error) {
	defer rows.Close()
	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads one profile.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profiles: select by id: %w", err)
	}
	return p, nil
}

// List returns all profiles ordered by creation time.
func (s *Store) List(ctx context.Context) ([]*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("profiles: list: %w", err)
	}
	return collectProfiles(rows)
}

// ListByRole returns profiles with the given role.
func (s *Store) ListByRole(ctx context.Context, role authctx.Role) ([]*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE rol = $1 ORDER BY created_at ASC`
	rows, err := s.pool.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("profiles: list by role: %w", err)
	}
	return collectProfiles(rows)
}

// TopByPoints returns the clients with the highest balances.
func (s *Store) TopByPoints(ctx context.Context, limit int) ([]*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE rol = $1 ORDER BY puntos DESC LIMIT $2`
	rows, err := s.pool.Query(ctx, query, authctx.RoleClient, limit)
	if err != nil {
		return nil, fmt.Errorf("profiles: top by points: %w", err)
	}
	return collectProfiles(rows)
}

// Update edits contact fields and returns the fresh row.
func (s *Store) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Profile, error) {
	query := `
		UPDATE profiles
		SET nombre = COALESCE($2, nombre),
			apellido = COALESCE($3, apellido),
			telefono = COALESCE($4, telefono)
		WHERE id = $1
		RETURNING ` + profileColumns
	p, err := scanProfile(s.pool.QueryRow(ctx, query, id, req.FirstName, req.LastName, req.Phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profiles: update: %w", err)
	}
	return p, nil
}

// AdjustPoints applies a relative balance change and returns the fresh
// row. delta may be negative; a debit larger than the balance clamps
// at zero instead of failing.
func (s *Store) AdjustPoints(ctx context.Context, id uuid.UUID, delta int) (*Profile, error) {
	query := `UPDATE profiles SET puntos = GREATEST(puntos + $2, 0) WHERE id = $1 RETURNING ` + profileColumns
	p, err := scanProfile(s.pool.QueryRow(ctx, query, id, delta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profiles: adjust points: %w", err)
	}
	return p, nil
}
