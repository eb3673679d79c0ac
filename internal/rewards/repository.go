package rewards

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

// Store persists loyalty rewards in Postgres.
type Store struct {
	pool PgxPool
}

// NewStore creates a store backed by a pgx pool.
func NewStore(pool PgxPool) *Store {
	if pool == nil {
		panic("rewards: pgx pool required")
	}
	return &Store{pool: pool}
}

const rewardColumns = `id, nombre, descripcion, puntos_requeridos, activo, created_at`

func scanReward(row pgx.Row) (*Reward, error) {
	var p Reward
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.PointsRequired,
		&p.Active,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns every reward, active or not, sorted by name.
func (s *Store) List(ctx context.Context) ([]*Reward, error) {
	query := `SELECT ` + rewardColumns + ` FROM premios ORDER BY nombre ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("rewards: list: %w", err)
	}
	defer rows.Close()
	var out []*Reward
	for rows.Next() {
		p, err := scanReward(rows)
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

// GetByID loads one reward.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Reward, error) {
	query := `SELECT ` + rewardColumns + ` FROM premios WHERE id = $1`
	p, err := scanReward(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("rewards: select by id: %w", err)
	}
	return p, nil
}

// Insert creates a reward.
func (s *Store) Insert(ctx context.Context, req CreateRequest) (*Reward, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	query := `
		INSERT INTO premios (id, nombre, descripcion, puntos_requeridos, activo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + rewardColumns
	p, err := scanReward(s.pool.QueryRow(ctx, query,
		uuid.New(),
		strings.TrimSpace(req.Name),
		strings.TrimSpace(req.Description),
		req.PointsRequired,
		active,
	))
	if err != nil {
		return nil, fmt.Errorf("rewards: insert: %w", err)
	}
	return p, nil
}

// Update edits a reward and returns the fresh row.
func (s *Store) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Reward, error) {
	var name, description *string
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		name = &trimmed
	}
	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		description = &trimmed
	}
	query := `
		UPDATE premios
		SET nombre = COALESCE($2, nombre),
			descripcion = COALESCE($3, descripcion),
			puntos_requeridos = COALESCE($4, puntos_requeridos),
			activo = COALESCE($5, activo)
		WHERE id = $1
		RETURNING ` + rewardColumns
	p, err := scanReward(s.pool.QueryRow(ctx, query, id, name, description, req.PointsRequired, req.Active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("rewards: update: %w", err)
	}
	return p, nil
}

// Delete removes a reward.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM premios WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("rewards: delete: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
