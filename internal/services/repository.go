package services

import (
	"context"
	"errors"
	"fmt"

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

// Store persists the service catalog in Postgres.
type Store struct {
	pool PgxPool
}

// NewStore creates a store backed by a pgx pool.
func NewStore(pool PgxPool) *Store {
	if pool == nil {
		panic("services: pgx pool required")
	}
	return &Store{pool: pool}
}

const serviceColumns = `id, nombre, descripcion, precio, duracion_min, puntos_otorgados, puntos_requeridos, created_at`

func scanService(row pgx.Row) (*Service, error) {
	var s Service
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.PriceCents,
		&s.DurationMin,
		&s.PointsAwarded,
		&s.PointsRequired,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns the whole catalog.
func (s *Store) List(ctx context.Context) ([]*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM servicios ORDER BY nombre ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("services: list: %w", err)
	}
	defer rows.Close()
	var out []*Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads one catalog service.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM servicios WHERE id = $1`
	svc, err := scanService(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("services: select by id: %w", err)
	}
	return svc, nil
}

// GetByIDs loads the catalog rows for a set of ids; missing ids simply
// produce fewer rows (the item validator reports them).
func (s *Store) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM servicios WHERE id = ANY($1)`
	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("services: select by ids: %w", err)
	}
	defer rows.Close()
	var out []*Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Insert creates a catalog service.
func (s *Store) Insert(ctx context.Context, req CreateRequest) (*Service, error) {
	query := `
		INSERT INTO servicios (id, nombre, descripcion, precio, duracion_min, puntos_otorgados, puntos_requeridos)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + serviceColumns
	svc, err := scanService(s.pool.QueryRow(ctx, query,
		uuid.New(),
		req.Name,
		req.Description,
		req.PriceCents,
		req.DurationMin,
		req.PointsAwarded,
		req.PointsRequired,
	))
	if err != nil {
		return nil, fmt.Errorf("services: insert: %w", err)
	}
	return svc, nil
}

// Update edits a catalog service and returns the fresh row.
func (s *Store) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Service, error) {
	query := `
		UPDATE servicios
		SET nombre = COALESCE($2, nombre),
			descripcion = COALESCE($3, descripcion),
			precio = COALESCE($4, precio),
			duracion_min = COALESCE($5, duracion_min),
			puntos_otorgados = COALESCE($6, puntos_otorgados),
			puntos_requeridos = CASE WHEN $8 THEN NULL ELSE COALESCE($7, puntos_requeridos) END
		WHERE id = $1
		RETURNING ` + serviceColumns
	svc, err := scanService(s.pool.QueryRow(ctx, query,
		id,
		req.Name,
		req.Description,
		req.PriceCents,
		req.DurationMin,
		req.PointsAwarded,
		req.PointsRequired,
		req.ClearPointsRequired,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("services: update: %w", err)
	}
	return svc, nil
}

// Delete removes a catalog service.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM servicios WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("services: delete: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
