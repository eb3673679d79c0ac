package referrals

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

// Store persists referral records in Postgres.
type Store struct {
	pool PgxPool
}

// NewStore creates a store backed by a pgx pool.
func NewStore(pool PgxPool) *Store {
	if pool == nil {
		panic("referrals: pgx pool required")
	}
	return &Store{pool: pool}
}

const referralColumns = `id, referente_id, referida_id, puntos_ganados, fecha`

func collectReferrals(rows pgx.Rows) ([]*Referral, error) {
	defer rows.Close()
	var out []*Referral
	for rows.Next() {
		var ref Referral
		if err := rows.Scan(&ref.ID, &ref.ReferrerID, &ref.ReferredID, &ref.PointsEarned, &ref.Date); err != nil {
			return nil, err
		}
		out = append(out, &ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every referral, newest first.
func (s *Store) ListAll(ctx context.Context) ([]*Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referidos ORDER BY fecha DESC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("referrals: list: %w", err)
	}
	return collectReferrals(rows)
}

// ListByReferrer returns one client's referrals, newest first.
func (s *Store) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referidos WHERE referente_id = $1 ORDER BY fecha DESC`
	rows, err := s.pool.Query(ctx, query, referrerID)
	if err != nil {
		return nil, fmt.Errorf("referrals: list by referrer: %w", err)
	}
	return collectReferrals(rows)
}

// Create records a referral and credits the bonus to the referrer in
// one transaction. Both profiles must exist before anything is written.
func (s *Store) Create(ctx context.Context, req CreateRequest) (*Referral, error) {
	points := req.PointsEarned
	if points < 0 {
		points = 0
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("referrals: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := profileExists(ctx, tx, req.ReferrerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReferrerNotFound
		}
		return nil, fmt.Errorf("referrals: check referrer: %w", err)
	}
	if err := profileExists(ctx, tx, req.ReferredID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReferredNotFound
		}
		return nil, fmt.Errorf("referrals: check referred: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE profiles SET puntos = puntos + $2 WHERE id = $1`,
		req.ReferrerID, points,
	); err != nil {
		return nil, fmt.Errorf("referrals: credit referrer: %w", err)
	}

	var ref Referral
	if err := tx.QueryRow(ctx,
		`INSERT INTO referidos (id, referente_id, referida_id, puntos_ganados)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+referralColumns,
		uuid.New(), req.ReferrerID, req.ReferredID, points,
	).Scan(&ref.ID, &ref.ReferrerID, &ref.ReferredID, &ref.PointsEarned, &ref.Date); err != nil {
		return nil, fmt.Errorf("referrals: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("referrals: commit: %w", err)
	}
	return &ref, nil
}

func profileExists(ctx context.Context, q Querier, id uuid.UUID) error {
	var found uuid.UUID
	return q.QueryRow(ctx, `SELECT id FROM profiles WHERE id = $1`, id).Scan(&found)
}
