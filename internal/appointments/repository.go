package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

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

// Store persists appointments and their per-service snapshot rows in
// Postgres. Balance adjustments live here too: they are part of the
// settlement capability set and must share the appointment transaction.
type Store struct {
	pool PgxPool
}

// NewStore creates a store backed by a pgx pool.
func NewStore(pool PgxPool) *Store {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &Store{pool: pool}
}

// Begin opens a transaction on the underlying pool.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.pool.Begin(ctx)
}

const appointmentColumns = `id, clienta_id, servicio_ids, fecha_hora, puntos_ganados, puntos_utilizados, estado, notas, created_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var appt Appointment
	if err := row.Scan(
		&appt.ID,
		&appt.ClientID,
		&appt.ServiceIDs,
		&appt.ScheduledAt,
		&appt.PointsEarned,
		&appt.PointsSpent,
		&appt.State,
		&appt.Notes,
		&appt.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &appt, nil
}

func collectAppointments(rows pgx.Rows) ([]*Appointment, error) {
	defer rows.Close()
	var out []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads one appointment.
func (s *Store) GetByID(ctx context.Context, q Querier, id uuid.UUID) (*Appointment, error) {
	if q == nil {
		q = s.pool
	}
	query := `SELECT ` + appointmentColumns + ` FROM citas WHERE id = $1`
	appt, err := scanAppointment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: select by id: %w", err)
	}
	return appt, nil
}

// ListAll returns every appointment ordered by scheduled time.
func (s *Store) ListAll(ctx context.Context) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM citas ORDER BY fecha_hora ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("appointments: list all: %w", err)
	}
	return collectAppointments(rows)
}

// ListByClient returns a client's appointments ordered by scheduled time.
func (s *Store) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM citas WHERE clienta_id = $1 ORDER BY fecha_hora ASC`
	rows, err := s.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list by client: %w", err)
	}
	return collectAppointments(rows)
}

// ListUpcoming returns appointments scheduled at or after the given time.
func (s *Store) ListUpcoming(ctx context.Context, from time.Time) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM citas WHERE fecha_hora >= $1 ORDER BY fecha_hora ASC`
	rows, err := s.pool.Query(ctx, query, from)
	if err != nil {
		return nil, fmt.Errorf("appointments: list upcoming: %w", err)
	}
	return collectAppointments(rows)
}

// ListOpen returns pending and confirmed appointments.
func (s *Store) ListOpen(ctx context.Context) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM citas WHERE estado = ANY($1) ORDER BY fecha_hora ASC`
	rows, err := s.pool.Query(ctx, query, []State{StatePending, StateConfirmed})
	if err != nil {
		return nil, fmt.Errorf("appointments: list open: %w", err)
	}
	return collectAppointments(rows)
}

// NewAppointment carries the validated inputs of one insert.
type NewAppointment struct {
	ClientID    uuid.UUID
	Items       []Item
	Catalog     []CatalogEntry
	ScheduledAt time.Time
	Totals      Totals
	Notes       *string
}

// Insert creates the appointment row plus one snapshot row per service.
// Snapshot rows pin the tariffs in force at booking time so later catalog
// edits cannot change what a completed appointment settles.
func (s *Store) Insert(ctx context.Context, q Querier, arg NewAppointment) (*Appointment, error) {
	if q == nil {
		q = s.pool
	}
	serviceIDs := make([]uuid.UUID, len(arg.Items))
	for i, item := range arg.Items {
		serviceIDs[i] = item.ServiceID
	}

	query := `
		INSERT INTO citas (id, clienta_id, servicio_ids, fecha_hora, puntos_ganados, puntos_utilizados, estado, notas)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + appointmentColumns
	appt, err := scanAppointment(q.QueryRow(ctx, query,
		uuid.New(),
		arg.ClientID,
		serviceIDs,
		arg.ScheduledAt,
		arg.Totals.PointsEarned,
		arg.Totals.PointsSpent,
		StatePending,
		arg.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("appointments: insert: %w", err)
	}

	for _, item := range arg.Items {
		entry, _ := findEntry(arg.Catalog, item.ServiceID)
		itemQuery := `
			INSERT INTO cita_servicios (id, cita_id, servicio_id, tipo, puntos_requeridos_snapshot, puntos_otorgados_snapshot)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := q.Exec(ctx, itemQuery,
			uuid.New(),
			appt.ID,
			item.ServiceID,
			item.Kind,
			entry.PointsRequired,
			entry.PointsAwarded,
		); err != nil {
			return nil, fmt.Errorf("appointments: insert item: %w", err)
		}
	}
	return appt, nil
}

// Delete removes an appointment; snapshot rows cascade.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM citas WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("appointments: delete: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetClientPoints reads the client's current balance. Settlement callers
// must invoke this inside the same transaction as Settle.
func (s *Store) GetClientPoints(ctx context.Context, q Querier, clientID uuid.UUID) (int, error) {
	if q == nil {
		q = s.pool
	}
	var points int
	if err := q.QueryRow(ctx, `SELECT puntos FROM profiles WHERE id = $1`, clientID).Scan(&points); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("appointments: read balance: %w", err)
	}
	return points, nil
}

// Tx binds the settlement capability set to one transaction.
func (s *Store) Tx(q Querier) SettlementTx {
	return &storeTx{q: q}
}

type storeTx struct {
	q Querier
}

func buildUpdates(updates FieldUpdates) (sets string, args []any) {
	n := 1
	if updates.State != nil {
		sets += fmt.Sprintf("estado = $%d", n+1)
		args = append(args, *updates.State)
		n++
	}
	if updates.Notes != nil {
		if sets != "" {
			sets += ", "
		}
		sets += fmt.Sprintf("notas = $%d", n+1)
		args = append(args, *updates.Notes)
		n++
	}
	return sets, args
}

func (t *storeTx) UpdateAppointment(ctx context.Context, id uuid.UUID, updates FieldUpdates) (*Appointment, error) {
	sets, args := buildUpdates(updates)
	if sets == "" {
		sets = "id = id"
	}
	query := `UPDATE citas SET ` + sets + ` WHERE id = $1 RETURNING ` + appointmentColumns
	appt, err := scanAppointment(t.q.QueryRow(ctx, query, append([]any{id}, args...)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("appointments: update: %w", err)
	}
	return appt, nil
}

func (t *storeTx) UpdateAppointmentIfStateIn(ctx context.Context, id uuid.UUID, allowed []State, updates FieldUpdates) (*Appointment, error) {
	sets, args := buildUpdates(updates)
	if sets == "" {
		sets = "id = id"
	}
	// Single atomic update-where: the state membership condition is the
	// concurrency guard, so there is no read-then-write window.
	query := `UPDATE citas SET ` + sets +
		fmt.Sprintf(` WHERE id = $1 AND estado = ANY($%d) RETURNING `, len(args)+2) + appointmentColumns
	appt, err := scanAppointment(t.q.QueryRow(ctx, query, append(append([]any{id}, args...), allowed)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("appointments: guarded update: %w", err)
	}
	return appt, nil
}

func (t *storeTx) CreditPoints(ctx context.Context, clientID uuid.UUID, amount int) error {
	if _, err := t.q.Exec(ctx, `UPDATE profiles SET puntos = puntos + $2 WHERE id = $1`, clientID, amount); err != nil {
		return fmt.Errorf("appointments: credit points: %w", err)
	}
	return nil
}

func (t *storeTx) DebitPoints(ctx context.Context, clientID uuid.UUID, amount int) error {
	if _, err := t.q.Exec(ctx, `UPDATE profiles SET puntos = puntos - $2 WHERE id = $1`, clientID, amount); err != nil {
		return fmt.Errorf("appointments: debit points: %w", err)
	}
	return nil
}
