package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceRows(mock pgxmock.PgxPoolIface, svcs ...*Service) *pgxmock.Rows {
	rows := mock.NewRows([]string{
		"id", "nombre", "descripcion", "precio", "duracion_min",
		"puntos_otorgados", "puntos_requeridos", "created_at",
	})
	for _, s := range svcs {
		rows.AddRow(s.ID, s.Name, s.Description, s.PriceCents, s.DurationMin,
			s.PointsAwarded, s.PointsRequired, s.CreatedAt)
	}
	return rows
}

func intPtr(n int) *int { return &n }

func TestStoreGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	want := &Service{
		ID:             id,
		Name:           "Manicure",
		PriceCents:     3500,
		DurationMin:    45,
		PointsAwarded:  20,
		PointsRequired: intPtr(50),
		CreatedAt:      time.Now(),
	}
	mock.ExpectQuery(`SELECT .+ FROM servicios WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(serviceRows(mock, want))

	store := NewStore(mock)
	got, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Manicure", got.Name)
	require.NotNil(t, got.PointsRequired)
	assert.Equal(t, 50, *got.PointsRequired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT .+ FROM servicios WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(serviceRows(mock))

	store := NewStore(mock)
	_, err = store.GetByID(context.Background(), id)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStoreGetByIDs(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a := &Service{ID: uuid.New(), Name: "Corte", PointsAwarded: 10, DurationMin: 30, CreatedAt: time.Now()}
	b := &Service{ID: uuid.New(), Name: "Tinte", PointsAwarded: 25, DurationMin: 90, PointsRequired: intPtr(120), CreatedAt: time.Now()}
	ids := []uuid.UUID{a.ID, b.ID}

	mock.ExpectQuery(`SELECT .+ FROM servicios WHERE id = ANY\(\$1\)`).
		WithArgs(ids).
		WillReturnRows(serviceRows(mock, a, b))

	store := NewStore(mock)
	got, err := store.GetByIDs(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Corte", got[0].Name)
	assert.Equal(t, "Tinte", got[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreInsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	req := CreateRequest{
		Name:          "Pedicure",
		Description:   "Pedicure spa",
		PriceCents:    4000,
		DurationMin:   60,
		PointsAwarded: 25,
	}
	created := &Service{ID: uuid.New(), Name: req.Name, Description: req.Description,
		PriceCents: req.PriceCents, DurationMin: req.DurationMin,
		PointsAwarded: req.PointsAwarded, CreatedAt: time.Now()}

	mock.ExpectQuery(`INSERT INTO servicios`).
		WithArgs(pgxmock.AnyArg(), req.Name, req.Description, req.PriceCents,
			req.DurationMin, req.PointsAwarded, req.PointsRequired).
		WillReturnRows(serviceRows(mock, created))

	store := NewStore(mock)
	got, err := store.Insert(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Pedicure", got.Name)
	assert.Nil(t, got.PointsRequired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUpdateClearsRedemptionCost(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	req := UpdateRequest{ClearPointsRequired: true}
	updated := &Service{ID: id, Name: "Keratina", DurationMin: 120, CreatedAt: time.Now()}

	mock.ExpectQuery(`UPDATE servicios`).
		WithArgs(id, req.Name, req.Description, req.PriceCents, req.DurationMin,
			req.PointsAwarded, req.PointsRequired, true).
		WillReturnRows(serviceRows(mock, updated))

	store := NewStore(mock)
	got, err := store.Update(context.Background(), id, req)
	require.NoError(t, err)
	assert.Nil(t, got.PointsRequired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM servicios WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	store := NewStore(mock)
	deleted, err := store.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRequestValidate(t *testing.T) {
	valid := CreateRequest{Name: "Corte", PriceCents: 2000, DurationMin: 30}
	assert.NoError(t, valid.Validate())

	noName := valid
	noName.Name = "  "
	assert.Error(t, noName.Validate())

	badDuration := valid
	badDuration.DurationMin = 0
	assert.Error(t, badDuration.Validate())

	zeroCost := valid
	zeroCost.PointsRequired = intPtr(0)
	assert.Error(t, zeroCost.Validate())
}
