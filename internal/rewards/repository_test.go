package rewards

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

func rewardRows(mock pgxmock.PgxPoolIface, rewards ...*Reward) *pgxmock.Rows {
	rows := mock.NewRows([]string{"id", "nombre", "descripcion", "puntos_requeridos", "activo", "created_at"})
	for _, p := range rewards {
		rows.AddRow(p.ID, p.Name, p.Description, p.PointsRequired, p.Active, p.CreatedAt)
	}
	return rows
}

func TestStoreInsertDefaultsActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	req := CreateRequest{Name: "  Facial gratis  ", Description: "Un facial de cortesía", PointsRequired: 200}
	created := &Reward{ID: uuid.New(), Name: "Facial gratis", Description: "Un facial de cortesía",
		PointsRequired: 200, Active: true, CreatedAt: time.Now()}

	mock.ExpectQuery(`INSERT INTO premios`).
		WithArgs(pgxmock.AnyArg(), "Facial gratis", "Un facial de cortesía", 200, true).
		WillReturnRows(rewardRows(mock, created))

	store := NewStore(mock)
	got, err := store.Insert(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, got.Active)
	assert.Equal(t, "Facial gratis", got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUpdateNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	active := false
	mock.ExpectQuery(`UPDATE premios`).
		WithArgs(id, (*string)(nil), (*string)(nil), (*int)(nil), &active).
		WillReturnRows(rewardRows(mock))

	store := NewStore(mock)
	_, err = store.Update(context.Background(), id, UpdateRequest{Active: &active})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStoreList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a := &Reward{ID: uuid.New(), Name: "Descuento 10%", PointsRequired: 100, Active: true, CreatedAt: time.Now()}
	b := &Reward{ID: uuid.New(), Name: "Manicure gratis", PointsRequired: 300, Active: false, CreatedAt: time.Now()}
	mock.ExpectQuery(`SELECT .+ FROM premios ORDER BY nombre ASC`).
		WillReturnRows(rewardRows(mock, a, b))

	store := NewStore(mock)
	got, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.False(t, got[1].Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreDeleteMiss(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM premios WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	store := NewStore(mock)
	deleted, err := store.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCreateRequestValidate(t *testing.T) {
	valid := CreateRequest{Name: "Premio", PointsRequired: 50}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&CreateRequest{Name: " ", PointsRequired: 50}).Validate())
	assert.Error(t, (&CreateRequest{Name: "Premio", PointsRequired: 0}).Validate())
}
