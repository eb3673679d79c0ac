package referrals

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

func TestStoreCreateCreditsReferrer(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	referrer := uuid.New()
	referred := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM profiles WHERE id = \$1`).
		WithArgs(referrer).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(referrer))
	mock.ExpectQuery(`SELECT id FROM profiles WHERE id = \$1`).
		WithArgs(referred).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(referred))
	mock.ExpectExec(`UPDATE profiles SET puntos = puntos \+ \$2`).
		WithArgs(referrer, 50).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`INSERT INTO referidos`).
		WithArgs(pgxmock.AnyArg(), referrer, referred, 50).
		WillReturnRows(mock.NewRows([]string{"id", "referente_id", "referida_id", "puntos_ganados", "fecha"}).
			AddRow(uuid.New(), referrer, referred, 50, time.Now()))
	mock.ExpectCommit()

	store := NewStore(mock)
	ref, err := store.Create(context.Background(), CreateRequest{
		ReferrerID:   referrer,
		ReferredID:   referred,
		PointsEarned: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, ref.PointsEarned)
	assert.Equal(t, referrer, ref.ReferrerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCreateClampsNegativePoints(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	referrer := uuid.New()
	referred := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM profiles WHERE id = \$1`).
		WithArgs(referrer).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(referrer))
	mock.ExpectQuery(`SELECT id FROM profiles WHERE id = \$1`).
		WithArgs(referred).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(referred))
	mock.ExpectExec(`UPDATE profiles SET puntos = puntos \+ \$2`).
		WithArgs(referrer, 0).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`INSERT INTO referidos`).
		WithArgs(pgxmock.AnyArg(), referrer, referred, 0).
		WillReturnRows(mock.NewRows([]string{"id", "referente_id", "referida_id", "puntos_ganados", "fecha"}).
			AddRow(uuid.New(), referrer, referred, 0, time.Now()))
	mock.ExpectCommit()

	store := NewStore(mock)
	ref, err := store.Create(context.Background(), CreateRequest{
		ReferrerID:   referrer,
		ReferredID:   referred,
		PointsEarned: -25,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, ref.PointsEarned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCreateUnknownReferrerWritesNothing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	referrer := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM profiles WHERE id = \$1`).
		WithArgs(referrer).
		WillReturnRows(mock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	store := NewStore(mock)
	_, err = store.Create(context.Background(), CreateRequest{
		ReferrerID:   referrer,
		ReferredID:   uuid.New(),
		PointsEarned: 50,
	})
	assert.True(t, errors.Is(err, ErrReferrerNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreListByReferrer(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	referrer := uuid.New()
	mock.ExpectQuery(`SELECT .+ FROM referidos WHERE referente_id = \$1 ORDER BY fecha DESC`).
		WithArgs(referrer).
		WillReturnRows(mock.NewRows([]string{"id", "referente_id", "referida_id", "puntos_ganados", "fecha"}).
			AddRow(uuid.New(), referrer, uuid.New(), 50, time.Now()).
			AddRow(uuid.New(), referrer, uuid.New(), 25, time.Now().Add(-time.Hour)))

	store := NewStore(mock)
	out, err := store.ListByReferrer(context.Background(), referrer)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 50, out[0].PointsEarned)
	assert.NoError(t, mock.ExpectationsWereMet())
}
