package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audlex/audlex-api/internal/models"
)

var witnessTestColumns = []string{"id", "first_name", "last_name", "email", "flagged", "phone", "hearing_id", "difficult"}

func TestWitnessRepositoryListByHearing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewWitnessRepository(db)

	rows := sqlmock.NewRows(witnessTestColumns).
		AddRow(1, "Juan", "Perez", "jp@example.com", true, "555-1234", 10, false)
	mock.ExpectQuery(regexp.QuoteMeta("FROM witnesses WHERE hearing_id = $1 ORDER BY id ASC")).
		WithArgs(int64(10)).
		WillReturnRows(rows)

	witnesses, err := repo.ListByHearing(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, witnesses, 1)
	assert.Equal(t, "Juan Perez", witnesses[0].FullName())
	assert.True(t, witnesses[0].Flagged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWitnessRepositoryListByHearingEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewWitnessRepository(db)

	mock.ExpectQuery("FROM witnesses").WithArgs(int64(10)).WillReturnRows(sqlmock.NewRows(witnessTestColumns))

	witnesses, err := repo.ListByHearing(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, witnesses)
	assert.Empty(t, witnesses)
}

func TestWitnessRepositoryCreateDefaultsHearing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewWitnessRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO witnesses")).
		WithArgs("Ana", "Diaz", "", false, "", int64(0), true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))

	witness := &models.Witness{FirstName: "Ana", LastName: "Diaz", HearingID: -4, Difficult: true}
	require.NoError(t, repo.Create(context.Background(), nil, witness))
	assert.Equal(t, int64(8), witness.ID)
	assert.Equal(t, models.UnassignedHearingID, witness.HearingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWitnessRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewWitnessRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE witnesses SET first_name = $2")).
		WithArgs(int64(8), "Ana", "Diaz", "", false, "", int64(3), false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.Update(context.Background(), nil, &models.Witness{ID: 8, FirstName: "Ana", LastName: "Diaz", HearingID: 3})
	require.NoError(t, err)
	assert.True(t, found)
}

func TestWitnessRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewWitnessRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM witnesses WHERE id = $1")).WithArgs(int64(8)).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 8), sql.ErrNoRows)
}

func TestWitnessRepositoryDetachFromHearing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewWitnessRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE witnesses SET hearing_id = $2 WHERE hearing_id = $1")).
		WithArgs(int64(4), int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DetachFromHearing(context.Background(), nil, 4))
	require.NoError(t, repo.DetachFromHearing(context.Background(), nil, models.UnassignedHearingID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
