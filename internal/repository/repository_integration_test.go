//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"

	"github.com/audlex/audlex-api/internal/models"
	"github.com/audlex/audlex-api/pkg/database"
)

// startPostgres returns a migrated database. AUDLEX_TEST_PG_DSN reuses an
// existing server instead of starting a container.
func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	dsn := os.Getenv("AUDLEX_TEST_PG_DSN")
	if dsn == "" {
		container, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("audlex"),
			postgres.WithUsername("audlex"),
			postgres.WithPassword("audlex"),
			postgres.BasicWaitStrategies(),
		)
		if err != nil {
			t.Skipf("postgres container unavailable: %v", err)
		}
		t.Cleanup(func() { _ = container.Terminate(context.Background()) })

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	db, err := sqlx.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(ctx, db, zap.NewNop()))
	_, err = db.ExecContext(ctx, `TRUNCATE TABLE witnesses, hearings, users RESTART IDENTITY`)
	require.NoError(t, err)
	return db
}

func TestIntegrationCourtAndDateFilter(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	hearings := NewHearingRepository(db)
	witnesses := NewWitnessRepository(db)
	users := NewUserRepository(db)

	lucia := &models.User{Name: "lucia", PasswordHash: "x", Level: 1}
	require.NoError(t, users.Create(ctx, lucia))

	early := &models.Hearing{
		Caption: "Smith v. Jones", OpposingParty: "Jones", Date: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		Time: time.Date(2025, 5, 10, 14, 30, 0, 0, time.UTC), Modality: models.ModalityVirtual,
		Status: models.HearingStatusVigente, CourtNumber: 55, AssignedUserID: lucia.ID,
	}
	late := &models.Hearing{
		Caption: "Other", Date: time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
		Time: time.Date(2025, 5, 20, 9, 5, 0, 0, time.UTC), Modality: models.ModalityPresencial,
		Status: models.HearingStatusVigente, CourtNumber: 55,
	}
	require.NoError(t, hearings.Create(ctx, nil, late))
	require.NoError(t, hearings.Create(ctx, nil, early))

	court := 55
	to := time.Date(2025, 5, 13, 0, 0, 0, 0, time.UTC)
	rows, err := hearings.List(ctx, models.HearingFilter{CourtNumber: &court, DateTo: &to})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, early.ID, rows[0].ID)
	assert.Equal(t, "lucia", rows[0].AssignedUserName)
	assert.Equal(t, 14, rows[0].Time.UTC().Hour())
	assert.Equal(t, 30, rows[0].Time.UTC().Minute())

	all, err := hearings.List(ctx, models.HearingFilter{Caption: "smith"})
	require.NoError(t, err)
	require.Len(t, all, 1)

	everything, err := hearings.List(ctx, models.HearingFilter{})
	require.NoError(t, err)
	require.Len(t, everything, 2)
	assert.Equal(t, early.ID, everything[0].ID)
	assert.Equal(t, "SIN ASIGNAR", everything[1].AssignedUserName)

	witness := &models.Witness{FirstName: "Ana", LastName: "Diaz", HearingID: early.ID}
	require.NoError(t, witnesses.Create(ctx, nil, witness))
	require.NoError(t, witnesses.Delete(ctx, witness.ID))
	after, err := hearings.FindByID(ctx, early.ID)
	require.NoError(t, err)
	assert.Equal(t, rows[0].Hearing, after.Hearing)

	found, err := hearings.Update(ctx, nil, &models.Hearing{ID: 999, Caption: "x", Modality: models.ModalityVirtual, Status: models.HearingStatusVigente})
	require.NoError(t, err)
	assert.False(t, found)
}
