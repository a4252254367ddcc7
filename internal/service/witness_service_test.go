package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audlex/audlex-api/internal/dto"
	"github.com/audlex/audlex-api/internal/models"
	appErrors "github.com/audlex/audlex-api/pkg/errors"
)

func newWitnessFixture(witnesses ...models.Witness) (*WitnessService, *mockWitnessRepo, *mockHearingRepo) {
	hearings := newMockHearingRepo(sampleRows()...)
	repo := newMockWitnessRepo(witnesses...)
	return NewWitnessService(repo, hearings, nil, nil, nil, nil, 0), repo, hearings
}

func TestWitnessServiceCreateDefaultsToUnassigned(t *testing.T) {
	svc, _, _ := newWitnessFixture()

	witness, err := svc.Create(context.Background(), staffSession, dto.WitnessInput{FirstName: "Ana", LastName: "Diaz"})
	require.NoError(t, err)
	assert.Equal(t, models.UnassignedHearingID, witness.HearingID)
	assert.NotZero(t, witness.ID)
}

func TestWitnessServiceCreateChecksHearing(t *testing.T) {
	svc, _, _ := newWitnessFixture()

	other := int64(2)
	_, err := svc.Create(context.Background(), staffSession, dto.WitnessInput{FirstName: "Ana", LastName: "Diaz", HearingID: &other})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	missing := int64(999)
	_, err = svc.Create(context.Background(), adminSession, dto.WitnessInput{FirstName: "Ana", LastName: "Diaz", HearingID: &missing})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	own := int64(1)
	witness, err := svc.Create(context.Background(), staffSession, dto.WitnessInput{FirstName: "Ana", LastName: "Diaz", HearingID: &own})
	require.NoError(t, err)
	assert.Equal(t, int64(1), witness.HearingID)
}

func TestWitnessServiceCreateValidates(t *testing.T) {
	svc, _, _ := newWitnessFixture()

	_, err := svc.Create(context.Background(), adminSession, dto.WitnessInput{FirstName: "Ana", LastName: "Diaz", Email: "not-an-email"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestWitnessServiceUpdate(t *testing.T) {
	svc, repo, _ := newWitnessFixture(models.Witness{ID: 7, FirstName: "Ana", LastName: "Diaz", HearingID: 1})

	updated, err := svc.Update(context.Background(), staffSession, 7, dto.WitnessInput{FirstName: "Ana", LastName: "Diaz", Phone: "555", Difficult: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.HearingID)
	assert.True(t, repo.witnesses[7].Difficult)

	other := int64(2)
	_, err = svc.Update(context.Background(), staffSession, 7, dto.WitnessInput{FirstName: "Ana", LastName: "Diaz", HearingID: &other})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Update(context.Background(), adminSession, 70, dto.WitnessInput{FirstName: "Ana", LastName: "Diaz"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestWitnessServiceDeleteLeavesHearingUntouched(t *testing.T) {
	svc, repo, hearings := newWitnessFixture(models.Witness{ID: 7, FirstName: "Ana", LastName: "Diaz", HearingID: 1})
	before := hearings.rows[1]

	require.NoError(t, svc.Delete(context.Background(), staffSession, 7))
	assert.Equal(t, []int64{7}, repo.deleted)
	assert.Equal(t, before, hearings.rows[1])

	assert.ErrorIs(t, svc.Delete(context.Background(), staffSession, 7), appErrors.ErrNotFound)
}

func TestWitnessServiceDeleteForeignHearing(t *testing.T) {
	svc, _, _ := newWitnessFixture(models.Witness{ID: 8, FirstName: "Luis", LastName: "Paz", HearingID: 2})

	assert.ErrorIs(t, svc.Delete(context.Background(), staffSession, 8), appErrors.ErrForbidden)
	assert.NoError(t, svc.Delete(context.Background(), adminSession, 8))
}

func TestWitnessServiceListByHearing(t *testing.T) {
	svc, repo, _ := newWitnessFixture(models.Witness{ID: 7, FirstName: "Ana", LastName: "Diaz", HearingID: 1})

	list, err := svc.ListByHearing(context.Background(), staffSession, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.ListByHearing(context.Background(), nil, 1)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	repo.listErr = errors.New("boom")
	_, err = svc.ListByHearing(context.Background(), adminSession, 1)
	assert.Equal(t, "failed to fetch witnesses", appErrors.FromError(err).Message)
}
