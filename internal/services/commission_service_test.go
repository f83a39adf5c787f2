package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/constants"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/dtos"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
)

func newCommissionFixture(t *testing.T, status models.ContractStatusType, addons []models.Addon) (*CommissionService, *fakeContractRepo, *models.Contract) {
	t.Helper()
	partner := brokerPartner()
	contractRepo := newFakeContractRepo()
	contract := &models.Contract{
		ID:                       uuid.New(),
		PartnerID:                partner.PartnerID,
		PropertyID:               uuid.New(),
		Status:                   status,
		BrokeringCommissionCents: 100000,
		Addons:                   addons,
		CreatedAt:                fixedNow.AddDate(0, -1, 0),
	}
	require.NoError(t, contractRepo.Create(context.Background(), contract))

	svc := NewCommissionService(contractRepo, newFakePartnerRepo(partner))
	svc.now = func() time.Time { return fixedNow }
	return svc, contractRepo, contract
}

func assignmentAddon(totalCents int64) models.Addon {
	return models.Addon{ID: uuid.New(), Type: models.AddonTypeAssignment, TotalCents: totalCents}
}

func TestRecomputeCommissionRecordsLinkedEntries(t *testing.T) {
	svc, _, c := newCommissionFixture(t, models.ContractStatusActive, []models.Addon{assignmentAddon(20000)})

	entries, names, err := svc.RecomputeCommissionHistory(context.Background(), c.ID, &dtos.CommissionChangeRequest{
		OldCommissionTotalCents: 100000,
		NewCommissionTotalCents: 150000,
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []string{constants.HistoryFieldCommissions, constants.HistoryFieldTotalIncome}, names)

	commissions := entries[0]
	assert.Equal(t, "100000", commissions.OldValue)
	assert.Equal(t, "150000", commissions.NewValue)

	total := entries[1]
	assert.Equal(t, "120000", total.OldValue, "old total is old commission plus assignment addons")
	assert.Equal(t, "170000", total.NewValue)

	// The linked entries of one recompute share one timestamp.
	assert.Equal(t, commissions.NewUpdatedAt, total.NewUpdatedAt)
}

func TestRecomputeCommissionSkipsUpcomingContract(t *testing.T) {
	svc, repo, c := newCommissionFixture(t, models.ContractStatusUpcoming, nil)

	entries, names, err := svc.RecomputeCommissionHistory(context.Background(), c.ID, &dtos.CommissionChangeRequest{
		OldCommissionTotalCents: 100000,
		NewCommissionTotalCents: 150000,
	})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, names)

	stored, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.History)
	assert.Equal(t, int64(100000), stored.BrokeringCommissionCents)
}

func TestRecomputeCommissionNormalizesCreditNoteNegation(t *testing.T) {
	svc, _, c := newCommissionFixture(t, models.ContractStatusActive, nil)

	// Credit notes carry negated totals; the history must show magnitudes.
	entries, _, err := svc.RecomputeCommissionHistory(context.Background(), c.ID, &dtos.CommissionChangeRequest{
		OldCommissionTotalCents: -100000,
		NewCommissionTotalCents: -80000,
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "100000", entries[0].OldValue)
	assert.Equal(t, "80000", entries[0].NewValue)
}

func TestRecomputeCommissionPrefersRecordedTotalIncome(t *testing.T) {
	svc, repo, c := newCommissionFixture(t, models.ContractStatusActive, nil)

	err := repo.UpdateWithRetry(context.Background(), c.ID, func(c *models.Contract) error {
		AppendHistoryEntry(c, "", constants.HistoryFieldTotalIncome, "", "999000", fixedNow.Add(-time.Hour))
		return nil
	})
	require.NoError(t, err)

	entries, _, err := svc.RecomputeCommissionHistory(context.Background(), c.ID, &dtos.CommissionChangeRequest{
		OldCommissionTotalCents: 100000,
		NewCommissionTotalCents: 150000,
	})
	require.NoError(t, err)
	assert.Equal(t, "999000", entries[1].OldValue, "the recorded chain wins over the recomputed fallback")
	assert.Equal(t, "150000", entries[1].NewValue)
}

func TestRecomputeCommissionUpdatesStoredCommission(t *testing.T) {
	svc, repo, c := newCommissionFixture(t, models.ContractStatusActive, nil)

	_, _, err := svc.RecomputeCommissionHistory(context.Background(), c.ID, &dtos.CommissionChangeRequest{
		OldCommissionTotalCents: 100000,
		NewCommissionTotalCents: 150000,
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150000), stored.BrokeringCommissionCents)
}

func TestApplyAddonChangeRecordsOtherAndTotalIncome(t *testing.T) {
	svc, repo, c := newCommissionFixture(t, models.ContractStatusActive, []models.Addon{assignmentAddon(20000)})

	entries, names, err := svc.ApplyAddonChange(context.Background(), c.ID, []models.Addon{
		assignmentAddon(20000),
		assignmentAddon(15000),
		{ID: uuid.New(), Type: models.AddonTypeLease, TotalCents: 99999},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []string{constants.HistoryFieldOtherIncome, constants.HistoryFieldTotalIncome}, names)

	other := entries[0]
	assert.Equal(t, "20000", other.OldValue)
	assert.Equal(t, "35000", other.NewValue, "lease-type addons stay out of other income")

	total := entries[1]
	assert.Equal(t, "120000", total.OldValue)
	assert.Equal(t, "135000", total.NewValue)
	assert.Equal(t, other.NewUpdatedAt, total.NewUpdatedAt)

	stored, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Addons, 3)
}

func TestApplyAddonChangeSkipsWhenAssignmentSumUnchanged(t *testing.T) {
	svc, repo, c := newCommissionFixture(t, models.ContractStatusActive, []models.Addon{assignmentAddon(20000)})

	entries, _, err := svc.ApplyAddonChange(context.Background(), c.ID, []models.Addon{
		assignmentAddon(20000),
		{ID: uuid.New(), Type: models.AddonTypeLease, TotalCents: 5000},
	})
	require.NoError(t, err)
	assert.Empty(t, entries)

	stored, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Addons, 2, "the addon set is still replaced")
	assert.Empty(t, stored.History)
}
