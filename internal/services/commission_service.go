package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/constants"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/dtos"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/repositories"
)

// CommissionService recomputes the contract's derived income figures
// whenever the brokering commission total or the assignment addon sum
// moves, and records the deltas as linked history entries. The linked
// entries of one recompute share a single NewUpdatedAt so financial
// reports can correlate them.
type CommissionService struct {
	contractRepo repositories.ContractRepository
	partnerRepo  repositories.PartnerSettingsRepository
	now          func() time.Time
}

func NewCommissionService(contractRepo repositories.ContractRepository, partnerRepo repositories.PartnerSettingsRepository) *CommissionService {
	return &CommissionService{
		contractRepo: contractRepo,
		partnerRepo:  partnerRepo,
		now:          time.Now,
	}
}

// RecomputeCommissionHistory applies a commission total change.
// Landlord credit notes store commission totals negated, so both sides are
// normalized to positive magnitudes before diffing. Contracts still in
// upcoming status have no income to report and are skipped.
func (s *CommissionService) RecomputeCommissionHistory(ctx context.Context, contractID uuid.UUID, req *dtos.CommissionChangeRequest) ([]models.HistoryEntry, []string, error) {
	oldCommission := absCents(req.OldCommissionTotalCents)
	newCommission := absCents(req.NewCommissionTotalCents)

	var entries []models.HistoryEntry
	var names []string
	err := s.contractRepo.UpdateWithRetry(ctx, contractID, func(c *models.Contract) error {
		entries, names = nil, nil
		if c.Status == models.ContractStatusUpcoming {
			return nil
		}
		partner, err := s.partnerRepo.GetByPartnerID(ctx, c.PartnerID)
		if err != nil {
			return err
		}
		timezone := ""
		if partner != nil {
			timezone = partner.Timezone
		}

		other := c.AssignmentAddonTotalCents()
		oldTotal := oldCommission + other
		if prev, ok := PreviouslyRecordedValue(c, constants.HistoryFieldTotalIncome); ok {
			oldTotal = ParseCents(prev)
		}
		newTotal := newCommission + other

		now := s.now()
		entries = append(entries,
			AppendHistoryEntry(c, timezone, constants.HistoryFieldCommissions, FormatCents(oldCommission), FormatCents(newCommission), now),
			AppendHistoryEntry(c, timezone, constants.HistoryFieldTotalIncome, FormatCents(oldTotal), FormatCents(newTotal), now),
		)
		names = append(names, constants.HistoryFieldCommissions, constants.HistoryFieldTotalIncome)

		c.BrokeringCommissionCents = newCommission
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return entries, names, nil
}

// ApplyAddonChange replaces the contract's addon line items and, when the
// assignment-type sum moved, records the other-income and total-income
// deltas through the same linked-entry scheme.
func (s *CommissionService) ApplyAddonChange(ctx context.Context, contractID uuid.UUID, addons []models.Addon) ([]models.HistoryEntry, []string, error) {
	var entries []models.HistoryEntry
	var names []string
	err := s.contractRepo.UpdateWithRetry(ctx, contractID, func(c *models.Contract) error {
		entries, names = nil, nil
		oldOther := c.AssignmentAddonTotalCents()
		c.Addons = addons
		newOther := c.AssignmentAddonTotalCents()

		if c.Status == models.ContractStatusUpcoming || oldOther == newOther {
			return nil
		}
		partner, err := s.partnerRepo.GetByPartnerID(ctx, c.PartnerID)
		if err != nil {
			return err
		}
		timezone := ""
		if partner != nil {
			timezone = partner.Timezone
		}

		commission := c.BrokeringCommissionCents
		if prev, ok := PreviouslyRecordedValue(c, constants.HistoryFieldCommissions); ok {
			commission = ParseCents(prev)
		}
		oldTotal := commission + oldOther
		if prev, ok := PreviouslyRecordedValue(c, constants.HistoryFieldTotalIncome); ok {
			oldTotal = ParseCents(prev)
		}

		now := s.now()
		entries = append(entries,
			AppendHistoryEntry(c, timezone, constants.HistoryFieldOtherIncome, FormatCents(oldOther), FormatCents(newOther), now),
			AppendHistoryEntry(c, timezone, constants.HistoryFieldTotalIncome, FormatCents(oldTotal), FormatCents(commission+newOther), now),
		)
		names = append(names, constants.HistoryFieldOtherIncome, constants.HistoryFieldTotalIncome)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return entries, names, nil
}

func absCents(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
