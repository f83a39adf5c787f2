package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/constants"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/repositories"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/utils"
)

// Fixed IDs so the integration suites can address the seeded rows directly.
const (
	SeedBrokerPartnerID = "aaaaaaaa-aaaa-4aaa-aaaa-aaaaaaaaaaa1"
	SeedDirectPartnerID = "aaaaaaaa-aaaa-4aaa-aaaa-aaaaaaaaaaa2"

	SeedPropertyID = "bbbbbbbb-bbbb-4bbb-bbbb-bbbbbbbbbbb1"
	SeedAccountID  = "bbbbbbbb-bbbb-4bbb-bbbb-bbbbbbbbbbb2"
	SeedAgentID    = "bbbbbbbb-bbbb-4bbb-bbbb-bbbbbbbbbbb3"
	SeedTenantID   = "bbbbbbbb-bbbb-4bbb-bbbb-bbbbbbbbbbb4"

	// SentinelInvoiceID is used to check if seeding has already occurred.
	SentinelInvoiceID = "dddddddd-dddd-4ddd-dddd-ddddddddddd1"
	SeedContractID    = "cccccccc-cccc-4ccc-cccc-ccccccccccc1"
)

// SeedAllTestData seeds partner settings plus one overdue invoice so the
// eviction scan has something to chew on in dev environments. Idempotent:
// the sentinel invoice marks a previous run.
func SeedAllTestData(
	ctx context.Context,
	partnerRepo repositories.PartnerSettingsRepository,
	invoiceRepo repositories.InvoiceRepository,
) error {
	if err := seedPartners(ctx, partnerRepo); err != nil {
		return err
	}

	sentinelID := uuid.MustParse(SentinelInvoiceID)
	if existing, err := invoiceRepo.GetByID(ctx, sentinelID); err != nil {
		return fmt.Errorf("failed to check for sentinel invoice: %w", err)
	} else if existing != nil {
		utils.Logger.Info("contract-service: Seed data already present; skipping seeding.")
		return nil
	}

	invoice := &models.Invoice{
		ID:                sentinelID,
		PartnerID:         uuid.MustParse(SeedBrokerPartnerID),
		ContractID:        uuid.MustParse(SeedContractID),
		PropertyID:        uuid.MustParse(SeedPropertyID),
		TenantID:          uuid.MustParse(SeedTenantID),
		AgentID:           uuid.MustParse(SeedAgentID),
		Kind:              models.InvoiceKindInvoice,
		Status:            models.InvoiceStatusOverdue,
		InvoiceTotalCents: 125000,
		DueDate:           time.Now().UTC().AddDate(0, 0, -21),
		DueReminderSent:   true,
		LeaseSerial:       1,
	}
	if err := invoiceRepo.Upsert(ctx, invoice); err != nil {
		return fmt.Errorf("failed to seed invoice: %w", err)
	}

	utils.Logger.Info("contract-service: Seeding completed successfully.")
	return nil
}

func seedPartners(ctx context.Context, partnerRepo repositories.PartnerSettingsRepository) error {
	partners := []*models.PartnerSettings{
		{
			PartnerID:             uuid.MustParse(SeedBrokerPartnerID),
			AccountType:           models.PartnerAccountTypeBroker,
			Timezone:              constants.DefaultPartnerTimezone,
			DateFormat:            "02.01.2006",
			EnabledDepositAccount: true,
			EnabledCPISettlement:  true,
			EnabledJointlyLiable:  true,
		},
		{
			PartnerID:   uuid.MustParse(SeedDirectPartnerID),
			AccountType: models.PartnerAccountTypeDirect,
			Timezone:    constants.DefaultPartnerTimezone,
			DateFormat:  "02.01.2006",
		},
	}
	for _, p := range partners {
		if err := partnerRepo.Create(ctx, p); err != nil {
			return fmt.Errorf("failed to seed partner %s: %w", p.PartnerID, err)
		}
	}
	return nil
}
