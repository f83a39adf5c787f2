package testhelpers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
)

// CreateTestPartner inserts a partner-settings row with every contract
// feature enabled. Broker partners reuse contracts across leases; direct
// partners close the contract with its single lease.
func (h *TestHelper) CreateTestPartner(ctx context.Context, accountType models.PartnerAccountType) *models.PartnerSettings {
	partner := &models.PartnerSettings{
		PartnerID:               uuid.New(),
		AccountType:             accountType,
		Timezone:                "Europe/Oslo",
		DateFormat:              "DD.MM.YYYY",
		EnabledDepositAccount:   true,
		EnabledCPISettlement:    true,
		EnabledRecurringDueDate: true,
		EnabledJointlyLiable:    true,
	}
	err := h.PartnerRepo.Create(ctx, partner)
	require.NoError(h.T, err, "Failed to create test partner settings")
	return partner
}

// CreateTestOverdueInvoice lands an eviction-eligible invoice copy for the
// given contract and tenant, the way the invoicing engine's sync would.
func (h *TestHelper) CreateTestOverdueInvoice(ctx context.Context, c *models.Contract, tenantID uuid.UUID, totalCents int64) *models.Invoice {
	inv := &models.Invoice{
		ID:                uuid.New(),
		PartnerID:         c.PartnerID,
		ContractID:        c.ID,
		PropertyID:        c.PropertyID,
		TenantID:          tenantID,
		AgentID:           c.AgentID,
		Kind:              models.InvoiceKindInvoice,
		Status:            models.InvoiceStatusOverdue,
		InvoiceTotalCents: totalCents,
		DueDate:           time.Now().UTC().AddDate(0, 0, -21),
		DueReminderSent:   true,
		LeaseSerial:       c.LeaseSerial,
		CreatedAt:         time.Now().UTC(),
	}
	err := h.InvoiceRepo.Upsert(ctx, inv)
	require.NoError(h.T, err, "Failed to seed test invoice")
	return inv
}
