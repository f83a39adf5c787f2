package models

import (
	"time"

	"github.com/google/uuid"
)

// PartnerAccountType splits broker partners, who reuse one contract across
// successive leases on a property, from direct partners, who close the
// contract together with its single lease.
type PartnerAccountType string

const (
	PartnerAccountTypeBroker PartnerAccountType = "broker"
	PartnerAccountTypeDirect PartnerAccountType = "direct"
)

// PartnerSettings carries the per-partner feature flags and locale
// configuration consumed by the contract core.
type PartnerSettings struct {
	PartnerID   uuid.UUID          `json:"partner_id"`
	AccountType PartnerAccountType `json:"account_type"`

	Timezone   string `json:"timezone"`
	DateFormat string `json:"date_format"`

	EnabledDepositAccount   bool `json:"enabled_deposit_account"`
	EnabledCPISettlement    bool `json:"enabled_cpi_settlement"`
	EnabledRecurringDueDate bool `json:"enabled_recurring_due_date"`
	EnabledJointlyLiable    bool `json:"enabled_jointly_liable"`

	CreatedAt time.Time `json:"created_at"`
}

// ReusesContract reports whether a closed or cancelled lease leaves the
// contract open for the next lease.
func (p *PartnerSettings) ReusesContract() bool {
	return p.AccountType == PartnerAccountTypeBroker
}
