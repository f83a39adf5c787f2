package models

import (
	"time"

	"github.com/google/uuid"
)

// ContractStatusType defines the possible states of the assignment facet
// and, independently, of the lease facet (RentalMeta.Status).
type ContractStatusType string

const (
	ContractStatusNew        ContractStatusType = "new"
	ContractStatusUpcoming   ContractStatusType = "upcoming"
	ContractStatusInProgress ContractStatusType = "in_progress"
	ContractStatusActive     ContractStatusType = "active"
	ContractStatusClosed     ContractStatusType = "closed"
)

// Contract is the central aggregate: the landlord/broker assignment for a
// property, with an optional tenant-facing lease nested in RentalMeta.
// Both facets carry their own status; the lifecycle service keeps them
// mutually consistent.
type Contract struct {
	Versioned
	ID         uuid.UUID `json:"id"`
	PartnerID  uuid.UUID `json:"partner_id"`
	PropertyID uuid.UUID `json:"property_id"`
	AccountID  uuid.UUID `json:"account_id"` // landlord
	AgentID    uuid.UUID `json:"agent_id"`
	BranchID   uuid.UUID `json:"branch_id"`

	Status ContractStatusType `json:"status"`

	HasBrokeringContract        bool `json:"has_brokering_contract"`
	HasRentalManagementContract bool `json:"has_rental_management_contract"`
	// HasRentalContract is true iff RentalMeta represents a non-"new" lease.
	// It is maintained by the lifecycle service, never set directly.
	HasRentalContract bool `json:"has_rental_contract"`

	BrokeringCommissionCents  int64 `json:"brokering_commission_cents"`
	ManagementCommissionCents int64 `json:"management_commission_cents"`

	EnabledESigning         bool           `json:"enabled_e_signing"`
	AssignmentSigningStatus []SignerStatus `json:"assignment_signing_status"`

	RentalMeta *RentalMeta `json:"rental_meta,omitempty"`

	// RentalMetaHistory holds the closed lease facets of a reused contract.
	// Entries are immutable once appended.
	RentalMetaHistory []RentalMeta `json:"rental_meta_history"`

	// History is the shared append-only change log of both facets,
	// filtered by entry name for reporting.
	History []HistoryEntry `json:"history"`

	EvictionCases []EvictionCase `json:"eviction_cases"`

	Addons []Addon `json:"addons"`

	// LeaseSerial increments each time a broker partner reuses the
	// contract for a new lease on the same property.
	LeaseSerial int `json:"lease_serial"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Contract) GetID() string {
	return c.ID.String()
}

// LastHistoryFor returns the most recent history entry recorded under the
// given field name, or nil if the field has never been recorded.
func (c *Contract) LastHistoryFor(name string) *HistoryEntry {
	for i := len(c.History) - 1; i >= 0; i-- {
		if c.History[i].Name == name {
			return &c.History[i]
		}
	}
	return nil
}

// AssignmentAddonTotalCents sums the totals of assignment-type addons.
func (c *Contract) AssignmentAddonTotalCents() int64 {
	var sum int64
	for _, a := range c.Addons {
		if a.Type == AddonTypeAssignment {
			sum += a.TotalCents
		}
	}
	return sum
}

// EvictionCaseByInvoiceID finds the case whose invoice set contains the
// given invoice. Returns the index into EvictionCases, or -1.
func (c *Contract) EvictionCaseByInvoiceID(invoiceID uuid.UUID) int {
	for i := range c.EvictionCases {
		for _, id := range c.EvictionCases[i].EvictionInvoiceIDs {
			if id == invoiceID {
				return i
			}
		}
	}
	return -1
}
