package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
)

// CreateAssignmentRequest opens a new contract for a property: the
// landlord/broker assignment facet, with an empty lease facet.
type CreateAssignmentRequest struct {
	PartnerID  uuid.UUID `json:"partner_id" validate:"required"`
	PropertyID uuid.UUID `json:"property_id" validate:"required"`
	AccountID  uuid.UUID `json:"account_id" validate:"required"`
	AgentID    uuid.UUID `json:"agent_id" validate:"required"`
	BranchID   uuid.UUID `json:"branch_id" validate:"required"`

	HasBrokeringContract        bool  `json:"has_brokering_contract"`
	HasRentalManagementContract bool  `json:"has_rental_management_contract"`
	BrokeringCommissionCents    int64 `json:"brokering_commission_cents" validate:"gte=0"`
	ManagementCommissionCents   int64 `json:"management_commission_cents" validate:"gte=0"`

	EnabledESigning bool `json:"enabled_e_signing"`
}

// CreateLeaseRequest adds the tenant-facing lease facet to a contract.
type CreateLeaseRequest struct {
	TenantID    *uuid.UUID  `json:"tenant_id,omitempty"`
	CoTenantIDs []uuid.UUID `json:"co_tenant_ids,omitempty"`

	ContractStartDate time.Time  `json:"contract_start_date" validate:"required"`
	ContractEndDate   *time.Time `json:"contract_end_date,omitempty"`

	MonthlyRentCents   int64              `json:"monthly_rent_cents" validate:"gt=0"`
	DepositType        models.DepositType `json:"deposit_type" validate:"required,oneof=no_deposit deposit_account deposit_insurance external_deposit"`
	DepositAmountCents int64              `json:"deposit_amount_cents" validate:"gte=0"`

	EnabledESigning            bool `json:"enabled_e_signing"`
	EnabledJointlyLiable       bool `json:"enabled_jointly_liable"`
	EnabledJointDepositAccount bool `json:"enabled_joint_deposit_account"`

	CPIEnabled bool `json:"cpi_enabled"`
}

// TerminateLeaseRequest schedules (or immediately applies) a lease
// termination.
type TerminateLeaseRequest struct {
	ContractEndDate   time.Time `json:"contract_end_date" validate:"required"`
	TerminatedBy      uuid.UUID `json:"terminated_by" validate:"required"`
	TerminateReasons  *string   `json:"terminate_reasons,omitempty"`
	TerminateComments *string   `json:"terminate_comments,omitempty"`
}

// CancelLeaseRequest cancels a lease that has not activated yet.
type CancelLeaseRequest struct {
	CancelledBy uuid.UUID `json:"cancelled_by" validate:"required"`
}

// CancelTerminationRequest undoes a scheduled termination before its end
// date passes. A new end date may be supplied; nil reverts to open-ended.
type CancelTerminationRequest struct {
	ContractEndDate *time.Time `json:"contract_end_date,omitempty"`
}

// SignerUpdateRequest records an e-signing callback for one signer.
type SignerUpdateRequest struct {
	PartyID                   uuid.UUID `json:"party_id" validate:"required"`
	Facet                     string    `json:"facet" validate:"required,oneof=assignment lease_tenant lease_landlord"`
	Signed                    bool      `json:"signed"`
	IdfyAttachmentID          *string   `json:"idfy_attachment_id,omitempty"`
	DepositAccountNumber      *string   `json:"deposit_account_number,omitempty"`
	JointDepositAccountNumber *string   `json:"joint_deposit_account_number,omitempty"`
}

// ContractResponse is the read view of a contract with its derived signing
// aggregate attached.
type ContractResponse struct {
	Contract *models.Contract `json:"contract"`
	Signing  any              `json:"signing,omitempty"`
}

// HistoryResponse returns the change-log entries for one field name.
type HistoryResponse struct {
	Name    string                `json:"name"`
	Entries []models.HistoryEntry `json:"entries"`
}
