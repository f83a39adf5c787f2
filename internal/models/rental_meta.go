package models

import (
	"time"

	"github.com/google/uuid"
)

// DepositType defines how the tenant's deposit is held.
type DepositType string

const (
	DepositTypeNone      DepositType = "no_deposit"
	DepositTypeAccount   DepositType = "deposit_account"
	DepositTypeGuarantee DepositType = "deposit_insurance"
	DepositTypeExternal  DepositType = "external_deposit"
)

// RentalMeta is the tenant-facing lease facet nested inside a Contract.
// A contract reused by a broker partner gets a fresh RentalMeta per lease;
// the closed facets accumulate in Contract.RentalMetaHistory.
type RentalMeta struct {
	Status ContractStatusType `json:"status"`

	TenantID    *uuid.UUID  `json:"tenant_id,omitempty"` // main tenant
	CoTenantIDs []uuid.UUID `json:"co_tenant_ids,omitempty"`

	ContractStartDate time.Time  `json:"contract_start_date"`
	ContractEndDate   *time.Time `json:"contract_end_date,omitempty"`

	MonthlyRentCents   int64       `json:"monthly_rent_cents"`
	DepositType        DepositType `json:"deposit_type"`
	DepositAmountCents int64       `json:"deposit_amount_cents"`

	EnabledESigning            bool `json:"enabled_e_signing"`
	EnabledJointlyLiable       bool `json:"enabled_jointly_liable"`
	EnabledJointDepositAccount bool `json:"enabled_joint_deposit_account"`

	TenantLeaseSigningStatus   []SignerStatus `json:"tenant_lease_signing_status"`
	LandlordLeaseSigningStatus *SignerStatus  `json:"landlord_lease_signing_status,omitempty"`

	// JointDepositAccountNumber is set once the shared deposit account has
	// been provisioned (JointSharedAccount mode only).
	JointDepositAccountNumber *string `json:"joint_deposit_account_number,omitempty"`

	TerminatedBy      *uuid.UUID `json:"terminated_by,omitempty"`
	TerminateReasons  *string    `json:"terminate_reasons,omitempty"`
	TerminateComments *string    `json:"terminate_comments,omitempty"`

	CPIEnabled  bool       `json:"cpi_enabled"`
	LastCPIDate *time.Time `json:"last_cpi_date,omitempty"`
	NextCPIDate *time.Time `json:"next_cpi_date,omitempty"`

	// Cancellation stamp, only meaningful on RentalMetaHistory entries.
	Cancelled   bool       `json:"cancelled,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy *uuid.UUID `json:"cancelled_by,omitempty"`

	LeaseSerial int       `json:"lease_serial"`
	CreatedAt   time.Time `json:"created_at"`
}

// SignerStatus is one per-signer sub-record of an e-signing workflow.
// TenantID is the signing party (a landlord or agent record reuses the
// same shape with its own party id).
type SignerStatus struct {
	TenantID             uuid.UUID  `json:"tenant_id"`
	Signed               bool       `json:"signed"`
	SignedAt             *time.Time `json:"signed_at,omitempty"`
	IdfyAttachmentID     *string    `json:"idfy_attachment_id,omitempty"`
	DepositAccountNumber *string    `json:"deposit_account_number,omitempty"`
}
