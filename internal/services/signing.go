package services

import (
	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
)

// DepositModeType names the liability/deposit-account combinations that gate
// the e-signing workflow. The four flag combinations collapse to three modes:
// a joint deposit account is only meaningful when the tenants are jointly
// liable.
type DepositModeType string

const (
	DepositModeIndividualLiability DepositModeType = "individual_liability"
	DepositModeJointNoSharedAccount DepositModeType = "joint_no_shared_account"
	DepositModeJointSharedAccount   DepositModeType = "joint_shared_account"
)

// DepositModeFor derives the mode from the lease flags. All four
// combinations are spelled out so the branches stay exhaustive.
func DepositModeFor(meta *models.RentalMeta) DepositModeType {
	switch {
	case meta.EnabledJointlyLiable && meta.EnabledJointDepositAccount:
		return DepositModeJointSharedAccount
	case meta.EnabledJointlyLiable && !meta.EnabledJointDepositAccount:
		return DepositModeJointNoSharedAccount
	case !meta.EnabledJointlyLiable && meta.EnabledJointDepositAccount:
		// A shared account without joint liability is not provisioned;
		// each tenant still gets an individual deposit account.
		return DepositModeIndividualLiability
	default:
		return DepositModeIndividualLiability
	}
}

// SigningAggregate is the derived e-signing completion view of a lease.
// It is recomputed on every read; nothing here is persisted.
type SigningAggregate struct {
	AllTenantsSigned  bool `json:"all_tenants_signed"`
	LandlordSigned    bool `json:"landlord_signed"`
	DocumentPreparing bool `json:"document_preparing"`
	TenantWaiting     bool `json:"tenant_waiting"`
}

// IsAllTenantsSigned reports whether every tenant signer sub-record is
// signed. A lease with no signer records at all is not "signed".
func IsAllTenantsSigned(meta *models.RentalMeta) bool {
	if meta == nil || len(meta.TenantLeaseSigningStatus) == 0 {
		return false
	}
	for _, s := range meta.TenantLeaseSigningStatus {
		if !s.Signed {
			return false
		}
	}
	return true
}

// IsLandlordSigned reports whether the landlord-side signer record exists
// and is signed.
func IsLandlordSigned(meta *models.RentalMeta) bool {
	return meta != nil && meta.LandlordLeaseSigningStatus != nil && meta.LandlordLeaseSigningStatus.Signed
}

// depositWorkflowEnabled gates the deposit-account steps: the partner must
// have the feature and the lease must actually hold a deposit account.
func depositWorkflowEnabled(meta *models.RentalMeta, partner *models.PartnerSettings) bool {
	return partner != nil && partner.EnabledDepositAccount && meta.DepositType == models.DepositTypeAccount
}

// IsDocumentPreparing reports whether the deposit-account workflow is still
// waiting on attachment files. In shared-account mode only the main tenant's
// attachment is required; otherwise every tenant signer needs one.
func IsDocumentPreparing(meta *models.RentalMeta, partner *models.PartnerSettings) bool {
	if meta == nil || !depositWorkflowEnabled(meta, partner) {
		return false
	}
	return !attachmentFilesReady(meta)
}

// IsTenantWaiting reports whether signing is complete but the deposit
// account step has not: the tenants have done their part and are waiting on
// account provisioning.
func IsTenantWaiting(meta *models.RentalMeta, partner *models.PartnerSettings) bool {
	if meta == nil || !depositWorkflowEnabled(meta, partner) {
		return false
	}
	if !IsAllTenantsSigned(meta) {
		return false
	}
	return !depositStepComplete(meta)
}

// DeriveSigningAggregate recomputes the full composite view.
func DeriveSigningAggregate(meta *models.RentalMeta, partner *models.PartnerSettings) SigningAggregate {
	return SigningAggregate{
		AllTenantsSigned:  IsAllTenantsSigned(meta),
		LandlordSigned:    IsLandlordSigned(meta),
		DocumentPreparing: IsDocumentPreparing(meta, partner),
		TenantWaiting:     IsTenantWaiting(meta, partner),
	}
}

func attachmentFilesReady(meta *models.RentalMeta) bool {
	if len(meta.TenantLeaseSigningStatus) == 0 {
		return false
	}
	if DepositModeFor(meta) == DepositModeJointSharedAccount {
		// Only the main tenant signs the shared account document.
		for _, s := range meta.TenantLeaseSigningStatus {
			if meta.TenantID != nil && s.TenantID == *meta.TenantID {
				return s.IdfyAttachmentID != nil
			}
		}
		return false
	}
	for _, s := range meta.TenantLeaseSigningStatus {
		if s.IdfyAttachmentID == nil {
			return false
		}
	}
	return true
}

func depositStepComplete(meta *models.RentalMeta) bool {
	if DepositModeFor(meta) == DepositModeJointSharedAccount {
		return meta.JointDepositAccountNumber != nil
	}
	if len(meta.TenantLeaseSigningStatus) == 0 {
		return false
	}
	for _, s := range meta.TenantLeaseSigningStatus {
		if s.DepositAccountNumber == nil {
			return false
		}
	}
	return true
}
