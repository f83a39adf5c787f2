package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/utils"
)

func TestDepositModeForCoversAllFlagCombinations(t *testing.T) {
	cases := []struct {
		jointlyLiable bool
		jointAccount  bool
		want          DepositModeType
	}{
		{false, false, DepositModeIndividualLiability},
		{false, true, DepositModeIndividualLiability},
		{true, false, DepositModeJointNoSharedAccount},
		{true, true, DepositModeJointSharedAccount},
	}
	for _, tc := range cases {
		meta := &models.RentalMeta{
			EnabledJointlyLiable:       tc.jointlyLiable,
			EnabledJointDepositAccount: tc.jointAccount,
		}
		assert.Equal(t, tc.want, DepositModeFor(meta), "jointlyLiable=%t jointAccount=%t", tc.jointlyLiable, tc.jointAccount)
	}
}

func TestIsAllTenantsSigned(t *testing.T) {
	assert.False(t, IsAllTenantsSigned(nil))
	assert.False(t, IsAllTenantsSigned(&models.RentalMeta{}), "no signer records means not signed")

	meta := &models.RentalMeta{TenantLeaseSigningStatus: []models.SignerStatus{
		{TenantID: uuid.New(), Signed: true},
		{TenantID: uuid.New(), Signed: false},
	}}
	assert.False(t, IsAllTenantsSigned(meta))

	meta.TenantLeaseSigningStatus[1].Signed = true
	assert.True(t, IsAllTenantsSigned(meta))
}

func TestIsLandlordSigned(t *testing.T) {
	assert.False(t, IsLandlordSigned(&models.RentalMeta{}))
	meta := &models.RentalMeta{LandlordLeaseSigningStatus: &models.SignerStatus{TenantID: uuid.New()}}
	assert.False(t, IsLandlordSigned(meta))
	meta.LandlordLeaseSigningStatus.Signed = true
	assert.True(t, IsLandlordSigned(meta))
}

func TestDocumentPreparingRequiresDepositAccountWorkflow(t *testing.T) {
	partner := brokerPartner()
	meta := &models.RentalMeta{
		DepositType: models.DepositTypeGuarantee,
		TenantLeaseSigningStatus: []models.SignerStatus{
			{TenantID: uuid.New(), Signed: true},
		},
	}
	// Deposit insurance never enters the attachment workflow.
	assert.False(t, IsDocumentPreparing(meta, partner))

	meta.DepositType = models.DepositTypeAccount
	assert.True(t, IsDocumentPreparing(meta, partner), "missing attachment keeps the document preparing")

	meta.TenantLeaseSigningStatus[0].IdfyAttachmentID = utils.Ptr("att-1")
	assert.False(t, IsDocumentPreparing(meta, partner))
}

func TestDocumentPreparingSharedAccountOnlyNeedsMainTenantAttachment(t *testing.T) {
	partner := brokerPartner()
	main := uuid.New()
	co := uuid.New()
	meta := &models.RentalMeta{
		DepositType:                models.DepositTypeAccount,
		EnabledJointlyLiable:       true,
		EnabledJointDepositAccount: true,
		TenantID:                   &main,
		TenantLeaseSigningStatus: []models.SignerStatus{
			{TenantID: main, Signed: true},
			{TenantID: co, Signed: true},
		},
	}
	assert.True(t, IsDocumentPreparing(meta, partner))

	// The co-tenant's attachment is irrelevant in shared mode.
	meta.TenantLeaseSigningStatus[1].IdfyAttachmentID = utils.Ptr("att-co")
	assert.True(t, IsDocumentPreparing(meta, partner))

	meta.TenantLeaseSigningStatus[0].IdfyAttachmentID = utils.Ptr("att-main")
	assert.False(t, IsDocumentPreparing(meta, partner))
}

func TestTenantWaitingUntilDepositAccountsProvisioned(t *testing.T) {
	partner := brokerPartner()
	meta := &models.RentalMeta{
		DepositType: models.DepositTypeAccount,
		TenantLeaseSigningStatus: []models.SignerStatus{
			{TenantID: uuid.New(), Signed: true, IdfyAttachmentID: utils.Ptr("att-1")},
		},
	}
	assert.True(t, IsTenantWaiting(meta, partner), "signed but no account number yet")

	meta.TenantLeaseSigningStatus[0].DepositAccountNumber = utils.Ptr("1234.56.78903")
	assert.False(t, IsTenantWaiting(meta, partner))
}

func TestTenantWaitingSharedAccountWaitsOnJointNumber(t *testing.T) {
	partner := brokerPartner()
	main := uuid.New()
	meta := &models.RentalMeta{
		DepositType:                models.DepositTypeAccount,
		EnabledJointlyLiable:       true,
		EnabledJointDepositAccount: true,
		TenantID:                   &main,
		TenantLeaseSigningStatus: []models.SignerStatus{
			{TenantID: main, Signed: true, IdfyAttachmentID: utils.Ptr("att-main")},
		},
	}
	assert.True(t, IsTenantWaiting(meta, partner))

	meta.JointDepositAccountNumber = utils.Ptr("9876.54.32109")
	assert.False(t, IsTenantWaiting(meta, partner))
}

func TestDeriveSigningAggregate(t *testing.T) {
	partner := directPartner()
	main := uuid.New()
	meta := &models.RentalMeta{
		DepositType: models.DepositTypeNone,
		TenantLeaseSigningStatus: []models.SignerStatus{
			{TenantID: main, Signed: true},
		},
		LandlordLeaseSigningStatus: &models.SignerStatus{TenantID: uuid.New(), Signed: true},
	}
	agg := DeriveSigningAggregate(meta, partner)
	assert.True(t, agg.AllTenantsSigned)
	assert.True(t, agg.LandlordSigned)
	assert.False(t, agg.DocumentPreparing)
	assert.False(t, agg.TenantWaiting)
}
