package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/constants"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/dtos"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/repositories"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/utils"
)

// ContractLifecycleService owns the dual status model: the assignment facet
// and the lease facet each walk new → upcoming → in_progress → active →
// closed, and a coupling guard keeps the two sides consistent before any
// transition commits. All writes go through the contract repository's
// optimistic-lock retry loop so guard evaluation, history append and facet
// mutation land as one atomic read-modify-write.
type ContractLifecycleService struct {
	contractRepo repositories.ContractRepository
	partnerRepo  repositories.PartnerSettingsRepository
	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

func NewContractLifecycleService(contractRepo repositories.ContractRepository, partnerRepo repositories.PartnerSettingsRepository) *ContractLifecycleService {
	return &ContractLifecycleService{
		contractRepo: contractRepo,
		partnerRepo:  partnerRepo,
		now:          time.Now,
	}
}

// CreateAssignment opens a new contract: assignment facet upcoming, lease
// facet new. Signer sub-records for agent and landlord are prepared when
// e-signing is enabled.
func (s *ContractLifecycleService) CreateAssignment(ctx context.Context, req *dtos.CreateAssignmentRequest) (*models.Contract, error) {
	partner, err := s.loadPartner(ctx, req.PartnerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	c := &models.Contract{
		ID:         uuid.New(),
		PartnerID:  req.PartnerID,
		PropertyID: req.PropertyID,
		AccountID:  req.AccountID,
		AgentID:    req.AgentID,
		BranchID:   req.BranchID,
		Status:     models.ContractStatusUpcoming,

		HasBrokeringContract:        req.HasBrokeringContract,
		HasRentalManagementContract: req.HasRentalManagementContract,
		BrokeringCommissionCents:    req.BrokeringCommissionCents,
		ManagementCommissionCents:   req.ManagementCommissionCents,

		EnabledESigning: req.EnabledESigning,
		RentalMeta:      &models.RentalMeta{Status: models.ContractStatusNew, CreatedAt: now},
		LeaseSerial:     1,
		CreatedAt:       now,
	}
	if req.EnabledESigning {
		c.AssignmentSigningStatus = []models.SignerStatus{
			{TenantID: req.AgentID},
			{TenantID: req.AccountID},
		}
	}
	AppendHistoryEntry(c, partner.Timezone, constants.HistoryFieldStatus, "", string(c.Status), now)

	if err := s.contractRepo.Create(ctx, c); err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to create contract", Err: err}
	}
	return c, nil
}

// CreateLease fills the lease facet of an existing contract. The facet must
// still be new; with e-signing the lease enters in_progress, otherwise it
// activates immediately or waits as upcoming depending on the start date.
func (s *ContractLifecycleService) CreateLease(ctx context.Context, contractID uuid.UUID, req *dtos.CreateLeaseRequest) (*models.Contract, error) {
	var updated *models.Contract
	err := s.update(ctx, contractID, func(c *models.Contract, partner *models.PartnerSettings) error {
		if c.RentalMeta == nil || c.RentalMeta.Status != models.ContractStatusNew {
			return invalidState("contract already holds a lease")
		}
		if c.Status != models.ContractStatusUpcoming && c.Status != models.ContractStatusInProgress && c.Status != models.ContractStatusActive {
			return invalidState("contract is not open for a lease")
		}
		if req.CPIEnabled && !partner.EnabledCPISettlement {
			return featureDisabled("CPI settlement is not enabled for this partner")
		}
		if req.EnabledJointDepositAccount && !partner.EnabledDepositAccount {
			return featureDisabled("deposit accounts are not enabled for this partner")
		}

		// A direct partner may hold only one upcoming lease without an
		// assigned tenant per property.
		if !partner.ReusesContract() && req.TenantID == nil {
			conflict, err := s.contractRepo.FindUpcomingLeaseWithoutTenant(ctx, c.PartnerID, c.PropertyID)
			if err != nil {
				return err
			}
			if conflict != nil && conflict.ID != c.ID {
				return &utils.AppError{StatusCode: http.StatusConflict, Code: utils.ErrCodeConflict, Message: "Another upcoming lease without a tenant already exists", Err: utils.ErrUpcomingContractConflict}
			}
		}

		now := s.now()
		today := utils.ActualDateOnly(partner.Timezone, now)

		meta := c.RentalMeta
		meta.TenantID = req.TenantID
		meta.CoTenantIDs = req.CoTenantIDs
		meta.ContractStartDate = req.ContractStartDate
		meta.ContractEndDate = req.ContractEndDate
		meta.MonthlyRentCents = req.MonthlyRentCents
		meta.DepositType = req.DepositType
		meta.DepositAmountCents = req.DepositAmountCents
		meta.EnabledESigning = req.EnabledESigning
		meta.EnabledJointlyLiable = req.EnabledJointlyLiable
		meta.EnabledJointDepositAccount = req.EnabledJointDepositAccount
		meta.LeaseSerial = c.LeaseSerial

		switch {
		case req.EnabledESigning:
			meta.Status = models.ContractStatusInProgress
		case req.ContractStartDate.After(today):
			meta.Status = models.ContractStatusUpcoming
		default:
			meta.Status = models.ContractStatusActive
		}

		if req.EnabledESigning {
			signers := make([]models.SignerStatus, 0, len(req.CoTenantIDs)+1)
			if req.TenantID != nil {
				signers = append(signers, models.SignerStatus{TenantID: *req.TenantID})
			}
			for _, id := range req.CoTenantIDs {
				signers = append(signers, models.SignerStatus{TenantID: id})
			}
			meta.TenantLeaseSigningStatus = signers
			meta.LandlordLeaseSigningStatus = &models.SignerStatus{TenantID: c.AccountID}
		}

		if req.CPIEnabled {
			meta.CPIEnabled = true
			start := req.ContractStartDate
			next := start.AddDate(0, constants.CPIIntervalMonths, 0)
			meta.LastCPIDate = &start
			meta.NextCPIDate = &next
			AppendHistoryEntry(c, partner.Timezone, constants.HistoryFieldCPIDate, "", next.Format(time.DateOnly), now)
		}

		AppendHistoryEntry(c, partner.Timezone, constants.HistoryFieldLeaseStatus, string(models.ContractStatusNew), string(meta.Status), now)
		AppendHistoryEntry(c, partner.Timezone, constants.HistoryFieldMonthlyRent, "", FormatCents(meta.MonthlyRentCents), now)
		if meta.DepositAmountCents > 0 {
			AppendHistoryEntry(c, partner.Timezone, constants.HistoryFieldDepositAmount, "", FormatCents(meta.DepositAmountCents), now)
		}

		s.syncDerivedFlags(c)
		s.syncAssignmentStatus(c, partner, now)
		updated = c
		return s.validateStatusCoupling(c)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// TerminateLease validates and applies a termination. The end date may not
// precede the lease start nor overlap an upcoming successor on the same
// property. A past or same-day end date closes the lease immediately;
// otherwise the termination is scheduled and the finalizer job closes it
// once the date passes.
func (s *ContractLifecycleService) TerminateLease(ctx context.Context, contractID uuid.UUID, req *dtos.TerminateLeaseRequest) (*models.Contract, error) {
	var updated *models.Contract
	err := s.update(ctx, contractID, func(c *models.Contract, partner *models.PartnerSettings) error {
		meta := c.RentalMeta
		if meta == nil || meta.Status != models.ContractStatusActive {
			return invalidState("only an active lease can be terminated")
		}
		if err := s.validateTerminationDate(ctx, c, req.ContractEndDate); err != nil {
			return err
		}

		now := s.now()
		endDate := req.ContractEndDate
		meta.TerminatedBy = &req.TerminatedBy
		meta.TerminateReasons = req.TerminateReasons
		meta.TerminateComments = req.TerminateComments
		meta.ContractEndDate = &endDate

		AppendHistoryEntry(c, partner.Timezone, constants.HistoryFieldTerminatedBy, "", req.TerminatedBy.String(), now)

		today := utils.ActualDateOnly(partner.Timezone, now)
		if !endDate.After(today) {
			AppendHistoryEntry(c, partner.Timezone, constants.HistoryFieldLeaseStatus, string(meta.Status), string(models.ContractStatusClosed), now)
			s.closeLease(c, partner, now, false, nil)
		}

		s.syncDerivedFlags(c)
		updated = c
		return s.validateStatusCoupling(c)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CancelLease aborts a lease before activation. Broker partners keep the
// contract: the facet is archived into rental meta history with a
// cancellation stamp and replaced by a fresh new facet. Direct partners
// close the whole contract.
func (s *ContractLifecycleService) CancelLease(ctx context.Context, contractID uuid.UUID, req *dtos.CancelLeaseRequest) (*models.Contract, error) {
	var updated *models.Contract
	err := s.update(ctx, contractID, func(c *models.Contract, partner *models.PartnerSettings) error {
		meta := c.RentalMeta
		if meta == nil || meta.Status == models.ContractStatusNew {
			return invalidState("no lease to cancel")
		}
		if c.Status != models.ContractStatusUpcoming && c.Status != models.ContractStatusInProgress {
			return invalidState("contract status does not allow lease cancellation")
		}

		now := s.now()
		AppendHistoryEntry(c, partner.Timezone, constants.HistoryFieldLeaseStatus, string(meta.Status), string(models.ContractStatusClosed), now)
		s.closeLease(c, partner, now, true, &req.CancelledBy)

		s.syncDerivedFlags(c)
		updated = c
		return s.validateStatusCoupling(c)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CancelTermination undoes a scheduled termination before its end date has
// passed, re-validating any replacement end date against the same overlap
// guard as termination.
func (s *ContractLifecycleService) CancelTermination(ctx context.Context, contractID uuid.UUID, req *dtos.CancelTerminationRequest) (*models.Contract, error) {
	var updated *models.Contract
	err := s.update(ctx, contractID, func(c *models.Contract, partner *models.PartnerSettings) error {
		meta := c.RentalMeta
		if meta == nil || meta.Status != models.ContractStatusActive || meta.TerminatedBy == nil {
			return invalidState("no scheduled termination to cancel")
		}
		if req.ContractEndDate != nil {
			if err := s.validateTerminationDate(ctx, c, *req.ContractEndDate); err != nil {
				return err
			}
		}

		now := s.now()
		meta.TerminatedBy = nil
		meta.TerminateReasons = nil
		meta.TerminateComments = nil
		meta.ContractEndDate = req.ContractEndDate

		AppendHistoryEntry(c, partner.Timezone, constants.HistoryFieldTerminatedBy, "", "", now)

		updated = c
		return s.validateStatusCoupling(c)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// TerminateAssignment closes the assignment facet. An open lease blocks it:
// the lease side must be closed (or never created) first.
func (s *ContractLifecycleService) TerminateAssignment(ctx context.Context, contractID uuid.UUID) (*models.Contract, error) {
	var updated *models.Contract
	err := s.update(ctx, contractID, func(c *models.Contract, partner *models.PartnerSettings) error {
		if c.Status == models.ContractStatusClosed {
			return invalidState("contract is already closed")
		}
		if c.HasRentalContract && c.RentalMeta != nil && c.RentalMeta.Status != models.ContractStatusClosed {
			return invalidState("an open lease blocks assignment termination")
		}

		now := s.now()
		AppendHistoryEntry(c, partner.Timezone, constants.HistoryFieldStatus, string(c.Status), string(models.ContractStatusClosed), now)
		c.Status = models.ContractStatusClosed

		updated = c
		return s.validateStatusCoupling(c)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RecordSignerUpdate ingests an e-signing callback, updates the matching
// signer sub-record and re-derives facet statuses: a fully signed
// assignment activates, and a fully signed lease activates unless the
// deposit-account gating still holds it.
func (s *ContractLifecycleService) RecordSignerUpdate(ctx context.Context, contractID uuid.UUID, req *dtos.SignerUpdateRequest) (*models.Contract, error) {
	var updated *models.Contract
	err := s.update(ctx, contractID, func(c *models.Contract, partner *models.PartnerSettings) error {
		now := s.now()
		switch req.Facet {
		case "assignment":
			if !applySignerUpdate(c.AssignmentSigningStatus, req) {
				return invalidState("unknown assignment signer")
			}
		case "lease_tenant":
			if c.RentalMeta == nil || !applySignerUpdate(c.RentalMeta.TenantLeaseSigningStatus, req) {
				return invalidState("unknown lease signer")
			}
		case "lease_landlord":
			if c.RentalMeta == nil || c.RentalMeta.LandlordLeaseSigningStatus == nil ||
				c.RentalMeta.LandlordLeaseSigningStatus.TenantID != req.PartyID {
				return invalidState("unknown landlord signer")
			}
			applySignerUpdateOne(c.RentalMeta.LandlordLeaseSigningStatus, req, now)
		default:
			return invalidState("unknown signing facet")
		}
		if req.Facet != "lease_landlord" && req.Signed {
			stampSignedAt(c, req, now)
		}
		if req.JointDepositAccountNumber != nil && c.RentalMeta != nil {
			c.RentalMeta.JointDepositAccountNumber = req.JointDepositAccountNumber
		}

		s.syncAssignmentStatus(c, partner, now)
		s.syncLeaseStatus(c, partner, now)
		s.syncDerivedFlags(c)
		updated = c
		return s.validateStatusCoupling(c)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// FinalizeDueTerminations closes every active lease whose scheduled
// termination end date has passed. Called from the scheduled job.
func (s *ContractLifecycleService) FinalizeDueTerminations(ctx context.Context) (int, error) {
	due, err := s.contractRepo.FindDueScheduledTerminations(ctx, s.now())
	if err != nil {
		return 0, err
	}
	closed := 0
	for _, candidate := range due {
		err := s.update(ctx, candidate.ID, func(c *models.Contract, partner *models.PartnerSettings) error {
			meta := c.RentalMeta
			if meta == nil || meta.Status != models.ContractStatusActive || meta.TerminatedBy == nil || meta.ContractEndDate == nil {
				// Raced with a cancel-termination; nothing to do.
				return nil
			}
			now := s.now()
			today := utils.ActualDateOnly(partner.Timezone, now)
			if meta.ContractEndDate.After(today) {
				return nil
			}
			AppendHistoryEntry(c, partner.Timezone, constants.HistoryFieldLeaseStatus, string(meta.Status), string(models.ContractStatusClosed), now)
			s.closeLease(c, partner, now, false, nil)
			s.syncDerivedFlags(c)
			return s.validateStatusCoupling(c)
		})
		if err != nil {
			utils.Logger.WithError(err).Errorf("Failed to finalize termination for contract %s", candidate.ID)
			continue
		}
		closed++
	}
	return closed, nil
}

// GetContract returns the aggregate with its derived signing view.
func (s *ContractLifecycleService) GetContract(ctx context.Context, contractID uuid.UUID) (*models.Contract, *SigningAggregate, error) {
	c, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, nil, err
	}
	if c == nil {
		return nil, nil, notFound()
	}
	partner, err := s.loadPartner(ctx, c.PartnerID)
	if err != nil {
		return nil, nil, err
	}
	agg := DeriveSigningAggregate(c.RentalMeta, partner)
	return c, &agg, nil
}

/* ───────────── internal helpers ───────────── */

func (s *ContractLifecycleService) update(ctx context.Context, contractID uuid.UUID, mutate func(*models.Contract, *models.PartnerSettings) error) error {
	err := s.contractRepo.UpdateWithRetry(ctx, contractID, func(c *models.Contract) error {
		partner, err := s.loadPartner(ctx, c.PartnerID)
		if err != nil {
			return err
		}
		return mutate(c, partner)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound()
	}
	return err
}

func (s *ContractLifecycleService) loadPartner(ctx context.Context, partnerID uuid.UUID) (*models.PartnerSettings, error) {
	partner, err := s.partnerRepo.GetByPartnerID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, &utils.AppError{StatusCode: http.StatusNotFound, Code: utils.ErrCodeNotFound, Message: "Partner settings not found", Err: utils.ErrPartnerNotFound}
	}
	return partner, nil
}

// validateTerminationDate enforces the two date rules shared by terminate
// and cancel-termination: no end before the lease start, and at least
// one day of daylight before any upcoming successor lease on the property.
func (s *ContractLifecycleService) validateTerminationDate(ctx context.Context, c *models.Contract, endDate time.Time) error {
	meta := c.RentalMeta
	if endDate.Before(meta.ContractStartDate) {
		return &utils.AppError{StatusCode: http.StatusBadRequest, Code: utils.ErrCodeValidation, Message: "Contract end date cannot precede the lease start date", Err: utils.ErrInvalidTermination}
	}
	successors, err := s.contractRepo.FindUpcomingLeasesByProperty(ctx, c.PropertyID, c.ID)
	if err != nil {
		return err
	}
	for _, succ := range successors {
		if succ.RentalMeta == nil {
			continue
		}
		latestAllowed := succ.RentalMeta.ContractStartDate.AddDate(0, 0, -constants.SuccessorGapDays)
		if endDate.After(latestAllowed) {
			return &utils.AppError{StatusCode: http.StatusBadRequest, Code: utils.ErrCodeValidation, Message: "Termination date overlaps an upcoming lease on this property", Err: utils.ErrOverlappingContractPeriod}
		}
	}
	return nil
}

// closeLease closes the lease facet. For reusing (broker) partners the
// closed facet is archived into rental meta history and replaced by a fresh
// new facet for the next lease; for direct partners the contract closes
// with it. Archived facets are never mutated again.
func (s *ContractLifecycleService) closeLease(c *models.Contract, partner *models.PartnerSettings, now time.Time, cancelled bool, cancelledBy *uuid.UUID) {
	meta := c.RentalMeta
	meta.Status = models.ContractStatusClosed
	if cancelled {
		meta.Cancelled = true
		meta.CancelledAt = &now
		meta.CancelledBy = cancelledBy
	}
	meta.NextCPIDate = nil

	if partner.ReusesContract() {
		c.RentalMetaHistory = append(c.RentalMetaHistory, *meta)
		c.LeaseSerial++
		c.RentalMeta = &models.RentalMeta{
			Status:      models.ContractStatusNew,
			LeaseSerial: c.LeaseSerial,
			CreatedAt:   now,
		}
	} else {
		c.Status = models.ContractStatusClosed
	}
}

// syncDerivedFlags maintains the invariant that HasRentalContract is true
// iff the lease facet represents a non-new lease.
func (s *ContractLifecycleService) syncDerivedFlags(c *models.Contract) {
	c.HasRentalContract = c.RentalMeta != nil && c.RentalMeta.Status != models.ContractStatusNew
}

// syncAssignmentStatus advances the assignment facet off the back of
// signing progress: with e-signing the facet moves through in_progress to
// active as signers complete; without it, activation requires that no
// signer is pending.
func (s *ContractLifecycleService) syncAssignmentStatus(c *models.Contract, partner *models.PartnerSettings, now time.Time) {
	if c.Status != models.ContractStatusUpcoming && c.Status != models.ContractStatusInProgress {
		return
	}
	if c.EnabledESigning {
		pending := false
		signedAll := len(c.AssignmentSigningStatus) > 0
		for _, sig := range c.AssignmentSigningStatus {
			if !sig.Signed {
				pending = true
				signedAll = false
			}
		}
		if signedAll {
			AppendHistoryEntry(c, partner.Timezone, constants.HistoryFieldStatus, string(c.Status), string(models.ContractStatusActive), now)
			c.Status = models.ContractStatusActive
		} else if pending && c.Status == models.ContractStatusUpcoming {
			AppendHistoryEntry(c, partner.Timezone, constants.HistoryFieldStatus, string(c.Status), string(models.ContractStatusInProgress), now)
			c.Status = models.ContractStatusInProgress
		}
		return
	}
	// Without e-signing, activation only requires that nothing is pending.
	for _, sig := range c.AssignmentSigningStatus {
		if !sig.Signed {
			return
		}
	}
	if c.HasRentalContract {
		AppendHistoryEntry(c, partner.Timezone, constants.HistoryFieldStatus, string(c.Status), string(models.ContractStatusActive), now)
		c.Status = models.ContractStatusActive
	}
}

// syncLeaseStatus activates an in_progress lease once every required signer
// has signed and the deposit-account gating is satisfied.
func (s *ContractLifecycleService) syncLeaseStatus(c *models.Contract, partner *models.PartnerSettings, now time.Time) {
	meta := c.RentalMeta
	if meta == nil || meta.Status != models.ContractStatusInProgress {
		return
	}
	if !IsAllTenantsSigned(meta) || !IsLandlordSigned(meta) {
		return
	}
	if IsDocumentPreparing(meta, partner) || IsTenantWaiting(meta, partner) {
		return
	}
	today := utils.ActualDateOnly(partner.Timezone, now)
	next := models.ContractStatusActive
	if meta.ContractStartDate.After(today) {
		next = models.ContractStatusUpcoming
	}
	AppendHistoryEntry(c, partner.Timezone, constants.HistoryFieldLeaseStatus, string(meta.Status), string(next), now)
	meta.Status = next
}

// validateStatusCoupling is the cross-guard run before any transition
// commits: the assignment side may not be closed while the lease side is
// still open.
func (s *ContractLifecycleService) validateStatusCoupling(c *models.Contract) error {
	if c.Status == models.ContractStatusClosed && c.RentalMeta != nil {
		switch c.RentalMeta.Status {
		case models.ContractStatusUpcoming, models.ContractStatusInProgress, models.ContractStatusActive:
			return invalidState("assignment cannot close while the lease is open")
		}
	}
	return nil
}

func applySignerUpdate(signers []models.SignerStatus, req *dtos.SignerUpdateRequest) bool {
	for i := range signers {
		if signers[i].TenantID == req.PartyID {
			signers[i].Signed = req.Signed
			if req.IdfyAttachmentID != nil {
				signers[i].IdfyAttachmentID = req.IdfyAttachmentID
			}
			if req.DepositAccountNumber != nil {
				signers[i].DepositAccountNumber = req.DepositAccountNumber
			}
			return true
		}
	}
	return false
}

func applySignerUpdateOne(signer *models.SignerStatus, req *dtos.SignerUpdateRequest, now time.Time) {
	signer.Signed = req.Signed
	if req.Signed {
		signer.SignedAt = &now
	}
	if req.IdfyAttachmentID != nil {
		signer.IdfyAttachmentID = req.IdfyAttachmentID
	}
}

func stampSignedAt(c *models.Contract, req *dtos.SignerUpdateRequest, now time.Time) {
	mark := func(signers []models.SignerStatus) {
		for i := range signers {
			if signers[i].TenantID == req.PartyID && signers[i].Signed {
				signers[i].SignedAt = &now
			}
		}
	}
	mark(c.AssignmentSigningStatus)
	if c.RentalMeta != nil {
		mark(c.RentalMeta.TenantLeaseSigningStatus)
	}
}

func invalidState(msg string) error {
	return &utils.AppError{StatusCode: http.StatusConflict, Code: utils.ErrCodeInvalidState, Message: msg, Err: utils.ErrInvalidStateForOperation}
}

func featureDisabled(msg string) error {
	return &utils.AppError{StatusCode: http.StatusForbidden, Code: utils.ErrCodeFeatureDisabled, Message: msg, Err: utils.ErrFeatureDisabled}
}

func notFound() error {
	return &utils.AppError{StatusCode: http.StatusNotFound, Code: utils.ErrCodeNotFound, Message: "Contract not found", Err: utils.ErrContractNotFound}
}
