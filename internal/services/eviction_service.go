package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/constants"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/repositories"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/utils"
)

// EvictionService owns the per-contract eviction sub-ledger. Cases are
// created when an overdue invoice has crossed the due-reminder threshold
// and reconciled on every payment event. The case amount must always equal
// the sum of invoice totals over its invoice set; reconciliation that would
// drive an amount negative is rejected as ledger corruption rather than
// clamped.
type EvictionService struct {
	contractRepo repositories.ContractRepository
	invoiceRepo  repositories.InvoiceRepository
	now          func() time.Time
}

func NewEvictionService(contractRepo repositories.ContractRepository, invoiceRepo repositories.InvoiceRepository) *EvictionService {
	return &EvictionService{
		contractRepo: contractRepo,
		invoiceRepo:  invoiceRepo,
		now:          time.Now,
	}
}

// OpenCaseForInvoice escalates one overdue invoice: all of the tenant's
// eviction-eligible invoices on the same contract and property are swept
// into a single new case whose amount is their summed totals.
func (s *EvictionService) OpenCaseForInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.EvictionCase, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, &utils.AppError{StatusCode: http.StatusNotFound, Code: utils.ErrCodeNotFound, Message: "Invoice not found", Err: utils.ErrInvoiceNotFound}
	}
	if !invoice.EligibleForEviction() {
		return nil, &utils.AppError{StatusCode: http.StatusConflict, Code: utils.ErrCodeInvalidState, Message: "Invoice is not eligible for eviction escalation", Err: utils.ErrInvalidStateForOperation}
	}

	pending, err := s.invoiceRepo.FindEvictionEligibleForTenant(ctx, invoice.ContractID, invoice.PropertyID, invoice.TenantID)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		pending = []*models.Invoice{invoice}
	}

	var amount int64
	invoiceIDs := make([]uuid.UUID, 0, len(pending))
	for _, inv := range pending {
		amount += inv.InvoiceTotalCents
		invoiceIDs = append(invoiceIDs, inv.ID)
	}

	newCase := models.EvictionCase{
		ID:                 uuid.New(),
		InvoiceID:          invoice.ID,
		TenantID:           invoice.TenantID,
		AgentID:            invoice.AgentID,
		Status:             models.EvictionCaseStatusNew,
		AmountCents:        amount,
		EvictionInvoiceIDs: invoiceIDs,
		LeaseSerial:        invoice.LeaseSerial,
		CreatedAt:          s.now(),
	}

	err = s.contractRepo.UpdateWithRetry(ctx, invoice.ContractID, func(c *models.Contract) error {
		// Another scan run may have swept these invoices already.
		for _, id := range invoiceIDs {
			if c.EvictionCaseByInvoiceID(id) >= 0 {
				return &utils.AppError{StatusCode: http.StatusConflict, Code: utils.ErrCodeConflict, Message: "An eviction case already covers this invoice", Err: utils.ErrInvalidStateForOperation}
			}
		}
		cases := make([]models.EvictionCase, len(c.EvictionCases), len(c.EvictionCases)+1)
		copy(cases, c.EvictionCases)
		c.EvictionCases = append(cases, newCase)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.MarkEvictionPending(ctx, invoiceIDs, true); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to flag invoices as eviction-pending for case %s", newCase.ID)
	}
	return &newCase, nil
}

// ReconcilePayment applies a payment event to the case holding the invoice.
//
// A new case fully covered by this single payment is removed outright. Any
// other case is decremented: the invoice leaves the case's invoice set, the
// amount drops by the paid amount, and has-paid is re-derived from the
// updated ledger state. The whole eviction_cases array is rewritten under
// the contract's optimistic lock, so two near-simultaneous payments on the
// same contract serialize instead of clobbering each other.
func (s *EvictionService) ReconcilePayment(ctx context.Context, contractID, invoiceID uuid.UUID, paidAmountCents int64) error {
	var removed *models.EvictionCase
	err := s.contractRepo.UpdateWithRetry(ctx, contractID, func(c *models.Contract) error {
		removed = nil
		idx := c.EvictionCaseByInvoiceID(invoiceID)
		if idx < 0 {
			// Payment on an invoice with no open case is a normal event.
			return nil
		}
		cs := c.EvictionCases[idx]

		if cs.Status == models.EvictionCaseStatusNew && cs.AmountCents <= paidAmountCents {
			// Fully covered by this single payment: pull the whole case.
			cases := make([]models.EvictionCase, 0, len(c.EvictionCases)-1)
			cases = append(cases, c.EvictionCases[:idx]...)
			cases = append(cases, c.EvictionCases[idx+1:]...)
			c.EvictionCases = cases
			removed = &cs
			return nil
		}

		if cs.AmountCents-paidAmountCents < 0 {
			utils.Logger.Errorf("Eviction case %s on contract %s would go negative (amount=%d, paid=%d)",
				cs.ID, c.ID, cs.AmountCents, paidAmountCents)
			return &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Payment could not be reconciled", Err: utils.ErrEvictionLedgerCorrupted}
		}

		cases := make([]models.EvictionCase, len(c.EvictionCases))
		copy(cases, c.EvictionCases)
		cs = cases[idx]
		cs.EvictionInvoiceIDs = pullInvoiceID(cs.EvictionInvoiceIDs, invoiceID)
		cs.AmountCents -= paidAmountCents
		cases[idx] = cs
		c.EvictionCases = cases

		// Has-paid is re-derived from the updated ledger, not flipped
		// locally: it holds only if some case still carries this invoice
		// with exactly the paid amount remaining.
		cases[idx].HasPaid = hasCaseMatching(c.EvictionCases, invoiceID, paidAmountCents)
		return nil
	})
	if err != nil {
		return err
	}
	if removed != nil {
		if err := s.invoiceRepo.MarkEvictionPending(ctx, removed.EvictionInvoiceIDs, false); err != nil {
			utils.Logger.WithError(err).Errorf("Failed to clear eviction-pending flags for removed case %s", removed.ID)
		}
	}
	return nil
}

// ValidateCaseAmounts audits the amount invariant for every case on a
// contract: each amount must equal the summed invoice totals over its
// invoice set. Used at escalation time and by reconciliation reports.
func (s *EvictionService) ValidateCaseAmounts(ctx context.Context, c *models.Contract) error {
	for _, cs := range c.EvictionCases {
		var sum int64
		for _, id := range cs.EvictionInvoiceIDs {
			inv, err := s.invoiceRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if inv == nil {
				return utils.ErrInvoiceNotFound
			}
			sum += inv.InvoiceTotalCents
		}
		if sum != cs.AmountCents {
			utils.Logger.Errorf("Eviction case %s on contract %s is out of balance: amount=%d, invoices=%d",
				cs.ID, c.ID, cs.AmountCents, sum)
			return utils.ErrEvictionLedgerCorrupted
		}
	}
	return nil
}

// ScanAndEscalate walks all eviction-eligible invoices and opens cases for
// them, one per contract/tenant group. Called from the scheduled job; the
// due-reminder trigger itself lives in the invoicing system.
func (s *EvictionService) ScanAndEscalate(ctx context.Context) (int, error) {
	eligible, err := s.invoiceRepo.FindEvictionEligible(ctx)
	if err != nil {
		return 0, err
	}

	type groupKey struct {
		contractID uuid.UUID
		tenantID   uuid.UUID
	}
	seen := make(map[groupKey]bool)
	opened := 0
	for _, inv := range eligible {
		key := groupKey{inv.ContractID, inv.TenantID}
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, err := s.OpenCaseForInvoice(ctx, inv.ID); err != nil {
			utils.Logger.WithError(err).Warnf("Skipped eviction escalation for invoice %s (%s)", inv.ID, constants.ReasonEvictionScan)
			continue
		}
		opened++
	}
	return opened, nil
}

func pullInvoiceID(ids []uuid.UUID, target uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

func hasCaseMatching(cases []models.EvictionCase, invoiceID uuid.UUID, amountCents int64) bool {
	for _, cs := range cases {
		if cs.AmountCents == amountCents && cs.ContainsInvoice(invoiceID) {
			return true
		}
	}
	return false
}
