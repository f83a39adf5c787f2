package dtos

import (
	"github.com/google/uuid"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
)

// OpenEvictionCaseRequest escalates an overdue invoice into an eviction
// case. The invoice must be overdue with its due reminder already sent.
type OpenEvictionCaseRequest struct {
	InvoiceID uuid.UUID `json:"invoice_id" validate:"required"`
}

// PaymentEventRequest is the payment notification the invoicing engine
// posts when money lands on an invoice that may belong to an eviction case.
type PaymentEventRequest struct {
	InvoiceID       uuid.UUID `json:"invoice_id" validate:"required"`
	PaidAmountCents int64     `json:"paid_amount_cents" validate:"gt=0"`
}

// CommissionChangeRequest notifies the core that a contract's landlord
// commission total moved (new landlord invoice or credit note).
type CommissionChangeRequest struct {
	OldCommissionTotalCents int64 `json:"old_commission_total_cents"`
	NewCommissionTotalCents int64 `json:"new_commission_total_cents"`
}

// AddonChangeRequest replaces a contract's addon line items. The
// assignment-type sum feeds the other-income recompute.
type AddonChangeRequest struct {
	Addons []models.Addon `json:"addons" validate:"required,dive"`
}

// ValidationErrorDetail describes one failed DTO field.
type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}
