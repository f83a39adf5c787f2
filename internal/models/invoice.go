package models

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceKindType distinguishes tenant invoices from landlord invoices
// and their credit notes.
type InvoiceKindType string

const (
	InvoiceKindInvoice            InvoiceKindType = "invoice"
	InvoiceKindCreditNote         InvoiceKindType = "credit_note"
	InvoiceKindLandlordInvoice    InvoiceKindType = "landlord_invoice"
	InvoiceKindLandlordCreditNote InvoiceKindType = "landlord_credit_note"
)

// InvoiceStatusType defines the payment states an invoice moves through.
// The invoice engine owns these transitions; this service only reads them.
type InvoiceStatusType string

const (
	InvoiceStatusCreated  InvoiceStatusType = "created"
	InvoiceStatusOverdue  InvoiceStatusType = "overdue"
	InvoiceStatusPaid     InvoiceStatusType = "paid"
	InvoiceStatusCredited InvoiceStatusType = "credited"
	InvoiceStatusLost     InvoiceStatusType = "lost"
)

// Invoice is a read model over the invoicing engine's data. The contract
// core consumes totals and escalation flags; it never computes or mutates
// invoice amounts.
type Invoice struct {
	ID         uuid.UUID         `json:"id"`
	PartnerID  uuid.UUID         `json:"partner_id"`
	ContractID uuid.UUID         `json:"contract_id"`
	PropertyID uuid.UUID         `json:"property_id"`
	TenantID   uuid.UUID         `json:"tenant_id"`
	AgentID    uuid.UUID         `json:"agent_id"`
	Kind       InvoiceKindType   `json:"kind"`
	Status     InvoiceStatusType `json:"status"`

	InvoiceTotalCents int64 `json:"invoice_total_cents"`
	TotalPaidCents    int64 `json:"total_paid_cents"`
	// CommissionTotalCents is only populated on landlord invoices and
	// credit notes. Credit notes store it as a negative amount.
	CommissionTotalCents int64 `json:"commission_total_cents"`

	DueDate         time.Time `json:"due_date"`
	DueReminderSent bool      `json:"due_reminder_sent"`
	// EvictionPending marks an invoice already swept into an eviction case.
	EvictionPending bool `json:"eviction_pending"`
	WrittenOff      bool `json:"written_off"`

	LeaseSerial int       `json:"lease_serial"`
	CreatedAt   time.Time `json:"created_at"`
}

// EligibleForEviction reports whether the invoice can be swept into a new
// eviction case: overdue with a reminder out, unpaid, not written off and
// not already escalated.
func (i *Invoice) EligibleForEviction() bool {
	return i.Kind == InvoiceKindInvoice &&
		i.Status == InvoiceStatusOverdue &&
		i.DueReminderSent &&
		!i.EvictionPending &&
		!i.WrittenOff
}
