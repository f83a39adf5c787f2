package models

import (
	"time"

	"github.com/google/uuid"
)

// EvictionCaseStatusType defines the possible states of an eviction case.
type EvictionCaseStatusType string

const (
	EvictionCaseStatusNew        EvictionCaseStatusType = "new"
	EvictionCaseStatusInProgress EvictionCaseStatusType = "in_progress"
	EvictionCaseStatusCompleted  EvictionCaseStatusType = "completed"
	EvictionCaseStatusCanceled   EvictionCaseStatusType = "canceled"
)

// EvictionCase is one entry of the per-contract eviction sub-ledger,
// keyed by the invoice whose overdue reminder escalated it. AmountCents
// must always equal the sum of invoice totals over EvictionInvoiceIDs.
type EvictionCase struct {
	ID        uuid.UUID              `json:"id"`
	InvoiceID uuid.UUID              `json:"invoice_id"`
	TenantID  uuid.UUID              `json:"tenant_id"`
	AgentID   uuid.UUID              `json:"agent_id"`
	Status    EvictionCaseStatusType `json:"status"`

	AmountCents        int64       `json:"amount_cents"`
	EvictionInvoiceIDs []uuid.UUID `json:"eviction_invoice_ids"`

	// HasPaid is derived from payments against the case's invoices,
	// recomputed on every reconciliation. It is never authoritative.
	HasPaid bool `json:"has_paid"`

	LeaseSerial int       `json:"lease_serial"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContainsInvoice reports whether the case's invoice set includes the id.
func (e *EvictionCase) ContainsInvoice(invoiceID uuid.UUID) bool {
	for _, id := range e.EvictionInvoiceIDs {
		if id == invoiceID {
			return true
		}
	}
	return false
}
