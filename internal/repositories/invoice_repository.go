package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
)

// InvoiceRepository is a read-only view over the invoicing engine's data.
// The contract core consumes totals and escalation flags; invoice amounts
// are computed and mutated elsewhere. The two marker updates below only
// flip escalation bookkeeping flags this core owns.
type InvoiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	// FindEvictionEligibleForTenant collects a tenant's unpaid, non-written-off
	// invoices on the same contract and property that are overdue with a due
	// reminder sent and not yet swept into a case.
	FindEvictionEligibleForTenant(ctx context.Context, contractID, propertyID, tenantID uuid.UUID) ([]*models.Invoice, error)
	// FindEvictionEligible feeds the escalation scan job.
	FindEvictionEligible(ctx context.Context) ([]*models.Invoice, error)
	// GetLandlordInvoiceOrCreditNote fetches the landlord-side document
	// carrying a contract's commission total.
	GetLandlordInvoiceOrCreditNote(ctx context.Context, contractID uuid.UUID, kind models.InvoiceKindType) (*models.Invoice, error)
	MarkEvictionPending(ctx context.Context, invoiceIDs []uuid.UUID, pending bool) error
	// Upsert lands a synced copy of an invoice from the invoicing engine.
	// Used by the sync consumer and by test seeding.
	Upsert(ctx context.Context, i *models.Invoice) error
}

type invoiceRepo struct {
	db DB
}

// NewInvoiceRepository creates a new instance of the repository.
func NewInvoiceRepository(db DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func baseSelectInvoice() string {
	return `
		SELECT
			id, partner_id, contract_id, property_id, tenant_id, agent_id, kind, status,
			invoice_total_cents, total_paid_cents, commission_total_cents,
			due_date, due_reminder_sent, eviction_pending, written_off, lease_serial, created_at
		FROM invoices
	`
}

func (r *invoiceRepo) scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var i models.Invoice
	err := row.Scan(
		&i.ID, &i.PartnerID, &i.ContractID, &i.PropertyID, &i.TenantID, &i.AgentID, &i.Kind, &i.Status,
		&i.InvoiceTotalCents, &i.TotalPaidCents, &i.CommissionTotalCents,
		&i.DueDate, &i.DueReminderSent, &i.EvictionPending, &i.WrittenOff, &i.LeaseSerial, &i.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	row := r.db.QueryRow(ctx, baseSelectInvoice()+" WHERE id = $1", id)
	return r.scanInvoice(row)
}

func (r *invoiceRepo) FindEvictionEligibleForTenant(ctx context.Context, contractID, propertyID, tenantID uuid.UUID) ([]*models.Invoice, error) {
	q := baseSelectInvoice() + `
		WHERE contract_id = $1
		  AND property_id = $2
		  AND tenant_id = $3
		  AND kind = 'invoice'
		  AND status = 'overdue'
		  AND due_reminder_sent = TRUE
		  AND eviction_pending = FALSE
		  AND written_off = FALSE
		ORDER BY due_date
	`
	rows, err := r.db.Query(ctx, q, contractID, propertyID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *invoiceRepo) FindEvictionEligible(ctx context.Context) ([]*models.Invoice, error) {
	q := baseSelectInvoice() + `
		WHERE kind = 'invoice'
		  AND status = 'overdue'
		  AND due_reminder_sent = TRUE
		  AND eviction_pending = FALSE
		  AND written_off = FALSE
		ORDER BY contract_id, due_date
	`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *invoiceRepo) GetLandlordInvoiceOrCreditNote(ctx context.Context, contractID uuid.UUID, kind models.InvoiceKindType) (*models.Invoice, error) {
	q := baseSelectInvoice() + `
		WHERE contract_id = $1
		  AND kind = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := r.db.QueryRow(ctx, q, contractID, kind)
	return r.scanInvoice(row)
}

func (r *invoiceRepo) MarkEvictionPending(ctx context.Context, invoiceIDs []uuid.UUID, pending bool) error {
	if len(invoiceIDs) == 0 {
		return nil
	}
	q := `UPDATE invoices SET eviction_pending = $1 WHERE id = ANY($2)`
	_, err := r.db.Exec(ctx, q, pending, invoiceIDs)
	return err
}

func (r *invoiceRepo) Upsert(ctx context.Context, i *models.Invoice) error {
	q := `
		INSERT INTO invoices (
			id, partner_id, contract_id, property_id, tenant_id, agent_id, kind, status,
			invoice_total_cents, total_paid_cents, commission_total_cents,
			due_date, due_reminder_sent, eviction_pending, written_off, lease_serial, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			invoice_total_cents = EXCLUDED.invoice_total_cents,
			total_paid_cents = EXCLUDED.total_paid_cents,
			commission_total_cents = EXCLUDED.commission_total_cents,
			due_date = EXCLUDED.due_date,
			due_reminder_sent = EXCLUDED.due_reminder_sent,
			written_off = EXCLUDED.written_off
	`
	_, err := r.db.Exec(ctx, q,
		i.ID, i.PartnerID, i.ContractID, i.PropertyID, i.TenantID, i.AgentID, i.Kind, i.Status,
		i.InvoiceTotalCents, i.TotalPaidCents, i.CommissionTotalCents,
		i.DueDate, i.DueReminderSent, i.EvictionPending, i.WrittenOff, i.LeaseSerial,
	)
	return err
}

func (r *invoiceRepo) collect(rows pgx.Rows) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	for rows.Next() {
		i, err := r.scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, i)
	}
	return invoices, rows.Err()
}
