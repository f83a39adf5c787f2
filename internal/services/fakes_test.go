package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/constants"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
)

// In-memory repository fakes. UpdateWithRetry clones through JSON so the
// mutate callback sees a fresh read, like the real repo does.

type fakeContractRepo struct {
	contracts map[uuid.UUID]*models.Contract
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{contracts: make(map[uuid.UUID]*models.Contract)}
}

func cloneContract(c *models.Contract) *models.Contract {
	raw, err := json.Marshal(c)
	if err != nil {
		panic(err)
	}
	var out models.Contract
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return &out
}

func (r *fakeContractRepo) Create(_ context.Context, c *models.Contract) error {
	r.contracts[c.ID] = cloneContract(c)
	return nil
}

func (r *fakeContractRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Contract, error) {
	c, ok := r.contracts[id]
	if !ok {
		return nil, nil
	}
	return cloneContract(c), nil
}

func (r *fakeContractRepo) UpdateIfVersion(_ context.Context, c *models.Contract, _ int64) (pgconn.CommandTag, error) {
	r.contracts[c.ID] = cloneContract(c)
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *fakeContractRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.Contract) error) error {
	stored, ok := r.contracts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c := cloneContract(stored)
	if err := mutate(c); err != nil {
		return err
	}
	c.RowVersion++
	r.contracts[id] = c
	return nil
}

func (r *fakeContractRepo) FindUpcomingLeasesByProperty(_ context.Context, propertyID uuid.UUID, excludeID uuid.UUID) ([]*models.Contract, error) {
	var out []*models.Contract
	for _, c := range r.contracts {
		if c.PropertyID != propertyID || c.ID == excludeID {
			continue
		}
		if c.RentalMeta != nil && c.RentalMeta.Status == models.ContractStatusUpcoming {
			out = append(out, cloneContract(c))
		}
	}
	return out, nil
}

func (r *fakeContractRepo) FindUpcomingLeaseWithoutTenant(_ context.Context, partnerID, propertyID uuid.UUID) (*models.Contract, error) {
	for _, c := range r.contracts {
		if c.PartnerID != partnerID || c.PropertyID != propertyID {
			continue
		}
		if c.RentalMeta != nil && c.RentalMeta.Status == models.ContractStatusUpcoming && c.RentalMeta.TenantID == nil {
			return cloneContract(c), nil
		}
	}
	return nil, nil
}

func (r *fakeContractRepo) FindDueScheduledTerminations(_ context.Context, asOf time.Time) ([]*models.Contract, error) {
	var out []*models.Contract
	for _, c := range r.contracts {
		meta := c.RentalMeta
		if meta == nil || meta.Status != models.ContractStatusActive || meta.TerminatedBy == nil || meta.ContractEndDate == nil {
			continue
		}
		if !meta.ContractEndDate.After(asOf) {
			out = append(out, cloneContract(c))
		}
	}
	return out, nil
}

type fakePartnerRepo struct {
	partners map[uuid.UUID]*models.PartnerSettings
}

func newFakePartnerRepo(partners ...*models.PartnerSettings) *fakePartnerRepo {
	r := &fakePartnerRepo{partners: make(map[uuid.UUID]*models.PartnerSettings)}
	for _, p := range partners {
		r.partners[p.PartnerID] = p
	}
	return r
}

func (r *fakePartnerRepo) GetByPartnerID(_ context.Context, partnerID uuid.UUID) (*models.PartnerSettings, error) {
	return r.partners[partnerID], nil
}

func (r *fakePartnerRepo) Create(_ context.Context, s *models.PartnerSettings) error {
	r.partners[s.PartnerID] = s
	return nil
}

type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]*models.Invoice
}

func newFakeInvoiceRepo(invoices ...*models.Invoice) *fakeInvoiceRepo {
	r := &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*models.Invoice)}
	for _, i := range invoices {
		r.invoices[i.ID] = i
	}
	return r
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Invoice, error) {
	return r.invoices[id], nil
}

func (r *fakeInvoiceRepo) FindEvictionEligibleForTenant(_ context.Context, contractID, propertyID, tenantID uuid.UUID) ([]*models.Invoice, error) {
	var out []*models.Invoice
	for _, i := range r.invoices {
		if i.ContractID == contractID && i.PropertyID == propertyID && i.TenantID == tenantID && i.EligibleForEviction() {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) FindEvictionEligible(_ context.Context) ([]*models.Invoice, error) {
	var out []*models.Invoice
	for _, i := range r.invoices {
		if i.EligibleForEviction() {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) GetLandlordInvoiceOrCreditNote(_ context.Context, contractID uuid.UUID, kind models.InvoiceKindType) (*models.Invoice, error) {
	var latest *models.Invoice
	for _, i := range r.invoices {
		if i.ContractID != contractID || i.Kind != kind {
			continue
		}
		if latest == nil || i.CreatedAt.After(latest.CreatedAt) {
			latest = i
		}
	}
	return latest, nil
}

func (r *fakeInvoiceRepo) MarkEvictionPending(_ context.Context, invoiceIDs []uuid.UUID, pending bool) error {
	for _, id := range invoiceIDs {
		if i, ok := r.invoices[id]; ok {
			i.EvictionPending = pending
		}
	}
	return nil
}

func (r *fakeInvoiceRepo) Upsert(_ context.Context, i *models.Invoice) error {
	r.invoices[i.ID] = i
	return nil
}

/* ───────────── shared fixtures ───────────── */

func brokerPartner() *models.PartnerSettings {
	return &models.PartnerSettings{
		PartnerID:             uuid.New(),
		AccountType:           models.PartnerAccountTypeBroker,
		Timezone:              constants.DefaultPartnerTimezone,
		EnabledDepositAccount: true,
		EnabledCPISettlement:  true,
		EnabledJointlyLiable:  true,
	}
}

func directPartner() *models.PartnerSettings {
	return &models.PartnerSettings{
		PartnerID:   uuid.New(),
		AccountType: models.PartnerAccountTypeDirect,
		Timezone:    constants.DefaultPartnerTimezone,
	}
}

// fixedNow is noon UTC so day-granular comparisons are stable in the
// default partner timezone.
var fixedNow = time.Date(2025, time.June, 16, 12, 0, 0, 0, time.UTC)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
