package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
)

// ContractRepository defines the interface for contract aggregate operations.
// All sub-arrays (history, eviction cases, rental meta history, addons,
// signing statuses) live in JSONB columns and are rewritten whole on every
// update, under the row_version optimistic lock.
type ContractRepository interface {
	Create(ctx context.Context, c *models.Contract) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	UpdateIfVersion(ctx context.Context, c *models.Contract, expectedVersion int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Contract) error) error

	// FindUpcomingLeasesByProperty returns contracts on the property whose
	// lease facet is upcoming, for the termination overlap guard.
	FindUpcomingLeasesByProperty(ctx context.Context, propertyID uuid.UUID, excludeID uuid.UUID) ([]*models.Contract, error)
	// FindUpcomingLeaseWithoutTenant enforces the direct-partner rule of at
	// most one upcoming lease without an assigned tenant per property.
	FindUpcomingLeaseWithoutTenant(ctx context.Context, partnerID, propertyID uuid.UUID) (*models.Contract, error)
	// FindDueScheduledTerminations returns contracts with an active lease
	// whose scheduled termination end date has passed.
	FindDueScheduledTerminations(ctx context.Context, asOf time.Time) ([]*models.Contract, error)
}

type contractRepo struct {
	*BaseVersionedRepo[*models.Contract]
	db DB
}

// NewContractRepository creates a new instance of the repository.
func NewContractRepository(db DB) ContractRepository {
	r := &contractRepo{db: db}
	selectStmt := baseSelectContract() + " WHERE id = $1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanContract)
	return r
}

func baseSelectContract() string {
	return `
		SELECT
			id, partner_id, property_id, account_id, agent_id, branch_id, status,
			has_brokering_contract, has_rental_management_contract, has_rental_contract,
			brokering_commission_cents, management_commission_cents, enabled_e_signing,
			assignment_signing_status, rental_meta, rental_meta_history, history,
			eviction_cases, addons, lease_serial, created_at, updated_at, row_version
		FROM contracts
	`
}

func (r *contractRepo) scanContract(row pgx.Row) (*models.Contract, error) {
	var c models.Contract
	var signing, rentalMeta, rentalMetaHistory, history, evictionCases, addons []byte
	err := row.Scan(
		&c.ID, &c.PartnerID, &c.PropertyID, &c.AccountID, &c.AgentID, &c.BranchID, &c.Status,
		&c.HasBrokeringContract, &c.HasRentalManagementContract, &c.HasRentalContract,
		&c.BrokeringCommissionCents, &c.ManagementCommissionCents, &c.EnabledESigning,
		&signing, &rentalMeta, &rentalMetaHistory, &history,
		&evictionCases, &addons, &c.LeaseSerial, &c.CreatedAt, &c.UpdatedAt, &c.RowVersion,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalInto(signing, &c.AssignmentSigningStatus); err != nil {
		return nil, err
	}
	if len(rentalMeta) > 0 {
		c.RentalMeta = &models.RentalMeta{}
		if err := json.Unmarshal(rentalMeta, c.RentalMeta); err != nil {
			return nil, err
		}
	}
	if err := unmarshalInto(rentalMetaHistory, &c.RentalMetaHistory); err != nil {
		return nil, err
	}
	if err := unmarshalInto(history, &c.History); err != nil {
		return nil, err
	}
	if err := unmarshalInto(evictionCases, &c.EvictionCases); err != nil {
		return nil, err
	}
	if err := unmarshalInto(addons, &c.Addons); err != nil {
		return nil, err
	}
	return &c, nil
}

func unmarshalInto[T any](raw []byte, dst *[]T) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func (r *contractRepo) Create(ctx context.Context, c *models.Contract) error {
	signing, rentalMeta, rentalMetaHistory, history, evictionCases, addons, err := marshalContractArrays(c)
	if err != nil {
		return err
	}
	q := `
		INSERT INTO contracts (
			id, partner_id, property_id, account_id, agent_id, branch_id, status,
			has_brokering_contract, has_rental_management_contract, has_rental_contract,
			brokering_commission_cents, management_commission_cents, enabled_e_signing,
			assignment_signing_status, rental_meta, rental_meta_history, history,
			eviction_cases, addons, lease_serial, created_at, updated_at, row_version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, NOW(), NOW(), 1)
	`
	_, err = r.db.Exec(ctx, q,
		c.ID, c.PartnerID, c.PropertyID, c.AccountID, c.AgentID, c.BranchID, c.Status,
		c.HasBrokeringContract, c.HasRentalManagementContract, c.HasRentalContract,
		c.BrokeringCommissionCents, c.ManagementCommissionCents, c.EnabledESigning,
		signing, rentalMeta, rentalMetaHistory, history, evictionCases, addons, c.LeaseSerial,
	)
	return err
}

func (r *contractRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *contractRepo) UpdateIfVersion(ctx context.Context, c *models.Contract, expectedVersion int64) (pgconn.CommandTag, error) {
	signing, rentalMeta, rentalMetaHistory, history, evictionCases, addons, err := marshalContractArrays(c)
	if err != nil {
		return nil, err
	}
	q := `
		UPDATE contracts SET
			status = $1,
			has_brokering_contract = $2,
			has_rental_management_contract = $3,
			has_rental_contract = $4,
			brokering_commission_cents = $5,
			management_commission_cents = $6,
			enabled_e_signing = $7,
			assignment_signing_status = $8,
			rental_meta = $9,
			rental_meta_history = $10,
			history = $11,
			eviction_cases = $12,
			addons = $13,
			lease_serial = $14,
			updated_at = NOW(),
			row_version = row_version + 1
		WHERE id = $15 AND row_version = $16
	`
	return r.db.Exec(ctx, q,
		c.Status, c.HasBrokeringContract, c.HasRentalManagementContract, c.HasRentalContract,
		c.BrokeringCommissionCents, c.ManagementCommissionCents, c.EnabledESigning,
		signing, rentalMeta, rentalMetaHistory, history, evictionCases, addons, c.LeaseSerial,
		c.ID, expectedVersion)
}

func (r *contractRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Contract) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *contractRepo) FindUpcomingLeasesByProperty(ctx context.Context, propertyID uuid.UUID, excludeID uuid.UUID) ([]*models.Contract, error) {
	q := baseSelectContract() + `
		WHERE property_id = $1
		  AND id <> $2
		  AND rental_meta->>'status' = 'upcoming'
		ORDER BY (rental_meta->>'contract_start_date')
	`
	rows, err := r.db.Query(ctx, q, propertyID, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *contractRepo) FindUpcomingLeaseWithoutTenant(ctx context.Context, partnerID, propertyID uuid.UUID) (*models.Contract, error) {
	q := baseSelectContract() + `
		WHERE partner_id = $1
		  AND property_id = $2
		  AND rental_meta->>'status' = 'upcoming'
		  AND rental_meta->>'tenant_id' IS NULL
		LIMIT 1
	`
	row := r.db.QueryRow(ctx, q, partnerID, propertyID)
	return r.scanContract(row)
}

func (r *contractRepo) FindDueScheduledTerminations(ctx context.Context, asOf time.Time) ([]*models.Contract, error) {
	q := baseSelectContract() + `
		WHERE rental_meta->>'status' = 'active'
		  AND rental_meta->>'terminated_by' IS NOT NULL
		  AND (rental_meta->>'contract_end_date')::timestamptz <= $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, q, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *contractRepo) collect(rows pgx.Rows) ([]*models.Contract, error) {
	var contracts []*models.Contract
	for rows.Next() {
		c, err := r.scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func marshalContractArrays(c *models.Contract) (signing, rentalMeta, rentalMetaHistory, history, evictionCases, addons []byte, err error) {
	if signing, err = json.Marshal(emptyIfNil(c.AssignmentSigningStatus)); err != nil {
		return
	}
	if c.RentalMeta != nil {
		if rentalMeta, err = json.Marshal(c.RentalMeta); err != nil {
			return
		}
	}
	if rentalMetaHistory, err = json.Marshal(emptyIfNil(c.RentalMetaHistory)); err != nil {
		return
	}
	if history, err = json.Marshal(emptyIfNil(c.History)); err != nil {
		return
	}
	if evictionCases, err = json.Marshal(emptyIfNil(c.EvictionCases)); err != nil {
		return
	}
	addons, err = json.Marshal(emptyIfNil(c.Addons))
	return
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
