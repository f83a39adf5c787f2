package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
)

// PartnerSettingsRepository reads per-partner feature flags and locale
// configuration. Partner master data is managed outside this service.
type PartnerSettingsRepository interface {
	GetByPartnerID(ctx context.Context, partnerID uuid.UUID) (*models.PartnerSettings, error)
	Create(ctx context.Context, s *models.PartnerSettings) error
}

type partnerSettingsRepo struct {
	db DB
}

// NewPartnerSettingsRepository creates a new instance of the repository.
func NewPartnerSettingsRepository(db DB) PartnerSettingsRepository {
	return &partnerSettingsRepo{db: db}
}

func (r *partnerSettingsRepo) GetByPartnerID(ctx context.Context, partnerID uuid.UUID) (*models.PartnerSettings, error) {
	q := `
		SELECT partner_id, account_type, timezone, date_format,
		       enabled_deposit_account, enabled_cpi_settlement,
		       enabled_recurring_due_date, enabled_jointly_liable, created_at
		FROM partner_settings
		WHERE partner_id = $1
	`
	var s models.PartnerSettings
	err := r.db.QueryRow(ctx, q, partnerID).Scan(
		&s.PartnerID, &s.AccountType, &s.Timezone, &s.DateFormat,
		&s.EnabledDepositAccount, &s.EnabledCPISettlement,
		&s.EnabledRecurringDueDate, &s.EnabledJointlyLiable, &s.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *partnerSettingsRepo) Create(ctx context.Context, s *models.PartnerSettings) error {
	q := `
		INSERT INTO partner_settings (
			partner_id, account_type, timezone, date_format,
			enabled_deposit_account, enabled_cpi_settlement,
			enabled_recurring_due_date, enabled_jointly_liable, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (partner_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, q,
		s.PartnerID, s.AccountType, s.Timezone, s.DateFormat,
		s.EnabledDepositAccount, s.EnabledCPISettlement,
		s.EnabledRecurringDueDate, s.EnabledJointlyLiable,
	)
	return err
}
