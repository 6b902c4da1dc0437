package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/venuebill/venuebill/internal/domain/settings"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/logger"
	"github.com/venuebill/venuebill/internal/postgres"
	"github.com/venuebill/venuebill/internal/types"
)

type settingsRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewSettingsRepository(db postgres.IClient, logger *logger.Logger) settings.Repository {
	return &settingsRepository{db: db, logger: logger}
}

func (r *settingsRepository) GetByOrganization(ctx context.Context, organizationID string) (*settings.BillingSettings, error) {
	query := `
	SELECT * FROM billing_settings
	WHERE organization_id = $1 AND status = $2
	`

	var bs settings.BillingSettings
	err := r.db.GetQuerier(ctx).GetContext(ctx, &bs, query, organizationID, types.StatusPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("billing settings not found").
				WithHintf("Organization %s has no billing settings", organizationID).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load billing settings").
			Mark(ierr.ErrDatabase)
	}

	return &bs, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, bs *settings.BillingSettings) error {
	// One settings row per organization, keyed by the unique
	// organization_id index.
	query := `
	INSERT INTO billing_settings (
		id, min_payment_percent, receipt_sender_name, connected_account_id,
		organization_id, status, created_at, updated_at, created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	)
	ON CONFLICT (organization_id) DO UPDATE SET
		min_payment_percent = EXCLUDED.min_payment_percent,
		receipt_sender_name = EXCLUDED.receipt_sender_name,
		connected_account_id = EXCLUDED.connected_account_id,
		updated_at = EXCLUDED.updated_at,
		updated_by = EXCLUDED.updated_by
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		bs.ID,
		bs.MinPaymentPercent,
		bs.ReceiptSenderName,
		bs.ConnectedAccountID,
		bs.OrganizationID,
		bs.Status,
		bs.CreatedAt,
		bs.UpdatedAt,
		bs.CreatedBy,
		bs.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to save billing settings").
			Mark(ierr.ErrDatabase)
	}

	return nil
}
