package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/venuebill/venuebill/internal/domain/membership"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/logger"
	"github.com/venuebill/venuebill/internal/postgres"
	"github.com/venuebill/venuebill/internal/types"
)

type membershipRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewMembershipRepository(db postgres.IClient, logger *logger.Logger) membership.Repository {
	return &membershipRepository{db: db, logger: logger}
}

func (r *membershipRepository) Create(ctx context.Context, m *membership.Membership) error {
	query := `
	INSERT INTO memberships (
		id, customer_id, provider_customer_id, plan_name, currency,
		provider_subscription_id, start_date, billing_period,
		billing_period_unit, cycle_price, minimum_cycles, max_billing_count,
		cancel_at_period_end, cancel_at, next_billing_date, billing_count,
		membership_status, organization_id, status, created_at, updated_at,
		created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		$16, $17, $18, $19, $20, $21, $22, $23
	)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		m.ID,
		m.CustomerID,
		m.ProviderCustomerID,
		m.PlanName,
		m.Currency,
		m.ProviderSubscriptionID,
		m.StartDate,
		m.BillingPeriod,
		m.BillingPeriodUnit,
		m.CyclePrice,
		m.MinimumCycles,
		m.MaxBillingCount,
		m.CancelAtPeriodEnd,
		m.CancelAt,
		m.NextBillingDate,
		m.BillingCount,
		m.MembershipStatus,
		m.OrganizationID,
		m.Status,
		m.CreatedAt,
		m.UpdatedAt,
		m.CreatedBy,
		m.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create membership").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *membershipRepository) Get(ctx context.Context, id string) (*membership.Membership, error) {
	query := `
	SELECT * FROM memberships
	WHERE id = $1 AND status = $2
	`

	var m membership.Membership
	err := r.db.GetQuerier(ctx).GetContext(ctx, &m, query, id, types.StatusPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("membership not found").
				WithHintf("Membership %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load membership").
			Mark(ierr.ErrDatabase)
	}

	return &m, nil
}

func (r *membershipRepository) GetByProviderSubscriptionID(ctx context.Context, providerSubscriptionID string) (*membership.Membership, error) {
	query := `
	SELECT * FROM memberships
	WHERE provider_subscription_id = $1 AND status = $2
	`

	var m membership.Membership
	err := r.db.GetQuerier(ctx).GetContext(ctx, &m, query, providerSubscriptionID, types.StatusPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("membership not found").
				WithHintf("No membership for provider subscription %s", providerSubscriptionID).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load membership").
			Mark(ierr.ErrDatabase)
	}

	return &m, nil
}

func (r *membershipRepository) Update(ctx context.Context, m *membership.Membership) error {
	query := `
	UPDATE memberships SET
		cancel_at_period_end = $2,
		cancel_at = $3,
		next_billing_date = $4,
		billing_count = $5,
		membership_status = $6,
		updated_at = NOW(),
		updated_by = $7
	WHERE id = $1
	`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		m.ID,
		m.CancelAtPeriodEnd,
		m.CancelAt,
		m.NextBillingDate,
		m.BillingCount,
		m.MembershipStatus,
		types.GetUserID(ctx),
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update membership").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("membership not found").
			WithHintf("Membership %s does not exist", m.ID).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *membershipRepository) CreatePause(ctx context.Context, p *membership.Pause) error {
	query := `
	INSERT INTO membership_pauses (
		id, membership_id, paused_at, resumes_at, pause_days, credited_days,
		credit, skipped_cycles, completed, organization_id, status,
		created_at, updated_at, created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
	)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		p.ID,
		p.MembershipID,
		p.PausedAt,
		p.ResumesAt,
		p.PauseDays,
		p.CreditedDays,
		p.Credit,
		p.SkippedCycles,
		p.Completed,
		p.OrganizationID,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
		p.CreatedBy,
		p.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create pause record").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *membershipRepository) GetActivePause(ctx context.Context, membershipID string) (*membership.Pause, error) {
	query := `
	SELECT * FROM membership_pauses
	WHERE membership_id = $1 AND completed = false AND status = $2
	ORDER BY paused_at DESC
	LIMIT 1
	`

	var p membership.Pause
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, membershipID, types.StatusPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("no active pause").
				WithHintf("Membership %s has no active pause", membershipID).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load pause record").
			Mark(ierr.ErrDatabase)
	}

	return &p, nil
}

func (r *membershipRepository) UpdatePause(ctx context.Context, p *membership.Pause) error {
	query := `
	UPDATE membership_pauses SET
		completed = $2,
		updated_at = NOW(),
		updated_by = $3
	WHERE id = $1
	`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		p.ID,
		p.Completed,
		types.GetUserID(ctx),
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update pause record").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("pause record not found").
			WithHintf("Pause %s does not exist", p.ID).
			Mark(ierr.ErrNotFound)
	}

	return nil
}
