package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/venuebill/venuebill/internal/domain/invoice"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/logger"
	"github.com/venuebill/venuebill/internal/postgres"
	"github.com/venuebill/venuebill/internal/types"
)

type invoiceRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewInvoiceRepository(db postgres.IClient, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
	INSERT INTO invoices (
		id, provider_invoice_id, transaction_id, customer_id, description,
		currency, amount_due, amount_paid, payment_status, organization_id,
		status, created_at, updated_at, created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
	)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		inv.ID,
		inv.ProviderInvoiceID,
		inv.TransactionID,
		inv.CustomerID,
		inv.Description,
		inv.Currency,
		inv.AmountDue,
		inv.AmountPaid,
		inv.PaymentStatus,
		inv.OrganizationID,
		inv.Status,
		inv.CreatedAt,
		inv.UpdatedAt,
		inv.CreatedBy,
		inv.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	query := `
	SELECT * FROM invoices
	WHERE id = $1 AND status = $2
	`

	var inv invoice.Invoice
	err := r.db.GetQuerier(ctx).GetContext(ctx, &inv, query, id, types.StatusPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("invoice not found").
				WithHintf("Invoice %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load invoice").
			Mark(ierr.ErrDatabase)
	}

	return &inv, nil
}

func (r *invoiceRepository) GetByProviderInvoiceID(ctx context.Context, providerInvoiceID string) (*invoice.Invoice, error) {
	query := `
	SELECT * FROM invoices
	WHERE provider_invoice_id = $1 AND status = $2
	`

	var inv invoice.Invoice
	err := r.db.GetQuerier(ctx).GetContext(ctx, &inv, query, providerInvoiceID, types.StatusPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("invoice not found").
				WithHintf("No invoice for provider invoice %s", providerInvoiceID).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load invoice").
			Mark(ierr.ErrDatabase)
	}

	return &inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	query := `
	UPDATE invoices SET
		transaction_id = $2,
		amount_due = $3,
		amount_paid = $4,
		payment_status = $5,
		updated_at = NOW(),
		updated_by = $6
	WHERE id = $1
	`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		inv.ID,
		inv.TransactionID,
		inv.AmountDue,
		inv.AmountPaid,
		inv.PaymentStatus,
		types.GetUserID(ctx),
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("invoice not found").
			WithHintf("Invoice %s does not exist", inv.ID).
			Mark(ierr.ErrNotFound)
	}

	return nil
}
