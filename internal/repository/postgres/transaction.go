package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/venuebill/venuebill/internal/domain/transaction"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/logger"
	"github.com/venuebill/venuebill/internal/postgres"
	"github.com/venuebill/venuebill/internal/types"
)

const pqUniqueViolation = "23505"

type transactionRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewTransactionRepository(db postgres.IClient, logger *logger.Logger) transaction.Repository {
	return &transactionRepository{db: db, logger: logger}
}

func (r *transactionRepository) Create(ctx context.Context, txn *transaction.Transaction) error {
	query := `
	INSERT INTO transactions (
		id, provider_invoice_id, membership_id, amount, currency, tx_status,
		receipt_number, organization_id, status, created_at, updated_at,
		created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
	)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		txn.ID,
		txn.ProviderInvoiceID,
		txn.MembershipID,
		txn.Amount,
		txn.Currency,
		txn.TxStatus,
		txn.ReceiptNumber,
		txn.OrganizationID,
		txn.Status,
		txn.CreatedAt,
		txn.UpdatedAt,
		txn.CreatedBy,
		txn.UpdatedBy,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			// The unique provider_invoice_id index is the idempotency
			// backstop for concurrent webhook deliveries.
			return ierr.WithError(err).
				WithHint("A transaction already exists for this provider invoice").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to record transaction").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *transactionRepository) Get(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `
	SELECT * FROM transactions
	WHERE id = $1 AND status = $2
	`

	var txn transaction.Transaction
	err := r.db.GetQuerier(ctx).GetContext(ctx, &txn, query, id, types.StatusPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("transaction not found").
				WithHintf("Transaction %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load transaction").
			Mark(ierr.ErrDatabase)
	}

	return &txn, nil
}

func (r *transactionRepository) GetByProviderInvoiceID(ctx context.Context, providerInvoiceID string) (*transaction.Transaction, error) {
	query := `
	SELECT * FROM transactions
	WHERE provider_invoice_id = $1 AND status = $2
	`

	var txn transaction.Transaction
	err := r.db.GetQuerier(ctx).GetContext(ctx, &txn, query, providerInvoiceID, types.StatusPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("transaction not found").
				WithHintf("No transaction for provider invoice %s", providerInvoiceID).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load transaction").
			Mark(ierr.ErrDatabase)
	}

	return &txn, nil
}

func (r *transactionRepository) ListByMembership(ctx context.Context, membershipID string) ([]*transaction.Transaction, error) {
	query := `
	SELECT * FROM transactions
	WHERE membership_id = $1 AND status = $2
	ORDER BY created_at DESC
	`

	var txns []*transaction.Transaction
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &txns, query, membershipID, types.StatusPublished)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list transactions").
			Mark(ierr.ErrDatabase)
	}

	return txns, nil
}
