package repository

import (
	"github.com/venuebill/venuebill/internal/domain/invoice"
	"github.com/venuebill/venuebill/internal/domain/membership"
	"github.com/venuebill/venuebill/internal/domain/settings"
	"github.com/venuebill/venuebill/internal/domain/transaction"
	"github.com/venuebill/venuebill/internal/logger"
	"github.com/venuebill/venuebill/internal/postgres"
	postgresRepo "github.com/venuebill/venuebill/internal/repository/postgres"
)

func NewTransactionRepository(db postgres.IClient, logger *logger.Logger) transaction.Repository {
	return postgresRepo.NewTransactionRepository(db, logger)
}

func NewMembershipRepository(db postgres.IClient, logger *logger.Logger) membership.Repository {
	return postgresRepo.NewMembershipRepository(db, logger)
}

func NewInvoiceRepository(db postgres.IClient, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(db, logger)
}

func NewSettingsRepository(db postgres.IClient, logger *logger.Logger) settings.Repository {
	return postgresRepo.NewSettingsRepository(db, logger)
}
