package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/venuebill/venuebill/internal/cache"
	"github.com/venuebill/venuebill/internal/config"
	"github.com/venuebill/venuebill/internal/domain/invoice"
	"github.com/venuebill/venuebill/internal/domain/membership"
	"github.com/venuebill/venuebill/internal/domain/settings"
	"github.com/venuebill/venuebill/internal/domain/transaction"
	"github.com/venuebill/venuebill/internal/logger"
	"github.com/venuebill/venuebill/internal/postgres"
	"github.com/venuebill/venuebill/internal/types"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	TransactionRepo transaction.Repository
	MembershipRepo  membership.Repository
	InvoiceRepo     invoice.Repository
	SettingsRepo    settings.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     postgres.IClient
	cache  cache.Cache
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	s.config = config.GetDefaultConfig()

	var err error
	s.logger, err = logger.NewLogger(s.config)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = context.Background()
	s.ctx = context.WithValue(s.ctx, types.CtxOrganizationID, types.DefaultOrganizationID)
	s.ctx = context.WithValue(s.ctx, types.CtxUserID, types.DefaultUserID)
	s.ctx = context.WithValue(s.ctx, types.CtxRequestID, types.GenerateUUID())
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		TransactionRepo: NewInMemoryTransactionStore(),
		MembershipRepo:  NewInMemoryMembershipStore(),
		InvoiceRepo:     NewInMemoryInvoiceStore(),
		SettingsRepo:    NewInMemorySettingsStore(),
	}
	s.db = NewMockPostgresClient()
	s.cache = cache.NewInMemoryCache()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the mock database client
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the test start time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
