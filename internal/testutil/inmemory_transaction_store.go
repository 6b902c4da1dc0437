package testutil

import (
	"context"
	"sync"

	"github.com/venuebill/venuebill/internal/domain/transaction"
	ierr "github.com/venuebill/venuebill/internal/errors"
)

// InMemoryTransactionStore is an in-memory implementation of the
// transaction repository, enforcing the provider-invoice uniqueness the
// real store gets from its unique index.
type InMemoryTransactionStore struct {
	mu           sync.Mutex
	transactions map[string]*transaction.Transaction
	byInvoice    map[string]string
}

func NewInMemoryTransactionStore() *InMemoryTransactionStore {
	return &InMemoryTransactionStore{
		transactions: make(map[string]*transaction.Transaction),
		byInvoice:    make(map[string]string),
	}
}

func (s *InMemoryTransactionStore) Create(ctx context.Context, txn *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byInvoice[txn.ProviderInvoiceID]; exists {
		return ierr.NewError("transaction already exists").
			WithHint("A transaction already exists for this provider invoice").
			Mark(ierr.ErrAlreadyExists)
	}

	s.transactions[txn.ID] = txn
	s.byInvoice[txn.ProviderInvoiceID] = txn.ID
	return nil
}

func (s *InMemoryTransactionStore) Get(ctx context.Context, id string) (*transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, exists := s.transactions[id]
	if !exists {
		return nil, ierr.NewError("transaction not found").
			Mark(ierr.ErrNotFound)
	}
	return txn, nil
}

func (s *InMemoryTransactionStore) GetByProviderInvoiceID(ctx context.Context, providerInvoiceID string) (*transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.byInvoice[providerInvoiceID]
	if !exists {
		return nil, ierr.NewError("transaction not found").
			Mark(ierr.ErrNotFound)
	}
	return s.transactions[id], nil
}

func (s *InMemoryTransactionStore) ListByMembership(ctx context.Context, membershipID string) ([]*transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*transaction.Transaction
	for _, txn := range s.transactions {
		if txn.MembershipID == membershipID {
			result = append(result, txn)
		}
	}
	return result, nil
}

// Count returns the number of stored transactions
func (s *InMemoryTransactionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}
