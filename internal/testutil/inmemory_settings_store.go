package testutil

import (
	"context"
	"sync"

	"github.com/venuebill/venuebill/internal/domain/settings"
	ierr "github.com/venuebill/venuebill/internal/errors"
)

// InMemorySettingsStore is an in-memory implementation of the billing
// settings repository, keyed by organization
type InMemorySettingsStore struct {
	mu       sync.Mutex
	settings map[string]*settings.BillingSettings
}

func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{
		settings: make(map[string]*settings.BillingSettings),
	}
}

func (s *InMemorySettingsStore) GetByOrganization(ctx context.Context, organizationID string) (*settings.BillingSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bs, exists := s.settings[organizationID]
	if !exists {
		return nil, ierr.NewError("billing settings not found").
			Mark(ierr.ErrNotFound)
	}
	return bs, nil
}

func (s *InMemorySettingsStore) Upsert(ctx context.Context, bs *settings.BillingSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[bs.OrganizationID] = bs
	return nil
}
