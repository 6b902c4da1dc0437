package testutil

import (
	"context"
	"sync"

	"github.com/venuebill/venuebill/internal/domain/membership"
	ierr "github.com/venuebill/venuebill/internal/errors"
)

// InMemoryMembershipStore is an in-memory implementation of the
// membership repository
type InMemoryMembershipStore struct {
	mu          sync.Mutex
	memberships map[string]*membership.Membership
	pauses      map[string]*membership.Pause
}

func NewInMemoryMembershipStore() *InMemoryMembershipStore {
	return &InMemoryMembershipStore{
		memberships: make(map[string]*membership.Membership),
		pauses:      make(map[string]*membership.Pause),
	}
}

func (s *InMemoryMembershipStore) Create(ctx context.Context, m *membership.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.memberships[m.ID]; exists {
		return ierr.NewError("membership already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	s.memberships[m.ID] = m
	return nil
}

func (s *InMemoryMembershipStore) Get(ctx context.Context, id string) (*membership.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, exists := s.memberships[id]
	if !exists {
		return nil, ierr.NewError("membership not found").
			Mark(ierr.ErrNotFound)
	}
	return m, nil
}

func (s *InMemoryMembershipStore) GetByProviderSubscriptionID(ctx context.Context, providerSubscriptionID string) (*membership.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.memberships {
		if m.ProviderSubscriptionID == providerSubscriptionID {
			return m, nil
		}
	}
	return nil, ierr.NewError("membership not found").
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryMembershipStore) Update(ctx context.Context, m *membership.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.memberships[m.ID]; !exists {
		return ierr.NewError("membership not found").
			Mark(ierr.ErrNotFound)
	}
	s.memberships[m.ID] = m
	return nil
}

func (s *InMemoryMembershipStore) CreatePause(ctx context.Context, p *membership.Pause) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pauses[p.ID] = p
	return nil
}

func (s *InMemoryMembershipStore) GetActivePause(ctx context.Context, membershipID string) (*membership.Pause, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.pauses {
		if p.MembershipID == membershipID && !p.Completed {
			return p, nil
		}
	}
	return nil, ierr.NewError("no active pause").
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryMembershipStore) UpdatePause(ctx context.Context, p *membership.Pause) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pauses[p.ID]; !exists {
		return ierr.NewError("pause record not found").
			Mark(ierr.ErrNotFound)
	}
	s.pauses[p.ID] = p
	return nil
}
