package service

import (
	"context"
	"time"

	"github.com/venuebill/venuebill/internal/cache"
	"github.com/venuebill/venuebill/internal/domain/settings"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/types"
)

const settingsCacheExpiry = 5 * time.Minute

// SettingsService resolves per-organization billing settings
type SettingsService interface {
	// GetOrDefault returns the organization's billing settings, falling
	// back to configured defaults when none have been saved.
	GetOrDefault(ctx context.Context) (*settings.BillingSettings, error)
	Update(ctx context.Context, s *settings.BillingSettings) (*settings.BillingSettings, error)
}

type settingsService struct {
	ServiceParams
}

// NewSettingsService creates a new settings service
func NewSettingsService(params ServiceParams) SettingsService {
	return &settingsService{ServiceParams: params}
}

func (s *settingsService) GetOrDefault(ctx context.Context) (*settings.BillingSettings, error) {
	orgID := types.GetOrganizationID(ctx)
	if orgID == "" {
		return nil, ierr.NewError("organization id is required").
			WithHint("Request context is missing an organization").
			Mark(ierr.ErrValidation)
	}

	cacheKey := cache.GenerateKey(cache.PrefixSettings, orgID)
	if cached, ok := s.Cache.Get(ctx, cacheKey); ok {
		if bs, ok := cached.(*settings.BillingSettings); ok {
			return bs, nil
		}
	}

	bs, err := s.SettingsRepo.GetByOrganization(ctx, orgID)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		bs = s.defaultSettings(ctx)
	}

	s.Cache.Set(ctx, cacheKey, bs, settingsCacheExpiry)
	return bs, nil
}

func (s *settingsService) Update(ctx context.Context, bs *settings.BillingSettings) (*settings.BillingSettings, error) {
	if bs.MinPaymentPercent < 0 || bs.MinPaymentPercent > 100 {
		return nil, ierr.NewError("minimum payment percent out of range").
			WithHintf("Minimum payment percent must be between 0 and 100, got %d", bs.MinPaymentPercent).
			Mark(ierr.ErrValidation)
	}

	if bs.ID == "" {
		bs.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SETTINGS)
		bs.BaseModel = types.GetDefaultBaseModel(ctx)
	}
	bs.UpdatedAt = time.Now().UTC()

	if err := s.SettingsRepo.Upsert(ctx, bs); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixSettings, bs.OrganizationID))
	return bs, nil
}

func (s *settingsService) defaultSettings(ctx context.Context) *settings.BillingSettings {
	return &settings.BillingSettings{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SETTINGS),
		MinPaymentPercent: s.Config.Billing.DefaultMinPaymentPercent,
		BaseModel:         types.GetDefaultBaseModel(ctx),
	}
}
