// backend/src/services/rate_service.go
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/patrickmn/go-cache"
	"github.com/username/shopledger/backend/src/logger"
	"github.com/username/shopledger/backend/src/processors"
	"github.com/username/shopledger/backend/src/security/validation"
)

const (
	SettingUSDToIQD = "usd_to_iqd"
	ckCurrentRate   = "rate_usd_iqd"
)

type rateServiceImpl struct {
	store     SettingsStore
	fallback  processors.Rate
	rateCache *cache.Cache
	bounds    validation.RateBounds
	mu        sync.Mutex
}

// NewRateService returns a RateService backed by store. fallback is used
// until a valid rate has been saved. bounds only applies to SetRate.
func NewRateService(store SettingsStore, fallback processors.Rate, rateCache *cache.Cache, bounds validation.RateBounds) RateService {
	return &rateServiceImpl{
		store:     store,
		fallback:  fallback,
		rateCache: rateCache,
		bounds:    bounds,
	}
}

func (s *rateServiceImpl) Current(ctx context.Context) (processors.Rate, error) {
	if cached, found := s.rateCache.Get(ckCurrentRate); found {
		return cached.(processors.Rate), nil
	}

	raw, found, err := s.store.GetSetting(ctx, SettingUSDToIQD)
	if err != nil {
		return processors.Rate{}, fmt.Errorf("failed to read exchange rate: %w", err)
	}

	rate := s.fallback
	if found {
		value, err := validation.ParseExchangeRate(raw)
		if err == nil {
			rate, err = processors.NewRate(value)
		}
		if err != nil {
			logger.FromContext(ctx).Warn("Stored exchange rate is invalid, using default", "stored", raw, "default", s.fallback.USDToIQD().String(), "error", err)
			rate = s.fallback
		}
	} else {
		logger.FromContext(ctx).Debug("No exchange rate saved yet, using default", "default", s.fallback.USDToIQD().String())
	}

	s.rateCache.Set(ckCurrentRate, rate, cache.DefaultExpiration)
	return rate, nil
}

// SetRate validates raw, persists it and makes it visible to every later
// computation. Invalid input leaves the stored rate untouched.
func (s *rateServiceImpl) SetRate(ctx context.Context, raw string) (processors.Rate, error) {
	value, err := validation.ParseExchangeRate(raw)
	if err != nil {
		return processors.Rate{}, err
	}
	if err := s.bounds.Check(value); err != nil {
		return processors.Rate{}, err
	}
	rate, err := processors.NewRate(value)
	if err != nil {
		return processors.Rate{}, fmt.Errorf("%w: %v", validation.ErrValidationFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetSetting(ctx, SettingUSDToIQD, value.String()); err != nil {
		return processors.Rate{}, fmt.Errorf("failed to save exchange rate: %w", err)
	}
	s.rateCache.Set(ckCurrentRate, rate, cache.DefaultExpiration)

	logger.FromContext(ctx).Info("Exchange rate updated", "usdToIQD", value.String())
	return rate, nil
}
