package fwm

import (
	"context"
	"fmt"
	"strings"

	"fwm-go/internal/model"
)

// FilterListings returns listings joined with their provider's name and contact.
// Each non-empty filter field must match exactly; results are ordered by
// expiry date, then food name.
func (s *Service) FilterListings(ctx context.Context, f model.ListingFilter) ([]*model.ListingDetail, error) {
	f.City = strings.TrimSpace(f.City)
	f.ProviderType = strings.TrimSpace(f.ProviderType)
	if f.FoodType != "" && !f.FoodType.Valid() {
		return nil, fmt.Errorf("%w: unknown food type %q", ErrValidation, f.FoodType)
	}
	if f.MealType != "" && !f.MealType.Valid() {
		return nil, fmt.Errorf("%w: unknown meal type %q", ErrValidation, f.MealType)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	listings, err := s.database.FilterListings(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("filtering listings: %w", err)
	}
	return listings, nil
}

// FilterOptions returns the distinct values present for each listing filter.
func (s *Service) FilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.database.FilterOptions(ctx)
}

// NextFoodID returns 1 when there are no listings, otherwise max(food_id)+1.
func (s *Service) NextFoodID(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	maxID, err := s.database.MaxFoodID(ctx)
	if err != nil {
		return 0, fmt.Errorf("allocating food id: %w", err)
	}
	return maxID + 1, nil
}

func (s *Service) ListProviders(ctx context.Context) ([]*model.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.database.ListProviders(ctx)
}

// GetProvider returns provider id, failing with ErrNotFound when it does not exist.
func (s *Service) GetProvider(ctx context.Context, id int64) (*model.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.database.GetProvider(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding provider %d: %w", id, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: provider %d", ErrNotFound, id)
	}
	return p, nil
}

// ProviderCities returns the distinct provider cities, sorted.
func (s *Service) ProviderCities(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.database.ProviderCities(ctx)
}

func (s *Service) ListReceivers(ctx context.Context) ([]*model.Receiver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.database.ListReceivers(ctx)
}
