package fwm

import (
	"context"
	"fmt"
	"strings"

	"fwm-go/internal/model"
)

// AddListing inserts a listing exactly as given; a lookup of its id returns the
// same fields. Only the expiry time of day is dropped, since the store keeps dates.
// The id must not be taken (ErrIntegrity); fields are validated before the store
// is touched (ErrValidation). ProviderType and Location are stored as supplied.
func (s *Service) AddListing(ctx context.Context, l model.FoodListing) (*model.FoodListing, error) {
	l.ExpiryDate = dateOf(l.ExpiryDate)
	if err := s.check(&l); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.database.InsertListing(ctx, &l); err != nil {
		return nil, fmt.Errorf("adding listing %d: %w", l.ID, err)
	}
	s.logger.Info("listing added", "food_id", l.ID, "food_name", l.Name, "quantity", l.Quantity)
	return &l, nil
}

// CreateListing is the form-level add: it trims the name, resolves the provider to fill the
// denormalised ProviderType and Location, and allocates max+1 when l.ID is 0.
// An unknown provider fails with ErrInvalidReference.
func (s *Service) CreateListing(ctx context.Context, l model.FoodListing) (*model.FoodListing, error) {
	l.Name = strings.TrimSpace(l.Name)
	l.ExpiryDate = dateOf(l.ExpiryDate)

	// Validate everything but the id before allocating one.
	probe := l
	if probe.ID == 0 {
		probe.ID = 1
	}
	if err := s.check(&probe); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	provider, err := s.database.GetProvider(ctx, l.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("resolving provider %d: %w", l.ProviderID, err)
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: provider %d does not exist", ErrInvalidReference, l.ProviderID)
	}
	l.ProviderType = provider.Type
	l.Location = provider.City

	if l.ID == 0 {
		maxID, err := s.database.MaxFoodID(ctx)
		if err != nil {
			return nil, fmt.Errorf("allocating food id: %w", err)
		}
		l.ID = maxID + 1
	}

	if err := s.database.InsertListing(ctx, &l); err != nil {
		return nil, fmt.Errorf("adding listing %d: %w", l.ID, err)
	}
	s.logger.Info("listing created", "food_id", l.ID, "food_name", l.Name, "provider_id", l.ProviderID)
	return &l, nil
}

// UpdateListing overwrites the mutable fields of listing id, trimming the name.
// Applying the same update twice is a no-op the second time. A missing id fails with ErrNotFound.
func (s *Service) UpdateListing(ctx context.Context, id int64, u model.ListingUpdate) (*model.FoodListing, error) {
	u.Name = strings.TrimSpace(u.Name)
	u.ExpiryDate = dateOf(u.ExpiryDate)
	if err := s.check(&u); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.database.UpdateListing(ctx, id, &u); err != nil {
		return nil, fmt.Errorf("updating listing %d: %w", id, err)
	}
	updated, err := s.database.GetListing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reloading listing %d: %w", id, err)
	}
	s.logger.Info("listing updated", "food_id", id)
	return updated, nil
}

// DeleteListing removes listing id and every claim referencing it.
// Deleting a missing id succeeds with zero counts.
func (s *Service) DeleteListing(ctx context.Context, id int64) (*model.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.database.DeleteListing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("deleting listing %d: %w", id, err)
	}
	if res.ListingDeleted {
		s.logger.Info("listing deleted", "food_id", id, "claims_deleted", res.ClaimsDeleted)
	} else {
		s.logger.Debug("delete of missing listing ignored", "food_id", id)
	}
	return res, nil
}

// GetListing returns listing id, failing with ErrNotFound when it does not exist.
func (s *Service) GetListing(ctx context.Context, id int64) (*model.FoodListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, err := s.database.GetListing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding listing %d: %w", id, err)
	}
	if l == nil {
		return nil, fmt.Errorf("%w: listing %d", ErrNotFound, id)
	}
	return l, nil
}

// ListListings returns every listing ordered by id.
func (s *Service) ListListings(ctx context.Context) ([]*model.FoodListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.database.ListListings(ctx)
}
