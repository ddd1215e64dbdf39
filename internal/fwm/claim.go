package fwm

import (
	"context"
	"fmt"
	"time"

	"fwm-go/internal/model"
)

// AddClaim inserts a claim as given. It does not check that the listing exists;
// use SubmitClaim for the validated path. A taken id fails with ErrIntegrity.
func (s *Service) AddClaim(ctx context.Context, c model.Claim) (*model.Claim, error) {
	if err := s.check(&c); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.database.InsertClaim(ctx, &c); err != nil {
		return nil, fmt.Errorf("adding claim %d: %w", c.ID, err)
	}
	return &c, nil
}

// SubmitClaim records a claim on foodID by receiverID with the given status.
// The listing and the receiver must exist, otherwise it fails with
// ErrInvalidReference and nothing is written. The id is max+1 and the
// timestamp is the current time, both taken under the write lock.
func (s *Service) SubmitClaim(ctx context.Context, foodID, receiverID int64, status model.ClaimStatus) (*model.Claim, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown claim status %q", ErrValidation, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	listing, err := s.database.GetListing(ctx, foodID)
	if err != nil {
		return nil, fmt.Errorf("checking listing %d: %w", foodID, err)
	}
	if listing == nil {
		s.logger.Warn("claim rejected", "food_id", foodID, "reason", "listing does not exist")
		return nil, fmt.Errorf("%w: listing %d does not exist", ErrInvalidReference, foodID)
	}

	receiver, err := s.database.GetReceiver(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("checking receiver %d: %w", receiverID, err)
	}
	if receiver == nil {
		s.logger.Warn("claim rejected", "receiver_id", receiverID, "reason", "receiver does not exist")
		return nil, fmt.Errorf("%w: receiver %d does not exist", ErrInvalidReference, receiverID)
	}

	id, err := s.nextClaimID(ctx)
	if err != nil {
		return nil, err
	}

	c := &model.Claim{
		ID:         id,
		FoodID:     foodID,
		ReceiverID: receiverID,
		Status:     status,
		Timestamp:  s.clock.Now().UTC().Truncate(time.Second),
	}
	if err := s.database.InsertClaim(ctx, c); err != nil {
		return nil, fmt.Errorf("adding claim %d: %w", id, err)
	}

	s.logger.Info("claim submitted", "claim_id", id, "food_id", foodID, "receiver_id", receiverID, "status", string(status))
	return c, nil
}

// NextClaimID returns 1 when there are no claims, otherwise max(claim_id)+1.
func (s *Service) NextClaimID(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.nextClaimID(ctx)
}

func (s *Service) nextClaimID(ctx context.Context) (int64, error) {
	maxID, err := s.database.MaxClaimID(ctx)
	if err != nil {
		return 0, fmt.Errorf("allocating claim id: %w", err)
	}
	return maxID + 1, nil
}

// ClaimHistory returns every claim with food and receiver names, newest first.
func (s *Service) ClaimHistory(ctx context.Context) ([]*model.ClaimDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.database.ClaimHistory(ctx)
}
