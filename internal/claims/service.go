package claims

import (
	"context"
	"log"

	"github.com/bits-lost-found/go-backend/internal/items"
)

type Service struct {
	repo       *Repo
	cache      *items.ListingCache
	policy     RevertPolicy
	expiryDays int
}

// NewService wires the claim workflow. cache may be nil.
func NewService(repo *Repo, cache *items.ListingCache, policy RevertPolicy, expiryDays int) *Service {
	return &Service{repo: repo, cache: cache, policy: policy, expiryDays: expiryDays}
}

// Claim places a claim on a FOUND item for the given user.
func (s *Service) Claim(ctx context.Context, itemID, claimantID int64, contact Contact, details IDDetails) (int64, error) {
	id, err := s.repo.Claim(ctx, ClaimInput{
		ItemID:     itemID,
		ClaimantID: claimantID,
		Contact:    contact,
		IDDetails:  details,
		ExpiryDays: s.expiryDays,
	})
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return id, nil
}

// Remove deletes a claim and reverts its item to FOUND per the configured
// holder policy.
func (s *Service) Remove(ctx context.Context, claimID int64) error {
	if err := s.repo.Remove(ctx, claimID, s.policy); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}

func (s *Service) Active(ctx context.Context) ([]ClaimView, error) {
	return s.repo.Active(ctx)
}

func (s *Service) All(ctx context.Context) ([]ClaimView, error) {
	return s.repo.All(ctx)
}

func (s *Service) ByUser(ctx context.Context, userID int64) ([]ClaimView, error) {
	return s.repo.ByUser(ctx, userID)
}

// SweepExpired releases every claim whose expiry has passed, using the same
// removal transition as a manual release. Returns how many were released.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	ids, err := s.repo.ExpiredIDs(ctx)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, id := range ids {
		if err := s.Remove(ctx, id); err != nil {
			// A claim released concurrently is fine; anything else is
			// logged and the sweep moves on.
			log.Printf("[claims] sweep: release claim %d: %v", id, err)
			continue
		}
		released++
	}
	return released, nil
}
