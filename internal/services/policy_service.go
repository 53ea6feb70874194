package services

import (
	"context"
	"errors"
	"fmt"

	"propman-backend/internal/models"
	"propman-backend/internal/repositories"
)

// PolicyStore is the narrow lease policy contract the resolver consumes.
// A missing policy row is reported as repositories.ErrPolicyNotFound.
type PolicyStore interface {
	GetPolicy(ctx context.Context, leaseID string) (*models.StoredLateFeePolicy, error)
}

// PolicyCache is a read-through cache for resolved policies. Both
// methods are best-effort: a miss or a swallowed write only costs a
// store round trip on the next resolve.
type PolicyCache interface {
	Get(ctx context.Context, leaseID string) (*models.LateFeePolicy, bool)
	Set(ctx context.Context, policy *models.LateFeePolicy)
}

// PolicyService resolves the effective late fee policy for a lease. A
// lease without an explicit policy row gets the system defaults so it
// remains billable; null fields in an existing row are defaulted
// per-field, once, here. Any other store failure propagates: defaulting
// silently on a connectivity error could mask a systemic outage.
type PolicyService struct {
	store          PolicyStore
	cache          PolicyCache
	defaultGrace   int
	defaultFlatFee int64
}

// NewPolicyService wires the resolver. cache may be nil; resolution
// then always goes to the store.
func NewPolicyService(store PolicyStore, cache PolicyCache, defaultGraceDays int, defaultFlatFee int64) *PolicyService {
	if defaultGraceDays <= 0 {
		defaultGraceDays = models.DefaultGracePeriodDays
	}
	if defaultFlatFee <= 0 {
		defaultFlatFee = models.DefaultFlatFeeAmount
	}
	return &PolicyService{
		store:          store,
		cache:          cache,
		defaultGrace:   defaultGraceDays,
		defaultFlatFee: defaultFlatFee,
	}
}

func (s *PolicyService) Resolve(ctx context.Context, leaseID string) (*models.LateFeePolicy, error) {
	if leaseID == "" {
		return nil, ErrMissingLeaseID
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, leaseID); ok {
			return cached, nil
		}
	}

	policy := &models.LateFeePolicy{
		LeaseID:         leaseID,
		GracePeriodDays: s.defaultGrace,
		FlatFeeAmount:   s.defaultFlatFee,
	}

	stored, err := s.store.GetPolicy(ctx, leaseID)
	if err != nil {
		if errors.Is(err, repositories.ErrPolicyNotFound) {
			s.cachePolicy(ctx, policy)
			return policy, nil
		}
		return nil, fmt.Errorf("failed to load late fee policy: %w", err)
	}

	if stored.GracePeriodDays != nil {
		policy.GracePeriodDays = *stored.GracePeriodDays
	}
	if stored.FlatFeeAmount != nil {
		policy.FlatFeeAmount = *stored.FlatFeeAmount
	}

	s.cachePolicy(ctx, policy)
	return policy, nil
}

func (s *PolicyService) cachePolicy(ctx context.Context, policy *models.LateFeePolicy) {
	if s.cache != nil {
		s.cache.Set(ctx, policy)
	}
}
