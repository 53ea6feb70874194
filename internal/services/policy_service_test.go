package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propman-backend/internal/models"
	"propman-backend/internal/repositories"
	"propman-backend/internal/services"
)

func intPtr(n int) *int       { return &n }
func int64Ptr(n int64) *int64 { return &n }

// fakePolicyCache is an in-memory services.PolicyCache recording hits
// and writes.
type fakePolicyCache struct {
	entries map[string]*models.LateFeePolicy
	gets    int
	sets    int
}

func newFakePolicyCache() *fakePolicyCache {
	return &fakePolicyCache{entries: map[string]*models.LateFeePolicy{}}
}

func (c *fakePolicyCache) Get(_ context.Context, leaseID string) (*models.LateFeePolicy, bool) {
	c.gets++
	policy, ok := c.entries[leaseID]
	return policy, ok
}

func (c *fakePolicyCache) Set(_ context.Context, policy *models.LateFeePolicy) {
	c.sets++
	c.entries[policy.LeaseID] = policy
}

func TestPolicyService_Resolve(t *testing.T) {
	t.Run("missing policy row resolves to system defaults", func(t *testing.T) {
		store := &fakePolicyStore{err: repositories.ErrPolicyNotFound}
		svc := services.NewPolicyService(store, nil, 0, 0)

		policy, err := svc.Resolve(context.Background(), "lease-1")

		require.NoError(t, err)
		assert.Equal(t, "lease-1", policy.LeaseID)
		assert.Equal(t, 5, policy.GracePeriodDays)
		assert.Equal(t, int64(50), policy.FlatFeeAmount)
	})

	t.Run("stored fields override defaults", func(t *testing.T) {
		store := &fakePolicyStore{
			policy: &models.StoredLateFeePolicy{
				LeaseID:         "lease-1",
				GracePeriodDays: intPtr(10),
				FlatFeeAmount:   int64Ptr(120),
			},
		}
		svc := services.NewPolicyService(store, nil, 5, 50)

		policy, err := svc.Resolve(context.Background(), "lease-1")

		require.NoError(t, err)
		assert.Equal(t, 10, policy.GracePeriodDays)
		assert.Equal(t, int64(120), policy.FlatFeeAmount)
	})

	t.Run("null fields are defaulted per field", func(t *testing.T) {
		store := &fakePolicyStore{
			policy: &models.StoredLateFeePolicy{
				LeaseID:       "lease-1",
				FlatFeeAmount: int64Ptr(200),
			},
		}
		svc := services.NewPolicyService(store, nil, 5, 50)

		policy, err := svc.Resolve(context.Background(), "lease-1")

		require.NoError(t, err)
		assert.Equal(t, 5, policy.GracePeriodDays)
		assert.Equal(t, int64(200), policy.FlatFeeAmount)
	})

	t.Run("store failure propagates instead of defaulting", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		store := &fakePolicyStore{err: storeErr}
		svc := services.NewPolicyService(store, nil, 5, 50)

		policy, err := svc.Resolve(context.Background(), "lease-1")

		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)
		assert.Nil(t, policy)
	})

	t.Run("missing lease id rejected before any lookup", func(t *testing.T) {
		store := &fakePolicyStore{}
		svc := services.NewPolicyService(store, nil, 5, 50)

		_, err := svc.Resolve(context.Background(), "")

		assert.ErrorIs(t, err, services.ErrMissingLeaseID)
		assert.Equal(t, 0, store.calls)
	})
}

func TestPolicyService_Cache(t *testing.T) {
	t.Run("second resolve is served from cache without a store call", func(t *testing.T) {
		store := &fakePolicyStore{
			policy: &models.StoredLateFeePolicy{
				LeaseID:         "lease-1",
				GracePeriodDays: intPtr(7),
				FlatFeeAmount:   int64Ptr(75),
			},
		}
		cache := newFakePolicyCache()
		svc := services.NewPolicyService(store, cache, 5, 50)

		first, err := svc.Resolve(context.Background(), "lease-1")
		require.NoError(t, err)
		require.Equal(t, 1, store.calls)
		require.Equal(t, 1, cache.sets)

		second, err := svc.Resolve(context.Background(), "lease-1")
		require.NoError(t, err)
		assert.Equal(t, 1, store.calls, "cached resolve must not hit the store")
		assert.Equal(t, first, second)
	})

	t.Run("default policy for a lease without a row is cached too", func(t *testing.T) {
		store := &fakePolicyStore{err: repositories.ErrPolicyNotFound}
		cache := newFakePolicyCache()
		svc := services.NewPolicyService(store, cache, 5, 50)

		_, err := svc.Resolve(context.Background(), "lease-2")
		require.NoError(t, err)

		policy, err := svc.Resolve(context.Background(), "lease-2")
		require.NoError(t, err)
		assert.Equal(t, 1, store.calls)
		assert.Equal(t, int64(50), policy.FlatFeeAmount)
	})

	t.Run("store failure is never cached", func(t *testing.T) {
		store := &fakePolicyStore{err: errors.New("connection refused")}
		cache := newFakePolicyCache()
		svc := services.NewPolicyService(store, cache, 5, 50)

		_, err := svc.Resolve(context.Background(), "lease-3")
		require.Error(t, err)
		assert.Equal(t, 0, cache.sets)
	})

	t.Run("nil cache resolves straight from the store", func(t *testing.T) {
		store := &fakePolicyStore{err: repositories.ErrPolicyNotFound}
		svc := services.NewPolicyService(store, nil, 5, 50)

		_, err := svc.Resolve(context.Background(), "lease-4")
		require.NoError(t, err)
		_, err = svc.Resolve(context.Background(), "lease-4")
		require.NoError(t, err)
		assert.Equal(t, 2, store.calls)
	})
}
