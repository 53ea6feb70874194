package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"propman-backend/internal/config"
	"propman-backend/internal/models"
)

// Policy cache keys
const (
	policyKeyFmt = "latefee:policy:%s"
	policyTTL    = 5 * time.Minute
)

var client *redis.Client

// Init initializes the Redis connection. A failed connection is not
// fatal: all cache operations degrade to no-ops when the client is nil.
func Init(cfg *config.Config) error {
	host := cfg.Redis.Host
	if host == "" {
		host = "redis" // fallback to service name
	}

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client (nil when the cache is unavailable)
func GetClient() *redis.Client {
	return client
}

func policyKey(leaseID string) string {
	return fmt.Sprintf(policyKeyFmt, leaseID)
}

// PolicyCache stores resolved late fee policies in Redis with a short
// TTL. Safe to use when Redis never came up: every operation is a no-op
// on a nil client.
type PolicyCache struct{}

func NewPolicyCache() *PolicyCache {
	return &PolicyCache{}
}

// Get returns a previously resolved policy, or a miss when the cache is
// unavailable or the entry is absent or unreadable.
func (c *PolicyCache) Get(ctx context.Context, leaseID string) (*models.LateFeePolicy, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, policyKey(leaseID)).Bytes()
	if err != nil {
		return nil, false
	}
	var policy models.LateFeePolicy
	if err := json.Unmarshal(data, &policy); err != nil {
		return nil, false
	}
	return &policy, true
}

// Set caches a resolved policy for 5 minutes
func (c *PolicyCache) Set(ctx context.Context, policy *models.LateFeePolicy) {
	if client == nil || policy == nil {
		return
	}
	data, err := json.Marshal(policy)
	if err != nil {
		return
	}
	client.Set(ctx, policyKey(policy.LeaseID), data, policyTTL)
}
