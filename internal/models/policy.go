package models

// System-default late fee policy values, used when a lease has no policy
// row or when individual fields are unset.
const (
	DefaultGracePeriodDays = 5
	DefaultFlatFeeAmount   = 50 // major currency units
)

// LateFeePolicy is the effective per-lease late fee configuration with
// all defaults already applied. FlatFeeAmount is in major currency units.
type LateFeePolicy struct {
	LeaseID         string `json:"lease_id"`
	GracePeriodDays int    `json:"grace_period_days"`
	FlatFeeAmount   int64  `json:"flat_fee_amount"`
}

// StoredLateFeePolicy mirrors the policy row as persisted, where either
// field may be null. Defaulting happens once in the policy service, not
// at call sites.
type StoredLateFeePolicy struct {
	LeaseID         string
	GracePeriodDays *int
	FlatFeeAmount   *int64
}
