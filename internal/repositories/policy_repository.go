package repositories

import (
	"context"
	"errors"

	"propman-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrPolicyNotFound marks a lease without an explicit late fee policy
// row. Callers absorb this into the system default policy; it is not a
// failure.
var ErrPolicyNotFound = errors.New("late fee policy not found")

type PolicyRepository struct {
	DB *pgxpool.Pool
}

func NewPolicyRepository(db *pgxpool.Pool) *PolicyRepository {
	return &PolicyRepository{DB: db}
}

// GetPolicy returns the stored policy row for a lease. Either field may
// be null; defaulting is the policy service's job.
func (r *PolicyRepository) GetPolicy(ctx context.Context, leaseID string) (*models.StoredLateFeePolicy, error) {
	query := `
		SELECT lease_id, grace_period_days, flat_fee_amount
		FROM late_fee_policies
		WHERE lease_id = $1
	`

	policy := &models.StoredLateFeePolicy{}
	err := r.DB.QueryRow(ctx, query, leaseID).Scan(
		&policy.LeaseID,
		&policy.GracePeriodDays,
		&policy.FlatFeeAmount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, err
	}

	return policy, nil
}
