package repositories

import (
	"context"
	"fmt"

	"propman-backend/internal/models"
	"propman-backend/internal/timeutil"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ObligationRepository struct {
	DB *pgxpool.Pool
}

func NewObligationRepository(db *pgxpool.Pool) *ObligationRepository {
	return &ObligationRepository{DB: db}
}

// ListOverdue returns the lease's unpaid obligations that are past their
// grace period and have no late fee claimed yet, oldest due date first.
// Days late are computed against a single timestamp captured before the
// scan so every row in the batch sees a consistent snapshot. The
// ascending order is a processing-order contract: the
// longest-outstanding obligations are attempted first.
func (r *ObligationRepository) ListOverdue(ctx context.Context, leaseID string, gracePeriodDays int) ([]*models.OverdueObligation, error) {
	query := `
		SELECT id, lease_id, amount, due_date
		FROM rent_obligations
		WHERE lease_id = $1
		  AND status IN ($2, $3)
		  AND late_fee_amount IS NULL
		  AND due_date + make_interval(days => $4) < NOW()
		ORDER BY due_date ASC
	`

	rows, err := r.DB.Query(ctx, query, leaseID,
		models.ObligationStatusPending, models.ObligationStatusFailed, gracePeriodDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	now := timeutil.Now()
	var obligations []*models.OverdueObligation
	for rows.Next() {
		ob := &models.OverdueObligation{}
		err := rows.Scan(
			&ob.ID,
			&ob.LeaseID,
			&ob.AmountMinor,
			&ob.DueDate,
		)
		if err != nil {
			return nil, err
		}
		ob.DaysLate = timeutil.DaysLate(ob.DueDate, now)
		obligations = append(obligations, ob)
	}

	return obligations, rows.Err()
}

// ClaimFee atomically marks an obligation as claimed for fee application.
// The WHERE late_fee_amount IS NULL condition is the sole mutual-exclusion
// mechanism against double billing: when two batch runs race on the same
// obligation, exactly one update affects a row. Zero rows affected means
// another actor holds the claim; that is a skip, not an error.
func (r *ObligationRepository) ClaimFee(ctx context.Context, obligationID string, amountMinor int64) (bool, error) {
	query := `
		UPDATE rent_obligations
		SET late_fee_amount = $2, late_fee_applied_at = NOW()
		WHERE id = $1 AND late_fee_amount IS NULL
	`

	tag, err := r.DB.Exec(ctx, query, obligationID, amountMinor)
	if err != nil {
		return false, fmt.Errorf("failed to claim late fee: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ReleaseFee reverts a claim after a confirmed downstream failure,
// restoring the obligation's claimability. Must never be called after a
// successful charge.
func (r *ObligationRepository) ReleaseFee(ctx context.Context, obligationID string) error {
	query := `
		UPDATE rent_obligations
		SET late_fee_amount = NULL, late_fee_applied_at = NULL
		WHERE id = $1
	`

	if _, err := r.DB.Exec(ctx, query, obligationID); err != nil {
		return fmt.Errorf("failed to release late fee claim: %w", err)
	}
	return nil
}
