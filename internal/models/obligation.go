package models

import "time"

// Obligation payment statuses. Only pending and failed obligations are
// candidates for late fee assessment.
const (
	ObligationStatusPending = "pending"
	ObligationStatusFailed  = "failed"
	ObligationStatusPaid    = "paid"
)

// OverdueObligation is a fee-eligible rent charge returned by the
// overdue listing. AmountMinor is in minor currency units (paise).
// DaysLate is whole days past the due date, computed once per listing.
// The obligation's late_fee_amount column is nil until a fee is claimed
// against it; the nil -> non-nil transition happens at most once,
// enforced by the store's conditional update.
type OverdueObligation struct {
	ID          string    `json:"id"`
	LeaseID     string    `json:"lease_id"`
	AmountMinor int64     `json:"amount_minor"`
	DueDate     time.Time `json:"due_date"`
	DaysLate    int       `json:"days_late"`
}
