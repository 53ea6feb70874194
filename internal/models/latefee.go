package models

import (
	"fmt"
	"time"
)

// MinorUnitsPerMajor converts major currency units (policy flat fees,
// calculator output) to the minor units the obligation store and billing
// gateway operate in. The conversion happens exactly once, at the
// claim/charge boundary.
const MinorUnitsPerMajor = 100

// FormatMinorAmount renders a minor-unit amount as a decimal major-unit
// string without truncation, e.g. 505000 -> "5050.00", 123456 -> "1234.56".
func FormatMinorAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/MinorUnitsPerMajor, minor%MinorUnitsPerMajor)
}

// FeeCalculation is the outcome of a late fee calculation. Amount is in
// major currency units.
type FeeCalculation struct {
	Amount      int64  `json:"amount"`
	ShouldApply bool   `json:"should_apply"`
	Reason      string `json:"reason"`
}

// OverdueAssessment pairs an overdue obligation with the fee calculation
// a batch run would apply to it. Used by the read-only preview and the
// owner statement, never persisted.
type OverdueAssessment struct {
	Obligation  *OverdueObligation `json:"obligation"`
	Calculation FeeCalculation     `json:"calculation"`
}

// BatchDetail records one successfully charged obligation in a batch run.
// FeeAmount is in major currency units.
type BatchDetail struct {
	ObligationID string `json:"obligation_id"`
	FeeAmount    int64  `json:"fee_amount"`
	DaysOverdue  int    `json:"days_overdue"`
}

// BatchResult summarises a single ProcessLease invocation. Details
// preserve oldest-due-date-first order and contain only obligations whose
// charge actually succeeded; skipped claims and failed charges are
// excluded.
type BatchResult struct {
	LeaseID   string         `json:"lease_id"`
	Processed int            `json:"processed"`
	TotalFees int64          `json:"total_fees"`
	Details   []*BatchDetail `json:"details"`
	RanAt     time.Time      `json:"ran_at"`
}

// CalculateFeeRequest is the standalone calculator input. Policy fields
// are optional; missing fields fall back to system defaults.
type CalculateFeeRequest struct {
	RentAmount      int64  `json:"rent_amount"`
	DaysLate        int    `json:"days_late"`
	GracePeriodDays *int   `json:"grace_period_days,omitempty"`
	FlatFeeAmount   *int64 `json:"flat_fee_amount,omitempty"`
}
