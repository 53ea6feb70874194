package services

import (
	"fmt"

	"propman-backend/internal/models"
)

// CalculateFee decides whether a late fee applies to a rent obligation
// that is daysLate whole days past its due date, and how much. Pure and
// deterministic: no I/O, no error paths. Amounts are in major currency
// units; rentAmount is carried for audit context, the flat fee policy
// does not scale with it.
//
// A nil policy means the system default policy.
func CalculateFee(rentAmount int64, daysLate int, policy *models.LateFeePolicy) models.FeeCalculation {
	grace := models.DefaultGracePeriodDays
	flatFee := int64(models.DefaultFlatFeeAmount)
	if policy != nil {
		grace = policy.GracePeriodDays
		flatFee = policy.FlatFeeAmount
	}

	if daysLate <= grace {
		return models.FeeCalculation{
			Amount:      0,
			ShouldApply: false,
			Reason:      fmt.Sprintf("Within %d-day grace period", grace),
		}
	}

	return models.FeeCalculation{
		Amount:      flatFee,
		ShouldApply: true,
		Reason:      fmt.Sprintf("%d days past due (grace period: %d days)", daysLate-grace, grace),
	}
}
