package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"propman-backend/internal/models"
	"propman-backend/internal/services"
)

func TestCalculateFee(t *testing.T) {
	defaultPolicy := &models.LateFeePolicy{
		GracePeriodDays: 5,
		FlatFeeAmount:   50,
	}

	tests := []struct {
		name            string
		rentAmount      int64
		daysLate        int
		policy          *models.LateFeePolicy
		wantAmount      int64
		wantShouldApply bool
		wantReason      string
	}{
		{
			name:            "past grace period applies flat fee",
			rentAmount:      1500,
			daysLate:        10,
			policy:          defaultPolicy,
			wantAmount:      50,
			wantShouldApply: true,
			wantReason:      "5 days past due (grace period: 5 days)",
		},
		{
			name:            "within grace period applies nothing",
			rentAmount:      800,
			daysLate:        3,
			policy:          defaultPolicy,
			wantAmount:      0,
			wantShouldApply: false,
			wantReason:      "Within 5-day grace period",
		},
		{
			name:            "exactly at grace boundary applies nothing",
			rentAmount:      1200,
			daysLate:        5,
			policy:          defaultPolicy,
			wantAmount:      0,
			wantShouldApply: false,
			wantReason:      "Within 5-day grace period",
		},
		{
			name:            "one day past grace applies fee",
			rentAmount:      1200,
			daysLate:        6,
			policy:          defaultPolicy,
			wantAmount:      50,
			wantShouldApply: true,
			wantReason:      "1 days past due (grace period: 5 days)",
		},
		{
			name:            "zero days late applies nothing",
			rentAmount:      1200,
			daysLate:        0,
			policy:          defaultPolicy,
			wantAmount:      0,
			wantShouldApply: false,
			wantReason:      "Within 5-day grace period",
		},
		{
			name:            "nil policy falls back to system defaults",
			rentAmount:      1500,
			daysLate:        10,
			policy:          nil,
			wantAmount:      50,
			wantShouldApply: true,
			wantReason:      "5 days past due (grace period: 5 days)",
		},
		{
			name:       "custom policy overrides grace and fee",
			rentAmount: 2000,
			daysLate:   4,
			policy: &models.LateFeePolicy{
				GracePeriodDays: 2,
				FlatFeeAmount:   75,
			},
			wantAmount:      75,
			wantShouldApply: true,
			wantReason:      "2 days past due (grace period: 2 days)",
		},
		{
			name:       "fee does not scale with rent amount",
			rentAmount: 999999,
			daysLate:   30,
			policy:     defaultPolicy,
			wantAmount:      50,
			wantShouldApply: true,
			wantReason:      "25 days past due (grace period: 5 days)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := services.CalculateFee(tt.rentAmount, tt.daysLate, tt.policy)

			assert.Equal(t, tt.wantAmount, calc.Amount)
			assert.Equal(t, tt.wantShouldApply, calc.ShouldApply)
			assert.Equal(t, tt.wantReason, calc.Reason)
		})
	}
}

func TestCalculateFeeIsDeterministic(t *testing.T) {
	policy := &models.LateFeePolicy{GracePeriodDays: 5, FlatFeeAmount: 50}

	first := services.CalculateFee(1500, 10, policy)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, services.CalculateFee(1500, 10, policy))
	}
}
