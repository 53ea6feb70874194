package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"propman-backend/internal/metrics"
	"propman-backend/internal/models"
	"propman-backend/internal/timeutil"
)

// ErrMissingLeaseID rejects requests without a lease identifier before
// any I/O happens.
var ErrMissingLeaseID = errors.New("lease id is required")

// DefaultConcurrencyLimit bounds in-flight gateway calls per batch run.
// Chosen conservatively against gateway rate limits.
const DefaultConcurrencyLimit = 10

// ObligationStore is the obligation persistence contract. ClaimFee must
// be an atomic conditional write (claim succeeds for exactly one caller
// under concurrency); ReleaseFee reverts a claim after a confirmed
// downstream failure.
type ObligationStore interface {
	ListOverdue(ctx context.Context, leaseID string, gracePeriodDays int) ([]*models.OverdueObligation, error)
	ClaimFee(ctx context.Context, obligationID string, amountMinor int64) (bool, error)
	ReleaseFee(ctx context.Context, obligationID string) error
}

// BillingGateway creates the external charge for a claimed obligation.
type BillingGateway interface {
	CreateCharge(ctx context.Context, customerRef string, amountMinor int64, description string, metadata map[string]string) (string, error)
}

// CustomerResolver maps a lease to its gateway customer reference.
type CustomerResolver interface {
	GetCustomerRef(ctx context.Context, leaseID string) (string, error)
}

// LateFeeService assesses and applies late fees for a lease's overdue
// rent obligations. Claim strictly precedes charge for every obligation:
// the claim is the compensating rollback target when the charge leg
// fails, since the store and the gateway cannot share one transaction.
type LateFeeService struct {
	obligations ObligationStore
	policies    *PolicyService
	gateway     BillingGateway
	customers   CustomerResolver
	concurrency int
}

func NewLateFeeService(
	obligations ObligationStore,
	policies *PolicyService,
	gateway BillingGateway,
	customers CustomerResolver,
	concurrencyLimit int,
) *LateFeeService {
	if concurrencyLimit <= 0 {
		concurrencyLimit = DefaultConcurrencyLimit
	}
	return &LateFeeService{
		obligations: obligations,
		policies:    policies,
		gateway:     gateway,
		customers:   customers,
		concurrency: concurrencyLimit,
	}
}

// ListOverdue returns the lease's overdue, fee-eligible obligations
// oldest first, with no side effects.
func (s *LateFeeService) ListOverdue(ctx context.Context, leaseID string, gracePeriodDays int) ([]*models.OverdueObligation, error) {
	if leaseID == "" {
		return nil, ErrMissingLeaseID
	}
	if gracePeriodDays < 0 {
		gracePeriodDays = 0
	}
	return s.obligations.ListOverdue(ctx, leaseID, gracePeriodDays)
}

// Preview computes the assessments a ProcessLease run would attempt,
// without claiming or charging anything.
func (s *LateFeeService) Preview(ctx context.Context, leaseID string) ([]*models.OverdueAssessment, *models.LateFeePolicy, error) {
	policy, err := s.policies.Resolve(ctx, leaseID)
	if err != nil {
		return nil, nil, err
	}

	overdue, err := s.obligations.ListOverdue(ctx, leaseID, policy.GracePeriodDays)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list overdue obligations: %w", err)
	}

	assessments := make([]*models.OverdueAssessment, 0, len(overdue))
	for _, ob := range overdue {
		assessments = append(assessments, &models.OverdueAssessment{
			Obligation:  ob,
			Calculation: CalculateFee(ob.AmountMinor/models.MinorUnitsPerMajor, ob.DaysLate, policy),
		})
	}
	return assessments, policy, nil
}

// batchTask is one eligible obligation queued for claim+charge.
type batchTask struct {
	obligation *models.OverdueObligation
	calc       models.FeeCalculation
}

// ProcessLease assesses every overdue obligation of the lease and
// applies late fees in chunks of at most the configured concurrency
// limit. Within a chunk claim+charge sequences race freely; the next
// chunk starts only after the previous one fully settles, bounding
// in-flight gateway calls at any instant.
//
// One obligation's failure never aborts the others: lost claims are
// skipped silently, failed charges are logged and excluded. Only the
// pre-batch setup reads (policy, overdue list, customer ref) are fatal
// to the invocation, since nothing can be processed without them.
func (s *LateFeeService) ProcessLease(ctx context.Context, leaseID, requestedBy string) (*models.BatchResult, error) {
	if leaseID == "" {
		return nil, ErrMissingLeaseID
	}
	start := timeutil.Now()

	policy, err := s.policies.Resolve(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	overdue, err := s.obligations.ListOverdue(ctx, leaseID, policy.GracePeriodDays)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue obligations: %w", err)
	}

	var eligible []batchTask
	for _, ob := range overdue {
		calc := CalculateFee(ob.AmountMinor/models.MinorUnitsPerMajor, ob.DaysLate, policy)
		if calc.ShouldApply {
			eligible = append(eligible, batchTask{obligation: ob, calc: calc})
		}
	}

	result := &models.BatchResult{
		LeaseID: leaseID,
		Details: []*models.BatchDetail{},
		RanAt:   start,
	}
	if len(eligible) == 0 {
		return result, nil
	}

	customerRef, err := s.customers.GetCustomerRef(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	// Indexed result slots keep the oldest-first processing order in the
	// final detail list even though workers within a chunk finish in any
	// order. A nil slot is a skip or a failure.
	details := make([]*models.BatchDetail, len(eligible))
	for chunkStart := 0; chunkStart < len(eligible); chunkStart += s.concurrency {
		chunkEnd := min(chunkStart+s.concurrency, len(eligible))

		var wg sync.WaitGroup
		for i := chunkStart; i < chunkEnd; i++ {
			wg.Add(1)
			go func(idx int, task batchTask) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						log.Printf("[LateFee] panic applying fee to obligation %s: %v", task.obligation.ID, r)
					}
				}()

				detail, err := s.applyFee(ctx, customerRef, task.obligation, task.calc)
				if err != nil {
					log.Printf("[LateFee] obligation %s: %v", task.obligation.ID, err)
					return
				}
				details[idx] = detail
			}(i, eligible[i])
		}
		wg.Wait()
	}

	for _, d := range details {
		if d == nil {
			continue
		}
		result.Details = append(result.Details, d)
		result.Processed++
		result.TotalFees += d.FeeAmount
	}

	metrics.BatchDuration.Observe(time.Since(start).Seconds())
	log.Printf("[LateFee] lease %s: charged %d of %d eligible obligations, total fees %d (requested by %s)",
		leaseID, result.Processed, len(eligible), result.TotalFees, requestedBy)

	return result, nil
}

// applyFee runs the claim+charge sequence for one obligation. Returns
// (nil, nil) when the claim was lost to a concurrent actor: that is a
// skip, never retried within this run. A gateway failure releases the
// claim so a future invocation can retry cleanly, then surfaces the
// error to the orchestrator.
func (s *LateFeeService) applyFee(ctx context.Context, customerRef string, ob *models.OverdueObligation, calc models.FeeCalculation) (*models.BatchDetail, error) {
	feeMinor := calc.Amount * models.MinorUnitsPerMajor

	claimed, err := s.obligations.ClaimFee(ctx, ob.ID, feeMinor)
	if err != nil {
		return nil, err
	}
	if !claimed {
		metrics.ClaimConflictsTotal.Inc()
		return nil, nil
	}

	description := fmt.Sprintf("Late fee for rent due %s", ob.DueDate.Format(timeutil.DateLayout))
	metadata := map[string]string{
		"obligation_id": ob.ID,
		"reason":        calc.Reason,
	}

	if _, err := s.gateway.CreateCharge(ctx, customerRef, feeMinor, description, metadata); err != nil {
		metrics.GatewayFailuresTotal.Inc()
		if relErr := s.obligations.ReleaseFee(ctx, ob.ID); relErr != nil {
			log.Printf("[LateFee] failed to release claim on obligation %s after charge failure: %v", ob.ID, relErr)
		}
		return nil, fmt.Errorf("gateway charge failed: %w", err)
	}

	// The committed non-null late_fee_amount is the permanent record of
	// the fee; no further state write on success.
	metrics.LateFeesChargedTotal.Inc()
	metrics.LateFeeAmountTotal.Add(float64(calc.Amount))

	return &models.BatchDetail{
		ObligationID: ob.ID,
		FeeAmount:    calc.Amount,
		DaysOverdue:  ob.DaysLate,
	}, nil
}
