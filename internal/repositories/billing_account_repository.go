package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrBillingAccountNotFound = errors.New("billing account not found")

// BillingAccountRepository resolves the external gateway customer
// reference for a lease's owning account. Read-only from the late fee
// subsystem's perspective.
type BillingAccountRepository struct {
	DB *pgxpool.Pool
}

func NewBillingAccountRepository(db *pgxpool.Pool) *BillingAccountRepository {
	return &BillingAccountRepository{DB: db}
}

func (r *BillingAccountRepository) GetCustomerRef(ctx context.Context, leaseID string) (string, error) {
	query := `
		SELECT gateway_customer_id
		FROM billing_accounts
		WHERE lease_id = $1
	`

	var customerRef string
	err := r.DB.QueryRow(ctx, query, leaseID).Scan(&customerRef)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrBillingAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve billing customer: %w", err)
	}

	return customerRef, nil
}
