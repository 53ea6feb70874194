package gateway

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway creates late fee charges as Razorpay invoice line
// items. Charges carry notes metadata linking back to the obligation so
// gateway records are auditable against the obligation store.
type RazorpayGateway struct {
	client   *razorpay.Client
	currency string
}

func NewRazorpayGateway(keyID, keySecret, currency string) *RazorpayGateway {
	g := &RazorpayGateway{currency: currency}
	if keyID != "" && keySecret != "" {
		g.client = razorpay.NewClient(keyID, keySecret)
	}
	return g
}

// CreateCharge creates a one-item invoice against the gateway customer.
// amountMinor is in minor currency units (paise). The caller must hold a
// committed claim on the obligation before charging; on failure the
// caller owns the compensating release.
func (g *RazorpayGateway) CreateCharge(ctx context.Context, customerRef string, amountMinor int64, description string, metadata map[string]string) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("razorpay client not configured")
	}

	notes := map[string]interface{}{}
	for k, v := range metadata {
		notes[k] = v
	}

	data := map[string]interface{}{
		"type":        "invoice",
		"customer_id": customerRef,
		"currency":    g.currency,
		"line_items": []map[string]interface{}{
			{
				"name":        "Late fee",
				"description": description,
				"amount":      amountMinor,
				"currency":    g.currency,
				"quantity":    1,
			},
		},
		"notes": notes,
	}

	invoice, err := g.client.Invoice.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create razorpay invoice: %w", err)
	}

	lineItemID, ok := invoice["id"].(string)
	if !ok || lineItemID == "" {
		return "", fmt.Errorf("razorpay invoice response missing id")
	}

	return lineItemID, nil
}
