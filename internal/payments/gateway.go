package payments

import (
	"context"
	"time"
)

// CheckoutLineItem describes a single line item to include in a checkout session.
type CheckoutLineItem struct {
	Name       string
	Quantity   int64
	UnitAmount int64
	Currency   string
}

// CheckoutSessionRequest captures the payload required to create a checkout session.
// Sessions are always one-time payments; recurring modes are out of scope.
type CheckoutSessionRequest struct {
	Items               []CheckoutLineItem
	SuccessURL          string
	CancelURL           string
	AllowPromotionCodes bool
}

// CheckoutSession represents the gateway session returned to the client.
type CheckoutSession struct {
	ID          string
	RedirectURL string
	IntentID    string
	ExpiresAt   time.Time
}

// PaymentIntentRequest captures the payload required to create a payment intent
// backing the embedded payment widget.
type PaymentIntentRequest struct {
	Amount   int64
	Currency string
}

// PaymentIntent is the created intent exposed to the storefront via its client secret.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
}

// PaymentDetails captures the state of a retrieved payment intent. Raw holds
// the full gateway payload for audit records.
type PaymentDetails struct {
	ID                 string
	Status             string
	Amount             int64
	Currency           string
	PaymentMethodTypes []string
	Created            time.Time
	LatestChargeID     string
	ReceiptURL         string
	Raw                map[string]any
}

// SessionDetails is the normalised view of a retrieved checkout session.
// Intent is nil when the session has not produced a payment intent yet, e.g.
// a hosted checkout cancelled before payment.
type SessionDetails struct {
	ID            string
	Status        string
	PaymentStatus string
	AmountTotal   int64
	Currency      string
	CustomerEmail string
	Mode          string
	Intent        *PaymentDetails
}

// SessionLineItem is one line of a retrieved checkout session.
type SessionLineItem struct {
	ID             string
	Description    string
	Quantity       int64
	AmountSubtotal int64
	AmountTotal    int64
	Currency       string
}

// Gateway defines the payment provider contract the service consumes. Session
// and intent creation mutate provider state; the retrieval calls are
// idempotent reads.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (CheckoutSession, error)
	CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (PaymentIntent, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (SessionDetails, error)
	GetPaymentIntent(ctx context.Context, intentID string) (PaymentDetails, error)
	ListLineItems(ctx context.Context, sessionID string) ([]SessionLineItem, error)
}
