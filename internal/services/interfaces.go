package services

import (
	"context"
	"net/http"

	domain "github.com/jatinkmr/stripe-demo/internal/domain"
	"github.com/jatinkmr/stripe-demo/internal/payments"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Product          = domain.Product
	CartItem         = domain.CartItem
	CheckoutLineItem = domain.CheckoutLineItem
)

// CheckoutSessionResult carries the identifiers the storefront needs to hand
// the shopper off to the hosted payment page.
type CheckoutSessionResult struct {
	SessionID string
	URL       string
}

// PaymentIntentResult carries the identifiers the embedded payment flow needs
// to confirm a payment on the client.
type PaymentIntentResult struct {
	IntentID     string
	ClientSecret string
}

// RedirectOutcome describes how a completed embedded payment should be
// presented to the shopper.
type RedirectOutcome struct {
	IntentID string
	Status   string
}

// CatalogService exposes the sellable product list.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]Product, error)
	FindProduct(id int64) (Product, bool)
}

// CheckoutService validates carts and drives the payment gateway.
type CheckoutService interface {
	BuildLineItems(ctx context.Context, items []CartItem) ([]CheckoutLineItem, error)
	CreateCheckoutSession(ctx context.Context, items []CartItem) (CheckoutSessionResult, error)
	CreatePaymentIntent(ctx context.Context, amount int64) (PaymentIntentResult, error)
}

// CallbackService records payment callback traffic and enriches the records
// with gateway state where a gateway identifier is present.
type CallbackService interface {
	RecordSuccess(ctx context.Context, req *http.Request, sessionID string) error
	RecordCancel(ctx context.Context, req *http.Request, sessionID string) error
	RecordRedirect(ctx context.Context, req *http.Request, intentID string) (RedirectOutcome, error)
}

// PaymentGateway re-exports the payments gateway contract so callers can wire
// services without importing the payments package directly.
type PaymentGateway = payments.Gateway
