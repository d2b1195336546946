package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/jatinkmr/stripe-demo/internal/domain"
	"github.com/jatinkmr/stripe-demo/internal/payments"
)

var (
	// ErrEmptyCart indicates a checkout was attempted with no items.
	ErrEmptyCart = errors.New("checkout service: cart is empty")
	// ErrInvalidAmount indicates a payment intent was requested for a
	// non-positive amount.
	ErrInvalidAmount = errors.New("checkout service: amount must be a positive integer")
)

// UnknownProductError indicates a cart item referenced a product that is not
// in the catalog.
type UnknownProductError struct {
	ProductID int64
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("checkout service: unknown product id %d", e.ProductID)
}

// InvalidQuantityError indicates a cart item carried a quantity that is not a
// positive integer.
type InvalidQuantityError struct {
	ProductID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("checkout service: invalid quantity for product id %d", e.ProductID)
}

// GatewayError wraps a failure reported by the payment gateway so handlers
// can distinguish provider faults from caller mistakes.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("checkout service: gateway failure: %v", e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// CheckoutServiceDeps bundles constructor inputs for the checkout service.
type CheckoutServiceDeps struct {
	Catalog        CatalogService
	Gateway        payments.Gateway
	SuccessURL     string
	CancelURL      string
	Logger         func(ctx context.Context, event string, fields map[string]any)
	PromotionCodes bool
}

type checkoutService struct {
	catalog        CatalogService
	gateway        payments.Gateway
	successURL     string
	cancelURL      string
	logger         func(ctx context.Context, event string, fields map[string]any)
	promotionCodes bool
}

// NewCheckoutService constructs the checkout service with the supplied
// dependencies.
func NewCheckoutService(deps CheckoutServiceDeps) (CheckoutService, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("checkout service: catalog is required")
	}
	if deps.Gateway == nil {
		return nil, fmt.Errorf("checkout service: payment gateway is required")
	}
	successURL := strings.TrimSpace(deps.SuccessURL)
	if successURL == "" {
		return nil, fmt.Errorf("checkout service: success url is required")
	}
	cancelURL := strings.TrimSpace(deps.CancelURL)
	if cancelURL == "" {
		return nil, fmt.Errorf("checkout service: cancel url is required")
	}
	return &checkoutService{
		catalog:        deps.Catalog,
		gateway:        deps.Gateway,
		successURL:     successURL,
		cancelURL:      cancelURL,
		logger:         deps.Logger,
		promotionCodes: deps.PromotionCodes,
	}, nil
}

// BuildLineItems validates the cart against the catalog and converts each
// item into a gateway line item. Unit amounts are expressed in the currency's
// minor unit, so catalog prices are multiplied by 100.
func (s *checkoutService) BuildLineItems(ctx context.Context, items []CartItem) ([]CheckoutLineItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	lineItems := make([]CheckoutLineItem, 0, len(items))
	for _, item := range items {
		product, ok := s.catalog.FindProduct(item.ProductID)
		if !ok {
			return nil, &UnknownProductError{ProductID: item.ProductID}
		}
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		lineItems = append(lineItems, CheckoutLineItem{
			Name:       product.Name,
			Currency:   domain.DefaultCurrency,
			UnitAmount: product.Price * 100,
			Quantity:   item.Quantity,
		})
	}
	return lineItems, nil
}

func (s *checkoutService) CreateCheckoutSession(ctx context.Context, items []CartItem) (CheckoutSessionResult, error) {
	lineItems, err := s.BuildLineItems(ctx, items)
	if err != nil {
		return CheckoutSessionResult{}, err
	}

	gatewayItems := make([]payments.CheckoutLineItem, 0, len(lineItems))
	for _, item := range lineItems {
		gatewayItems = append(gatewayItems, payments.CheckoutLineItem{
			Name:       item.Name,
			Currency:   item.Currency,
			UnitAmount: item.UnitAmount,
			Quantity:   item.Quantity,
		})
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payments.CheckoutSessionRequest{
		Items:               gatewayItems,
		SuccessURL:          s.successURL,
		CancelURL:           s.cancelURL,
		AllowPromotionCodes: s.promotionCodes,
	})
	if err != nil {
		return CheckoutSessionResult{}, &GatewayError{Err: err}
	}
	if strings.TrimSpace(session.RedirectURL) == "" {
		return CheckoutSessionResult{}, &GatewayError{Err: fmt.Errorf("session %s has no redirect url", session.ID)}
	}

	s.log(ctx, "checkout.session.created", map[string]any{
		"session_id": session.ID,
		"line_items": len(gatewayItems),
	})
	return CheckoutSessionResult{SessionID: session.ID, URL: session.RedirectURL}, nil
}

func (s *checkoutService) CreatePaymentIntent(ctx context.Context, amount int64) (PaymentIntentResult, error) {
	if err := ctx.Err(); err != nil {
		return PaymentIntentResult{}, err
	}
	if amount <= 0 {
		return PaymentIntentResult{}, ErrInvalidAmount
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, payments.PaymentIntentRequest{
		Amount:   amount,
		Currency: domain.DefaultCurrency,
	})
	if err != nil {
		return PaymentIntentResult{}, &GatewayError{Err: err}
	}
	if strings.TrimSpace(intent.ClientSecret) == "" {
		return PaymentIntentResult{}, &GatewayError{Err: fmt.Errorf("intent %s has no client secret", intent.ID)}
	}

	s.log(ctx, "checkout.intent.created", map[string]any{
		"intent_id": intent.ID,
		"amount":    amount,
	})
	return PaymentIntentResult{IntentID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

func (s *checkoutService) log(ctx context.Context, event string, fields map[string]any) {
	if s.logger == nil {
		return
	}
	s.logger(ctx, event, fields)
}
