package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/jatinkmr/stripe-demo/internal/services"
)

type stubCatalogService struct {
	listFunc func(ctx context.Context) ([]services.Product, error)
	findFunc func(id int64) (services.Product, bool)
}

func (s *stubCatalogService) ListProducts(ctx context.Context) ([]services.Product, error) {
	if s.listFunc == nil {
		return nil, errors.New("listFunc not configured")
	}
	return s.listFunc(ctx)
}

func (s *stubCatalogService) FindProduct(id int64) (services.Product, bool) {
	if s.findFunc == nil {
		return services.Product{}, false
	}
	return s.findFunc(id)
}

type stubCheckoutService struct {
	buildFunc         func(ctx context.Context, items []services.CartItem) ([]services.CheckoutLineItem, error)
	createSessionFunc func(ctx context.Context, items []services.CartItem) (services.CheckoutSessionResult, error)
	createIntentFunc  func(ctx context.Context, amount int64) (services.PaymentIntentResult, error)
}

func (s *stubCheckoutService) BuildLineItems(ctx context.Context, items []services.CartItem) ([]services.CheckoutLineItem, error) {
	if s.buildFunc == nil {
		return nil, errors.New("buildFunc not configured")
	}
	return s.buildFunc(ctx, items)
}

func (s *stubCheckoutService) CreateCheckoutSession(ctx context.Context, items []services.CartItem) (services.CheckoutSessionResult, error) {
	if s.createSessionFunc == nil {
		return services.CheckoutSessionResult{}, errors.New("createSessionFunc not configured")
	}
	return s.createSessionFunc(ctx, items)
}

func (s *stubCheckoutService) CreatePaymentIntent(ctx context.Context, amount int64) (services.PaymentIntentResult, error) {
	if s.createIntentFunc == nil {
		return services.PaymentIntentResult{}, errors.New("createIntentFunc not configured")
	}
	return s.createIntentFunc(ctx, amount)
}

type stubCallbackService struct {
	successFunc  func(ctx context.Context, req *http.Request, sessionID string) error
	cancelFunc   func(ctx context.Context, req *http.Request, sessionID string) error
	redirectFunc func(ctx context.Context, req *http.Request, intentID string) (services.RedirectOutcome, error)
}

func (s *stubCallbackService) RecordSuccess(ctx context.Context, req *http.Request, sessionID string) error {
	if s.successFunc == nil {
		return nil
	}
	return s.successFunc(ctx, req, sessionID)
}

func (s *stubCallbackService) RecordCancel(ctx context.Context, req *http.Request, sessionID string) error {
	if s.cancelFunc == nil {
		return nil
	}
	return s.cancelFunc(ctx, req, sessionID)
}

func (s *stubCallbackService) RecordRedirect(ctx context.Context, req *http.Request, intentID string) (services.RedirectOutcome, error) {
	if s.redirectFunc == nil {
		return services.RedirectOutcome{}, errors.New("redirectFunc not configured")
	}
	return s.redirectFunc(ctx, req, intentID)
}
