package services

import (
	"context"
	"errors"
	"sync"

	"github.com/jatinkmr/stripe-demo/internal/payments"
)

type stubGateway struct {
	createSessionFunc func(ctx context.Context, req payments.CheckoutSessionRequest) (payments.CheckoutSession, error)
	createIntentFunc  func(ctx context.Context, req payments.PaymentIntentRequest) (payments.PaymentIntent, error)
	getSessionFunc    func(ctx context.Context, sessionID string) (payments.SessionDetails, error)
	getIntentFunc     func(ctx context.Context, intentID string) (payments.PaymentDetails, error)
	listLineItemsFunc func(ctx context.Context, sessionID string) ([]payments.SessionLineItem, error)
}

func (s *stubGateway) CreateCheckoutSession(ctx context.Context, req payments.CheckoutSessionRequest) (payments.CheckoutSession, error) {
	if s.createSessionFunc == nil {
		return payments.CheckoutSession{}, errors.New("createSessionFunc not configured")
	}
	return s.createSessionFunc(ctx, req)
}

func (s *stubGateway) CreatePaymentIntent(ctx context.Context, req payments.PaymentIntentRequest) (payments.PaymentIntent, error) {
	if s.createIntentFunc == nil {
		return payments.PaymentIntent{}, errors.New("createIntentFunc not configured")
	}
	return s.createIntentFunc(ctx, req)
}

func (s *stubGateway) GetCheckoutSession(ctx context.Context, sessionID string) (payments.SessionDetails, error) {
	if s.getSessionFunc == nil {
		return payments.SessionDetails{}, errors.New("getSessionFunc not configured")
	}
	return s.getSessionFunc(ctx, sessionID)
}

func (s *stubGateway) GetPaymentIntent(ctx context.Context, intentID string) (payments.PaymentDetails, error) {
	if s.getIntentFunc == nil {
		return payments.PaymentDetails{}, errors.New("getIntentFunc not configured")
	}
	return s.getIntentFunc(ctx, intentID)
}

func (s *stubGateway) ListLineItems(ctx context.Context, sessionID string) ([]payments.SessionLineItem, error) {
	if s.listLineItemsFunc == nil {
		return nil, errors.New("listLineItemsFunc not configured")
	}
	return s.listLineItemsFunc(ctx, sessionID)
}

type memoryRecorder struct {
	mu      sync.Mutex
	records []any
	err     error
}

func (r *memoryRecorder) Append(ctx context.Context, record any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, record)
	return nil
}

func (r *memoryRecorder) snapshot() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, len(r.records))
	copy(out, r.records)
	return out
}
