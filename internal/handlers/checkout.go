package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jatinkmr/stripe-demo/internal/platform/httpx"
	"github.com/jatinkmr/stripe-demo/internal/platform/monitoring"
	"github.com/jatinkmr/stripe-demo/internal/services"
)

const maxCheckoutBodySize = 16 * 1024

// CheckoutHandlers exposes the hosted checkout and embedded payment endpoints.
type CheckoutHandlers struct {
	checkout services.CheckoutService
}

// NewCheckoutHandlers constructs handlers backed by the checkout service.
func NewCheckoutHandlers(checkout services.CheckoutService) *CheckoutHandlers {
	return &CheckoutHandlers{checkout: checkout}
}

// Routes wires the checkout endpoints onto the provided router.
func (h *CheckoutHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/create-checkout-session", h.createCheckoutSession)
	r.Post("/create-payment-intent", h.createPaymentIntent)
}

// cartItemRequest defers numeric decoding so quoted values like "2" are
// accepted the same way a loosely typed client would send them.
type cartItemRequest struct {
	ID       json.RawMessage `json:"id"`
	Quantity json.RawMessage `json:"quantity"`
}

type checkoutSessionRequest struct {
	Cart []cartItemRequest `json:"cart"`
}

type checkoutSessionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

type paymentIntentRequest struct {
	Amount json.RawMessage `json:"amount"`
}

type paymentIntentResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ClientSecret string `json:"clientSecret"`
}

func (h *CheckoutHandlers) createCheckoutSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.checkout == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_unavailable", "checkout service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxCheckoutBodySize)
	if err != nil {
		h.writeBodyError(ctx, w, err, "empty_cart", "Please add items to the cart!!")
		return
	}

	var req checkoutSessionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}
	if len(req.Cart) == 0 {
		monitoring.CheckoutFailuresTotal.WithLabelValues("empty_cart").Inc()
		httpx.WriteError(ctx, w, httpx.NewError("empty_cart", "Please add items to the cart!!", http.StatusBadRequest))
		return
	}

	items := make([]services.CartItem, 0, len(req.Cart))
	for _, item := range req.Cart {
		id, ok := coerceInteger(item.ID)
		if !ok {
			monitoring.CheckoutFailuresTotal.WithLabelValues("invalid_product").Inc()
			httpx.WriteError(ctx, w, httpx.NewError("invalid_product", fmt.Sprintf("Invalid product id: %s", rawText(item.ID)), http.StatusBadRequest))
			return
		}
		// A quantity that does not coerce becomes zero and fails the
		// positive-integer check downstream, after product existence
		// has been verified.
		quantity, _ := coerceInteger(item.Quantity)
		items = append(items, services.CartItem{ProductID: id, Quantity: quantity})
	}

	result, err := h.checkout.CreateCheckoutSession(ctx, items)
	if err != nil {
		h.writeCheckoutError(ctx, w, err)
		return
	}

	monitoring.CheckoutSessionsTotal.Inc()
	writeJSONResponse(w, http.StatusOK, checkoutSessionResponse{
		Success: true,
		Message: "Session initiated",
		URL:     result.URL,
	})
}

func (h *CheckoutHandlers) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.checkout == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_unavailable", "checkout service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxCheckoutBodySize)
	if err != nil {
		h.writeBodyError(ctx, w, err, "invalid_amount", "Please specify a valid amount in cents")
		return
	}

	var req paymentIntentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	amount, _ := coerceInteger(req.Amount)

	result, err := h.checkout.CreatePaymentIntent(ctx, amount)
	if err != nil {
		h.writePaymentIntentError(ctx, w, err)
		return
	}

	monitoring.PaymentIntentsTotal.Inc()
	writeJSONResponse(w, http.StatusOK, paymentIntentResponse{
		Success:      true,
		Message:      "Intent created",
		ClientSecret: result.ClientSecret,
	})
}

func (h *CheckoutHandlers) writeBodyError(ctx context.Context, w http.ResponseWriter, err error, emptyCode, emptyMessage string) {
	switch {
	case errors.Is(err, errBodyTooLarge):
		httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
	case errors.Is(err, errEmptyBody):
		httpx.WriteError(ctx, w, httpx.NewError(emptyCode, emptyMessage, http.StatusBadRequest))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	}
}

func (h *CheckoutHandlers) writeCheckoutError(ctx context.Context, w http.ResponseWriter, err error) {
	var unknown *services.UnknownProductError
	var invalidQty *services.InvalidQuantityError
	var gateway *services.GatewayError
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		monitoring.CheckoutFailuresTotal.WithLabelValues("empty_cart").Inc()
		httpx.WriteError(ctx, w, httpx.NewError("empty_cart", "Please add items to the cart!!", http.StatusBadRequest))
	case errors.As(err, &unknown):
		monitoring.CheckoutFailuresTotal.WithLabelValues("invalid_product").Inc()
		httpx.WriteError(ctx, w, httpx.NewError("invalid_product", fmt.Sprintf("Invalid product id: %d", unknown.ProductID), http.StatusBadRequest))
	case errors.As(err, &invalidQty):
		monitoring.CheckoutFailuresTotal.WithLabelValues("invalid_quantity").Inc()
		httpx.WriteError(ctx, w, httpx.NewError("invalid_quantity", fmt.Sprintf("Invalid quantity for product id: %d", invalidQty.ProductID), http.StatusBadRequest))
	case errors.As(err, &gateway):
		monitoring.CheckoutFailuresTotal.WithLabelValues("gateway").Inc()
		httpx.WriteError(ctx, w, httpx.NewError("gateway_error", "Error creating checkout session", http.StatusInternalServerError).WithDetail(gateway.Err.Error()))
	default:
		monitoring.CheckoutFailuresTotal.WithLabelValues("internal").Inc()
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "Error creating checkout session", http.StatusInternalServerError))
	}
}

func (h *CheckoutHandlers) writePaymentIntentError(ctx context.Context, w http.ResponseWriter, err error) {
	var gateway *services.GatewayError
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		monitoring.CheckoutFailuresTotal.WithLabelValues("invalid_amount").Inc()
		httpx.WriteError(ctx, w, httpx.NewError("invalid_amount", "Please specify a valid amount in cents", http.StatusBadRequest))
	case errors.As(err, &gateway):
		monitoring.CheckoutFailuresTotal.WithLabelValues("gateway").Inc()
		httpx.WriteError(ctx, w, httpx.NewError("gateway_error", "Error creating payment intent", http.StatusInternalServerError).WithDetail(gateway.Err.Error()))
	default:
		monitoring.CheckoutFailuresTotal.WithLabelValues("internal").Inc()
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "Error creating payment intent", http.StatusInternalServerError))
	}
}
