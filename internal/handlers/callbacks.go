package handlers

import (
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jatinkmr/stripe-demo/internal/services"
)

// CallbackHandlers terminates the gateway-driven browser returns for the
// hosted and embedded payment flows.
type CallbackHandlers struct {
	callbacks   services.CallbackService
	frontendURL string
}

// NewCallbackHandlers constructs handlers backed by the callback service.
// frontendURL is the storefront base used when a redirect arrives without
// payment information.
func NewCallbackHandlers(callbacks services.CallbackService, frontendURL string) *CallbackHandlers {
	return &CallbackHandlers{callbacks: callbacks, frontendURL: frontendURL}
}

// Routes wires the callback endpoints onto the provided router. The gateway
// always sends the shopper back with a GET, so nothing else is registered.
func (h *CallbackHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/success", h.success)
	r.Get("/cancel", h.cancel)
	r.Get("/redirect", h.redirect)
}

func (h *CallbackHandlers) success(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := r.URL.Query().Get("session_id")

	if err := h.callbacks.RecordSuccess(ctx, r, sessionID); err != nil {
		writeText(w, http.StatusInternalServerError, "Error recording payment success")
		return
	}
	if sessionID == "" {
		writeText(w, http.StatusOK, "Payment success recorded (no session_id provided)")
		return
	}
	writeText(w, http.StatusOK, "Payment success recorded")
}

func (h *CallbackHandlers) cancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := r.URL.Query().Get("session_id")

	if err := h.callbacks.RecordCancel(ctx, r, sessionID); err != nil {
		writeText(w, http.StatusInternalServerError, "Error recording payment cancel")
		return
	}
	if sessionID == "" {
		writeText(w, http.StatusOK, "Payment cancel recorded (no session_id provided)")
		return
	}
	writeText(w, http.StatusOK, "Payment cancel recorded")
}

func (h *CallbackHandlers) redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	intentID := r.URL.Query().Get("payment_intent")

	outcome, err := h.callbacks.RecordRedirect(ctx, r, intentID)
	if err != nil {
		if errors.Is(err, services.ErrMissingPaymentIntent) {
			http.Redirect(w, r, h.frontendURL+"/payment-status?status=error&message=Missing payment information", http.StatusFound)
			return
		}
		writeHTML(w, http.StatusInternalServerError, "<h1>Error</h1><p>An unexpected error occurred while processing your payment.</p>")
		return
	}

	switch outcome.Status {
	case "succeeded":
		writeHTML(w, http.StatusOK, "<h1>Payment Successful!</h1><p>Your payment has been processed successfully.</p>")
	case "processing":
		writeHTML(w, http.StatusOK, "<h1>Payment processing.</h1><p>We'll update you when payment is received.</p>")
	default:
		writeHTML(w, http.StatusBadRequest, fmt.Sprintf("<h1>Payment failed.</h1><p>Status: %s</p>", html.EscapeString(outcome.Status)))
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
