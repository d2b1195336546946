package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jatinkmr/stripe-demo/internal/calllog"
	"github.com/jatinkmr/stripe-demo/internal/payments"
	"github.com/jatinkmr/stripe-demo/internal/platform/monitoring"
)

// ErrMissingPaymentIntent indicates a redirect callback arrived without a
// payment intent identifier.
var ErrMissingPaymentIntent = errors.New("callback service: payment intent id is required")

const (
	logTypeSuccess  = "payment_success"
	logTypeCancel   = "payment_cancel"
	logTypeRedirect = "payment_redirect"
	logTypeError    = "error"
)

// requestRecord is the base audit entry written for every callback hit,
// whether or not a gateway identifier was supplied.
type requestRecord struct {
	RecordID  string              `json:"record_id"`
	Timestamp string              `json:"timestamp"`
	Method    string              `json:"method"`
	URL       string              `json:"url"`
	Headers   map[string][]string `json:"headers"`
	Query     map[string][]string `json:"query"`
}

type sessionSummary struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customer_email"`
	Mode          string `json:"mode"`
}

type intentSummary struct {
	ID                 string   `json:"id"`
	Status             string   `json:"status"`
	Amount             int64    `json:"amount"`
	Currency           string   `json:"currency"`
	PaymentMethodTypes []string `json:"payment_method_types"`
	Created            int64    `json:"created"`
	LatestChargeID     string   `json:"latest_charge_id"`
	ReceiptURL         *string  `json:"receipt_url,omitempty"`
}

type lineItemSummary struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	Quantity       int64  `json:"quantity"`
	AmountSubtotal int64  `json:"amount_subtotal"`
	AmountTotal    int64  `json:"amount_total"`
	Currency       string `json:"currency"`
}

type sessionOutcomeRecord struct {
	LogType       string             `json:"logType"`
	RecordID      string             `json:"record_id"`
	Timestamp     string             `json:"timestamp"`
	Session       sessionSummary     `json:"session"`
	PaymentIntent *intentSummary     `json:"payment_intent"`
	LineItems     *[]lineItemSummary `json:"line_items"`
}

type redirectRecord struct {
	LogType             string         `json:"logType"`
	RecordID            string         `json:"record_id"`
	Timestamp           string         `json:"timestamp"`
	RedirectStatus      string         `json:"redirect_status"`
	PaymentIntentStatus string         `json:"payment_intent_status"`
	PaymentIntent       map[string]any `json:"payment_intent"`
}

type errorRecord struct {
	LogType   string `json:"logType"`
	RecordID  string `json:"record_id"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error"`
}

// CallbackServiceDeps bundles constructor inputs for the callback service.
type CallbackServiceDeps struct {
	Gateway     payments.Gateway
	SuccessLog  calllog.Recorder
	CancelLog   calllog.Recorder
	RedirectLog calllog.Recorder
	Clock       func() time.Time
	Logger      func(ctx context.Context, event string, fields map[string]any)
}

type callbackService struct {
	gateway     payments.Gateway
	successLog  calllog.Recorder
	cancelLog   calllog.Recorder
	redirectLog calllog.Recorder
	clock       func() time.Time
	logger      func(ctx context.Context, event string, fields map[string]any)
}

// NewCallbackService constructs the callback service with the supplied
// dependencies.
func NewCallbackService(deps CallbackServiceDeps) (CallbackService, error) {
	if deps.Gateway == nil {
		return nil, fmt.Errorf("callback service: payment gateway is required")
	}
	if deps.SuccessLog == nil || deps.CancelLog == nil || deps.RedirectLog == nil {
		return nil, fmt.Errorf("callback service: all three callback recorders are required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &callbackService{
		gateway:     deps.Gateway,
		successLog:  deps.SuccessLog,
		cancelLog:   deps.CancelLog,
		redirectLog: deps.RedirectLog,
		clock:       func() time.Time { return clock().UTC() },
		logger:      deps.Logger,
	}, nil
}

// RecordSuccess appends the raw request record and, when a session id is
// present, a second record enriched with session, payment intent and line
// item state fetched from the gateway. Enrichment failures are logged but do
// not fail the callback.
func (s *callbackService) RecordSuccess(ctx context.Context, req *http.Request, sessionID string) error {
	return s.recordSessionOutcome(ctx, req, sessionID, "success", logTypeSuccess, s.successLog)
}

// RecordCancel mirrors RecordSuccess for the cancel route. Cancelled sessions
// routinely lack a payment intent, so the enriched record tolerates its
// absence.
func (s *callbackService) RecordCancel(ctx context.Context, req *http.Request, sessionID string) error {
	return s.recordSessionOutcome(ctx, req, sessionID, "cancel", logTypeCancel, s.cancelLog)
}

func (s *callbackService) recordSessionOutcome(ctx context.Context, req *http.Request, sessionID, route, logType string, recorder calllog.Recorder) error {
	if err := recorder.Append(ctx, s.baseRecord(req)); err != nil {
		return fmt.Errorf("callback service: append %s request record: %w", route, err)
	}
	monitoring.CallbackRecordsTotal.WithLabelValues(route, "request").Inc()

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}

	session, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		s.enrichFailed(ctx, route, "session_fetch", sessionID, err)
		return nil
	}
	lineItems, err := s.gateway.ListLineItems(ctx, sessionID)
	if err != nil {
		s.enrichFailed(ctx, route, "line_items_fetch", sessionID, err)
		return nil
	}

	record := sessionOutcomeRecord{
		LogType:   logType,
		RecordID:  s.newRecordID(),
		Timestamp: s.timestamp(),
		Session: sessionSummary{
			ID:            session.ID,
			Status:        session.Status,
			PaymentStatus: session.PaymentStatus,
			AmountTotal:   session.AmountTotal,
			Currency:      session.Currency,
			CustomerEmail: session.CustomerEmail,
			Mode:          session.Mode,
		},
	}
	if session.Intent != nil {
		summary := intentSummary{
			ID:                 session.Intent.ID,
			Status:             session.Intent.Status,
			Amount:             session.Intent.Amount,
			Currency:           session.Intent.Currency,
			PaymentMethodTypes: session.Intent.PaymentMethodTypes,
			Created:            session.Intent.Created.Unix(),
			LatestChargeID:     session.Intent.LatestChargeID,
		}
		if logType == logTypeSuccess {
			receipt := session.Intent.ReceiptURL
			summary.ReceiptURL = &receipt
		}
		record.PaymentIntent = &summary
	}

	// The success record omits line items entirely when the session has
	// none, while the cancel record keeps an empty list. Downstream log
	// consumers depend on the distinction.
	if len(lineItems) > 0 || logType == logTypeCancel {
		items := make([]lineItemSummary, 0, len(lineItems))
		for _, item := range lineItems {
			items = append(items, lineItemSummary{
				ID:             item.ID,
				Description:    item.Description,
				Quantity:       item.Quantity,
				AmountSubtotal: item.AmountSubtotal,
				AmountTotal:    item.AmountTotal,
				Currency:       item.Currency,
			})
		}
		record.LineItems = &items
	}

	if err := recorder.Append(ctx, record); err != nil {
		s.enrichFailed(ctx, route, "append", sessionID, err)
		return nil
	}
	monitoring.CallbackRecordsTotal.WithLabelValues(route, "enriched").Inc()
	s.log(ctx, "callback.recorded", map[string]any{
		"route":      route,
		"session_id": sessionID,
	})
	return nil
}

// RecordRedirect appends the raw request record, then fetches the payment
// intent and appends a record carrying its full gateway state. The intent
// status drives the caller's response, so a fetch failure here is surfaced as
// an error after an error record is written.
func (s *callbackService) RecordRedirect(ctx context.Context, req *http.Request, intentID string) (RedirectOutcome, error) {
	if err := s.redirectLog.Append(ctx, s.baseRecord(req)); err != nil {
		return RedirectOutcome{}, fmt.Errorf("callback service: append redirect request record: %w", err)
	}
	monitoring.CallbackRecordsTotal.WithLabelValues("redirect", "request").Inc()

	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return RedirectOutcome{}, ErrMissingPaymentIntent
	}

	intent, err := s.gateway.GetPaymentIntent(ctx, intentID)
	if err != nil {
		s.enrichFailed(ctx, "redirect", "intent_fetch", intentID, err)
		s.appendErrorRecord(ctx, err)
		return RedirectOutcome{}, fmt.Errorf("callback service: fetch payment intent %s: %w", intentID, err)
	}

	record := redirectRecord{
		LogType:             logTypeRedirect,
		RecordID:            s.newRecordID(),
		Timestamp:           s.timestamp(),
		RedirectStatus:      req.URL.Query().Get("redirect_status"),
		PaymentIntentStatus: intent.Status,
		PaymentIntent:       intent.Raw,
	}
	if err := s.redirectLog.Append(ctx, record); err != nil {
		s.appendErrorRecord(ctx, err)
		return RedirectOutcome{}, fmt.Errorf("callback service: append redirect record: %w", err)
	}
	monitoring.CallbackRecordsTotal.WithLabelValues("redirect", "enriched").Inc()
	s.log(ctx, "callback.recorded", map[string]any{
		"route":     "redirect",
		"intent_id": intentID,
		"status":    intent.Status,
	})
	return RedirectOutcome{IntentID: intent.ID, Status: intent.Status}, nil
}

func (s *callbackService) baseRecord(req *http.Request) requestRecord {
	return requestRecord{
		RecordID:  s.newRecordID(),
		Timestamp: s.timestamp(),
		Method:    req.Method,
		URL:       req.URL.RequestURI(),
		Headers:   req.Header,
		Query:     req.URL.Query(),
	}
}

func (s *callbackService) appendErrorRecord(ctx context.Context, cause error) {
	record := errorRecord{
		LogType:   logTypeError,
		RecordID:  s.newRecordID(),
		Timestamp: s.timestamp(),
		Error:     cause.Error(),
	}
	if err := s.redirectLog.Append(ctx, record); err != nil {
		s.log(ctx, "callback.error_record_failed", map[string]any{"error": err.Error()})
	}
}

func (s *callbackService) enrichFailed(ctx context.Context, route, stage, id string, err error) {
	monitoring.CallbackEnrichFailures.WithLabelValues(route).Inc()
	s.log(ctx, "callback.enrich_failed", map[string]any{
		"route": route,
		"stage": stage,
		"id":    id,
		"error": err.Error(),
	})
}

func (s *callbackService) newRecordID() string {
	return ulid.Make().String()
}

func (s *callbackService) timestamp() string {
	return s.clock().Format(time.RFC3339Nano)
}

func (s *callbackService) log(ctx context.Context, event string, fields map[string]any) {
	if s.logger == nil {
		return
	}
	s.logger(ctx, event, fields)
}
