package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newStorefrontRouter(t *testing.T) chi.Router {
	t.Helper()
	handler, err := NewStorefrontHandlers("pk_test_123", "http://localhost:3001")
	if err != nil {
		t.Fatalf("unexpected error constructing storefront handlers: %v", err)
	}
	router := chi.NewRouter()
	handler.Routes(router)
	return router
}

func TestStorefrontIndexInjectsConfig(t *testing.T) {
	router := newStorefrontRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "pk_test_123") {
		t.Fatalf("expected publishable key in page")
	}
	if !strings.Contains(body, "http://localhost:3001") {
		t.Fatalf("expected backend base url in page")
	}
}

func TestStorefrontServesStaticAssets(t *testing.T) {
	router := newStorefrontRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/static/app.js", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "create-checkout-session") {
		t.Fatalf("expected storefront script body")
	}
}
