package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jatinkmr/stripe-demo/web"
)

// StorefrontHandlers serves the embedded demo storefront.
type StorefrontHandlers struct {
	tmpl           *template.Template
	static         http.Handler
	publishableKey string
	backendBaseURL string
}

// NewStorefrontHandlers parses the embedded template and prepares the static
// asset server. The publishable key and backend base URL are injected into
// the page so the browser can talk to the gateway and back to this process.
func NewStorefrontHandlers(publishableKey, backendBaseURL string) (*StorefrontHandlers, error) {
	tmpl, err := template.ParseFS(web.Templates, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("storefront: parse template: %w", err)
	}
	staticRoot, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("storefront: static assets: %w", err)
	}
	return &StorefrontHandlers{
		tmpl:           tmpl,
		static:         http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))),
		publishableKey: publishableKey,
		backendBaseURL: backendBaseURL,
	}, nil
}

// Routes wires the storefront endpoints onto the provided router.
func (h *StorefrontHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.index)
	r.Get("/static/*", h.static.ServeHTTP)
}

type storefrontPage struct {
	PublishableKey string
	BackendBaseURL string
}

func (h *StorefrontHandlers) index(w http.ResponseWriter, r *http.Request) {
	// Render to a buffer first so a template fault cannot leave a half
	// written page behind a 200.
	var buf bytes.Buffer
	err := h.tmpl.ExecuteTemplate(&buf, "index.html.tmpl", storefrontPage{
		PublishableKey: h.publishableKey,
		BackendBaseURL: h.backendBaseURL,
	})
	if err != nil {
		http.Error(w, "storefront unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
