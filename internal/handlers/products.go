package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jatinkmr/stripe-demo/internal/platform/httpx"
	"github.com/jatinkmr/stripe-demo/internal/services"
)

// ProductHandlers serves the storefront catalog.
type ProductHandlers struct {
	catalog services.CatalogService
}

// NewProductHandlers constructs handlers backed by the catalog service.
func NewProductHandlers(catalog services.CatalogService) *ProductHandlers {
	return &ProductHandlers{catalog: catalog}
}

// Routes wires the product endpoints onto the provided router.
func (h *ProductHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/products", h.listProducts)
}

type productListResponse struct {
	Success  bool               `json:"success"`
	Message  string             `json:"message"`
	Products []services.Product `json:"products"`
}

func (h *ProductHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_error", "Error fetching products", http.StatusInternalServerError))
		return
	}

	writeJSONResponse(w, http.StatusOK, productListResponse{
		Success:  true,
		Message:  "Products fetched successfully",
		Products: products,
	})
}
