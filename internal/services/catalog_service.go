package services

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/jatinkmr/stripe-demo/internal/domain"
)

// ErrCatalogEmpty indicates the service was constructed without any products.
var ErrCatalogEmpty = errors.New("catalog service: no products configured")

// CatalogServiceDeps bundles constructor inputs for the catalog service.
type CatalogServiceDeps struct {
	Products []domain.Product
}

type catalogService struct {
	products []domain.Product
	byID     map[int64]domain.Product
}

// NewCatalogService constructs a catalog service over a fixed product list.
// The list is copied so later mutation of the input slice cannot leak into
// responses.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if len(deps.Products) == 0 {
		return nil, fmt.Errorf("catalog service: at least one product is required")
	}
	products := make([]domain.Product, len(deps.Products))
	copy(products, deps.Products)
	byID := make(map[int64]domain.Product, len(products))
	for _, product := range products {
		if product.ID <= 0 {
			return nil, fmt.Errorf("catalog service: product id %d is invalid", product.ID)
		}
		if product.Price <= 0 {
			return nil, fmt.Errorf("catalog service: product %d has a non-positive price", product.ID)
		}
		if _, exists := byID[product.ID]; exists {
			return nil, fmt.Errorf("catalog service: duplicate product id %d", product.ID)
		}
		byID[product.ID] = product
	}
	return &catalogService{products: products, byID: byID}, nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.products) == 0 {
		return nil, ErrCatalogEmpty
	}
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// FindProduct reports the catalog entry for the given id, if any.
func (s *catalogService) FindProduct(id int64) (Product, bool) {
	product, ok := s.byID[id]
	return product, ok
}
