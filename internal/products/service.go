package products

import (
	"context"
	"errors"
	"strings"

	"storefront-backend/internal/catalog"
	"storefront-backend/internal/commerce"
)

// ErrNotFound is returned when no product has the requested handle.
var ErrNotFound = errors.New("product not found")

// DefaultPageSize is used when the caller does not ask for a size.
const DefaultPageSize = 20

// Catalog reads products from the commerce platform.
type Catalog interface {
	Products(ctx context.Context, first int) ([]commerce.ProductNode, error)
	ProductByHandle(ctx context.Context, handle string) (*commerce.ProductNode, error)
}

// Detail is a product with its first variant.
type Detail struct {
	catalog.Product
	FirstVariant *catalog.Variant `json:"firstVariant"`
}

// Service exposes product browsing.
type Service struct {
	Catalog Catalog
}

// List returns up to first product summaries.
func (s *Service) List(ctx context.Context, first int) ([]catalog.Product, error) {
	if first <= 0 {
		first = DefaultPageSize
	}
	nodes, err := s.Catalog.Products(ctx, first)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Product, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Summary())
	}
	return out, nil
}

// Get returns the product with handle.
func (s *Service) Get(ctx context.Context, handle string) (Detail, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return Detail{}, ErrNotFound
	}
	node, err := s.Catalog.ProductByHandle(ctx, handle)
	if err != nil {
		return Detail{}, err
	}
	if node == nil {
		return Detail{}, ErrNotFound
	}
	return Detail{Product: node.Summary(), FirstVariant: node.FirstVariant()}, nil
}
