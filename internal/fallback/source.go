package fallback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"storefront-backend/internal/catalog"
	"storefront-backend/internal/shared/storage/object"
)

// ErrInvalidInput is returned when a replacement list fails validation.
var ErrInvalidInput = errors.New("invalid fallback products")

// Source supplies the ordered fallback product list.
type Source interface {
	Products(ctx context.Context) ([]catalog.Product, error)
}

// Static is a fixed fallback list.
type Static []catalog.Product

// Products returns a copy of the list.
func (s Static) Products(ctx context.Context) ([]catalog.Product, error) {
	return append([]catalog.Product(nil), s...), nil
}

// ObjectSource reads the fallback list from a JSON object.
type ObjectSource struct {
	Store object.ObjectStore
	Key   string
}

// Products decodes the stored list. A missing object yields an empty list.
func (s *ObjectSource) Products(ctx context.Context) ([]catalog.Product, error) {
	rc, err := s.Store.Open(ctx, s.Key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return []catalog.Product{}, nil
		}
		return nil, fmt.Errorf("open fallback products: %w", err)
	}
	defer rc.Close()

	var products []catalog.Product
	if err := json.NewDecoder(rc).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode fallback products: %w", err)
	}
	if products == nil {
		products = []catalog.Product{}
	}
	return products, nil
}

// Replace validates and stores products as the new fallback list.
func (s *ObjectSource) Replace(ctx context.Context, products []catalog.Product) error {
	seen := make(map[string]struct{}, len(products))
	for i, p := range products {
		handle := strings.TrimSpace(p.Handle)
		if handle == "" {
			return fmt.Errorf("%w: product %d has no handle", ErrInvalidInput, i)
		}
		if _, dup := seen[handle]; dup {
			return fmt.Errorf("%w: duplicate handle %q", ErrInvalidInput, handle)
		}
		seen[handle] = struct{}{}
	}
	if products == nil {
		products = []catalog.Product{}
	}

	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode fallback products: %w", err)
	}
	if _, err := s.Store.SaveWithKey(ctx, s.Key, "application/json", bytes.NewReader(data)); err != nil {
		return fmt.Errorf("store fallback products: %w", err)
	}
	return nil
}

var (
	_ Source = Static(nil)
	_ Source = (*ObjectSource)(nil)
)
