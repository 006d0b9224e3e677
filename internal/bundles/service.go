package bundles

import (
	"context"
	"fmt"
	"strings"

	"storefront-backend/internal/catalog"
	"storefront-backend/internal/commerce"
	"storefront-backend/internal/shared/metrics"
	"storefront-backend/internal/shared/telemetry"
)

// Field keys holding the discount configuration.
const (
	discountTypeKey  = "bundle_type"
	discountValueKey = "discount_value"
)

// Fetcher loads bundle metaobjects.
type Fetcher interface {
	Bundle(ctx context.Context, handle string) (*commerce.Metaobject, error)
}

// Service assembles bundle pages.
type Service struct {
	Commerce Fetcher
}

// Page loads, normalizes and prices the bundle with handle.
func (s *Service) Page(ctx context.Context, handle string) (Page, error) {
	handle = strings.TrimSpace(handle)
	metrics.IncBundleLookup()

	obj, err := s.Commerce.Bundle(ctx, handle)
	if err != nil {
		return Page{}, fmt.Errorf("fetch bundle %q: %w", handle, err)
	}
	if obj == nil {
		metrics.IncBundleNotFound()
		return Page{}, ErrNotFound
	}

	bundle := Normalize(*obj)
	summaries := make([]catalog.Product, 0, len(bundle.Products))
	for _, p := range bundle.Products {
		summaries = append(summaries, p.Product)
	}

	discountType := fieldString(bundle.Fields, discountTypeKey)
	discountValue := fieldString(bundle.Fields, discountValueKey)
	pricing := CalculatePrice(summaries, discountType, discountValue)
	if pricing.DiscountInvalid {
		telemetry.Warn("bundle.discount_invalid", map[string]any{
			"bundle_handle":  handle,
			"bundle_type":    discountType,
			"discount_value": discountValue,
		})
	}

	return Page{
		Handle:   bundle.Handle,
		Fields:   bundle.Fields,
		Products: bundle.Products,
		Pricing:  pricing,
	}, nil
}

func fieldString(r Record, key string) string {
	if v, ok := r[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
