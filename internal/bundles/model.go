package bundles

import (
	"errors"

	"storefront-backend/internal/catalog"
)

// ErrNotFound is returned when no bundle has the requested handle.
var ErrNotFound = errors.New("bundle not found")

// Metaobject field types the normalizer interprets.
const (
	FieldRichText             = "rich_text_field"
	FieldFileReference        = "file_reference"
	FieldProductReference     = "product_reference"
	FieldProductReferenceList = "list.product_reference"
)

// productsKey is never copied into the record.
const productsKey = "products"

// Record holds normalized field values keyed by field key: plain text for
// rich text, catalog.Image for file references, the raw string otherwise.
type Record map[string]any

// Product is a bundle product with its first variant.
type Product struct {
	catalog.Product
	FirstVariant *catalog.Variant `json:"firstVariant"`
}

// Bundle is a normalized bundle metaobject.
type Bundle struct {
	ID       string
	Handle   string
	Fields   Record
	Products []Product
}

// Page is the bundle page payload.
type Page struct {
	Handle   string    `json:"handle"`
	Fields   Record    `json:"fields"`
	Products []Product `json:"products"`
	Pricing  Pricing   `json:"pricing"`
}
