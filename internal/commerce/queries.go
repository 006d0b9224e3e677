package commerce

import (
	"context"

	"storefront-backend/internal/catalog"
)

const productFragment = `
fragment ProductSummary on Product {
  id
  title
  handle
  description
  vendor
  priceRange { minVariantPrice { amount currencyCode } }
  featuredImage { url altText }
  variants(first: 1) { nodes { id title availableForSale price { amount currencyCode } } }
}`

const productsQuery = `
query Products($first: Int!) {
  products(first: $first) { nodes { ...ProductSummary } }
}` + productFragment

const productByHandleQuery = `
query ProductByHandle($handle: String!) {
  product(handle: $handle) { ...ProductSummary }
}` + productFragment

const bundleQuery = `
query Bundle($handle: String!) {
  metaobject(handle: {handle: $handle, type: "bundle"}) {
    id
    handle
    type
    fields {
      key
      type
      value
      reference {
        __typename
        ... on MediaImage { image { url altText } }
        ... on GenericFile { url alt }
        ... on Product { ...ProductSummary }
      }
      references(first: 20) {
        nodes {
          __typename
          ... on Product { ...ProductSummary }
        }
      }
    }
  }
}` + productFragment

// MaxProducts caps the products list query.
const MaxProducts = 100

// ProductNode is a product as returned by the product fragment.
type ProductNode struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Handle        string             `json:"handle"`
	Description   string             `json:"description"`
	Vendor        string             `json:"vendor"`
	PriceRange    catalog.PriceRange `json:"priceRange"`
	FeaturedImage *catalog.Image     `json:"featuredImage"`
	Variants      struct {
		Nodes []catalog.Variant `json:"nodes"`
	} `json:"variants"`
}

// Summary converts the node to a catalog product.
func (p ProductNode) Summary() catalog.Product {
	return catalog.Product{
		ID:            p.ID,
		Title:         p.Title,
		Handle:        p.Handle,
		Description:   p.Description,
		PriceRange:    p.PriceRange,
		FeaturedImage: p.FeaturedImage,
		Vendor:        p.Vendor,
	}
}

// FirstVariant returns the first variant, or nil when the product has none.
func (p ProductNode) FirstVariant() *catalog.Variant {
	if len(p.Variants.Nodes) == 0 {
		return nil
	}
	v := p.Variants.Nodes[0]
	return &v
}

// MediaImage is the image payload of a MediaImage reference.
type MediaImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

// Reference is a field reference: a MediaImage, GenericFile or Product
// depending on Typename.
type Reference struct {
	Typename string `json:"__typename"`

	// MediaImage
	Image *MediaImage `json:"image,omitempty"`

	// GenericFile
	URL string `json:"url,omitempty"`
	Alt string `json:"alt,omitempty"`

	// Product
	ProductNode
}

// MetaobjectField is one typed key/value field of a metaobject.
type MetaobjectField struct {
	Key        string     `json:"key"`
	Type       string     `json:"type"`
	Value      *string    `json:"value"`
	Reference  *Reference `json:"reference"`
	References *struct {
		Nodes []Reference `json:"nodes"`
	} `json:"references"`
}

// Metaobject is a structured-content object.
type Metaobject struct {
	ID     string            `json:"id"`
	Handle string            `json:"handle"`
	Type   string            `json:"type"`
	Fields []MetaobjectField `json:"fields"`
}

// Products lists up to first products.
func (c *Client) Products(ctx context.Context, first int) ([]ProductNode, error) {
	if first <= 0 || first > MaxProducts {
		first = MaxProducts
	}
	var data struct {
		Products struct {
			Nodes []ProductNode `json:"nodes"`
		} `json:"products"`
	}
	if err := c.Query(ctx, productsQuery, map[string]any{"first": first}, &data); err != nil {
		return nil, err
	}
	return data.Products.Nodes, nil
}

// ProductByHandle returns the product or nil when no product has that handle.
func (c *Client) ProductByHandle(ctx context.Context, handle string) (*ProductNode, error) {
	var data struct {
		Product *ProductNode `json:"product"`
	}
	if err := c.Query(ctx, productByHandleQuery, map[string]any{"handle": handle}, &data); err != nil {
		return nil, err
	}
	return data.Product, nil
}

// Bundle returns the "bundle" metaobject with the handle, or nil when none exists.
func (c *Client) Bundle(ctx context.Context, handle string) (*Metaobject, error) {
	var data struct {
		Metaobject *Metaobject `json:"metaobject"`
	}
	if err := c.Query(ctx, bundleQuery, map[string]any{"handle": handle}, &data); err != nil {
		return nil, err
	}
	return data.Metaobject, nil
}
