package bundles

import (
	"storefront-backend/internal/catalog"
	"storefront-backend/internal/commerce"
)

// Normalize flattens a bundle metaobject. Product references are collected in
// field order into Products and left out of Fields.
func Normalize(obj commerce.Metaobject) Bundle {
	b := Bundle{
		ID:       obj.ID,
		Handle:   obj.Handle,
		Fields:   Record{},
		Products: []Product{},
	}

	for _, field := range obj.Fields {
		switch field.Type {
		case FieldProductReference:
			if ref := field.Reference; ref != nil && ref.ID != "" {
				b.Products = append(b.Products, bundleProduct(ref.ProductNode))
			}
			continue
		case FieldProductReferenceList:
			if field.References != nil {
				for _, ref := range field.References.Nodes {
					if ref.ID != "" {
						b.Products = append(b.Products, bundleProduct(ref.ProductNode))
					}
				}
			}
			continue
		}

		if field.Key == productsKey {
			continue
		}

		switch field.Type {
		case FieldRichText:
			if field.Value != nil {
				b.Fields[field.Key] = RichTextToPlain(*field.Value)
			}
		case FieldFileReference:
			if img, ok := fileImage(field.Reference); ok {
				b.Fields[field.Key] = img
			}
		default:
			if field.Value != nil {
				b.Fields[field.Key] = *field.Value
			}
		}
	}
	return b
}

func bundleProduct(node commerce.ProductNode) Product {
	return Product{Product: node.Summary(), FirstVariant: node.FirstVariant()}
}

// fileImage resolves a MediaImage or GenericFile reference.
func fileImage(ref *commerce.Reference) (catalog.Image, bool) {
	if ref == nil {
		return catalog.Image{}, false
	}
	if ref.Image != nil && ref.Image.URL != "" {
		return catalog.Image{URL: ref.Image.URL, AltText: ref.Image.AltText}, true
	}
	if ref.URL != "" {
		return catalog.Image{URL: ref.URL, AltText: ref.Alt}, true
	}
	return catalog.Image{}, false
}
