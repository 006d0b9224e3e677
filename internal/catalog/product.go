package catalog

// Money is a decimal amount as the commerce platform returns it.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// PriceRange carries the cheapest variant price.
type PriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
}

// Image is a resolved image or file reference.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

// Product is the immutable product summary fetched per request.
type Product struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Handle        string     `json:"handle"`
	Description   string     `json:"description,omitempty"`
	PriceRange    PriceRange `json:"priceRange"`
	FeaturedImage *Image     `json:"featuredImage,omitempty"`
	Vendor        string     `json:"vendor,omitempty"`
}

// Variant is a purchasable product variant.
type Variant struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	AvailableForSale bool   `json:"availableForSale"`
	Price            Money  `json:"price"`
}
