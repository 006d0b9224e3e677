package bundles

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"storefront-backend/internal/catalog"
)

// Discount types read from the bundle's bundle_type field.
const (
	DiscountFixedPrice = "fixed_price"
	DiscountPercentage = "percentage"
)

const defaultCurrency = "USD"

// Pricing is the computed bundle price.
type Pricing struct {
	CurrencyCode    string  `json:"currencyCode"`
	Subtotal        float64 `json:"subtotal"`
	Price           float64 `json:"price"`
	Savings         float64 `json:"savings"`
	SavingsLabel    string  `json:"savingsLabel,omitempty"`
	DiscountType    string  `json:"discountType,omitempty"`
	DiscountInvalid bool    `json:"discountInvalid,omitempty"`
}

// CalculatePrice sums the products' minimum variant prices and applies the
// discount. Unparseable amounts count as zero. An unparseable discount value
// leaves the price at the subtotal and sets DiscountInvalid.
func CalculatePrice(products []catalog.Product, discountType, discountValue string) Pricing {
	p := Pricing{CurrencyCode: defaultCurrency, DiscountType: discountType}
	if len(products) > 0 && products[0].PriceRange.MinVariantPrice.CurrencyCode != "" {
		p.CurrencyCode = products[0].PriceRange.MinVariantPrice.CurrencyCode
	}
	for _, product := range products {
		p.Subtotal += parseAmount(product.PriceRange.MinVariantPrice.Amount)
	}
	p.Price = p.Subtotal

	if discountType != DiscountFixedPrice && discountType != DiscountPercentage {
		return p
	}

	value, ok := parseNumber(discountValue)
	if !ok {
		p.DiscountInvalid = true
		return p
	}

	switch discountType {
	case DiscountFixedPrice:
		p.Price = value
		if diff := p.Subtotal - value; diff > 0 {
			p.Savings = diff
			p.SavingsLabel = fmt.Sprintf("Save %s %.2f", p.CurrencyCode, diff)
		}
	case DiscountPercentage:
		p.Savings = p.Subtotal * value / 100
		p.Price = p.Subtotal - p.Savings
		p.SavingsLabel = "Save " + strconv.FormatFloat(value, 'f', -1, 64) + "%"
	}
	return p
}

func parseAmount(raw string) float64 {
	v, _ := parseNumber(raw)
	return v
}

// parseNumber accepts finite decimal numbers only.
func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
