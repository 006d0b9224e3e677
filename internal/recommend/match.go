package recommend

import (
	"regexp"
	"strings"

	"storefront-backend/internal/catalog"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// MatchHandles maps tokens to products in token order. Unmatched tokens are
// dropped, repeats are kept, and the output is capped at MaxRecommendations.
func MatchHandles(tokens []string, products []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, 0, MaxRecommendations)
	for _, token := range tokens {
		if len(out) == MaxRecommendations {
			break
		}
		if p, ok := findProduct(token, products); ok {
			out = append(out, p)
		}
	}
	return out
}

// findProduct returns the first product whose handle equals the token, the
// token with hyphens removed, or the token's slug form. Only when no product
// matches those does it accept a handle that equals the token once the
// handle's own hyphens are dropped.
func findProduct(token string, products []catalog.Product) (catalog.Product, bool) {
	unhyphenated := strings.ReplaceAll(token, "-", "")
	slug := whitespaceRun.ReplaceAllString(strings.ToLower(token), "-")
	for _, p := range products {
		if p.Handle == token || p.Handle == unhyphenated || p.Handle == slug {
			return p, true
		}
	}
	for _, p := range products {
		if strings.ReplaceAll(p.Handle, "-", "") == token {
			return p, true
		}
	}
	return catalog.Product{}, false
}
