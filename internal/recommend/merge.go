package recommend

import "storefront-backend/internal/catalog"

// MergeFallback combines AI-matched products with the fallback list. Matched
// products come first and handles are unique. Fallback products are appended
// only when fewer than MinAIRecommendations were matched.
func MergeFallback(matched, fallback []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, 0, MaxRecommendations)
	seen := make(map[string]struct{}, MaxRecommendations)

	for _, p := range matched {
		if len(out) == MaxRecommendations {
			break
		}
		if _, dup := seen[p.Handle]; dup {
			continue
		}
		seen[p.Handle] = struct{}{}
		out = append(out, p)
	}

	if len(matched) < MinAIRecommendations {
		for _, p := range fallback {
			if len(out) == MaxRecommendations {
				break
			}
			if _, dup := seen[p.Handle]; dup {
				continue
			}
			seen[p.Handle] = struct{}{}
			out = append(out, p)
		}
	}

	if len(out) == 0 && len(fallback) > 0 {
		n := min(len(fallback), MaxRecommendations)
		return append(out, fallback[:n]...)
	}
	return out
}
