package recommend

import "storefront-backend/internal/catalog"

const (
	// MaxRecommendations caps every rendered result set.
	MaxRecommendations = 6
	// MinAIRecommendations is the matched count below which fallback products are appended.
	MinAIRecommendations = 4
	// MaxPromptCandidates caps the products enumerated in the prompt.
	MaxPromptCandidates = 20
)

// Result sources reported by the widget.
const (
	SourceAI       = "ai"
	SourceMixed    = "mixed"
	SourceFallback = "fallback"
)

const (
	AdvisoryAIPowered   = "Recommendations are AI-powered."
	AdvisoryUnavailable = "Showing popular products while AI recommendations are unavailable."
)

// Request is the body of the recommendation endpoint.
type Request struct {
	CurrentProductTitle       string            `json:"currentProductTitle,omitempty"`
	CurrentProductDescription string            `json:"currentProductDescription,omitempty"`
	AvailableProducts         []catalog.Product `json:"availableProducts"`
	UserQuery                 string            `json:"userQuery,omitempty"`
}

// WidgetRequest adds an optional fallback list to Request. A nil list means
// the configured fallback source is used.
type WidgetRequest struct {
	Request
	FallbackProducts []catalog.Product `json:"fallbackProducts,omitempty"`
}

// WidgetResult is what the widget renders.
type WidgetResult struct {
	Products []catalog.Product `json:"products"`
	Source   string            `json:"source"`
	Advisory string            `json:"advisory,omitempty"`
}
