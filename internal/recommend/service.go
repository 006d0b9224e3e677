package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storefront-backend/internal/catalog"
	"storefront-backend/internal/fallback"
	"storefront-backend/internal/llm"
	"storefront-backend/internal/shared/metrics"
	"storefront-backend/internal/shared/telemetry"
)

// Service runs the recommendation pipeline.
type Service struct {
	Generator llm.Generator
	Fallback  fallback.Source
	Recorder  Recorder
	Now       func() time.Time
}

// Handles builds the prompt, calls the generator and parses the reply.
// Errors are llm.ErrMissingAPIKey, *llm.UpstreamError, ErrParse or a transport error.
func (s *Service) Handles(ctx context.Context, req Request) ([]string, error) {
	metrics.IncRecommendationRequests()

	prompt := BuildPrompt(req)
	start := time.Now()
	text, err := s.Generator.Generate(ctx, prompt)
	metrics.ObserveGenerativeLatencyMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncRecommendationError(ErrorKind(err))
		return nil, err
	}

	handles, err := ParseHandles(text)
	if err != nil {
		metrics.IncRecommendationError(ErrorKindParse)
		return nil, err
	}
	return handles, nil
}

// Widget runs the full pipeline and never fails: pipeline errors degrade to
// the fallback list with an advisory.
func (s *Service) Widget(ctx context.Context, req WidgetRequest, requestID string) WidgetResult {
	fallbackProducts := req.FallbackProducts
	if fallbackProducts == nil {
		fallbackProducts = s.fallbackProducts(ctx, requestID)
	}

	handles, err := s.Handles(ctx, req.Request)
	kind := ErrorKind(err)

	var result WidgetResult
	if err != nil {
		telemetry.Warn("recommend.degraded", map[string]any{
			"request_id": requestID,
			"error_kind": kind,
			"error":      err.Error(),
		})
		result = WidgetResult{
			Products: MergeFallback(nil, fallbackProducts),
			Source:   SourceFallback,
			Advisory: AdvisoryUnavailable,
		}
	} else {
		matched := MatchHandles(handles, req.AvailableProducts)
		products := MergeFallback(matched, fallbackProducts)
		result = WidgetResult{
			Products: products,
			Source:   sourceOf(matched, products),
		}
		if result.Source == SourceFallback {
			result.Advisory = AdvisoryUnavailable
		} else {
			result.Advisory = AdvisoryAIPowered
		}
	}

	if result.Source == SourceFallback {
		metrics.IncRecommendationFallback()
	}
	s.record(ctx, Event{
		ID:                  uuid.NewString(),
		RequestID:           requestID,
		CurrentProductTitle: req.CurrentProductTitle,
		UserQuery:           req.UserQuery,
		AIHandles:           handles,
		ServedHandles:       handlesOf(result.Products),
		Source:              result.Source,
		ErrorKind:           kind,
		CreatedAt:           s.now(),
	})
	return result
}

func (s *Service) fallbackProducts(ctx context.Context, requestID string) []catalog.Product {
	if s.Fallback == nil {
		return nil
	}
	products, err := s.Fallback.Products(ctx)
	if err != nil {
		telemetry.Warn("recommend.fallback_unavailable", map[string]any{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return nil
	}
	return products
}

func (s *Service) record(ctx context.Context, ev Event) {
	if s.Recorder == nil {
		return
	}
	if ev.AIHandles == nil {
		ev.AIHandles = []string{}
	}
	if err := s.Recorder.Record(ctx, ev); err != nil {
		metrics.IncRecommendationEventDropped()
		telemetry.Error("recommend.event_record_failed", map[string]any{
			"request_id": ev.RequestID,
			"event_id":   ev.ID,
			"error":      err.Error(),
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// sourceOf reports how many of the served products came from the model.
func sourceOf(matched, served []catalog.Product) string {
	ai := make(map[string]struct{}, len(matched))
	for _, p := range matched {
		ai[p.Handle] = struct{}{}
	}
	fromAI := 0
	for _, p := range served {
		if _, ok := ai[p.Handle]; ok {
			fromAI++
		}
	}
	switch {
	case fromAI == 0:
		return SourceFallback
	case fromAI == len(served):
		return SourceAI
	default:
		return SourceMixed
	}
}

func handlesOf(products []catalog.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Handle)
	}
	return out
}
