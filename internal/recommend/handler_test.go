package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/fallback"
	"storefront-backend/internal/llm"
	"storefront-backend/internal/shared/server/middleware"
)

func newTestRouter(gen llm.Generator, fb fallback.Source) (*gin.Engine, *MemoryRecorder) {
	gin.SetMode(gin.TestMode)
	svc, rec := newTestService(gen, fb)
	h := NewHandler(svc, rec)

	r := gin.New()
	r.Use(middleware.RequestID())
	h.RegisterRoutes(r.Group("/api"))
	h.RegisterDevRoutes(r.Group("/api/v1/dev"))
	return r, rec
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRecommendationsEndpoint(t *testing.T) {
	router, _ := newTestRouter(&stubGenerator{text: `["red-shirt","blue-jeans"]`}, nil)

	resp := doJSON(router, http.MethodPost, "/api/recommendations",
		`{"currentProductTitle":"Hat","availableProducts":[{"id":"1","title":"Red Shirt","handle":"red-shirt","priceRange":{"minVariantPrice":{"amount":"10","currencyCode":"USD"}}}]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Recommendations []string `json:"recommendations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Recommendations) != 2 || body.Recommendations[0] != "red-shirt" {
		t.Fatalf("unexpected recommendations %v", body.Recommendations)
	}
}

func TestRecommendationsEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		gen        *stubGenerator
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "missing key", gen: &stubGenerator{err: llm.ErrMissingAPIKey}, body: `{"availableProducts":[]}`, wantStatus: http.StatusInternalServerError, wantError: "not configured"},
		{name: "upstream", gen: &stubGenerator{err: &llm.UpstreamError{StatusCode: 429, Body: "quota exceeded"}}, body: `{"availableProducts":[]}`, wantStatus: http.StatusInternalServerError, wantError: "quota exceeded"},
		{name: "parse", gen: &stubGenerator{text: "sorry"}, body: `{"availableProducts":[]}`, wantStatus: http.StatusInternalServerError, wantError: "parse"},
		{name: "bad body", gen: &stubGenerator{}, body: `{"availableProducts":`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(tt.gen, nil)
			resp := doJSON(router, http.MethodPost, "/api/recommendations", tt.body)
			if resp.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if !strings.Contains(body["error"], tt.wantError) {
				t.Fatalf("error %q missing %q", body["error"], tt.wantError)
			}
		})
	}
}

func TestRecommendationsMethods(t *testing.T) {
	router, _ := newTestRouter(&stubGenerator{}, nil)

	resp := doJSON(router, http.MethodGet, "/api/recommendations", "")
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"message"`) {
		t.Fatalf("GET: expected informational message, got %d %s", resp.Code, resp.Body.String())
	}

	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete} {
		resp := doJSON(router, method, "/api/recommendations", "{}")
		if resp.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s: expected 405, got %d", method, resp.Code)
		}
		if !strings.Contains(resp.Body.String(), `"error"`) {
			t.Fatalf("%s: expected error body, got %s", method, resp.Body.String())
		}
	}
}

func TestWidgetEndpointFallsBackAndRecords(t *testing.T) {
	router, rec := newTestRouter(&stubGenerator{err: llm.ErrMissingAPIKey}, fallback.Static(productList("x", "y")))

	resp := doJSON(router, http.MethodPost, "/api/recommendations/widget", `{"availableProducts":[]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var result WidgetResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode widget result: %v", err)
	}
	if result.Source != SourceFallback || len(result.Products) != 2 || result.Advisory == "" {
		t.Fatalf("unexpected widget result %+v", result)
	}

	events, _ := rec.Recent(context.Background(), 1)
	if len(events) != 1 || events[0].RequestID != resp.Header().Get("X-Request-Id") {
		t.Fatalf("expected event tagged with request id, got %+v", events)
	}

	list := doJSON(router, http.MethodGet, "/api/v1/dev/recommendation-events?limit=5", "")
	if list.Code != http.StatusOK || !strings.Contains(list.Body.String(), events[0].ID) {
		t.Fatalf("expected event listing, got %d %s", list.Code, list.Body.String())
	}

	bad := doJSON(router, http.MethodGet, "/api/v1/dev/recommendation-events?limit=abc", "")
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", bad.Code)
	}
}
