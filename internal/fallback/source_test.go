package fallback

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"storefront-backend/internal/catalog"
	"storefront-backend/internal/shared/storage/object/local"
)

func newSource(t *testing.T) *ObjectSource {
	t.Helper()
	return &ObjectSource{Store: local.New(t.TempDir()), Key: "fallback/products.json"}
}

func TestObjectSourceMissingObjectIsEmpty(t *testing.T) {
	products, err := newSource(t).Products(context.Background())
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if products == nil || len(products) != 0 {
		t.Fatalf("expected empty list, got %#v", products)
	}
}

func TestObjectSourceReplaceThenRead(t *testing.T) {
	src := newSource(t)
	want := []catalog.Product{
		{ID: "1", Title: "Hat", Handle: "hat", PriceRange: catalog.PriceRange{MinVariantPrice: catalog.Money{Amount: "10.0", CurrencyCode: "USD"}}},
		{ID: "2", Title: "Towel", Handle: "towel", FeaturedImage: &catalog.Image{URL: "https://cdn.example/t.jpg"}},
	}
	if err := src.Replace(context.Background(), want); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, err := src.Products(context.Background())
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("products mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectSourceReplaceValidates(t *testing.T) {
	src := newSource(t)
	tests := map[string][]catalog.Product{
		"missing handle":   {{ID: "1"}},
		"duplicate handle": {{Handle: "a"}, {Handle: "a"}},
	}
	for name, products := range tests {
		if err := src.Replace(context.Background(), products); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestObjectSourceCorruptObject(t *testing.T) {
	src := newSource(t)
	if _, err := src.Store.SaveWithKey(context.Background(), src.Key, "application/json", strings.NewReader("{not a list")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := src.Products(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDevRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(newSource(t)).RegisterDevRoutes(r.Group("/api/v1/dev"))

	put := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/dev/fallback-products", strings.NewReader(`{"products":[{"id":"1","title":"Hat","handle":"hat"}]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(put, req)
	if put.Code != http.StatusOK {
		t.Fatalf("PUT expected 200, got %d: %s", put.Code, put.Body.String())
	}

	get := httptest.NewRecorder()
	r.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/api/v1/dev/fallback-products", nil))
	if get.Code != http.StatusOK || !strings.Contains(get.Body.String(), `"handle":"hat"`) {
		t.Fatalf("GET unexpected response %d %s", get.Code, get.Body.String())
	}

	bad := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/v1/dev/fallback-products", strings.NewReader(`{"products":[{"id":"1"}]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(bad, req)
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing handle, got %d", bad.Code)
	}
}
