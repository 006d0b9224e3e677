package bundles

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"storefront-backend/internal/catalog"
	"storefront-backend/internal/commerce"
)

const bundleFixture = `{
  "id": "gid://shopify/Metaobject/1",
  "handle": "summer-kit",
  "type": "bundle",
  "fields": [
    {"key": "title", "type": "single_line_text_field", "value": "Summer Kit"},
    {"key": "description", "type": "rich_text_field", "value": "{\"type\":\"root\",\"children\":[{\"type\":\"paragraph\",\"children\":[{\"type\":\"text\",\"value\":\"Hello\"},{\"type\":\"text\",\"value\":\"world\"}]}]}"},
    {"key": "tagline", "type": "rich_text_field", "value": "{broken"},
    {"key": "hero", "type": "file_reference", "value": "gid://MediaImage/9", "reference": {"__typename": "MediaImage", "image": {"url": "https://cdn.example/hero.jpg", "altText": "Hero"}}},
    {"key": "guide", "type": "file_reference", "value": "gid://GenericFile/3", "reference": {"__typename": "GenericFile", "url": "https://cdn.example/guide.pdf", "alt": "Guide"}},
    {"key": "missing_image", "type": "file_reference", "value": "gid://MediaImage/0", "reference": {"__typename": "MediaImage", "image": null}},
    {"key": "featured", "type": "product_reference", "value": "gid://Product/1", "reference": {"__typename": "Product", "id": "gid://Product/1", "title": "Hat", "handle": "hat", "priceRange": {"minVariantPrice": {"amount": "50.0", "currencyCode": "USD"}}, "variants": {"nodes": [{"id": "gid://ProductVariant/11", "title": "Default", "availableForSale": true, "price": {"amount": "50.0", "currencyCode": "USD"}}]}}},
    {"key": "products", "type": "list.product_reference", "value": "[\"gid://Product/2\"]", "references": {"nodes": [{"__typename": "Product", "id": "gid://Product/2", "title": "Towel", "handle": "towel", "priceRange": {"minVariantPrice": {"amount": "50.0", "currencyCode": "USD"}}, "variants": {"nodes": []}}]}},
    {"key": "bundle_type", "type": "single_line_text_field", "value": "fixed_price"},
    {"key": "discount_value", "type": "number_decimal", "value": "80"}
  ]
}`

func fixtureMetaobject(t *testing.T) commerce.Metaobject {
	t.Helper()
	var obj commerce.Metaobject
	if err := json.Unmarshal([]byte(bundleFixture), &obj); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return obj
}

func TestNormalize(t *testing.T) {
	b := Normalize(fixtureMetaobject(t))

	wantFields := Record{
		"title":          "Summer Kit",
		"description":    "Hello world",
		"tagline":        "{broken",
		"hero":           catalog.Image{URL: "https://cdn.example/hero.jpg", AltText: "Hero"},
		"guide":          catalog.Image{URL: "https://cdn.example/guide.pdf", AltText: "Guide"},
		"bundle_type":    "fixed_price",
		"discount_value": "80",
	}
	if diff := cmp.Diff(wantFields, b.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	if len(b.Products) != 2 || b.Products[0].Handle != "hat" || b.Products[1].Handle != "towel" {
		t.Fatalf("unexpected products %+v", b.Products)
	}
	if b.Products[0].FirstVariant == nil || b.Products[0].FirstVariant.ID != "gid://ProductVariant/11" {
		t.Fatalf("expected first variant on hat, got %+v", b.Products[0].FirstVariant)
	}
	if b.Products[1].FirstVariant != nil {
		t.Fatalf("expected nil variant on towel, got %+v", b.Products[1].FirstVariant)
	}
}

func TestNormalizeExcludesProductsKey(t *testing.T) {
	value := "raw"
	b := Normalize(commerce.Metaobject{Fields: []commerce.MetaobjectField{
		{Key: "products", Type: "single_line_text_field", Value: &value},
	}})
	if _, ok := b.Fields["products"]; ok {
		t.Fatalf("products key must not appear in the record")
	}
}

type stubFetcher struct {
	obj *commerce.Metaobject
	err error
}

func (f stubFetcher) Bundle(ctx context.Context, handle string) (*commerce.Metaobject, error) {
	return f.obj, f.err
}

func TestServicePage(t *testing.T) {
	obj := fixtureMetaobject(t)
	svc := &Service{Commerce: stubFetcher{obj: &obj}}

	page, err := svc.Page(context.Background(), "summer-kit")
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	want := Pricing{CurrencyCode: "USD", Subtotal: 100, Price: 80, Savings: 20, SavingsLabel: "Save USD 20.00", DiscountType: DiscountFixedPrice}
	if diff := cmp.Diff(want, page.Pricing); diff != "" {
		t.Fatalf("pricing mismatch (-want +got):\n%s", diff)
	}
}

func TestServicePageNotFound(t *testing.T) {
	svc := &Service{Commerce: stubFetcher{}}
	if _, err := svc.Page(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHandlerStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	obj := fixtureMetaobject(t)

	tests := []struct {
		name       string
		fetcher    stubFetcher
		wantStatus int
		wantBody   string
	}{
		{name: "found", fetcher: stubFetcher{obj: &obj}, wantStatus: http.StatusOK, wantBody: `"savingsLabel":"Save USD 20.00"`},
		{name: "missing", fetcher: stubFetcher{}, wantStatus: http.StatusNotFound, wantBody: `"error":"bundle not found"`},
		{name: "not configured", fetcher: stubFetcher{err: commerce.ErrNotConfigured}, wantStatus: http.StatusServiceUnavailable, wantBody: `"error"`},
		{name: "upstream failure", fetcher: stubFetcher{err: errors.New("timeout")}, wantStatus: http.StatusBadGateway, wantBody: `"error"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			NewHandler(&Service{Commerce: tt.fetcher}).RegisterRoutes(r.Group("/api/v1"))

			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/bundles/summer-kit", nil))
			if resp.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.Code)
			}
			if !strings.Contains(resp.Body.String(), tt.wantBody) {
				t.Fatalf("body %s missing %s", resp.Body.String(), tt.wantBody)
			}
		})
	}
}
