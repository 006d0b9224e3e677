package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"storefront-backend/internal/shared/httpx"
)

type recordedRequest struct {
	url    string
	token  string
	query  string
	vars   map[string]any
	called bool
}

func fakeStore(t *testing.T, status int, body string, rec *recordedRequest) httpx.Doer {
	t.Helper()
	return httpx.DoerFunc(func(req *http.Request) (*http.Response, error) {
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		var payload struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if rec != nil {
			rec.called = true
			rec.url = req.URL.String()
			rec.token = req.Header.Get(storefrontTokenHeader)
			rec.query = payload.Query
			rec.vars = payload.Variables
		}
		return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}, nil
	})
}

func TestQueryNotConfigured(t *testing.T) {
	client := NewClient(Config{})
	if err := client.Query(context.Background(), "{ shop { name } }", nil, nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestBundleQueryShapeAndDecode(t *testing.T) {
	var rec recordedRequest
	body := `{"data":{"metaobject":{"id":"gid://Metaobject/1","handle":"summer","type":"bundle","fields":[
		{"key":"title","type":"single_line_text_field","value":"Summer Kit","reference":null,"references":null},
		{"key":"hero","type":"file_reference","value":"gid://MediaImage/9","reference":{"__typename":"MediaImage","image":{"url":"https://cdn.example/hero.jpg","altText":"Hero"}}},
		{"key":"items","type":"list.product_reference","value":"[]","references":{"nodes":[{"__typename":"Product","id":"gid://Product/1","title":"Hat","handle":"hat","priceRange":{"minVariantPrice":{"amount":"10.0","currencyCode":"USD"}},"variants":{"nodes":[{"id":"gid://ProductVariant/11","title":"Default","availableForSale":true,"price":{"amount":"10.0","currencyCode":"USD"}}]}}]}}
	]}}}`
	client := NewClient(Config{StoreDomain: "https://shop.example/", StorefrontToken: "tok", APIVersion: "2024-07", HTTP: fakeStore(t, http.StatusOK, body, &rec)})

	obj, err := client.Bundle(context.Background(), "summer")
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	if rec.url != "https://shop.example/api/2024-07/graphql.json" {
		t.Fatalf("unexpected endpoint %s", rec.url)
	}
	if rec.token != "tok" {
		t.Fatalf("expected storefront token header, got %q", rec.token)
	}
	if !strings.Contains(rec.query, `type: "bundle"`) || !strings.Contains(rec.query, "fragment ProductSummary") {
		t.Fatalf("bundle query missing metaobject type or fragment: %s", rec.query)
	}
	if rec.vars["handle"] != "summer" {
		t.Fatalf("unexpected variables %v", rec.vars)
	}
	if obj == nil || len(obj.Fields) != 3 {
		t.Fatalf("unexpected metaobject %+v", obj)
	}
	if obj.Fields[1].Reference == nil || obj.Fields[1].Reference.Image == nil || obj.Fields[1].Reference.Image.URL != "https://cdn.example/hero.jpg" {
		t.Fatalf("image reference not decoded: %+v", obj.Fields[1].Reference)
	}
	nodes := obj.Fields[2].References.Nodes
	if len(nodes) != 1 || nodes[0].Handle != "hat" {
		t.Fatalf("product references not decoded: %+v", nodes)
	}
	if v := nodes[0].FirstVariant(); v == nil || v.ID != "gid://ProductVariant/11" {
		t.Fatalf("unexpected first variant %+v", v)
	}
}

func TestBundleMissingReturnsNil(t *testing.T) {
	client := NewClient(Config{StoreDomain: "shop.example", HTTP: fakeStore(t, http.StatusOK, `{"data":{"metaobject":null}}`, nil)})
	obj, err := client.Bundle(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	if obj != nil {
		t.Fatalf("expected nil metaobject, got %+v", obj)
	}
}

func TestQueryErrors(t *testing.T) {
	t.Run("graphql errors", func(t *testing.T) {
		client := NewClient(Config{StoreDomain: "shop.example", HTTP: fakeStore(t, http.StatusOK, `{"errors":[{"message":"bad field"},{"message":"throttled"}]}`, nil)})
		_, err := client.Products(context.Background(), 5)
		var gqlErr *GraphQLError
		if !errors.As(err, &gqlErr) {
			t.Fatalf("expected GraphQLError, got %v", err)
		}
		if len(gqlErr.Messages) != 2 {
			t.Fatalf("expected two messages, got %v", gqlErr.Messages)
		}
	})

	t.Run("http status", func(t *testing.T) {
		client := NewClient(Config{StoreDomain: "shop.example", HTTP: fakeStore(t, http.StatusUnauthorized, `denied`, nil)})
		_, err := client.ProductByHandle(context.Background(), "hat")
		if err == nil || !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "denied") {
			t.Fatalf("expected status error, got %v", err)
		}
	})
}

func TestProductsClampsFirst(t *testing.T) {
	var rec recordedRequest
	client := NewClient(Config{StoreDomain: "shop.example", HTTP: fakeStore(t, http.StatusOK, `{"data":{"products":{"nodes":[]}}}`, &rec)})
	if _, err := client.Products(context.Background(), 1000); err != nil {
		t.Fatalf("Products: %v", err)
	}
	if rec.vars["first"] != float64(MaxProducts) {
		t.Fatalf("expected first clamped to %d, got %v", MaxProducts, rec.vars["first"])
	}
}
