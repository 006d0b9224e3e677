package recommend

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"storefront-backend/internal/catalog"
)

func TestMatchHandles(t *testing.T) {
	products := productList("red-shirt", "blue-jeans", "green-hat", "sun-hat")

	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{name: "exact", tokens: []string{"blue-jeans", "red-shirt"}, want: []string{"blue-jeans", "red-shirt"}},
		{name: "hyphens removed", tokens: []string{"redshirt"}, want: []string{"red-shirt"}},
		{name: "slug form", tokens: []string{"Green   Hat"}, want: []string{"green-hat"}},
		{name: "title case slug", tokens: []string{"Red Shirt"}, want: []string{"red-shirt"}},
		{name: "unknown dropped", tokens: []string{"nope", "sun-hat"}, want: []string{"sun-hat"}},
		{name: "repeats kept", tokens: []string{"sun-hat", "sun-hat"}, want: []string{"sun-hat", "sun-hat"}},
		{name: "none", tokens: nil, want: []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := handlesOf(MatchHandles(tt.tokens, products))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("matched handles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatchHandlesCapsAtSix(t *testing.T) {
	products := productList("a", "b", "c", "d", "e", "f", "g", "h")
	got := MatchHandles([]string{"a", "b", "c", "d", "e", "f", "g", "h"}, products)
	if len(got) != MaxRecommendations {
		t.Fatalf("expected %d products, got %d", MaxRecommendations, len(got))
	}
}

func TestMatchHandlesPrefersStrictRules(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		products []catalog.Product
		wantID   string
	}{
		{
			name:     "later exact beats earlier loose",
			token:    "ab",
			products: []catalog.Product{{ID: "1", Handle: "a-b"}, {ID: "2", Handle: "ab"}},
			wantID:   "2",
		},
		{
			name:     "exact redshirt handle",
			token:    "redshirt",
			products: []catalog.Product{{ID: "1", Handle: "red-shirt"}, {ID: "2", Handle: "redshirt"}},
			wantID:   "2",
		},
		{
			name:     "loose only",
			token:    "redshirt",
			products: []catalog.Product{{ID: "1", Handle: "blue-jeans"}, {ID: "2", Handle: "red-shirt"}},
			wantID:   "2",
		},
		{
			name:     "first of equal strict matches",
			token:    "sun-hat",
			products: []catalog.Product{{ID: "1", Handle: "sun-hat"}, {ID: "2", Handle: "sun-hat"}},
			wantID:   "1",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := MatchHandles([]string{tt.token}, tt.products)
			if len(got) != 1 || got[0].ID != tt.wantID {
				t.Fatalf("expected product %s, got %+v", tt.wantID, got)
			}
		})
	}
}
