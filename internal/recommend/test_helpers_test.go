package recommend

import (
	"context"
	"sync"

	"storefront-backend/internal/catalog"
	"storefront-backend/internal/queue"
)

func product(handle string) catalog.Product {
	return catalog.Product{
		ID:     "gid://Product/" + handle,
		Title:  handle,
		Handle: handle,
		PriceRange: catalog.PriceRange{
			MinVariantPrice: catalog.Money{Amount: "10.0", CurrencyCode: "USD"},
		},
	}
}

func productList(handles ...string) []catalog.Product {
	out := make([]catalog.Product, 0, len(handles))
	for _, h := range handles {
		out = append(out, product(h))
	}
	return out
}

type stubGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

type recordingQueue struct {
	sent []queue.Message
	err  error
}

func (q *recordingQueue) Send(ctx context.Context, msg queue.Message) error {
	if q.err != nil {
		return q.err
	}
	q.sent = append(q.sent, msg)
	return nil
}
