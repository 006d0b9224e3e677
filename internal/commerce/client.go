package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"storefront-backend/internal/shared/httpx"
)

const storefrontTokenHeader = "X-Shopify-Storefront-Access-Token"

// ErrNotConfigured is returned when no store domain is configured.
var ErrNotConfigured = errors.New("commerce store domain is not configured")

// GraphQLError carries the errors array of a GraphQL response.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "commerce graphql: " + strings.Join(e.Messages, "; ")
}

// Config configures a Client.
type Config struct {
	StoreDomain     string
	StorefrontToken string
	APIVersion      string
	HTTP            httpx.Doer
}

// Client executes storefront GraphQL queries.
type Client struct {
	endpoint string
	token    string
	http     httpx.Doer
}

// NewClient constructs a Client. An empty domain yields ErrNotConfigured per query.
func NewClient(cfg Config) *Client {
	domain := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(cfg.StoreDomain), "https://"), "/")
	version := strings.TrimSpace(cfg.APIVersion)
	if version == "" {
		version = "2024-10"
	}
	endpoint := ""
	if domain != "" {
		endpoint = fmt.Sprintf("https://%s/api/%s/graphql.json", domain, version)
	}
	doer := cfg.HTTP
	if doer == nil {
		doer = httpx.NewClient(0)
	}
	return &Client{
		endpoint: endpoint,
		token:    strings.TrimSpace(cfg.StorefrontToken),
		http:     doer,
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// Query runs query with variables and decodes the data object into out.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	if c.endpoint == "" {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(storefrontTokenHeader, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("commerce request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read commerce response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("commerce http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed graphQLResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("commerce response parse: %w", err)
	}
	if len(parsed.Errors) > 0 {
		gqlErr := &GraphQLError{}
		for _, e := range parsed.Errors {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
		}
		return gqlErr
	}
	if out == nil || len(parsed.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(parsed.Data, out); err != nil {
		return fmt.Errorf("commerce data decode: %w", err)
	}
	return nil
}
