// Command lambda-http serves the storefront API behind an API Gateway HTTP API.
//
//	GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"storefront-backend/internal/bootstrap"
	"storefront-backend/internal/shared/config"
	"storefront-backend/internal/shared/telemetry"
)

type proxy interface {
	ProxyWithContext(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)
}

// handler builds the app on the first invocation and reuses it while the
// execution environment stays warm.
type handler struct {
	build func() (proxy, error)

	once    sync.Once
	proxy   proxy
	initErr error
}

func newHandler() *handler {
	return &handler{build: func() (proxy, error) {
		app, err := bootstrap.Build(config.Load())
		if err != nil {
			return nil, err
		}
		return ginadapter.NewV2(app.Router), nil
	}}
}

func (h *handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	h.once.Do(func() {
		h.proxy, h.initErr = h.build()
		if h.initErr != nil {
			telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": h.initErr.Error()})
		}
	})
	if h.initErr != nil || h.proxy == nil {
		return errorResponse(http.StatusServiceUnavailable, "service unavailable"), nil
	}
	return h.proxy.ProxyWithContext(ctx, req)
}

func errorResponse(status int, message string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]string{"error": message})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	lambda.Start(newHandler().Handle)
}
