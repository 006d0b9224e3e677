package bundles

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/commerce"
	"storefront-backend/internal/shared/server/middleware"
	"storefront-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches bundle routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bundles/:handle", h.get)
}

func (h *Handler) get(c *gin.Context) {
	handle := c.Param("handle")
	c.Set(middleware.BundleHandleKey, handle)

	page, err := h.Svc.Page(c.Request.Context(), handle)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "bundle not found")
		case errors.Is(err, commerce.ErrNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, "commerce_not_configured", "commerce platform is not configured")
		default:
			respond.Error(c, http.StatusBadGateway, "commerce_error", "failed to load bundle")
		}
		return
	}

	respond.OK(c, page)
}
