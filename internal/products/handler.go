package products

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes attaches product routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.list)
	rg.GET("/products/:handle", h.get)
}

func (h *Handler) list(c *gin.Context) {
	first := DefaultPageSize
	if v := c.Query("first"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "first must be a positive integer")
			return
		}
		first = min(parsed, commerce.MaxProducts)
	}

	products, err := h.Svc.List(c.Request.Context(), first)
	if err != nil {
		commerceError(c, err, "failed to list products")
		return
	}
	respond.OK(c, gin.H{"products": products})
}

func (h *Handler) get(c *gin.Context) {
	handle := c.Param("handle")
	c.Set(middleware.ProductHandleKey, handle)

	product, err := h.Svc.Get(c.Request.Context(), handle)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "product not found")
			return
		}
		commerceError(c, err, "failed to load product")
		return
	}
	respond.OK(c, product)
}

func commerceError(c *gin.Context, err error, message string) {
	if errors.Is(err, commerce.ErrNotConfigured) {
		respond.Error(c, http.StatusServiceUnavailable, "commerce_not_configured", "commerce platform is not configured")
		return
	}
	respond.Error(c, http.StatusBadGateway, "commerce_error", message)
}
