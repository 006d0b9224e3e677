package fallback

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/catalog"
	"storefront-backend/internal/shared/server/respond"
)

const maxBodyBytes = 1 << 20

// Handler exposes the stored fallback list for development.
type Handler struct {
	Source *ObjectSource
}

// NewHandler constructs a Handler.
func NewHandler(src *ObjectSource) *Handler {
	return &Handler{Source: src}
}

// RegisterDevRoutes attaches fallback list routes to the router group.
func (h *Handler) RegisterDevRoutes(rg *gin.RouterGroup) {
	rg.GET("/fallback-products", h.get)
	rg.PUT("/fallback-products", h.replace)
}

func (h *Handler) get(c *gin.Context) {
	products, err := h.Source.Products(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to read fallback products")
		return
	}
	respond.OK(c, gin.H{"products": products})
}

func (h *Handler) replace(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var body struct {
		Products []catalog.Product `json:"products"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	if err := h.Source.Replace(c.Request.Context(), body.Products); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to store fallback products")
		return
	}
	respond.OK(c, gin.H{"count": len(body.Products)})
}
