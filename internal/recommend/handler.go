package recommend

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/llm"
	"storefront-backend/internal/shared/server/middleware"
	"storefront-backend/internal/shared/server/respond"
)

const infoMessage = "POST a JSON body with availableProducts (and optionally currentProductTitle, currentProductDescription, userQuery) to receive recommended product handles."

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc    *Service
	Events EventLister
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, events EventLister) *Handler {
	return &Handler{Svc: svc, Events: events}
}

// RegisterRoutes attaches the recommendation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recommendations", h.info)
	rg.POST("/recommendations", h.recommend)
	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete} {
		rg.Handle(method, "/recommendations", h.methodNotAllowed)
	}
	rg.POST("/recommendations/widget", h.widget)
}

// RegisterDevRoutes attaches the event listing used during development.
func (h *Handler) RegisterDevRoutes(rg *gin.RouterGroup) {
	rg.GET("/recommendation-events", h.events)
}

func (h *Handler) info(c *gin.Context) {
	respond.OK(c, gin.H{"message": infoMessage})
}

func (h *Handler) methodNotAllowed(c *gin.Context) {
	c.Header("Allow", "GET, POST")
	respond.Error(c, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
}

func (h *Handler) recommend(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	handles, err := h.Svc.Handles(c.Request.Context(), req)
	if err != nil {
		var upstream *llm.UpstreamError
		switch {
		case errors.Is(err, llm.ErrMissingAPIKey):
			respond.Error(c, http.StatusInternalServerError, ErrorKindConfiguration, "Generative API key is not configured")
		case errors.As(err, &upstream):
			respond.Error(c, http.StatusInternalServerError, ErrorKindUpstream, upstream.Error())
		case errors.Is(err, ErrParse):
			respond.Error(c, http.StatusInternalServerError, ErrorKindParse, "Failed to parse recommendations")
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorKind(err), "Failed to get recommendations")
		}
		return
	}

	respond.OK(c, gin.H{"recommendations": handles})
}

func (h *Handler) widget(c *gin.Context) {
	var req WidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	result := h.Svc.Widget(c.Request.Context(), req, middleware.RequestIDFromContext(c))
	c.Set(middleware.RecommendationSourceKey, result.Source)
	respond.OK(c, result)
}

func (h *Handler) events(c *gin.Context) {
	if h.Events == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "event listing is not available")
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be an integer")
			return
		}
		limit = parsed
	}

	events, err := h.Events.Recent(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list recommendation events")
		return
	}
	respond.OK(c, gin.H{"events": events})
}
