package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tripcost/service-route/internal/application"
	"github.com/tripcost/service-route/internal/platform/auth"
	"github.com/tripcost/service-route/internal/platform/middleware"
	"github.com/tripcost/service-route/internal/platform/response"
)

// RouteHandler serves route lookups and journey pricing.
type RouteHandler struct {
	service *application.RouteService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(service *application.RouteService) *RouteHandler {
	return &RouteHandler{service: service}
}

// RegisterRoutes registers the route planning endpoints.
func (h *RouteHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	routes := r.Group("/api/v1/routes")
	routes.Use(middleware.AuthMiddleware(jwtManager))
	{
		routes.POST("", h.GetRoute)
		routes.POST("/price", h.GetPrice)
		routes.POST("/quote", h.Quote)
	}
}

// GetRoute handles POST /api/v1/routes.
func (h *RouteHandler) GetRoute(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.GetRoute(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetPrice handles POST /api/v1/routes/price. The body carries a journey
// obtained earlier together with the request that produced it.
func (h *RouteHandler) GetPrice(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.GetPrice(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Quote handles POST /api/v1/routes/quote.
func (h *RouteHandler) Quote(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Quote(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
