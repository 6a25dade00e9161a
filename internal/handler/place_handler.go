package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tripcost/service-route/internal/application"
	"github.com/tripcost/service-route/internal/platform/auth"
	"github.com/tripcost/service-route/internal/platform/middleware"
	"github.com/tripcost/service-route/internal/platform/response"
)

// PlaceHandler handles HTTP requests for interest points.
type PlaceHandler struct {
	service *application.PlaceService
}

// NewPlaceHandler creates a new PlaceHandler.
func NewPlaceHandler(service *application.PlaceService) *PlaceHandler {
	return &PlaceHandler{service: service}
}

// RegisterRoutes registers all interest point routes.
func (h *PlaceHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	places := r.Group("/api/v1/places")
	places.Use(middleware.AuthMiddleware(jwtManager))
	{
		places.POST("", h.RegisterByCoordinates)
		places.POST("/toponym", h.RegisterByToponym)
		places.GET("", h.ListPlaces)
		places.DELETE("/:id", h.DeletePlace)
	}
}

// RegisterByCoordinates handles POST /api/v1/places.
func (h *PlaceHandler) RegisterByCoordinates(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.RegisterPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RegisterByCoordinates(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// RegisterByToponym handles POST /api/v1/places/toponym. The name is geocoded.
func (h *PlaceHandler) RegisterByToponym(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.RegisterToponymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RegisterByToponym(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListPlaces handles GET /api/v1/places.
func (h *PlaceHandler) ListPlaces(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.ListPlaces(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeletePlace handles DELETE /api/v1/places/:id.
func (h *PlaceHandler) DeletePlace(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	placeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid place ID")
		return
	}

	if err := h.service.DeletePlace(c.Request.Context(), userID, placeID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
