package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tripcost/service-route/internal/application"
	"github.com/tripcost/service-route/internal/platform/auth"
	"github.com/tripcost/service-route/internal/platform/middleware"
	"github.com/tripcost/service-route/internal/platform/response"
)

// JourneyHandler handles HTTP requests for stored journeys.
type JourneyHandler struct {
	service *application.JourneyService
}

// NewJourneyHandler creates a new JourneyHandler.
func NewJourneyHandler(service *application.JourneyService) *JourneyHandler {
	return &JourneyHandler{service: service}
}

// RegisterRoutes registers all stored journey routes.
func (h *JourneyHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	journeys := r.Group("/api/v1/journeys")
	journeys.Use(middleware.AuthMiddleware(jwtManager))
	{
		journeys.POST("", h.SaveJourney)
		journeys.GET("", h.ListJourneys)
		journeys.GET("/:id", h.GetJourney)
		journeys.POST("/:id/favorite", h.ToggleFavorite)
		journeys.DELETE("/:id", h.DeleteJourney)
	}
}

// SaveJourney handles POST /api/v1/journeys.
func (h *JourneyHandler) SaveJourney(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.SaveJourneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SaveJourney(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListJourneys handles GET /api/v1/journeys. ?favorites=true keeps only favourites.
func (h *JourneyHandler) ListJourneys(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	favoritesOnly, _ := strconv.ParseBool(c.DefaultQuery("favorites", "false"))
	page, limit := parsePagination(c)

	result, err := h.service.ListJourneys(c.Request.Context(), userID, favoritesOnly, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetJourney handles GET /api/v1/journeys/:id.
func (h *JourneyHandler) GetJourney(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	journeyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid journey ID")
		return
	}

	result, err := h.service.GetJourney(c.Request.Context(), userID, journeyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ToggleFavorite handles POST /api/v1/journeys/:id/favorite.
func (h *JourneyHandler) ToggleFavorite(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	journeyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid journey ID")
		return
	}

	result, err := h.service.ToggleFavorite(c.Request.Context(), userID, journeyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteJourney handles DELETE /api/v1/journeys/:id.
func (h *JourneyHandler) DeleteJourney(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	journeyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid journey ID")
		return
	}

	if err := h.service.DeleteJourney(c.Request.Context(), userID, journeyID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
