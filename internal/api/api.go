package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/whatshouldieat/backend/internal/middleware"
	"github.com/whatshouldieat/backend/internal/models"
	"github.com/whatshouldieat/backend/internal/realtime"
	"github.com/whatshouldieat/backend/internal/service"
)

// MealService is the orchestration surface the handlers need
type MealService interface {
	Preferences(ctx context.Context) (models.UserPreferences, bool)
	SavePreferences(ctx context.Context, prefs models.UserPreferences) error
	ClearPreferences(ctx context.Context)
	LoadOrGenerate(ctx context.Context, date string, prefs *models.UserPreferences) ([]models.Meal, error)
	Refresh(ctx context.Context, date string, prefs models.UserPreferences) ([]models.Meal, error)
	Navigate(ctx context.Context, date string, dir service.Direction) (string, []models.Meal, error)
	ApplyEdit(ctx context.Context, edit models.MealEdit) ([]models.Meal, error)
	ClearAll(ctx context.Context) error
}

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "What Should I Eat API is running",
		"version": "v1.0.0",
	})
}

// RegisterRoutes registers all API routes. refreshLimiter may be nil when
// Redis is not configured.
func RegisterRoutes(router *gin.Engine, meals MealService, hub *realtime.Hub, refreshLimiter *middleware.RateLimiter) {
	router.GET("/health", HealthCheck)
	router.GET("/api/health", HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.ErrorHandler())

	NewPreferencesHandler(meals, refreshLimiter).RegisterRoutes(v1)
	NewMealHandler(meals, refreshLimiter).RegisterRoutes(v1)
	NewRateLimitHandler(refreshLimiter).RegisterRoutes(v1)
	NewRealtimeHandler(hub).RegisterRoutes(v1)
}

// abortWithError records err for the error middleware with the status it maps to
func abortWithError(c *gin.Context, err error) {
	c.Status(statusFor(err))
	_ = c.Error(err)
	c.Abort()
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidDate),
		errors.Is(err, models.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidPreferences),
		errors.Is(err, service.ErrInvalidDirection):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrMealNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrPreferencesRequired),
		errors.Is(err, service.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, service.ErrNoSuggestions),
		errors.Is(err, service.ErrNoAdaptedSuggestions),
		errors.Is(err, service.ErrAdapterMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled):
		return 499
	}
	return http.StatusBadGateway
}
