package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/whatshouldieat/backend/internal/middleware"
	"github.com/whatshouldieat/backend/internal/models"
	"github.com/whatshouldieat/backend/internal/service"
)

type MealHandler struct {
	meals          MealService
	refreshLimiter *middleware.RateLimiter
}

func NewMealHandler(meals MealService, refreshLimiter *middleware.RateLimiter) *MealHandler {
	return &MealHandler{meals: meals, refreshLimiter: refreshLimiter}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.GET("/:date", h.GetMeals)
		meals.GET("/:date/:direction", h.NavigateMeals)
		meals.PATCH("/:date/:id", h.UpdateMeal)

		if h.refreshLimiter != nil {
			meals.POST("/:date/refresh", h.refreshLimiter.RateLimitMiddleware(), h.RefreshMeals)
		} else {
			meals.POST("/:date/refresh", h.RefreshMeals)
		}
	}
}

type updateMealRequest struct {
	Rating *int    `json:"rating"`
	Notes  *string `json:"notes"`
}

// GetMeals returns the stored meals for a day, generating them on first visit
// when preferences exist
func (h *MealHandler) GetMeals(c *gin.Context) {
	date := c.Param("date")
	ctx := c.Request.Context()

	var prefsPtr *models.UserPreferences
	if prefs, ok := h.meals.Preferences(ctx); ok {
		prefsPtr = &prefs
	}

	meals, err := h.meals.LoadOrGenerate(ctx, date, prefsPtr)
	if errors.Is(err, service.ErrPreferencesRequired) {
		c.JSON(http.StatusOK, gin.H{
			"date":    date,
			"meals":   []models.Meal{},
			"message": "Set your preferences to get meal suggestions.",
		})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "meals": meals})
}

// RefreshMeals regenerates a day with the stored preferences
func (h *MealHandler) RefreshMeals(c *gin.Context) {
	date := c.Param("date")
	ctx := c.Request.Context()

	prefs, ok := h.meals.Preferences(ctx)
	if !ok {
		abortWithError(c, service.ErrPreferencesRequired)
		return
	}

	meals, err := h.meals.Refresh(ctx, date, prefs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "meals": meals})
}

func (h *MealHandler) NavigateMeals(c *gin.Context) {
	dir, err := service.ParseDirection(c.Param("direction"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	date, meals, err := h.meals.Navigate(c.Request.Context(), c.Param("date"), dir)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "meals": meals})
}

// UpdateMeal applies a rating and notes change to one meal
func (h *MealHandler) UpdateMeal(c *gin.Context) {
	var req updateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Rating == nil && req.Notes == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating or notes is required"})
		return
	}

	date := c.Param("date")
	meals, err := h.meals.ApplyEdit(c.Request.Context(), models.MealEdit{
		ID:     c.Param("id"),
		Date:   date,
		Rating: req.Rating,
		Notes:  req.Notes,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "meals": meals})
}
