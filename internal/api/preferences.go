package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/whatshouldieat/backend/internal/middleware"
	"github.com/whatshouldieat/backend/internal/models"
)

type PreferencesHandler struct {
	meals MealService
	// Saving preferences regenerates a day, so it shares the refresh budget
	refreshLimiter *middleware.RateLimiter
}

func NewPreferencesHandler(meals MealService, refreshLimiter *middleware.RateLimiter) *PreferencesHandler {
	return &PreferencesHandler{meals: meals, refreshLimiter: refreshLimiter}
}

func (h *PreferencesHandler) RegisterRoutes(router *gin.RouterGroup) {
	prefs := router.Group("/preferences")
	{
		prefs.GET("", h.GetPreferences)
		if h.refreshLimiter != nil {
			prefs.PUT("", h.refreshLimiter.RateLimitMiddleware(), h.UpdatePreferences)
		} else {
			prefs.PUT("", h.UpdatePreferences)
		}
		prefs.DELETE("", h.ClearPreferences)
	}
	router.DELETE("/data", h.ClearAll)
}

func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	prefs, ok := h.meals.Preferences(c.Request.Context())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no preferences saved"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences replaces the stored preferences and regenerates the
// meals for the ?date= query (today when absent)
func (h *PreferencesHandler) UpdatePreferences(c *gin.Context) {
	var prefs models.UserPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	date := c.DefaultQuery("date", models.Today())
	if _, err := models.ParseDate(date); err != nil {
		abortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.meals.SavePreferences(ctx, prefs); err != nil {
		abortWithError(c, err)
		return
	}

	meals, err := h.meals.Refresh(ctx, date, prefs)
	if err != nil {
		log.Printf("[API] Preferences saved but refresh for %s failed: %v", date, err)
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"preferences": prefs,
		"date":        date,
		"meals":       meals,
	})
}

func (h *PreferencesHandler) ClearPreferences(c *gin.Context) {
	h.meals.ClearPreferences(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "preferences cleared"})
}

// ClearAll removes the preferences and every stored day
func (h *PreferencesHandler) ClearAll(c *gin.Context) {
	if err := h.meals.ClearAll(c.Request.Context()); err != nil {
		c.Status(http.StatusInternalServerError)
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all data cleared"})
}
