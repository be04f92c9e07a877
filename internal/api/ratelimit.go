package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/whatshouldieat/backend/internal/middleware"
)

// RateLimitHandler reports the caller's remaining refresh budget
type RateLimitHandler struct {
	limiter *middleware.RateLimiter
}

func NewRateLimitHandler(limiter *middleware.RateLimiter) *RateLimitHandler {
	return &RateLimitHandler{limiter: limiter}
}

func (h *RateLimitHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/rate-limit", h.GetRefreshQuota)
}

// GetRefreshQuota returns how many refreshes the client IP has left in the
// current window without spending one
func (h *RateLimitHandler) GetRefreshQuota(c *gin.Context) {
	if h.limiter == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	remaining, reset, err := h.limiter.Remaining(c.Request.Context(), c.ClientIP())
	if err != nil {
		c.Status(http.StatusServiceUnavailable)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enabled":   true,
		"limit":     h.limiter.Limit(),
		"remaining": remaining,
		"reset":     reset.Unix(),
	})
}
