package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/whatshouldieat/backend/config"
	"github.com/whatshouldieat/backend/internal/api"
	"github.com/whatshouldieat/backend/internal/app"
	"github.com/whatshouldieat/backend/internal/database"
	"github.com/whatshouldieat/backend/internal/middleware"
	"github.com/whatshouldieat/backend/internal/realtime"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	app    *app.App
	hub    *realtime.Hub

	// limiterRedis is a connection opened only for rate limiting
	limiterRedis *redis.Client
}

// New creates a server for a, streaming its publications through hub
func New(cfg *config.Config, a *app.App, hub *realtime.Hub) *Server {
	router := gin.Default()
	router.Use(middleware.CORS(cfg.CORSOrigins))

	s := &Server{
		router: router,
		app:    a,
		hub:    hub,
	}

	router.GET("/health/ready", s.ready)
	api.RegisterRoutes(router, a.Meals, hub, s.refreshLimiter(cfg))

	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// refreshLimiter returns nil when rate limiting is disabled or Redis is unreachable
func (s *Server) refreshLimiter(cfg *config.Config) *middleware.RateLimiter {
	if cfg.RefreshRateLimit <= 0 {
		return nil
	}

	client := s.app.Redis
	if client == nil {
		var err error
		client, err = database.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis for rate limiting: %v", err)
			// Continue without rate limiting if Redis is not available
			return nil
		}
		s.limiterRedis = client
	}

	log.Printf("Limiting refreshes to %d per %s per client", cfg.RefreshRateLimit, cfg.RefreshRateWindow)
	return middleware.NewRefreshRateLimiter(client, cfg.RefreshRateLimit, cfg.RefreshRateWindow, cfg.RedisKeyPrefix)
}

func (s *Server) ready(c *gin.Context) {
	if err := s.app.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "clients": s.hub.ClientCount()})
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until the server is shut down
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and releases its connections
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := s.http.Shutdown(ctx)
	if s.limiterRedis != nil {
		s.limiterRedis.Close()
	}
	s.app.Close()
	return err
}
