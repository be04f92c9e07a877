// Package app assembles the storage backend, AI providers and meal service
// selected by configuration. The HTTP server and the CLI share it.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/whatshouldieat/backend/config"
	"github.com/whatshouldieat/backend/internal/database"
	"github.com/whatshouldieat/backend/internal/kvstore"
	"github.com/whatshouldieat/backend/internal/service"
	"github.com/whatshouldieat/backend/internal/store"
	"gorm.io/gorm"
)

// App holds the wired components and the connections they own
type App struct {
	Config      *config.Config
	Store       kvstore.Store
	Preferences *store.PreferenceStore
	History     *store.MealHistoryStore
	Meals       *service.MealService

	// Redis is set when the redis backend is in use
	Redis *redis.Client
	db    *gorm.DB
}

// New opens the configured store and builds the meal service on top of it.
// publisher receives every state publication.
func New(ctx context.Context, cfg *config.Config, publisher service.Publisher) (*App, error) {
	a := &App{Config: cfg}

	kv, err := a.openStore()
	if err != nil {
		return nil, err
	}
	a.Store = kv

	llm, err := service.NewLLMService(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	images, err := newImageSynthesizer(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	if publisher == nil {
		publisher = service.NopPublisher{}
	}

	a.Preferences = store.NewPreferenceStore(kv)
	a.History = store.NewMealHistoryStore(kv)
	a.Meals = service.NewMealService(llm, llm, images, a.Preferences, a.History,
		service.WithImageConcurrency(cfg.ImageConcurrency),
		service.WithPublisher(publisher),
	)
	return a, nil
}

func (a *App) openStore() (kvstore.Store, error) {
	cfg := a.Config
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Printf("[App] Using in-memory store; data is lost on exit")
		return kvstore.NewMemoryStore(), nil

	case config.BackendSQLite, config.BackendPostgres:
		db, err := database.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
		}
		if err := database.RunMigrations(db); err != nil {
			closeDB(db)
			return nil, fmt.Errorf("failed to migrate %s store: %w", cfg.StoreBackend, err)
		}
		a.db = db
		return kvstore.NewGormStore(db), nil

	case config.BackendRedis:
		client, err := database.NewRedisClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis store: %w", err)
		}
		a.Redis = client
		return kvstore.NewRedisStore(client, cfg.RedisKeyPrefix), nil
	}
	return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
}

// newImageSynthesizer builds the image provider, archiving to S3 when a
// bucket is configured
func newImageSynthesizer(ctx context.Context, cfg *config.Config) (service.ImageSynthesizer, error) {
	images, err := service.NewImageService(cfg)
	if err != nil {
		return nil, err
	}

	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if s3Config == nil {
		return images, nil
	}
	log.Printf("[App] Archiving meal images to s3://%s", s3Config.BucketName)
	return service.NewS3ImageArchiver(images, s3Config), nil
}

// HealthCheck reports whether the backing store is reachable
func (a *App) HealthCheck(ctx context.Context) error {
	switch {
	case a.db != nil:
		return database.HealthCheck(a.db)
	case a.Redis != nil:
		return a.Redis.Ping(ctx).Err()
	}
	return nil
}

// Close releases the store connections
func (a *App) Close() {
	if a.db != nil {
		closeDB(a.db)
		a.db = nil
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Printf("[App] Failed to close redis client: %v", err)
		}
		a.Redis = nil
	}
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("[App] Failed to close database: %v", err)
	}
}
