package service

import (
	"context"

	"github.com/whatshouldieat/backend/internal/models"
)

// SuggestionGenerator produces an ordered list of meal ideas for a preference set
type SuggestionGenerator interface {
	GenerateSuggestions(ctx context.Context, prefs models.UserPreferences) ([]models.MealSuggestion, error)
}

// LocationAdapter rewrites suggestions to fit a location and preference summary,
// returning a list of the same shape
type LocationAdapter interface {
	AdaptToLocation(ctx context.Context, suggestions []models.MealSuggestion, location, preferences string) ([]models.MealSuggestion, error)
}

// ImageSynthesizer turns image keywords into one inline image payload
type ImageSynthesizer interface {
	GenerateImage(ctx context.Context, keywords string) (string, error)
}

// Publisher receives state publications. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(event models.MealEvent)
}

// NopPublisher discards every event
type NopPublisher struct{}

func (NopPublisher) Publish(models.MealEvent) {}
