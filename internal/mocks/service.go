package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/whatshouldieat/backend/internal/models"
)

// MockSuggestionGenerator is a mock implementation of the suggestion generator
type MockSuggestionGenerator struct {
	mock.Mock
}

func (m *MockSuggestionGenerator) GenerateSuggestions(ctx context.Context, prefs models.UserPreferences) ([]models.MealSuggestion, error) {
	args := m.Called(ctx, prefs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MealSuggestion), args.Error(1)
}

// MockLocationAdapter is a mock implementation of the location adapter
type MockLocationAdapter struct {
	mock.Mock
}

func (m *MockLocationAdapter) AdaptToLocation(ctx context.Context, suggestions []models.MealSuggestion, location, preferences string) ([]models.MealSuggestion, error) {
	args := m.Called(ctx, suggestions, location, preferences)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MealSuggestion), args.Error(1)
}

// MockImageSynthesizer is a mock implementation of the image synthesizer
type MockImageSynthesizer struct {
	mock.Mock
}

func (m *MockImageSynthesizer) GenerateImage(ctx context.Context, keywords string) (string, error) {
	args := m.Called(ctx, keywords)
	return args.String(0), args.Error(1)
}

// RecordingPublisher keeps every published event in order
type RecordingPublisher struct {
	mu     sync.Mutex
	events []models.MealEvent
}

func (p *RecordingPublisher) Publish(event models.MealEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns a copy of the published events
func (p *RecordingPublisher) Events() []models.MealEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.MealEvent, len(p.events))
	copy(out, p.events)
	return out
}

// EventsOfType filters the published events by type
func (p *RecordingPublisher) EventsOfType(eventType string) []models.MealEvent {
	var out []models.MealEvent
	for _, e := range p.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
