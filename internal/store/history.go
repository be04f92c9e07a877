package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/whatshouldieat/backend/internal/kvstore"
	"github.com/whatshouldieat/backend/internal/models"
)

// MealHistoryStore persists one ordered meal list per calendar day.
// Upsert is a read-modify-write without locking and assumes a single writer.
type MealHistoryStore struct {
	kv kvstore.Store
}

// NewMealHistoryStore creates a meal history store over kv
func NewMealHistoryStore(kv kvstore.Store) *MealHistoryStore {
	return &MealHistoryStore{kv: kv}
}

// Save overwrites the list stored for date. Storage failures are logged and
// otherwise ignored.
func (s *MealHistoryStore) Save(ctx context.Context, date string, meals []models.Meal) {
	if meals == nil {
		meals = []models.Meal{}
	}
	data, err := json.Marshal(meals)
	if err != nil {
		log.Printf("[MealHistoryStore] Failed to encode meals for %s: %v", date, err)
		return
	}
	if err := s.kv.Set(ctx, MealHistoryKey(date), string(data)); err != nil {
		log.Printf("[MealHistoryStore] Failed to save meals for %s: %v", date, err)
	}
}

// Load returns the list stored for date, migrating it from the legacy key
// when needed. Unreadable or malformed content is reported as absent.
func (s *MealHistoryStore) Load(ctx context.Context, date string) ([]models.Meal, bool) {
	raw, ok := s.read(ctx, MealHistoryKey(date))
	if ok {
		return decodeMeals(date, raw)
	}

	legacyKey := LegacyMealHistoryKey(date)
	raw, ok = s.read(ctx, legacyKey)
	if !ok {
		return nil, false
	}
	meals, ok := decodeMeals(date, raw)
	if !ok {
		return nil, false
	}

	log.Printf("[MealHistoryStore] Migrating meals for %s from %s", date, legacyKey)
	s.Save(ctx, date, meals)
	if err := s.kv.Remove(ctx, legacyKey); err != nil {
		log.Printf("[MealHistoryStore] Failed to remove %s: %v", legacyKey, err)
	}
	return meals, true
}

// Upsert replaces the meal with the same id, or appends it, and saves the
// full list back. The returned list reflects the change even when the write
// did not persist.
func (s *MealHistoryStore) Upsert(ctx context.Context, date string, meal models.Meal) []models.Meal {
	meals, _ := s.Load(ctx, date)

	replaced := false
	for i := range meals {
		if meals[i].ID == meal.ID {
			meals[i] = meal
			replaced = true
			break
		}
	}
	if !replaced {
		meals = append(meals, meal)
	}

	s.Save(ctx, date, meals)
	return meals
}

// ClearAll removes the preferences and every meal history key, current and
// legacy. Individual removal failures are logged and skipped.
func (s *MealHistoryStore) ClearAll(ctx context.Context) error {
	keys, err := s.kv.ListKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stored keys: %w", err)
	}

	removed := 0
	for _, key := range keys {
		if !isOwnedKey(key) {
			continue
		}
		if err := s.kv.Remove(ctx, key); err != nil {
			log.Printf("[MealHistoryStore] Failed to remove %s: %v", key, err)
			continue
		}
		removed++
	}

	// Preference keys go even if the listing missed them
	for _, key := range []string{PreferencesKey, LegacyPreferencesKey} {
		if err := s.kv.Remove(ctx, key); err != nil {
			log.Printf("[MealHistoryStore] Failed to remove %s: %v", key, err)
		}
	}

	log.Printf("[MealHistoryStore] Cleared %d stored keys", removed)
	return nil
}

func (s *MealHistoryStore) read(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		log.Printf("[MealHistoryStore] Failed to read %s: %v", key, err)
		return "", false
	}
	return raw, ok && raw != ""
}

func decodeMeals(date, raw string) ([]models.Meal, bool) {
	var meals []models.Meal
	if err := json.Unmarshal([]byte(raw), &meals); err != nil {
		log.Printf("[MealHistoryStore] Ignoring malformed meals for %s: %v", date, err)
		return nil, false
	}
	if meals == nil {
		return nil, false
	}
	return meals, true
}
