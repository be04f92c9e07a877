package store

import (
	"context"
	"encoding/json"
	"log"

	"github.com/whatshouldieat/backend/internal/kvstore"
	"github.com/whatshouldieat/backend/internal/models"
)

// PreferenceStore persists the single preferences record
type PreferenceStore struct {
	kv kvstore.Store
}

// NewPreferenceStore creates a preference store over kv
func NewPreferenceStore(kv kvstore.Store) *PreferenceStore {
	return &PreferenceStore{kv: kv}
}

// Save writes prefs under the current key. Storage failures are logged and
// otherwise ignored.
func (s *PreferenceStore) Save(ctx context.Context, prefs models.UserPreferences) {
	data, err := json.Marshal(prefs)
	if err != nil {
		log.Printf("[PreferenceStore] Failed to encode preferences: %v", err)
		return
	}
	if err := s.kv.Set(ctx, PreferencesKey, string(data)); err != nil {
		log.Printf("[PreferenceStore] Failed to save preferences: %v", err)
	}
}

// Load returns the stored preferences. A record found only under the legacy
// key is moved to the current key first. Unreadable or malformed content is
// reported as absent.
func (s *PreferenceStore) Load(ctx context.Context) (models.UserPreferences, bool) {
	raw, ok := s.read(ctx, PreferencesKey)
	if ok {
		return decodePreferences(raw)
	}

	raw, ok = s.read(ctx, LegacyPreferencesKey)
	if !ok {
		return models.UserPreferences{}, false
	}
	prefs, ok := decodePreferences(raw)
	if !ok {
		return models.UserPreferences{}, false
	}

	log.Printf("[PreferenceStore] Migrating preferences from %s", LegacyPreferencesKey)
	s.Save(ctx, prefs)
	if err := s.kv.Remove(ctx, LegacyPreferencesKey); err != nil {
		log.Printf("[PreferenceStore] Failed to remove legacy preferences: %v", err)
	}
	return prefs, true
}

// Clear removes both the current and legacy records
func (s *PreferenceStore) Clear(ctx context.Context) {
	for _, key := range []string{PreferencesKey, LegacyPreferencesKey} {
		if err := s.kv.Remove(ctx, key); err != nil {
			log.Printf("[PreferenceStore] Failed to remove %s: %v", key, err)
		}
	}
}

func (s *PreferenceStore) read(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		log.Printf("[PreferenceStore] Failed to read %s: %v", key, err)
		return "", false
	}
	return raw, ok && raw != ""
}

func decodePreferences(raw string) (models.UserPreferences, bool) {
	var prefs *models.UserPreferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		log.Printf("[PreferenceStore] Ignoring malformed preferences: %v", err)
		return models.UserPreferences{}, false
	}
	if prefs == nil {
		return models.UserPreferences{}, false
	}
	return *prefs, true
}
