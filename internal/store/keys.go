// Package store maps user preferences and per-day meal history onto a
// key-value store, migrating records written under the legacy key names.
package store

import "strings"

// Persisted key layout
const (
	PreferencesKey       = "whatshouldieat-preferences"
	LegacyPreferencesKey = "foodwise-preferences"

	MealHistoryPrefix       = "whatshouldieat-meal-history-"
	LegacyMealHistoryPrefix = "foodwise-meal-history-"
)

// MealHistoryKey returns the current key for a date's history
func MealHistoryKey(date string) string {
	return MealHistoryPrefix + date
}

// LegacyMealHistoryKey returns the legacy key for a date's history
func LegacyMealHistoryKey(date string) string {
	return LegacyMealHistoryPrefix + date
}

func isOwnedKey(key string) bool {
	switch key {
	case PreferencesKey, LegacyPreferencesKey:
		return true
	}
	return strings.HasPrefix(key, MealHistoryPrefix) || strings.HasPrefix(key, LegacyMealHistoryPrefix)
}
