package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used for meal dates and history keys
const DateLayout = "2006-01-02"

// Rating bounds; 0 means unrated
const (
	MinRating = 0
	MaxRating = 5
)

var (
	ErrInvalidDate   = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidRating = errors.New("rating must be between 0 and 5")
)

// UserPreferences drives suggestion generation. It is replaced wholesale on edit.
type UserPreferences struct {
	DietaryPreferences string `json:"dietaryPreferences" binding:"required,min=3"`
	Location           string `json:"location" binding:"required,min=2"`
	CuisinePreferences string `json:"cuisinePreferences" binding:"required,min=3"`
}

// Validate applies the same minimum lengths as the preferences form
func (p UserPreferences) Validate() error {
	var problems []string
	if len(strings.TrimSpace(p.DietaryPreferences)) < 3 {
		problems = append(problems, "dietary preferences must be at least 3 characters")
	}
	if len(strings.TrimSpace(p.Location)) < 2 {
		problems = append(problems, "location must be at least 2 characters")
	}
	if len(strings.TrimSpace(p.CuisinePreferences)) < 3 {
		problems = append(problems, "cuisine preferences must be at least 3 characters")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid preferences: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Summary is the preference string handed to the location adapter
func (p UserPreferences) Summary() string {
	return fmt.Sprintf("Diet: %s. Cuisine: %s.", p.DietaryPreferences, p.CuisinePreferences)
}

// MealSuggestion is the transient shape produced by the text-generation steps
type MealSuggestion struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	ImageKeywords string `json:"imageKeywords,omitempty"`
}

// Meal is the persisted unit of a day's history
type Meal struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Date          string `json:"date"`
	Rating        int    `json:"rating"`
	Notes         string `json:"notes"`
	ImageURL      string `json:"imageUrl,omitempty"`
	ImageKeywords string `json:"imageKeywords,omitempty"`
}

// ImageQuery returns the keywords sent to the image synthesizer:
// the meal's keywords when present, otherwise its name.
func (m Meal) ImageQuery() string {
	if kw := strings.TrimSpace(m.ImageKeywords); kw != "" {
		return kw
	}
	return m.Name
}

// MealEdit carries a user's rating and notes change for one meal
type MealEdit struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"`
	Rating *int    `json:"rating,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// ValidateRating reports whether r is an allowed rating
func ValidateRating(r int) error {
	if r < MinRating || r > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// ParseDate validates a YYYY-MM-DD string
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// FormatDate renders t as a history date
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current local date
func Today() string {
	return FormatDate(time.Now())
}
