package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/whatshouldieat/backend/internal/models"
)

// consolePublisher prints notices, errors and summaries as they are published
type consolePublisher struct {
	mu  sync.Mutex
	out io.Writer
}

func newConsolePublisher(out io.Writer) *consolePublisher {
	return &consolePublisher{out: out}
}

func (p *consolePublisher) Publish(event models.MealEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch event.Type {
	case models.EventInterim:
		fmt.Fprintf(p.out, "Generated %d meals for %s, creating images...\n", len(event.Meals), event.Date)
	case models.EventNotice:
		fmt.Fprintf(p.out, "Notice: %s\n", event.Message)
	case models.EventError:
		fmt.Fprintf(p.out, "Error: %s\n", event.Message)
	case models.EventFinal:
		if event.Message != "" {
			fmt.Fprintln(p.out, event.Message)
		}
	}
}

func printMeals(w io.Writer, date string, meals []models.Meal) {
	if len(meals) == 0 {
		fmt.Fprintf(w, "No meals for %s.\n", date)
		return
	}

	fmt.Fprintf(w, "Meals for %s:\n", date)
	for _, m := range meals {
		fmt.Fprintf(w, "\n%s  %s  %s\n", m.ID, m.Name, stars(m.Rating))
		if m.Description != "" {
			fmt.Fprintf(w, "  %s\n", m.Description)
		}
		if m.Notes != "" {
			fmt.Fprintf(w, "  Notes: %s\n", m.Notes)
		}
		if m.ImageURL != "" {
			fmt.Fprintf(w, "  Image: %s\n", displayImage(m.ImageURL))
		}
	}
}

func printPreferences(w io.Writer, prefs models.UserPreferences) {
	fmt.Fprintf(w, "Dietary preferences: %s\n", prefs.DietaryPreferences)
	fmt.Fprintf(w, "Location:            %s\n", prefs.Location)
	fmt.Fprintf(w, "Cuisine preferences: %s\n", prefs.CuisinePreferences)
}

func stars(rating int) string {
	if rating <= 0 {
		return "(unrated)"
	}
	return strings.Repeat("*", rating) + strings.Repeat(".", models.MaxRating-rating)
}

// displayImage keeps inline payloads from flooding the terminal
func displayImage(url string) string {
	if strings.HasPrefix(url, "data:") {
		return "(inline image)"
	}
	return url
}
