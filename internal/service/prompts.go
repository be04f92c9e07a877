package service

import (
	"fmt"
	"strings"

	"github.com/whatshouldieat/backend/internal/models"
)

const suggestionSystemPrompt = `You are a meal suggestion expert and nutritionist.
Respond with ONLY a valid JSON array. Each element must be an object with
"name" (string), "description" (string, 1-2 sentences, optional) and
"imageKeywords" (string, 1-3 descriptive words for appetizing food photography, optional).`

func buildSuggestionPrompt(prefs models.UserPreferences) string {
	return fmt.Sprintf(`Suggest a day's worth of meals (breakfast, lunch, dinner and optionally a snack).
Dietary preferences: %s
Location: %s
Cuisine preferences: %s

Every meal must respect the dietary preferences. Favor ingredients that are easy to find in the location.`,
		prefs.DietaryPreferences, prefs.Location, prefs.CuisinePreferences)
}

func buildAdaptPrompt(suggestions []models.MealSuggestion, location, preferences string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The user is currently in %s.\nGiven the following meal suggestions:\n\n", location)
	for _, s := range suggestions {
		fmt.Fprintf(&b, "- Name: %s\n", s.Name)
		if s.Description != "" {
			fmt.Fprintf(&b, "  Description: %s\n", s.Description)
		}
		if s.ImageKeywords != "" {
			fmt.Fprintf(&b, "  Image Keywords: %s\n", s.ImageKeywords)
		}
	}
	b.WriteString("\nAdapt these meal suggestions to be more relevant to the user's location.")
	if preferences != "" {
		fmt.Fprintf(&b, " Also use the user preferences (%s) to adapt them.", preferences)
	}
	b.WriteString(`
If a meal is perfectly suitable, keep it as is. Otherwise modify its name and/or description.
Preserve or adapt "imageKeywords" so they stay 1-3 descriptive words suitable for food photography.
Return exactly one adapted object per input meal, in the same order.`)
	return b.String()
}

func buildImagePrompt(keywords string) string {
	return fmt.Sprintf("Generate a vibrant, appetizing, realistic food photography image of %s. "+
		"The image should be well-lit and focus primarily on the food. "+
		"Ensure the style is suitable for a meal suggestion app.", keywords)
}
