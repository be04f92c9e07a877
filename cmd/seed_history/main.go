package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/whatshouldieat/backend/config"
	"github.com/whatshouldieat/backend/internal/app"
	"github.com/whatshouldieat/backend/internal/models"
)

func main() {
	days := flag.Int("days", 7, "number of days to generate, ending at -end")
	end := flag.String("end", models.Today(), "last day to generate (YYYY-MM-DD)")
	overwrite := flag.Bool("overwrite", false, "regenerate days that already have meals")
	pause := flag.Duration("pause", 2*time.Second, "delay between days to stay under provider rate limits")
	diet := flag.String("diet", "", "dietary preferences to save before seeding")
	location := flag.String("location", "", "location to save before seeding")
	cuisine := flag.String("cuisine", "", "cuisine preferences to save before seeding")
	flag.Parse()

	endDate, err := models.ParseDate(*end)
	if err != nil {
		log.Fatalf("Invalid -end: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	if *diet != "" || *location != "" || *cuisine != "" {
		prefs := models.UserPreferences{DietaryPreferences: *diet, Location: *location, CuisinePreferences: *cuisine}
		if err := a.Meals.SavePreferences(ctx, prefs); err != nil {
			log.Fatalf("Failed to save preferences: %v", err)
		}
	}
	prefs, ok := a.Meals.Preferences(ctx)
	if !ok {
		log.Fatal("No preferences stored; pass -diet, -location and -cuisine")
	}

	seeded := 0
	for i := *days - 1; i >= 0; i-- {
		date := models.FormatDate(endDate.AddDate(0, 0, -i))

		if !*overwrite {
			if _, exists := a.History.Load(ctx, date); exists {
				log.Printf("Skipping %s, meals already stored", date)
				continue
			}
		}

		log.Printf("Generating meals for %s", date)
		meals, err := a.Meals.Refresh(ctx, date, prefs)
		if err != nil {
			log.Printf("Failed to generate meals for %s: %v", date, err)
			continue
		}
		seeded++
		log.Printf("Stored %d meals for %s", len(meals), date)

		if i > 0 {
			time.Sleep(*pause)
		}
	}

	log.Printf("Successfully seeded %d of %d days", seeded, *days)
}
