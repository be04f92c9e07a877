package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/whatshouldieat/backend/internal/models"
	"github.com/whatshouldieat/backend/internal/store"
)

var (
	ErrPreferencesRequired  = errors.New("preferences are required to generate meals")
	ErrInvalidPreferences   = errors.New("invalid preferences")
	ErrNoSuggestions        = errors.New("no meal suggestions were generated")
	ErrNoAdaptedSuggestions = errors.New("no meal suggestions were adapted for the location")
	ErrAdapterMismatch      = errors.New("adapted suggestions do not match the generated suggestions")
	ErrSuperseded           = errors.New("refresh superseded by a newer refresh for the same date")
	ErrMealNotFound         = errors.New("meal not found")
	ErrInvalidDirection     = errors.New(`direction must be "prev" or "next"`)
)

// Direction moves between adjacent dates
type Direction string

const (
	Previous Direction = "prev"
	Next     Direction = "next"
)

// ParseDirection validates a navigation direction
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Previous, Next:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidDirection, s)
}

const defaultImageConcurrency = 4

// MealService produces, persists and edits the meals for a calendar day.
//
// A refresh runs generate, adapt and illustrate in sequence and publishes an
// interim state (no images) followed by a final state. Each refresh holds a
// generation token for its date; a newer refresh for the same date makes the
// older one drop its write and final publication. A refresh for another date
// leaves older work alone, but only the latest invocation is published.
type MealService struct {
	generator SuggestionGenerator
	adapter   LocationAdapter
	images    ImageSynthesizer
	prefs     *store.PreferenceStore
	history   *store.MealHistoryStore
	publisher Publisher

	imageConcurrency int
	newID            func() string

	mu         sync.Mutex
	seq        uint64
	latest     uint64
	dateTokens map[string]uint64
}

// MealServiceOption customizes a MealService
type MealServiceOption func(*MealService)

// WithImageConcurrency bounds the number of image requests in flight per refresh
func WithImageConcurrency(n int) MealServiceOption {
	return func(s *MealService) {
		if n > 0 {
			s.imageConcurrency = n
		}
	}
}

// WithPublisher sets the receiver of state publications
func WithPublisher(p Publisher) MealServiceOption {
	return func(s *MealService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithIDGenerator overrides how meal ids are assigned
func WithIDGenerator(fn func() string) MealServiceOption {
	return func(s *MealService) {
		s.newID = fn
	}
}

// NewMealService creates a new MealService instance
func NewMealService(
	generator SuggestionGenerator,
	adapter LocationAdapter,
	images ImageSynthesizer,
	prefs *store.PreferenceStore,
	history *store.MealHistoryStore,
	opts ...MealServiceOption,
) *MealService {
	s := &MealService{
		generator:        generator,
		adapter:          adapter,
		images:           images,
		prefs:            prefs,
		history:          history,
		publisher:        NopPublisher{},
		imageConcurrency: defaultImageConcurrency,
		newID:            func() string { return uuid.New().String() },
		dateTokens:       make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Preferences returns the stored preferences
func (s *MealService) Preferences(ctx context.Context) (models.UserPreferences, bool) {
	return s.prefs.Load(ctx)
}

// SavePreferences validates and stores prefs
func (s *MealService) SavePreferences(ctx context.Context, prefs models.UserPreferences) error {
	if err := prefs.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}
	s.prefs.Save(ctx, prefs)
	return nil
}

// ClearPreferences removes the stored preferences
func (s *MealService) ClearPreferences(ctx context.Context) {
	s.prefs.Clear(ctx)
}

// Meals returns the stored meals for date without generating
func (s *MealService) Meals(ctx context.Context, date string) ([]models.Meal, bool, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, false, err
	}
	meals, ok := s.history.Load(ctx, date)
	return meals, ok, nil
}

// Refresh generates a fresh set of meals for date, persists it as a full
// overwrite and returns it. Generation failures abort without touching the
// stored history; image failures are replaced by placeholders.
func (s *MealService) Refresh(ctx context.Context, date string, prefs models.UserPreferences) ([]models.Meal, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, err
	}
	if prefs == (models.UserPreferences{}) {
		return nil, ErrPreferencesRequired
	}
	if err := prefs.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}

	token := s.begin(date)
	refreshID := fmt.Sprintf("%s#%d", date, token)
	log.Printf("[MealService] Starting refresh %s", refreshID)

	suggestions, err := s.generator.GenerateSuggestions(ctx, prefs)
	if err != nil {
		return nil, s.fail(token, refreshID, date, fmt.Errorf("could not fetch suggestions: %w", err))
	}
	if len(suggestions) == 0 {
		return nil, s.fail(token, refreshID, date, ErrNoSuggestions)
	}

	adapted, err := s.adapter.AdaptToLocation(ctx, suggestions, prefs.Location, prefs.Summary())
	if err != nil {
		return nil, s.fail(token, refreshID, date, fmt.Errorf("could not adapt suggestions: %w", err))
	}
	if len(adapted) == 0 {
		return nil, s.fail(token, refreshID, date, ErrNoAdaptedSuggestions)
	}
	if len(adapted) != len(suggestions) {
		return nil, s.fail(token, refreshID, date,
			fmt.Errorf("%w: generated %d, adapted %d", ErrAdapterMismatch, len(suggestions), len(adapted)))
	}

	meals := make([]models.Meal, len(adapted))
	for i, a := range adapted {
		meals[i] = models.Meal{
			ID:            s.newID(),
			Name:          a.Name,
			Description:   a.Description,
			Date:          date,
			Rating:        0,
			Notes:         "",
			ImageKeywords: a.ImageKeywords,
		}
	}
	s.publishIfLatest(token, models.MealEvent{
		Type:      models.EventInterim,
		RefreshID: refreshID,
		Date:      date,
		Meals:     cloneMeals(meals),
	})

	s.illustrate(ctx, token, refreshID, meals)

	// A cancelled refresh never overwrites the stored day
	if err := ctx.Err(); err != nil {
		log.Printf("[MealService] Refresh %s cancelled during images, discarding result", refreshID)
		return nil, fmt.Errorf("refresh cancelled: %w", err)
	}
	if !s.isCurrent(date, token) {
		log.Printf("[MealService] Refresh %s superseded, discarding result", refreshID)
		return nil, ErrSuperseded
	}
	s.history.Save(ctx, date, meals)

	s.publishIfLatest(token, models.MealEvent{
		Type:      models.EventFinal,
		RefreshID: refreshID,
		Date:      date,
		Meals:     cloneMeals(meals),
		Message:   fmt.Sprintf("Found %d meals for %s.", len(meals), displayDate(date)),
	})
	log.Printf("[MealService] Refresh %s produced %d meals", refreshID, len(meals))
	return meals, nil
}

// illustrate fills ImageURL for every meal in place. Each image is a single
// attempt; failures get the placeholder and a notice.
func (s *MealService) illustrate(ctx context.Context, token uint64, refreshID string, meals []models.Meal) {
	var g errgroup.Group
	g.SetLimit(s.imageConcurrency)

	for i := range meals {
		g.Go(func() error {
			keywords := meals[i].ImageQuery()
			imageURL, err := s.images.GenerateImage(ctx, keywords)
			if err == nil && imageURL == "" {
				err = ErrNoImageData
			}
			if err != nil && ctx.Err() != nil {
				return nil
			}
			if err != nil {
				log.Printf("[MealService] Image for %q failed: %v", meals[i].Name, err)
				meals[i].ImageURL = PlaceholderImageURL(keywords)
				s.publishIfLatest(token, models.MealEvent{
					Type:      models.EventNotice,
					RefreshID: refreshID,
					Date:      meals[i].Date,
					Message:   fmt.Sprintf("Could not create an image for %q. Using a placeholder.", meals[i].Name),
				})
				return nil
			}
			meals[i].ImageURL = imageURL
			return nil
		})
	}
	_ = g.Wait()
}

// LoadOrGenerate returns the stored meals for date verbatim, generating them
// only when nothing is stored. prefs may be nil, in which case nothing is
// generated and ErrPreferencesRequired is returned for an empty day.
func (s *MealService) LoadOrGenerate(ctx context.Context, date string, prefs *models.UserPreferences) ([]models.Meal, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, err
	}
	if meals, ok := s.history.Load(ctx, date); ok {
		return meals, nil
	}
	if prefs == nil {
		return nil, ErrPreferencesRequired
	}
	return s.Refresh(ctx, date, *prefs)
}

// Navigate moves one day from date and loads or generates that day with the
// stored preferences. Without preferences it never generates and returns an
// empty list for days with no history.
func (s *MealService) Navigate(ctx context.Context, date string, dir Direction) (string, []models.Meal, error) {
	d, err := models.ParseDate(date)
	if err != nil {
		return "", nil, err
	}
	switch dir {
	case Previous:
		d = d.AddDate(0, 0, -1)
	case Next:
		d = d.AddDate(0, 0, 1)
	default:
		return "", nil, fmt.Errorf("%w: got %q", ErrInvalidDirection, dir)
	}
	target := models.FormatDate(d)

	var prefsPtr *models.UserPreferences
	if prefs, ok := s.prefs.Load(ctx); ok {
		prefsPtr = &prefs
	}

	meals, err := s.LoadOrGenerate(ctx, target, prefsPtr)
	if errors.Is(err, ErrPreferencesRequired) {
		return target, []models.Meal{}, nil
	}
	if err != nil {
		return target, nil, err
	}
	return target, meals, nil
}

// ApplyEdit merges a rating and notes change into the stored meal and returns
// the day's updated list
func (s *MealService) ApplyEdit(ctx context.Context, edit models.MealEdit) ([]models.Meal, error) {
	if _, err := models.ParseDate(edit.Date); err != nil {
		return nil, err
	}
	if edit.Rating != nil {
		if err := models.ValidateRating(*edit.Rating); err != nil {
			return nil, err
		}
	}

	meals, _ := s.history.Load(ctx, edit.Date)
	var meal *models.Meal
	for i := range meals {
		if meals[i].ID == edit.ID {
			meal = &meals[i]
			break
		}
	}
	if meal == nil {
		return nil, fmt.Errorf("%w: %s on %s", ErrMealNotFound, edit.ID, edit.Date)
	}

	updated := *meal
	if edit.Rating != nil {
		updated.Rating = *edit.Rating
	}
	if edit.Notes != nil {
		updated.Notes = *edit.Notes
	}
	log.Printf("[MealService] Updating meal %s on %s", updated.ID, updated.Date)
	return s.history.Upsert(ctx, edit.Date, updated), nil
}

// ClearAll removes the preferences and every stored day
func (s *MealService) ClearAll(ctx context.Context) error {
	return s.history.ClearAll(ctx)
}

// begin registers a new refresh for date and returns its token
func (s *MealService) begin(date string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.latest = s.seq
	s.dateTokens[date] = s.seq
	return s.seq
}

func (s *MealService) isCurrent(date string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dateTokens[date] == token
}

func (s *MealService) publishIfLatest(token uint64, event models.MealEvent) {
	s.mu.Lock()
	latest := s.latest == token
	s.mu.Unlock()
	if latest {
		s.publisher.Publish(event)
	}
}

// fail publishes an error event for the refresh and returns err
func (s *MealService) fail(token uint64, refreshID, date string, err error) error {
	log.Printf("[MealService] Refresh %s aborted: %v", refreshID, err)
	s.publishIfLatest(token, models.MealEvent{
		Type:      models.EventError,
		RefreshID: refreshID,
		Date:      date,
		Message:   userMessage(err),
	})
	return err
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoSuggestions):
		return "The AI couldn't generate initial meal ideas. Try different preferences."
	case errors.Is(err, ErrNoAdaptedSuggestions), errors.Is(err, ErrAdapterMismatch):
		return "The AI couldn't adapt meals for your location. Try different preferences."
	}
	return "Could not fetch suggestions. " + err.Error()
}

func displayDate(date string) string {
	d, err := models.ParseDate(date)
	if err != nil {
		return date
	}
	return d.Format("January 2, 2006")
}

func cloneMeals(meals []models.Meal) []models.Meal {
	out := make([]models.Meal, len(meals))
	copy(out, meals)
	return out
}
