package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/whatshouldieat/backend/internal/kvstore"
	"github.com/whatshouldieat/backend/internal/mocks"
	"github.com/whatshouldieat/backend/internal/models"
	"github.com/whatshouldieat/backend/internal/store"
)

const testDate = "2024-06-01"

var lisbonPrefs = models.UserPreferences{
	DietaryPreferences: "vegan",
	Location:           "Lisbon, Portugal",
	CuisinePreferences: "Portuguese",
}

type mealServiceFixture struct {
	generator *mocks.MockSuggestionGenerator
	adapter   *mocks.MockLocationAdapter
	images    *mocks.MockImageSynthesizer
	publisher *mocks.RecordingPublisher
	kv        *kvstore.MemoryStore
	prefs     *store.PreferenceStore
	history   *store.MealHistoryStore
	service   *MealService
}

func newFixture(t *testing.T) *mealServiceFixture {
	t.Helper()
	f := &mealServiceFixture{
		generator: new(mocks.MockSuggestionGenerator),
		adapter:   new(mocks.MockLocationAdapter),
		images:    new(mocks.MockImageSynthesizer),
		publisher: new(mocks.RecordingPublisher),
		kv:        kvstore.NewMemoryStore(),
	}
	f.prefs = store.NewPreferenceStore(f.kv)
	f.history = store.NewMealHistoryStore(f.kv)

	n := 0
	f.service = NewMealService(f.generator, f.adapter, f.images, f.prefs, f.history,
		WithPublisher(f.publisher),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("meal-%d", n)
		}),
	)
	return f
}

func TestMealService_RefreshLisbonEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	generated := []models.MealSuggestion{{Name: "Grilled Vegetable Skewers"}}
	adapted := []models.MealSuggestion{{Name: "Lisbon-Style Grilled Vegetable Skewers", ImageKeywords: "grilled vegetables skewers"}}

	f.generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return(generated, nil)
	f.adapter.On("AdaptToLocation", mock.Anything, generated, "Lisbon, Portugal", "Diet: vegan. Cuisine: Portuguese.").Return(adapted, nil)
	f.images.On("GenerateImage", mock.Anything, "grilled vegetables skewers").Return("data:image/png;base64,AAAA", nil)

	meals, err := f.service.Refresh(ctx, testDate, lisbonPrefs)
	require.NoError(t, err)
	require.Len(t, meals, 1)

	stored, ok := f.history.Load(ctx, testDate)
	require.True(t, ok)
	require.Len(t, stored, 1)
	meal := stored[0]
	assert.Equal(t, "Lisbon-Style Grilled Vegetable Skewers", meal.Name)
	assert.Equal(t, 0, meal.Rating)
	assert.Equal(t, "", meal.Notes)
	assert.Equal(t, testDate, meal.Date)
	assert.Equal(t, "data:image/png;base64,AAAA", meal.ImageURL)
	assert.Equal(t, "meal-1", meal.ID)

	f.generator.AssertExpectations(t)
	f.adapter.AssertExpectations(t)
	f.images.AssertExpectations(t)
}

func TestMealService_RefreshPublishesInterimThenFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	suggestions := []models.MealSuggestion{{Name: "Caldo Verde", ImageKeywords: "kale soup"}, {Name: "Bifana"}}
	f.generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return(suggestions, nil)
	f.adapter.On("AdaptToLocation", mock.Anything, suggestions, mock.Anything, mock.Anything).Return(suggestions, nil)
	f.images.On("GenerateImage", mock.Anything, mock.Anything).Return("data:image/png;base64,BBBB", nil)

	_, err := f.service.Refresh(ctx, testDate, lisbonPrefs)
	require.NoError(t, err)

	events := f.publisher.Events()
	require.Len(t, events, 2)
	interim, final := events[0], events[1]

	assert.Equal(t, models.EventInterim, interim.Type)
	assert.Equal(t, models.EventFinal, final.Type)
	assert.Equal(t, interim.RefreshID, final.RefreshID)
	assert.Equal(t, "Found 2 meals for June 1, 2024.", final.Message)

	require.Len(t, interim.Meals, 2)
	require.Len(t, final.Meals, 2)
	for i := range interim.Meals {
		assert.Empty(t, interim.Meals[i].ImageURL, "interim meals have no image yet")
		assert.Equal(t, interim.Meals[i].ID, final.Meals[i].ID)
		assert.NotEmpty(t, final.Meals[i].ImageURL)
	}
	f.images.AssertCalled(t, "GenerateImage", mock.Anything, "kale soup")
	f.images.AssertCalled(t, "GenerateImage", mock.Anything, "Bifana")
}

func TestMealService_RefreshImageFailureIsolated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	suggestions := []models.MealSuggestion{
		{Name: "Pastel de Nata", ImageKeywords: "custard tart"},
		{Name: "Sardinhas Assadas", ImageKeywords: "grilled  sardines plate"},
		{Name: "Arroz de Pato", ImageKeywords: "duck rice"},
	}
	f.generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return(suggestions, nil)
	f.adapter.On("AdaptToLocation", mock.Anything, suggestions, mock.Anything, mock.Anything).Return(suggestions, nil)
	f.images.On("GenerateImage", mock.Anything, "custard tart").Return("data:image/png;base64,ONE", nil)
	f.images.On("GenerateImage", mock.Anything, "grilled  sardines plate").Return("", errors.New("quota exceeded"))
	f.images.On("GenerateImage", mock.Anything, "duck rice").Return("data:image/png;base64,THREE", nil)

	meals, err := f.service.Refresh(ctx, testDate, lisbonPrefs)
	require.NoError(t, err)
	require.Len(t, meals, 3)

	assert.Equal(t, "data:image/png;base64,ONE", meals[0].ImageURL)
	assert.Equal(t, "https://picsum.photos/seed/grilled-sardines-plate/400/300", meals[1].ImageURL)
	assert.Equal(t, "data:image/png;base64,THREE", meals[2].ImageURL)

	notices := f.publisher.EventsOfType(models.EventNotice)
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0].Message, "Sardinhas Assadas")

	stored, ok := f.history.Load(ctx, testDate)
	require.True(t, ok)
	assert.Equal(t, meals, stored)
}

func TestMealService_RefreshCancelledDuringImagesKeepsStoredDay(t *testing.T) {
	f := newFixture(t)
	prior := []models.Meal{{ID: "old", Name: "Bacalhau", Date: testDate, ImageURL: "data:image/png;base64,OLD"}}
	f.history.Save(context.Background(), testDate, prior)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	suggestions := []models.MealSuggestion{
		{Name: "Caldo Verde", ImageKeywords: "kale soup"},
		{Name: "Bifana"},
	}
	f.generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return(suggestions, nil)
	f.adapter.On("AdaptToLocation", mock.Anything, suggestions, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(suggestions, nil)
	f.images.On("GenerateImage", mock.Anything, mock.Anything).Return("", context.Canceled)

	meals, err := f.service.Refresh(ctx, testDate, lisbonPrefs)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, meals)

	stored, ok := f.history.Load(context.Background(), testDate)
	require.True(t, ok)
	assert.Equal(t, prior, stored)

	assert.Empty(t, f.publisher.EventsOfType(models.EventNotice))
	assert.Empty(t, f.publisher.EventsOfType(models.EventFinal))
}

func TestMealService_RefreshKeepsAdapterOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	suggestions := []models.MealSuggestion{{Name: "First"}, {Name: "Second"}, {Name: "Third"}}
	f.generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return(suggestions, nil)
	f.adapter.On("AdaptToLocation", mock.Anything, suggestions, mock.Anything, mock.Anything).Return(suggestions, nil)

	thirdDone := make(chan struct{})
	f.images.On("GenerateImage", mock.Anything, "First").
		Run(func(mock.Arguments) { <-thirdDone }).
		Return("data:image/png;base64,1", nil)
	f.images.On("GenerateImage", mock.Anything, "Second").Return("data:image/png;base64,2", nil)
	f.images.On("GenerateImage", mock.Anything, "Third").
		Run(func(mock.Arguments) { close(thirdDone) }).
		Return("data:image/png;base64,3", nil)

	meals, err := f.service.Refresh(ctx, testDate, lisbonPrefs)
	require.NoError(t, err)
	require.Len(t, meals, 3)
	for i, name := range []string{"First", "Second", "Third"} {
		assert.Equal(t, name, meals[i].Name)
		assert.Equal(t, fmt.Sprintf("data:image/png;base64,%d", i+1), meals[i].ImageURL)
	}
}

func TestMealService_RefreshAbortsLeaveHistoryUntouched(t *testing.T) {
	prior := []models.Meal{{ID: "old", Name: "Yesterday's Plan", Date: testDate, ImageURL: "data:image/png;base64,OLD"}}
	generated := []models.MealSuggestion{{Name: "A"}, {Name: "B"}}

	tests := []struct {
		name    string
		setup   func(f *mealServiceFixture)
		wantErr error
	}{
		{
			name: "generator returns nothing",
			setup: func(f *mealServiceFixture) {
				f.generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return([]models.MealSuggestion{}, nil)
			},
			wantErr: ErrNoSuggestions,
		},
		{
			name: "generator fails",
			setup: func(f *mealServiceFixture) {
				f.generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return(nil, errors.New("upstream 500"))
			},
		},
		{
			name: "adapter returns nothing",
			setup: func(f *mealServiceFixture) {
				f.generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return(generated, nil)
				f.adapter.On("AdaptToLocation", mock.Anything, generated, mock.Anything, mock.Anything).Return(nil, nil)
			},
			wantErr: ErrNoAdaptedSuggestions,
		},
		{
			name: "adapter fails",
			setup: func(f *mealServiceFixture) {
				f.generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return(generated, nil)
				f.adapter.On("AdaptToLocation", mock.Anything, generated, mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
			},
		},
		{
			name: "adapter changes length",
			setup: func(f *mealServiceFixture) {
				f.generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return(generated, nil)
				f.adapter.On("AdaptToLocation", mock.Anything, generated, mock.Anything, mock.Anything).
					Return([]models.MealSuggestion{{Name: "Only One"}}, nil)
			},
			wantErr: ErrAdapterMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			f.history.Save(ctx, testDate, prior)
			tt.setup(f)

			meals, err := f.service.Refresh(ctx, testDate, lisbonPrefs)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Nil(t, meals)

			stored, ok := f.history.Load(ctx, testDate)
			require.True(t, ok)
			assert.Equal(t, prior, stored)

			f.images.AssertNotCalled(t, "GenerateImage", mock.Anything, mock.Anything)
			errorsPublished := f.publisher.EventsOfType(models.EventError)
			require.Len(t, errorsPublished, 1)
			assert.NotEmpty(t, errorsPublished[0].Message)
			assert.Empty(t, f.publisher.EventsOfType(models.EventInterim))
		})
	}
}

func TestMealService_RefreshValidatesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Refresh(ctx, "June 1", lisbonPrefs)
	assert.ErrorIs(t, err, models.ErrInvalidDate)

	_, err = f.service.Refresh(ctx, testDate, models.UserPreferences{})
	assert.ErrorIs(t, err, ErrPreferencesRequired)

	_, err = f.service.Refresh(ctx, testDate, models.UserPreferences{DietaryPreferences: "x", Location: "Lisbon", CuisinePreferences: "Portuguese"})
	assert.ErrorIs(t, err, ErrInvalidPreferences)

	f.generator.AssertNotCalled(t, "GenerateSuggestions", mock.Anything, mock.Anything)
}

func TestMealService_RefreshSurvivesStorageFailure(t *testing.T) {
	kv := new(mocks.MockKVStore)
	kv.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(kvstore.ErrUnavailable)

	generator := new(mocks.MockSuggestionGenerator)
	adapter := new(mocks.MockLocationAdapter)
	images := new(mocks.MockImageSynthesizer)
	publisher := new(mocks.RecordingPublisher)

	suggestions := []models.MealSuggestion{{Name: "Bacalhau"}}
	generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return(suggestions, nil)
	adapter.On("AdaptToLocation", mock.Anything, suggestions, mock.Anything, mock.Anything).Return(suggestions, nil)
	images.On("GenerateImage", mock.Anything, "Bacalhau").Return("data:image/png;base64,CC", nil)

	svc := NewMealService(generator, adapter, images, store.NewPreferenceStore(kv), store.NewMealHistoryStore(kv), WithPublisher(publisher))
	meals, err := svc.Refresh(context.Background(), testDate, lisbonPrefs)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Len(t, publisher.EventsOfType(models.EventFinal), 1)
	kv.AssertCalled(t, "Set", mock.Anything, store.MealHistoryKey(testDate), mock.Anything)
}

func TestMealService_SupersededSameDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := []models.MealSuggestion{{Name: "Old Plan"}}
	second := []models.MealSuggestion{{Name: "New Plan"}}
	f.generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return(first, nil).Once()
	f.generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return(second, nil).Once()
	f.adapter.On("AdaptToLocation", mock.Anything, first, mock.Anything, mock.Anything).Return(first, nil)
	f.adapter.On("AdaptToLocation", mock.Anything, second, mock.Anything, mock.Anything).Return(second, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	f.images.On("GenerateImage", mock.Anything, "Old Plan").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return("data:image/png;base64,OLD", nil)
	f.images.On("GenerateImage", mock.Anything, "New Plan").Return("data:image/png;base64,NEW", nil)

	type result struct {
		meals []models.Meal
		err   error
	}
	done := make(chan result, 1)
	go func() {
		meals, err := f.service.Refresh(ctx, testDate, lisbonPrefs)
		done <- result{meals, err}
	}()

	<-started
	newer, err := f.service.Refresh(ctx, testDate, lisbonPrefs)
	require.NoError(t, err)
	close(release)

	var older result
	select {
	case older = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("older refresh did not finish")
	}
	assert.ErrorIs(t, older.err, ErrSuperseded)
	assert.Nil(t, older.meals)

	stored, ok := f.history.Load(ctx, testDate)
	require.True(t, ok)
	assert.Equal(t, newer, stored)

	finals := f.publisher.EventsOfType(models.EventFinal)
	require.Len(t, finals, 1)
	assert.Equal(t, "New Plan", finals[0].Meals[0].Name)
}

func TestMealService_OlderDateStillPersistsButIsNotPublished(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const otherDate = "2024-06-02"

	first := []models.MealSuggestion{{Name: "Saturday Lunch"}}
	second := []models.MealSuggestion{{Name: "Sunday Lunch"}}
	f.generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return(first, nil).Once()
	f.generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return(second, nil).Once()
	f.adapter.On("AdaptToLocation", mock.Anything, first, mock.Anything, mock.Anything).Return(first, nil)
	f.adapter.On("AdaptToLocation", mock.Anything, second, mock.Anything, mock.Anything).Return(second, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	f.images.On("GenerateImage", mock.Anything, "Saturday Lunch").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return("data:image/png;base64,SAT", nil)
	f.images.On("GenerateImage", mock.Anything, "Sunday Lunch").Return("data:image/png;base64,SUN", nil)

	done := make(chan error, 1)
	go func() {
		_, err := f.service.Refresh(ctx, testDate, lisbonPrefs)
		done <- err
	}()

	<-started
	_, err := f.service.Refresh(ctx, otherDate, lisbonPrefs)
	require.NoError(t, err)
	close(release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("older refresh did not finish")
	}

	saturday, ok := f.history.Load(ctx, testDate)
	require.True(t, ok)
	require.Len(t, saturday, 1)
	assert.Equal(t, "Saturday Lunch", saturday[0].Name)

	finals := f.publisher.EventsOfType(models.EventFinal)
	require.Len(t, finals, 1)
	assert.Equal(t, otherDate, finals[0].Date)
}

func TestMealService_LoadOrGenerateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	suggestions := []models.MealSuggestion{{Name: "Bolinhos de Bacalhau"}}
	f.generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return(suggestions, nil)
	f.adapter.On("AdaptToLocation", mock.Anything, suggestions, mock.Anything, mock.Anything).Return(suggestions, nil)
	f.images.On("GenerateImage", mock.Anything, "Bolinhos de Bacalhau").Return("data:image/png;base64,DD", nil)

	prefs := lisbonPrefs
	first, err := f.service.LoadOrGenerate(ctx, testDate, &prefs)
	require.NoError(t, err)
	second, err := f.service.LoadOrGenerate(ctx, testDate, &prefs)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	f.generator.AssertNumberOfCalls(t, "GenerateSuggestions", 1)
	f.adapter.AssertNumberOfCalls(t, "AdaptToLocation", 1)
	f.images.AssertNumberOfCalls(t, "GenerateImage", 1)
}

func TestMealService_LoadOrGenerateReturnsStoredListVerbatim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A stored meal without an image is returned as-is, never re-illustrated
	stored := []models.Meal{{ID: "x", Name: "Prego", Date: testDate, Rating: 3}}
	f.history.Save(ctx, testDate, stored)

	got, err := f.service.LoadOrGenerate(ctx, testDate, nil)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
	f.images.AssertNotCalled(t, "GenerateImage", mock.Anything, mock.Anything)
}

func TestMealService_LoadOrGenerateWithoutPreferences(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.LoadOrGenerate(context.Background(), testDate, nil)
	assert.ErrorIs(t, err, ErrPreferencesRequired)
	f.generator.AssertNotCalled(t, "GenerateSuggestions", mock.Anything, mock.Anything)
}

func TestMealService_Navigate(t *testing.T) {
	t.Run("without preferences never generates", func(t *testing.T) {
		f := newFixture(t)
		date, meals, err := f.service.Navigate(context.Background(), testDate, Next)
		require.NoError(t, err)
		assert.Equal(t, "2024-06-02", date)
		assert.Empty(t, meals)
		f.generator.AssertNotCalled(t, "GenerateSuggestions", mock.Anything, mock.Anything)
	})

	t.Run("returns stored day", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		stored := []models.Meal{{ID: "p", Name: "Açorda", Date: "2024-05-31"}}
		f.history.Save(ctx, "2024-05-31", stored)

		date, meals, err := f.service.Navigate(ctx, testDate, Previous)
		require.NoError(t, err)
		assert.Equal(t, "2024-05-31", date)
		assert.Equal(t, stored, meals)
	})

	t.Run("generates with stored preferences", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.prefs.Save(ctx, lisbonPrefs)

		suggestions := []models.MealSuggestion{{Name: "Feijoada"}}
		f.generator.On("GenerateSuggestions", mock.Anything, lisbonPrefs).Return(suggestions, nil)
		f.adapter.On("AdaptToLocation", mock.Anything, suggestions, mock.Anything, mock.Anything).Return(suggestions, nil)
		f.images.On("GenerateImage", mock.Anything, "Feijoada").Return("data:image/png;base64,EE", nil)

		date, meals, err := f.service.Navigate(ctx, "2024-12-31", Next)
		require.NoError(t, err)
		assert.Equal(t, "2025-01-01", date)
		require.Len(t, meals, 1)
		assert.Equal(t, "2025-01-01", meals[0].Date)
	})
}

func TestMealService_ApplyEdit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.history.Save(ctx, testDate, []models.Meal{
		{ID: "a", Name: "Caldo Verde", Date: testDate},
		{ID: "b", Name: "Bifana", Date: testDate, Notes: "spicy"},
	})

	rating := 4
	notes := "add mustard"
	meals, err := f.service.ApplyEdit(ctx, models.MealEdit{ID: "b", Date: testDate, Rating: &rating, Notes: &notes})
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, "a", meals[0].ID)
	assert.Equal(t, 4, meals[1].Rating)
	assert.Equal(t, "add mustard", meals[1].Notes)
	assert.Equal(t, "Bifana", meals[1].Name)

	// Rating only keeps the notes
	rating = 0
	meals, err = f.service.ApplyEdit(ctx, models.MealEdit{ID: "b", Date: testDate, Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 0, meals[1].Rating)
	assert.Equal(t, "add mustard", meals[1].Notes)

	stored, ok := f.history.Load(ctx, testDate)
	require.True(t, ok)
	assert.Equal(t, meals, stored)

	bad := 6
	_, err = f.service.ApplyEdit(ctx, models.MealEdit{ID: "b", Date: testDate, Rating: &bad})
	assert.ErrorIs(t, err, models.ErrInvalidRating)

	// Unknown ids are rejected rather than appended
	_, err = f.service.ApplyEdit(ctx, models.MealEdit{ID: "missing", Date: testDate, Rating: &rating})
	assert.ErrorIs(t, err, ErrMealNotFound)
	stored, ok = f.history.Load(ctx, testDate)
	require.True(t, ok)
	assert.Equal(t, meals, stored)
}

func TestMealService_PreferencesAndClearAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.service.SavePreferences(ctx, models.UserPreferences{DietaryPreferences: "no", Location: "L", CuisinePreferences: "x"})
	assert.ErrorIs(t, err, ErrInvalidPreferences)

	require.NoError(t, f.service.SavePreferences(ctx, lisbonPrefs))
	got, ok := f.service.Preferences(ctx)
	require.True(t, ok)
	assert.Equal(t, lisbonPrefs, got)

	f.history.Save(ctx, testDate, []models.Meal{{ID: "a", Name: "Caldo Verde", Date: testDate}})
	require.NoError(t, f.service.ClearAll(ctx))

	_, ok = f.service.Preferences(ctx)
	assert.False(t, ok)
	_, found, err := f.service.Meals(ctx, testDate)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("prev")
	require.NoError(t, err)
	assert.Equal(t, Previous, d)

	_, err = ParseDirection("sideways")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}
