package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/whatshouldieat/backend/config"
	"github.com/whatshouldieat/backend/internal/models"
)

// ErrEmptyCompletion is returned when the provider answers without any text
var ErrEmptyCompletion = errors.New("no response from API")

// textProvider sends one system + user prompt pair and returns the reply text
type textProvider interface {
	complete(ctx context.Context, system, user string) (string, error)
}

// LLMService generates and adapts meal suggestions through a hosted model.
// It implements both SuggestionGenerator and LocationAdapter.
type LLMService struct {
	provider textProvider
}

// NewLLMService creates an LLMService for the configured text provider
func NewLLMService(cfg *config.Config) (*LLMService, error) {
	switch cfg.TextProvider {
	case "openai":
		return &LLMService{provider: newOpenAIText(cfg)}, nil
	case "anthropic":
		return &LLMService{provider: newAnthropicText(cfg)}, nil
	default:
		return nil, fmt.Errorf("unsupported text provider %q", cfg.TextProvider)
	}
}

// GenerateSuggestions asks the model for a day's meal ideas
func (s *LLMService) GenerateSuggestions(ctx context.Context, prefs models.UserPreferences) ([]models.MealSuggestion, error) {
	content, err := s.provider.complete(ctx, suggestionSystemPrompt, buildSuggestionPrompt(prefs))
	if err != nil {
		return nil, fmt.Errorf("failed to generate suggestions: %w", err)
	}
	suggestions, err := parseSuggestions(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	log.Printf("[LLMService] Generated %d suggestions", len(suggestions))
	return suggestions, nil
}

// AdaptToLocation rewrites suggestions for the user's location
func (s *LLMService) AdaptToLocation(ctx context.Context, suggestions []models.MealSuggestion, location, preferences string) ([]models.MealSuggestion, error) {
	content, err := s.provider.complete(ctx, suggestionSystemPrompt, buildAdaptPrompt(suggestions, location, preferences))
	if err != nil {
		return nil, fmt.Errorf("failed to adapt suggestions: %w", err)
	}
	adapted, err := parseSuggestions(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse adapted suggestions: %w", err)
	}
	log.Printf("[LLMService] Adapted %d suggestions for %s", len(adapted), location)
	return adapted, nil
}

// parseSuggestions accepts a bare JSON array, an array wrapped in markdown
// fences, or an object holding the array under a single field.
func parseSuggestions(content string) ([]models.MealSuggestion, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var suggestions []models.MealSuggestion
	if err := json.Unmarshal([]byte(content), &suggestions); err == nil {
		return cleanSuggestions(suggestions), nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &wrapper); err == nil {
		for _, raw := range wrapper {
			if err := json.Unmarshal(raw, &suggestions); err == nil {
				return cleanSuggestions(suggestions), nil
			}
		}
	}

	// Fall back to the outermost array in surrounding prose
	start, end := strings.Index(content, "["), strings.LastIndex(content, "]")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(content[start:end+1]), &suggestions); err == nil {
			return cleanSuggestions(suggestions), nil
		}
	}
	return nil, fmt.Errorf("response is not a JSON array of meals: %.200s", content)
}

// cleanSuggestions drops entries without a name and trims whitespace
func cleanSuggestions(in []models.MealSuggestion) []models.MealSuggestion {
	out := make([]models.MealSuggestion, 0, len(in))
	for _, s := range in {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			continue
		}
		s.Description = strings.TrimSpace(s.Description)
		s.ImageKeywords = strings.TrimSpace(s.ImageKeywords)
		out = append(out, s)
	}
	return out
}

// openAIText talks to OpenAI or any OpenAI-compatible chat completions API
type openAIText struct {
	client openai.Client
	model  string
}

func newOpenAIText(cfg *config.Config) *openAIText {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.TextAPIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.HTTPTimeout),
	}
	if cfg.TextAPIURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.TextAPIURL))
	}
	return &openAIText{client: openai.NewClient(opts...), model: cfg.TextModel}
}

func (p *openAIText) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0.9),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// anthropicText talks to the Anthropic Messages API
type anthropicText struct {
	client anthropic.Client
	model  string
}

func newAnthropicText(cfg *config.Config) *anthropicText {
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(cfg.TextAPIKey),
		anthropicoption.WithMaxRetries(0),
		anthropicoption.WithRequestTimeout(cfg.HTTPTimeout),
	}
	if cfg.TextAPIURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(cfg.TextAPIURL))
	}
	return &anthropicText{client: anthropic.NewClient(opts...), model: cfg.TextModel}
}

func (p *anthropicText) complete(ctx context.Context, system, user string) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 2048,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyCompletion
	}
	return b.String(), nil
}
