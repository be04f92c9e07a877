package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/whatshouldieat/backend/config"
)

// ErrNoImageData is returned when the provider answers without an image payload
var ErrNoImageData = errors.New("no image data in API response")

const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta"

// imageProvider generates one image and returns it as a data URI
type imageProvider interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// ImageService generates meal images. Every call is a single attempt.
type ImageService struct {
	provider imageProvider
}

// NewImageService creates an ImageService for the configured image provider
func NewImageService(cfg *config.Config) (*ImageService, error) {
	switch cfg.ImageProvider {
	case "openai":
		return &ImageService{provider: newOpenAIImages(cfg)}, nil
	case "gemini":
		return &ImageService{provider: newGeminiImages(cfg)}, nil
	default:
		return nil, fmt.Errorf("unsupported image provider %q", cfg.ImageProvider)
	}
}

// GenerateImage returns an inline data URI picturing keywords
func (s *ImageService) GenerateImage(ctx context.Context, keywords string) (string, error) {
	log.Printf("[ImageService] Generating image for %q", keywords)
	dataURI, err := s.provider.generate(ctx, buildImagePrompt(keywords))
	if err != nil {
		return "", fmt.Errorf("failed to generate image for %q: %w", keywords, err)
	}
	return dataURI, nil
}

// PlaceholderImageURL is the deterministic fallback for a failed image.
// Keywords are trimmed and whitespace runs become hyphens before the result
// is escaped into the seed segment.
func PlaceholderImageURL(keywords string) string {
	normalized := strings.Join(strings.Fields(keywords), "-")
	return fmt.Sprintf("https://picsum.photos/seed/%s/400/300", escapeSeed(normalized))
}

// escapeSeed percent-encodes every byte except ASCII letters, digits and
// -_.!~*'() so existing placeholder seeds keep resolving to the same picture.
func escapeSeed(s string) string {
	const upperhex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isSeedSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isSeedSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

func dataURI(mimeType, b64 string) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, b64)
}

// openAIImages uses the OpenAI images API with base64 responses
type openAIImages struct {
	client openai.Client
	model  string
}

func newOpenAIImages(cfg *config.Config) *openAIImages {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.ImageAPIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.HTTPTimeout),
	}
	if cfg.ImageAPIURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.ImageAPIURL))
	}
	return &openAIImages{client: openai.NewClient(opts...), model: cfg.ImageModel}
}

func (p *openAIImages) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(p.model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize1024x1024,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", ErrNoImageData
	}
	return dataURI("image/png", resp.Data[0].B64JSON), nil
}

// geminiImages calls the Gemini generateContent endpoint with image output enabled
type geminiImages struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func newGeminiImages(cfg *config.Config) *geminiImages {
	baseURL := cfg.ImageAPIURL
	if baseURL == "" {
		baseURL = defaultGeminiURL
	}
	return &geminiImages{
		apiKey:  cfg.ImageAPIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   cfg.ImageModel,
		client:  &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

func (p *geminiImages) generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]any{
			"responseModalities": []string{"TEXT", "IMAGE"},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini api error (status %d): %.300s", resp.StatusCode, string(raw))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text       string `json:"text,omitempty"`
					InlineData *struct {
						MimeType string `json:"mimeType"`
						Data     string `json:"data"`
					} `json:"inlineData,omitempty"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	for _, c := range result.Candidates {
		for _, part := range c.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return dataURI(part.InlineData.MimeType, part.InlineData.Data), nil
			}
		}
	}
	return "", ErrNoImageData
}
