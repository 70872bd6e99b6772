package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// geminiClient implements the Client interface with the Google GenAI SDK.
type geminiClient struct {
	client      *genai.Client
	model       string
	system      string
	temperature float32
	maxTokens   int32
}

// newGeminiClient creates a Gemini API client. An empty API key lets the SDK
// fall back to GOOGLE_API_KEY / GEMINI_API_KEY from the environment.
func newGeminiClient(ctx context.Context, cfg Config) (Client, error) {
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			APIVersion: "v1beta",
			BaseURL:    cfg.BaseURL,
		},
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiClient{
		client:      client,
		model:       model,
		system:      cfg.SystemText,
		temperature: float32(*cfg.Temperature),
		maxTokens:   int32(cfg.MaxTokens),
	}, nil
}

// Generate asks Gemini for a completion of prompt.
func (c *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	temperature := c.temperature
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(c.system, genai.RoleUser),
		Temperature:       &temperature,
		MaxOutputTokens:   c.maxTokens,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := cleanResponse(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
