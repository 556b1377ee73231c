package estimator

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Generation settings tuned for short, focused estimates.
const (
	genTemperature     = 0.7
	genMaxOutputTokens = 200
)

// GenAIClient generates estimates using Google's Gemini API.
type GenAIClient struct {
	client *genai.Client
	model  string
}

// NewGenAIClient creates a new GenAI completion client.
func NewGenAIClient(apiKey, model string) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{client: client, model: model}, nil
}

// Complete performs a single generation call.
func (c *GenAIClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx,
		c.model,
		contents,
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
			Temperature:       genai.Ptr[float32](genTemperature),
			MaxOutputTokens:   genMaxOutputTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	return result.Text(), nil
}

// Name returns the backend name.
func (c *GenAIClient) Name() string {
	return fmt.Sprintf("genai:%s", c.model)
}
