package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/govgpt/govgpt/internal/models"
)

const defaultModel = "gemini-2.0-flash"

// GeminiClient implements Client against the Gemini API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// NewGeminiClient creates a Gemini-backed client. An empty API key is an
// error; callers treat a missing client as the model being unavailable.
func NewGeminiClient(ctx context.Context, apiKey, model string, temperature float64, maxTokens int) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: float32(temperature),
		maxTokens:   int32(maxTokens),
	}, nil
}

func (c *GeminiClient) generateConfig(systemPrompt string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(c.temperature),
	}
	if c.maxTokens > 0 {
		cfg.MaxOutputTokens = c.maxTokens
	}
	return cfg
}

// Complete returns the full completion text in one call.
func (c *GeminiClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, c.generateConfig(systemPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty completion")
	}
	return text, nil
}

// Stream runs an incremental completion. Fragments are sent in the model's
// emission order; the channel is closed when the stream ends or fails.
func (c *GeminiClient) Stream(ctx context.Context, systemPrompt, userPrompt string) (<-chan Fragment, error) {
	contents := []*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)}
	out := make(chan Fragment)
	go func() {
		defer close(out)
		for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, contents, c.generateConfig(systemPrompt)) {
			if err != nil {
				select {
				case out <- Fragment{Err: fmt.Errorf("gemini stream failed: %w", err)}:
				case <-ctx.Done():
				}
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			select {
			case out <- Fragment{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// CompleteReport runs a structured completion constrained to JSON output and
// validates the result against the decision-report schema.
func (c *GeminiClient) CompleteReport(ctx context.Context, systemPrompt, userPrompt string) (*models.DecisionReport, error) {
	contents := []*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)}
	cfg := c.generateConfig(systemPrompt)
	cfg.ResponseMIMEType = "application/json"
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini report generation failed: %w", err)
	}
	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("gemini returned an empty report")
	}
	var report models.DecisionReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, fmt.Errorf("report is not valid JSON: %w", err)
	}
	if err := report.Validate(); err != nil {
		return nil, fmt.Errorf("report failed schema validation: %w", err)
	}
	return &report, nil
}
