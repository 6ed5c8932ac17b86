// Package openai implements text generation over the OpenAI-compatible chat completions API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/pricecheck/internal/domain"
	"github.com/kailas-cloud/pricecheck/internal/metrics"
)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT4oMini

// Config holds the provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	// Strict forces a single submit_price_comparison tool call.
	Strict bool
	// JSONMode requests a JSON object response in loose mode.
	JSONMode bool
	Provider string
}

// Generator is a text-generation provider using the OpenAI-compatible API.
type Generator struct {
	client      *openai.Client
	apiKey      string
	model       string
	temperature float32
	strict      bool
	jsonMode    bool
	provider    string
}

// NewGenerator creates an OpenAI-compatible generator.
func NewGenerator(cfg *Config) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: cfg.Temperature,
		strict:      cfg.Strict,
		jsonMode:    cfg.JSONMode,
		provider:    cfg.Provider,
	}
}

// Model returns the configured model name.
func (g *Generator) Model() string { return g.model }

// Generate implements domain.Generator. In strict mode the returned text is the tool-call arguments.
func (g *Generator) Generate(ctx context.Context, prompt domain.Prompt) (domain.Generation, error) {
	if g.apiKey == "" {
		return domain.Generation{}, fmt.Errorf("%s: %w", g.provider, domain.ErrMissingCredentials)
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, g.request(prompt))
	duration := time.Since(start)

	if err != nil {
		metrics.ModelRequestsTotal.WithLabelValues(g.provider, g.model, "error").Inc()
		return domain.Generation{}, parseAPIError(g.provider, err)
	}

	metrics.ModelRequestsTotal.WithLabelValues(g.provider, g.model, "success").Inc()
	metrics.ModelRequestDuration.WithLabelValues(g.provider, g.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		tokens := metrics.ModelTokensTotal
		tokens.WithLabelValues(g.provider, g.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		tokens.WithLabelValues(g.provider, g.model, "completion").Add(float64(resp.Usage.CompletionTokens))
		tokens.WithLabelValues(g.provider, g.model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	gen := domain.Generation{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	if len(resp.Choices) == 0 {
		return domain.Generation{}, fmt.Errorf("%s returned no choices: %w", g.provider, domain.ErrModelNonJSON)
	}
	msg := resp.Choices[0].Message

	if g.strict {
		for _, call := range msg.ToolCalls {
			if call.Function.Name == ToolName {
				gen.Text = call.Function.Arguments
				gen.ToolCall = true
				return gen, nil
			}
		}
		return domain.Generation{}, fmt.Errorf("%s: %w", g.provider, domain.ErrNoToolCall)
	}

	gen.Text = msg.Content
	return gen, nil
}

func (g *Generator) request(prompt domain.Prompt) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User},
		},
		Temperature: g.temperature,
	}

	if g.strict {
		req.Tools = []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ToolName,
				Description: "Submit the ranked store price comparison",
				Parameters:  comparisonSchema,
			},
		}}
		req.ToolChoice = openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: ToolName},
		}
		return req
	}

	if g.jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return req
}

// HealthCheck verifies credentials and API availability via ListModels (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	if g.apiKey == "" {
		return fmt.Errorf("%s: %w", g.provider, domain.ErrMissingCredentials)
	}
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError maps client errors onto a ProviderError carrying the HTTP status and a readable body.
func parseAPIError(provider string, err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := extractDetail(reqErr.Body)
		if body == "" {
			body = string(reqErr.Body)
		}
		return domain.NewProviderError(domain.CapabilityModel, provider, reqErr.HTTPStatusCode, body)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return domain.NewProviderError(domain.CapabilityModel, provider, apiErr.HTTPStatusCode, apiErr.Message)
	}

	return domain.NewProviderError(domain.CapabilityModel, provider, 0, err.Error())
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
