// Package gemini implements text generation over the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/kailas-cloud/pricecheck/internal/domain"
	"github.com/kailas-cloud/pricecheck/internal/metrics"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Config holds the provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	// Strict requests application/json output constrained by the comparison schema.
	Strict     bool
	Provider   string
	HTTPClient *http.Client
}

// Generator is a Gemini text-generation provider. The client is created lazily
// so that a missing key surfaces on the first request instead of at startup.
type Generator struct {
	cfg Config

	once      sync.Once
	client    *genai.Client
	clientErr error
}

// NewGenerator creates a Gemini generator.
func NewGenerator(cfg *Config) *Generator {
	c := *cfg
	if c.Model == "" {
		c.Model = DefaultModel
	}
	return &Generator{cfg: c}
}

// Model returns the configured model name.
func (g *Generator) Model() string { return g.cfg.Model }

func (g *Generator) models(ctx context.Context) (*genai.Models, error) {
	g.once.Do(func() {
		g.client, g.clientErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      g.cfg.APIKey,
			Backend:     genai.BackendGeminiAPI,
			HTTPClient:  g.cfg.HTTPClient,
			HTTPOptions: genai.HTTPOptions{BaseURL: g.cfg.BaseURL},
		})
	})
	if g.clientErr != nil {
		return nil, fmt.Errorf("create genai client: %w", g.clientErr)
	}
	return g.client.Models, nil
}

// Generate implements domain.Generator.
func (g *Generator) Generate(ctx context.Context, prompt domain.Prompt) (domain.Generation, error) {
	if g.cfg.APIKey == "" {
		return domain.Generation{}, fmt.Errorf("%s: %w", g.cfg.Provider, domain.ErrMissingCredentials)
	}
	models, err := g.models(ctx)
	if err != nil {
		return domain.Generation{}, domain.NewProviderError(domain.CapabilityModel, g.cfg.Provider, 0, err.Error())
	}

	temperature := g.cfg.Temperature
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       &temperature,
		ResponseMIMEType:  "application/json",
	}
	if g.cfg.Strict {
		config.ResponseSchema = comparisonSchema
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt.User, genai.RoleUser)}

	start := time.Now()
	resp, err := models.GenerateContent(ctx, g.cfg.Model, contents, config)
	duration := time.Since(start)

	if err != nil {
		metrics.ModelRequestsTotal.WithLabelValues(g.cfg.Provider, g.cfg.Model, "error").Inc()
		return domain.Generation{}, parseAPIError(g.cfg.Provider, err)
	}

	metrics.ModelRequestsTotal.WithLabelValues(g.cfg.Provider, g.cfg.Model, "success").Inc()
	metrics.ModelRequestDuration.WithLabelValues(g.cfg.Provider, g.cfg.Model).Observe(duration.Seconds())

	gen := domain.Generation{Text: strings.TrimSpace(resp.Text())}
	if u := resp.UsageMetadata; u != nil {
		gen.PromptTokens = int(u.PromptTokenCount)
		gen.CompletionTokens = int(u.CandidatesTokenCount)
		gen.TotalTokens = int(u.TotalTokenCount)
		tokens := metrics.ModelTokensTotal
		tokens.WithLabelValues(g.cfg.Provider, g.cfg.Model, "prompt").Add(float64(gen.PromptTokens))
		tokens.WithLabelValues(g.cfg.Provider, g.cfg.Model, "completion").Add(float64(gen.CompletionTokens))
		tokens.WithLabelValues(g.cfg.Provider, g.cfg.Model, "total").Add(float64(gen.TotalTokens))
	}
	if gen.Text == "" {
		return domain.Generation{}, fmt.Errorf("%s returned no text: %w", g.cfg.Provider, domain.ErrModelNonJSON)
	}
	return gen, nil
}

// HealthCheck reports missing credentials without calling the API.
func (g *Generator) HealthCheck(_ context.Context) error {
	if g.cfg.APIKey == "" {
		return fmt.Errorf("%s: %w", g.cfg.Provider, domain.ErrMissingCredentials)
	}
	return nil
}

func parseAPIError(provider string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return domain.NewProviderError(domain.CapabilityModel, provider, apiErr.Code, apiErr.Message)
	}
	return domain.NewProviderError(domain.CapabilityModel, provider, 0, err.Error())
}
