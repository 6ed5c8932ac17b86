// Package app is the shared composition root of the server and the CLI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pricecheck/internal/config"
	"github.com/kailas-cloud/pricecheck/internal/domain"
	"github.com/kailas-cloud/pricecheck/internal/transport/bing"
	"github.com/kailas-cloud/pricecheck/internal/transport/gemini"
	"github.com/kailas-cloud/pricecheck/internal/transport/openai"
	"github.com/kailas-cloud/pricecheck/internal/transport/web"
	compareuc "github.com/kailas-cloud/pricecheck/internal/usecase/compare"
	evidenceuc "github.com/kailas-cloud/pricecheck/internal/usecase/evidence"
	"github.com/kailas-cloud/pricecheck/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/pricecheck/internal/usecase/health"
	"github.com/kailas-cloud/pricecheck/internal/usecase/prompt"
	"github.com/kailas-cloud/pricecheck/internal/usecase/query"
	"github.com/kailas-cloud/pricecheck/internal/usecase/validate"
)

// App holds the wired services.
type App struct {
	Compare   *compareuc.Service
	Health    *healthuc.Service
	Providers *generation.Registry
}

// New wires every pipeline stage from configuration.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	registry := generation.NewRegistry(cfg.Model.DefaultProvider)
	for name, provCfg := range cfg.Model.Providers {
		g, err := buildGenerator(name, provCfg, &cfg.Model, logger)
		if err != nil {
			return nil, err
		}
		registry.Register(name, g)
		logger.Info("Model provider registered",
			zap.String("provider", name),
			zap.String("type", provCfg.Type),
			zap.String("model", provCfg.Model),
		)
	}

	defaultGen, err := registry.Get(cfg.Model.DefaultProvider)
	if err != nil {
		return nil, fmt.Errorf("default provider: %w", err)
	}

	// Pass nil interface (not typed nil pointer!) when search is not configured.
	var (
		gatherer      compareuc.Gatherer
		searchChecker healthuc.Checker
	)
	if cfg.Search.Provider == config.SearchProviderBing {
		searcher := bing.NewSearcher(bing.Config{
			APIKey:   cfg.Search.APIKey,
			Endpoint: cfg.Search.Endpoint,
			Market:   cfg.Search.Market,
			SetLang:  cfg.Search.SetLang,
			RetryMax: cfg.Search.RetryMax,
		})
		fetcher := web.NewFetcher(web.Config{
			UserAgent:    cfg.Fetch.UserAgent,
			MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
			RetryMax:     cfg.Fetch.RetryMax,
		})
		gatherer = evidenceuc.NewGatherer(searcher, fetcher, evidenceuc.Config{
			ResultsPerQuery:  cfg.Search.Count,
			MaxDocs:          cfg.Pipeline.MaxDocs,
			PerPageChars:     cfg.Pipeline.PerPageChars,
			MinDocChars:      cfg.Pipeline.MinDocChars,
			TotalCorpusChars: cfg.Pipeline.TotalCorpusChars,
			SearchTimeout:    cfg.SearchTimeout(),
			FetchTimeout:     cfg.FetchTimeout(),
		})
		searchChecker = searcher
	}

	assembler := prompt.NewAssembler(prompt.Config{
		Currency:     cfg.Pipeline.Currency,
		ExcerptChars: cfg.Pipeline.PromptExcerptChars,
		Strict:       cfg.Model.Strict,
	})
	validator := validate.NewValidator(validate.Config{
		MinValidItems: cfg.Pipeline.MinValidItems,
		GenericBrand:  cfg.Pipeline.GenericBrand,
		Currency:      cfg.Pipeline.Currency,
	})

	svc := compareuc.New(gatherer, registry, assembler, validator, compareuc.Config{
		Query: query.Limits{
			MaxItems:   cfg.Pipeline.MaxItems,
			MaxQueries: cfg.Pipeline.MaxQueries,
		},
		ModelTimeout: cfg.ModelTimeout(),
	})

	return &App{
		Compare:   svc,
		Health:    healthuc.New(newModelHealthChecker(defaultGen), searchChecker),
		Providers: registry,
	}, nil
}

// buildGenerator assembles the decorator chain: provider -> Instrumented (budget + metrics).
func buildGenerator(
	name string,
	provCfg config.ProviderConfig,
	modelCfg *config.ModelConfig,
	logger *zap.Logger,
) (domain.Generator, error) {
	var (
		base  domain.Generator
		model string
	)
	switch provCfg.Type {
	case config.ProviderTypeOpenAI:
		g := openai.NewGenerator(&openai.Config{
			APIKey:      provCfg.APIKey,
			BaseURL:     provCfg.BaseURL,
			Model:       provCfg.Model,
			Temperature: modelCfg.Temperature,
			Strict:      modelCfg.Strict,
			JSONMode:    modelCfg.JSONMode,
			Provider:    name,
		})
		base, model = g, g.Model()
	case config.ProviderTypeGemini:
		g := gemini.NewGenerator(&gemini.Config{
			APIKey:      provCfg.APIKey,
			BaseURL:     provCfg.BaseURL,
			Model:       provCfg.Model,
			Temperature: modelCfg.Temperature,
			Strict:      modelCfg.Strict,
			Provider:    name,
		})
		base, model = g, g.Model()
	default:
		return nil, fmt.Errorf("provider %s: unsupported type %q", name, provCfg.Type)
	}

	var budget generation.BudgetChecker
	if b := provCfg.Budget; b.DailyTokenLimit > 0 || b.MonthlyTokenLimit > 0 {
		action := generation.BudgetActionWarn
		if b.Action == "reject" {
			action = generation.BudgetActionReject
		}
		budget = generation.NewBudgetTracker(name, b.DailyTokenLimit, b.MonthlyTokenLimit, action, logger)
	}

	return generation.NewInstrumented(base, name, model, budget), nil
}

// modelHealthChecker adapts a generator to health.Checker.
type modelHealthChecker struct {
	generator domain.Generator
}

func newModelHealthChecker(g domain.Generator) *modelHealthChecker {
	return &modelHealthChecker{generator: g}
}

func (h *modelHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.generator.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("model health check: %w", err)
		}
	}
	return nil
}
