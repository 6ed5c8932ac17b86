package pricecheck

import (
	"context"
	"errors"
	"fmt"
	"time"

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
	"github.com/kailas-cloud/pricecheck/internal/usecase/validate"
)

// Внутренние интерфейсы для подмены в тестах.
type compareUseCase interface {
	Compare(ctx context.Context, in compareuc.Input) (Envelope, error)
}

type providerRegistry interface {
	Names() []string
	Default() string
}

// Client is the pricecheck SDK entry point.
type Client struct {
	compareSvc compareUseCase
	healthSvc  healthUseCase
	providers  providerRegistry
	obs        *observer
}

// New creates a Client. At least one model provider is required.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.providers) == 0 {
		return nil, errors.New("pricecheck: model provider required (use WithOpenAI, WithGemini or WithGenerator)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return wireClient(cfg, obs)
}

func wireClient(cfg *clientConfig, obs *observer) (*Client, error) {
	defaultName := cfg.defaultProvider
	if defaultName == "" {
		defaultName = cfg.providers[0].name
	}

	registry := generation.NewRegistry(defaultName)
	for _, p := range cfg.providers {
		g, model, err := buildGenerator(p, cfg)
		if err != nil {
			return nil, err
		}
		registry.Register(p.name, generation.NewInstrumented(g, p.name, model, nil))
	}
	defaultGen, err := registry.Get(defaultName)
	if err != nil {
		return nil, fmt.Errorf("pricecheck: default provider: %w", err)
	}

	// Evidence: nil interface (not typed nil pointer!) when no search backend is configured.
	var (
		gatherer compareuc.Gatherer
		searcher evidenceuc.Searcher
		checker  healthuc.Checker
	)
	switch {
	case cfg.searcher != nil:
		searcher = cfg.searcher
	case cfg.bingKey != "":
		b := bing.NewSearcher(bing.Config{APIKey: cfg.bingKey, Market: cfg.bingMarket})
		searcher, checker = b, b
	}
	if searcher != nil {
		var fetcher evidenceuc.Fetcher = cfg.fetcher
		if fetcher == nil {
			fetcher = web.NewFetcher(web.Config{})
		}
		gatherer = evidenceuc.NewGatherer(searcher, fetcher, evidenceuc.Config{MaxDocs: cfg.maxDocs})
	}

	svc := compareuc.New(
		gatherer,
		registry,
		prompt.NewAssembler(prompt.Config{Currency: cfg.currency, Strict: cfg.strict}),
		validate.NewValidator(validate.Config{Currency: cfg.currency, GenericBrand: cfg.genericBrand}),
		compareuc.Config{ModelTimeout: cfg.modelTimeout},
	)

	return &Client{
		compareSvc: svc,
		healthSvc:  healthuc.New(healthCheckerOf(defaultGen), checker),
		providers:  registry,
		obs:        obs,
	}, nil
}

func buildGenerator(p providerSpec, cfg *clientConfig) (domain.Generator, string, error) {
	switch p.kind {
	case "openai":
		g := openai.NewGenerator(&openai.Config{
			APIKey:      p.apiKey,
			BaseURL:     p.baseURL,
			Model:       p.model,
			Temperature: cfg.temperature,
			Strict:      cfg.strict,
			JSONMode:    !cfg.strict,
			Provider:    p.name,
		})
		return g, g.Model(), nil
	case "gemini":
		g := gemini.NewGenerator(&gemini.Config{
			APIKey:      p.apiKey,
			Model:       p.model,
			Temperature: cfg.temperature,
			Strict:      cfg.strict,
			Provider:    p.name,
		})
		return g, g.Model(), nil
	case "custom":
		if p.custom == nil {
			return nil, "", fmt.Errorf("pricecheck: provider %q: nil generator", p.name)
		}
		return &generatorAdapter{inner: p.custom}, p.name, nil
	default:
		return nil, "", fmt.Errorf("pricecheck: provider %q: unknown kind %q", p.name, p.kind)
	}
}

// Compare runs one comparison. Request problems come back as a need_input envelope;
// hard provider failures and unparseable model output are errors.
func (c *Client) Compare(ctx context.Context, req Request) (env Envelope, err error) {
	start := time.Now()
	defer func() { c.obs.observeCompare(start, env, err) }()

	env, err = c.compareSvc.Compare(ctx, compareuc.Input{
		Address:  req.Address,
		RadiusKM: req.RadiusKM,
		ListText: req.ListText,
		UseWeb:   req.UseWeb,
		Provider: req.Provider,
	})
	if err != nil {
		return Envelope{}, fmt.Errorf("compare: %w", err)
	}
	return env, nil
}

// Providers returns the registered provider names and the default one.
func (c *Client) Providers() (names []string, defaultName string) {
	return c.providers.Names(), c.providers.Default()
}

// healthCheckerOf adapts a generator to health.Checker.
func healthCheckerOf(g domain.Generator) healthuc.Checker {
	return healthCheckFunc(func(ctx context.Context) error {
		if hc, ok := g.(domain.HealthChecker); ok {
			return hc.HealthCheck(ctx)
		}
		return nil
	})
}

type healthCheckFunc func(ctx context.Context) error

func (f healthCheckFunc) HealthCheck(ctx context.Context) error { return f(ctx) }
