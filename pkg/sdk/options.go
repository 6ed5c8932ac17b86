package pricecheck

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// providerSpec describes one model provider to register.
type providerSpec struct {
	name    string
	kind    string // openai, gemini, custom
	apiKey  string
	baseURL string
	model   string
	custom  Generator
}

type clientConfig struct {
	providers       []providerSpec
	defaultProvider string
	strict          bool
	temperature     float32
	modelTimeout    time.Duration

	bingKey    string
	bingMarket string
	searcher   Searcher
	fetcher    Fetcher

	currency     string
	genericBrand string
	maxDocs      int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithOpenAI registers the "openai" provider.
func WithOpenAI(apiKey, model string) Option {
	return WithOpenAICompatible("openai", "", apiKey, model)
}

// WithOpenAICompatible registers a provider speaking the OpenAI chat completions API at baseURL.
func WithOpenAICompatible(name, baseURL, apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.providers = append(c.providers, providerSpec{
			name: name, kind: "openai", apiKey: apiKey, baseURL: baseURL, model: model,
		})
	})
}

// WithGemini registers the "gemini" provider.
func WithGemini(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.providers = append(c.providers, providerSpec{
			name: "gemini", kind: "gemini", apiKey: apiKey, model: model,
		})
	})
}

// WithGenerator registers a custom model under name.
func WithGenerator(name string, g Generator) Option {
	return optionFunc(func(c *clientConfig) {
		c.providers = append(c.providers, providerSpec{name: name, kind: "custom", custom: g})
	})
}

// WithDefaultProvider picks the provider used when a request names none.
// Defaults to the first registered provider.
func WithDefaultProvider(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultProvider = name
	})
}

// WithStrict switches to the tool-call output contract with extended basket fields.
func WithStrict() Option {
	return optionFunc(func(c *clientConfig) {
		c.strict = true
	})
}

// WithTemperature sets the sampling temperature of built-in providers.
func WithTemperature(t float32) Option {
	return optionFunc(func(c *clientConfig) {
		c.temperature = t
	})
}

// WithModelTimeout bounds the model call. Default: 90s.
func WithModelTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.modelTimeout = d
	})
}

// WithBing enables web evidence through Bing Web Search.
func WithBing(apiKey, market string) Option {
	return optionFunc(func(c *clientConfig) {
		c.bingKey = apiKey
		c.bingMarket = market
	})
}

// WithSearcher enables web evidence through a custom search backend. Overrides WithBing.
func WithSearcher(s Searcher) Option {
	return optionFunc(func(c *clientConfig) {
		c.searcher = s
	})
}

// WithFetcher replaces the built-in page fetcher.
func WithFetcher(f Fetcher) Option {
	return optionFunc(func(c *clientConfig) {
		c.fetcher = f
	})
}

// WithCurrency sets the currency symbol used in prompts and as the result default. Default: ₪.
func WithCurrency(symbol string) Option {
	return optionFunc(func(c *clientConfig) {
		c.currency = symbol
	})
}

// WithGenericBrand sets the brand written for lines without one. Default: Generic.
func WithGenericBrand(brand string) Option {
	return optionFunc(func(c *clientConfig) {
		c.genericBrand = brand
	})
}

// WithMaxDocs caps the number of evidence documents. Default: 8.
func WithMaxDocs(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxDocs = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
