package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider types.
const (
	ProviderTypeOpenAI = "openai"
	ProviderTypeGemini = "gemini"

	SearchProviderBing = "bing"
)

// Config holds the pricecheck configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	Search   SearchConfig   `yaml:"search"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Model    ModelConfig    `yaml:"model"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SearchConfig holds web search settings. An empty provider disables web evidence.
type SearchConfig struct {
	Provider   string `yaml:"provider"` // bing
	APIKey     string `yaml:"api_key"`
	Endpoint   string `yaml:"endpoint"`
	Market     string `yaml:"market"`
	SetLang    string `yaml:"set_lang"`
	Count      int    `yaml:"count"`
	RetryMax   int    `yaml:"retry_max"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// FetchConfig holds page fetch settings.
type FetchConfig struct {
	UserAgent    string `yaml:"user_agent"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
	RetryMax     int    `yaml:"retry_max"`
	TimeoutSec   int    `yaml:"timeout_sec"`
}

// ModelConfig holds text-generation settings.
type ModelConfig struct {
	DefaultProvider string                    `yaml:"default_provider"`
	Strict          bool                      `yaml:"strict"`
	JSONMode        bool                      `yaml:"json_mode"`
	Temperature     float32                   `yaml:"temperature"`
	TimeoutSec      int                       `yaml:"timeout_sec"`
	Providers       map[string]ProviderConfig `yaml:"providers"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// ProviderConfig holds one model provider. Type defaults to the provider name.
type ProviderConfig struct {
	Type    string       `yaml:"type"` // openai, gemini
	APIKey  string       `yaml:"api_key"`
	BaseURL string       `yaml:"base_url"`
	Model   string       `yaml:"model"`
	Budget  BudgetConfig `yaml:"budget"`
}

// PipelineConfig holds the comparison budgets. Every cap is independent.
type PipelineConfig struct {
	MaxItems           int     `yaml:"max_items"`
	MaxQueries         int     `yaml:"max_queries"`
	MaxDocs            int     `yaml:"max_docs"`
	PerPageChars       int     `yaml:"per_page_chars"`
	MinDocChars        int     `yaml:"min_doc_chars"`
	TotalCorpusChars   int     `yaml:"total_corpus_chars"`
	PromptExcerptChars int     `yaml:"prompt_excerpt_chars"`
	MinValidItems      int     `yaml:"min_valid_items"`
	Currency           string  `yaml:"currency"`
	GenericBrand       string  `yaml:"generic_brand"`
	DefaultRadiusKM    float64 `yaml:"default_radius_km"` // used by the CLI only
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML with ${VAR} expansion, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	// a compare request spans search, page fetches and one model call
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 180
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Search.Count <= 0 {
		c.Search.Count = 5
	}
	if c.Search.TimeoutSec <= 0 {
		c.Search.TimeoutSec = 15
	}
	if c.Fetch.TimeoutSec <= 0 {
		c.Fetch.TimeoutSec = 8
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		c.Fetch.MaxBodyBytes = 2 << 20
	}

	if c.Model.TimeoutSec <= 0 {
		c.Model.TimeoutSec = 90
	}
	for name, p := range c.Model.Providers {
		if p.Type == "" {
			p.Type = name
		}
		c.Model.Providers[name] = p
	}
	if c.Model.DefaultProvider == "" && len(c.Model.Providers) == 1 {
		for name := range c.Model.Providers {
			c.Model.DefaultProvider = name
		}
	}

	c.Pipeline.applyDefaults()
}

func (p *PipelineConfig) applyDefaults() {
	defaults := []struct {
		field *int
		value int
	}{
		{&p.MaxItems, 6},
		{&p.MaxQueries, 8},
		{&p.MaxDocs, 8},
		{&p.PerPageChars, 6000},
		{&p.MinDocChars, 400},
		{&p.TotalCorpusChars, 24000},
		{&p.PromptExcerptChars, 1500},
		{&p.MinValidItems, 1},
	}
	for _, d := range defaults {
		if *d.field == 0 {
			*d.field = d.value
		}
	}
	if p.Currency == "" {
		p.Currency = "₪"
	}
	if p.GenericBrand == "" {
		p.GenericBrand = "Generic"
	}
	if p.DefaultRadiusKM == 0 {
		p.DefaultRadiusKM = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Search.Provider {
	case "", SearchProviderBing:
	default:
		return fmt.Errorf("search.provider must be %q or empty, got %q", SearchProviderBing, c.Search.Provider)
	}

	if len(c.Model.Providers) == 0 {
		return fmt.Errorf("model.providers is required")
	}
	if _, ok := c.Model.Providers[c.Model.DefaultProvider]; !ok {
		return fmt.Errorf("model.default_provider %q is not among model.providers", c.Model.DefaultProvider)
	}
	for name, p := range c.Model.Providers {
		switch p.Type {
		case ProviderTypeOpenAI, ProviderTypeGemini:
		default:
			return fmt.Errorf("model.providers.%s.type must be %q or %q, got %q",
				name, ProviderTypeOpenAI, ProviderTypeGemini, p.Type)
		}
		switch p.Budget.Action {
		case "", "warn", "reject":
			// ok
		default:
			return fmt.Errorf(
				"model.providers.%s.budget.action must be \"warn\" or \"reject\", got %q",
				name, p.Budget.Action,
			)
		}
	}

	return c.Pipeline.validate()
}

func (p *PipelineConfig) validate() error {
	caps := map[string]int{
		"max_items":            p.MaxItems,
		"max_queries":          p.MaxQueries,
		"max_docs":             p.MaxDocs,
		"per_page_chars":       p.PerPageChars,
		"min_doc_chars":        p.MinDocChars,
		"total_corpus_chars":   p.TotalCorpusChars,
		"prompt_excerpt_chars": p.PromptExcerptChars,
		"min_valid_items":      p.MinValidItems,
	}
	for name, v := range caps {
		if v <= 0 {
			return fmt.Errorf("pipeline.%s must be positive, got %d", name, v)
		}
	}
	if p.DefaultRadiusKM <= 0 {
		return fmt.Errorf("pipeline.default_radius_km must be positive, got %v", p.DefaultRadiusKM)
	}
	return nil
}

// SearchTimeout returns the per-search timeout.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.Search.TimeoutSec) * time.Second
}

// FetchTimeout returns the per-page fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSec) * time.Second
}

// ModelTimeout returns the model call timeout.
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.Model.TimeoutSec) * time.Second
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
