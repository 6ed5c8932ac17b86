package generation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pricecheck/internal/domain"
	logpkg "github.com/kailas-cloud/pricecheck/internal/logger"
	"github.com/kailas-cloud/pricecheck/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// Instrumented wraps a Generator with budget enforcement, logging and per-request usage.
// Transport metrics (requests, duration, tokens) are recorded by the provider adapters.
type Instrumented struct {
	inner    domain.Generator
	provider string
	model    string
	budget   BudgetChecker
}

// NewInstrumented wraps a generator. budget may be nil.
func NewInstrumented(inner domain.Generator, provider, model string, budget BudgetChecker) *Instrumented {
	return &Instrumented{inner: inner, provider: provider, model: model, budget: budget}
}

// Generate checks budget, delegates to the inner generator and records usage.
func (g *Instrumented) Generate(ctx context.Context, prompt domain.Prompt) (domain.Generation, error) {
	logger := logpkg.FromContext(ctx)

	if g.budget != nil {
		if err := g.budget.Check(ctx); err != nil {
			logger.Error("Model budget exceeded",
				zap.String("provider", g.provider),
				zap.String("model", g.model),
				zap.Error(err),
			)
			return domain.Generation{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	gen, err := g.inner.Generate(ctx, prompt)
	duration := time.Since(start)

	if err != nil {
		logger.Error("Model request failed",
			zap.String("provider", g.provider),
			zap.String("model", g.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.Generation{}, fmt.Errorf("generate: %w", err)
	}

	domain.UsageFromContext(ctx).AddTokens(gen.TotalTokens)
	if g.budget != nil && gen.TotalTokens > 0 {
		g.budget.Record(int64(gen.TotalTokens))
		remaining := metrics.ModelBudgetTokensRemaining
		remaining.WithLabelValues(g.provider, "daily").Set(float64(g.budget.RemainingDaily()))
		remaining.WithLabelValues(g.provider, "monthly").Set(float64(g.budget.RemainingMonthly()))
	}

	logger.Debug("Model request completed",
		zap.String("provider", g.provider),
		zap.String("model", g.model),
		zap.Duration("duration", duration),
		zap.Bool("tool_call", gen.ToolCall),
		zap.Int("output_chars", len(gen.Text)),
		zap.Int("prompt_tokens", gen.PromptTokens),
		zap.Int("total_tokens", gen.TotalTokens),
	)
	return gen, nil
}

// HealthCheck delegates to the inner generator when it supports health checks.
func (g *Instrumented) HealthCheck(ctx context.Context) error {
	if hc, ok := g.inner.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("%s health: %w", g.provider, err)
		}
	}
	return nil
}
