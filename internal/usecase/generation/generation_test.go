package generation

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pricecheck/internal/domain"
	"github.com/kailas-cloud/pricecheck/internal/metrics"
	"github.com/kailas-cloud/pricecheck/internal/transport/memory"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type healthyGenerator struct {
	memory.Generator
	healthErr error
}

func (h *healthyGenerator) HealthCheck(_ context.Context) error { return h.healthErr }

// --- Registry ---

func TestRegistry_Get(t *testing.T) {
	openai := &memory.Generator{Text: "openai"}
	gemini := &memory.Generator{Text: "gemini"}
	r := NewRegistry("OpenAI")
	r.Register("openai", openai)
	r.Register("Gemini", gemini)

	tests := []struct {
		name string
		want domain.Generator
	}{
		{"", openai},
		{"openai", openai},
		{" GEMINI ", gemini},
	}
	for _, tt := range tests {
		got, err := r.Get(tt.name)
		if err != nil {
			t.Fatalf("Get(%q): %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("Get(%q) returned the wrong provider", tt.name)
		}
	}

	if _, err := r.Get("llama"); !errors.Is(err, domain.ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
	if names := r.Names(); len(names) != 2 || names[0] != "gemini" || names[1] != "openai" {
		t.Errorf("Names() = %v", names)
	}
}

func TestRegistry_MissingDefault(t *testing.T) {
	r := NewRegistry("openai")
	if _, err := r.Get(""); !errors.Is(err, domain.ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
}

// --- Instrumented ---

func TestInstrumented_RecordsUsage(t *testing.T) {
	inner := &memory.Generator{Respond: func(domain.Prompt) (domain.Generation, error) {
		return domain.Generation{Text: `{"results":[]}`, PromptTokens: 80, TotalTokens: 120}, nil
	}}
	g := NewInstrumented(inner, "test-usage", "m", nil)

	ctx, usage := domain.NewContextWithUsage(context.Background())
	gen, err := g.Generate(ctx, domain.Prompt{System: "s", User: "u"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.Text != `{"results":[]}` {
		t.Errorf("text = %q", gen.Text)
	}
	if !usage.Used || usage.TotalTokens != 120 {
		t.Errorf("usage = %+v, want 120 tokens", usage)
	}
	if inner.LastPrompt().User != "u" {
		t.Error("prompt not forwarded")
	}
}

func TestInstrumented_WrapsErrors(t *testing.T) {
	providerErr := domain.NewProviderError(domain.CapabilityModel, "openai", 503, "overloaded")
	g := NewInstrumented(&memory.Generator{Err: providerErr}, "openai", "m", nil)

	_, err := g.Generate(context.Background(), domain.Prompt{})
	if !errors.Is(err, domain.ErrModelFailed) {
		t.Fatalf("expected ErrModelFailed, got %v", err)
	}
	var pe *domain.ProviderError
	if !errors.As(err, &pe) || pe.StatusCode != 503 {
		t.Errorf("provider error not preserved: %v", err)
	}
}

func TestInstrumented_BudgetReject(t *testing.T) {
	budget := NewBudgetTracker("test-budget", 100, 0, BudgetActionReject, zap.NewNop())
	budget.Record(100)
	inner := &memory.Generator{Text: "{}"}
	g := NewInstrumented(inner, "test-budget", "m", budget)

	_, err := g.Generate(context.Background(), domain.Prompt{})
	if !errors.Is(err, domain.ErrModelQuotaExceeded) {
		t.Fatalf("expected ErrModelQuotaExceeded, got %v", err)
	}
	if len(inner.Prompts) != 0 {
		t.Error("provider must not be called once the budget is exhausted")
	}
}

func TestInstrumented_BudgetRecordsTokens(t *testing.T) {
	budget := NewBudgetTracker("test-budget-rec", 1000, 0, BudgetActionReject, zap.NewNop())
	inner := &memory.Generator{Respond: func(domain.Prompt) (domain.Generation, error) {
		return domain.Generation{Text: "{}", TotalTokens: 250}, nil
	}}
	g := NewInstrumented(inner, "test-budget-rec", "m", budget)

	if _, err := g.Generate(context.Background(), domain.Prompt{}); err != nil {
		t.Fatal(err)
	}
	if got := budget.RemainingDaily(); got != 750 {
		t.Errorf("remaining daily = %d, want 750", got)
	}
	gauge := metrics.ModelBudgetTokensRemaining.WithLabelValues("test-budget-rec", "daily")
	if v := testutil.ToFloat64(gauge); v != 750 {
		t.Errorf("gauge = %v, want 750", v)
	}
	if v := testutil.ToFloat64(metrics.ModelBudgetTokensRemaining.WithLabelValues("test-budget-rec", "monthly")); v != -1 {
		t.Errorf("monthly gauge = %v, want -1", v)
	}
}

func TestInstrumented_HealthCheck(t *testing.T) {
	wantErr := errors.New("unreachable")
	g := NewInstrumented(&healthyGenerator{healthErr: wantErr}, "openai", "m", nil)
	if err := g.HealthCheck(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("expected delegated health error, got %v", err)
	}

	plain := NewInstrumented(&memory.Generator{}, "memory", "m", nil)
	if err := plain.HealthCheck(context.Background()); err != nil {
		t.Errorf("generators without health checks are healthy, got %v", err)
	}
}

// --- Budget ---

func TestBudgetTracker_WarnAllows(t *testing.T) {
	b := NewBudgetTracker("test", 100, 0, BudgetActionWarn, zap.NewNop())
	b.Record(200)
	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("warn action must allow the request, got %v", err)
	}
	if b.RemainingDaily() != 0 {
		t.Errorf("remaining = %d, want 0", b.RemainingDaily())
	}
}

func TestBudgetTracker_MonthlyReject(t *testing.T) {
	b := NewBudgetTracker("test", 0, 500, BudgetActionReject, zap.NewNop())
	b.Record(500)
	if err := b.Check(context.Background()); !errors.Is(err, domain.ErrModelQuotaExceeded) {
		t.Fatalf("expected ErrModelQuotaExceeded, got %v", err)
	}
}

func TestBudgetTracker_DailyRollover(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	b := NewBudgetTracker("test", 100, 1000, BudgetActionReject, zap.NewNop())
	b.now = func() time.Time { return now }
	b.lastDayReset = truncateToDay(now)
	b.lastMonthReset = truncateToMonth(now)

	b.Record(100)
	if err := b.Check(context.Background()); err == nil {
		t.Fatal("expected daily budget to be exhausted")
	}

	now = now.Add(2 * time.Hour)
	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("expected reset on the next day, got %v", err)
	}
	if b.RemainingMonthly() != 900 {
		t.Errorf("monthly remaining = %d, want 900", b.RemainingMonthly())
	}
}
