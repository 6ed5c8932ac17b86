package pricecheck

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/pricecheck/internal/transport/memory"
)

const storeJSON = `{"results":[
 {"store_name":"Rami Levy","address":"Yigal Alon 1","basket":[{"name":"milk","brand":"Tara","quantity":1,"unit_price":7.2}]},
 {"store_name":"Shufersal","address":"Dizengoff 50","basket":[{"name":"milk","brand":"Tnuva","quantity":1,"unit_price":6.9}]}
]}`

type mockGenerator struct {
	mu    sync.Mutex
	text  string
	err   error
	users []string
}

func (m *mockGenerator) Generate(_ context.Context, _, user string) (Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, user)
	if m.err != nil {
		return Generation{}, m.err
	}
	return Generation{Text: m.text, TotalTokens: 17}, nil
}

// anySearcher returns the same hits for every query.
type anySearcher struct{ hits []SearchHit }

func (s anySearcher) Search(_ context.Context, _ string, _ int) ([]SearchHit, error) {
	return s.hits, nil
}

func TestNew_NoProvider(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected error when no provider configured")
	}
}

func TestNew_UnknownDefault(t *testing.T) {
	_, err := New(WithGenerator("mine", &mockGenerator{}), WithDefaultProvider("other"))
	if !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestNew_NilCustomGenerator(t *testing.T) {
	if _, err := New(WithGenerator("mine", nil)); err == nil {
		t.Fatal("expected error for nil generator")
	}
}

func TestClient_CompareRanks(t *testing.T) {
	gen := &mockGenerator{text: storeJSON}
	c, err := New(WithGenerator("mine", gen))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	env, err := c.Compare(context.Background(), Request{Address: "Tel Aviv", RadiusKM: 3, ListText: "milk"})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if env.Status != StatusOK || len(env.Results) != 2 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.Results[0].StoreName != "Shufersal" || env.Results[0].Rank != 1 {
		t.Errorf("cheapest store must rank first: %+v", env.Results[0])
	}
	if env.Results[1].Rank != 2 {
		t.Errorf("second rank = %d", env.Results[1].Rank)
	}
}

func TestClient_CompareNeedInput(t *testing.T) {
	gen := &mockGenerator{text: storeJSON}
	c, err := New(WithGenerator("mine", gen))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	env, err := c.Compare(context.Background(), Request{ListText: "milk"})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if env.Status != StatusNeedInput {
		t.Errorf("status = %q, want need_input", env.Status)
	}
	if len(gen.users) != 0 {
		t.Error("model must not be called for incomplete input")
	}
}

func TestClient_CompareWithEvidence(t *testing.T) {
	page := "<html><body><p>" + strings.Repeat("Milk 3% 1L price 6.90 ₪. ", 30) + "</p></body></html>"
	fetcher := &memory.Fetcher{Pages: map[string]string{"https://shop.example.co.il/milk": page}}
	searcher := anySearcher{hits: []SearchHit{{Title: "Milk", URL: "https://shop.example.co.il/milk"}}}

	gen := &mockGenerator{text: storeJSON}
	c, err := New(WithGenerator("mine", gen), WithSearcher(searcher), WithFetcher(fetcher))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := c.Compare(context.Background(), Request{
		Address: "Tel Aviv", RadiusKM: 3, ListText: "milk", UseWeb: true,
	}); err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(gen.users) != 1 || !strings.Contains(gen.users[0], "https://shop.example.co.il/milk") {
		t.Errorf("prompt should carry the evidence url, got %q", gen.users)
	}
}

func TestClient_CompareWebWithoutSearch(t *testing.T) {
	c, err := New(WithGenerator("mine", &mockGenerator{text: storeJSON}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Compare(context.Background(), Request{Address: "Haifa", RadiusKM: 1, ListText: "bread", UseWeb: true})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestClient_CompareNonJSON(t *testing.T) {
	c, err := New(WithGenerator("mine", &mockGenerator{text: "I could not find prices, sorry."}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Compare(context.Background(), Request{Address: "Haifa", RadiusKM: 1, ListText: "bread"})
	if !errors.Is(err, ErrModelNonJSON) {
		t.Errorf("expected ErrModelNonJSON, got %v", err)
	}
}

func TestClient_ProvidersAndHealth(t *testing.T) {
	c, err := New(
		WithGenerator("mine", &mockGenerator{}),
		WithGemini("", ""),
		WithDefaultProvider("gemini"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	names, def := c.Providers()
	if def != "gemini" || len(names) != 2 {
		t.Errorf("providers = %v default %q", names, def)
	}

	// gemini without a key is unusable
	h := c.Health(context.Background())
	if h.Status != "error" || h.Checks["model"] != "error" {
		t.Errorf("unexpected health: %+v", h)
	}
}

func TestClient_HealthWithBing(t *testing.T) {
	c, err := New(WithGenerator("mine", &mockGenerator{}), WithBing("b-key", "he-IL"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := c.Health(context.Background())
	if h.Status != "ok" || h.Checks["search"] != "ok" {
		t.Errorf("unexpected health: %+v", h)
	}
}

func TestClient_ObservesCompare(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(WithGenerator("mine", &mockGenerator{err: errors.New("down")}), WithPrometheus(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.Compare(context.Background(), Request{Address: "Haifa", RadiusKM: 1, ListText: "bread"})
	if err == nil {
		t.Fatal("expected error")
	}

	if got := testutil.ToFloat64(c.obs.metrics.runs.WithLabelValues("error")); got != 1 {
		t.Errorf("compare errors = %v, want 1", got)
	}

	if _, err := c.Compare(context.Background(), Request{ListText: "bread"}); err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if got := testutil.ToFloat64(c.obs.metrics.runs.WithLabelValues("need_input")); got != 1 {
		t.Errorf("need_input runs = %v, want 1", got)
	}
}

func TestClient_ObservesCompareStores(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(WithGenerator("mine", &mockGenerator{text: storeJSON}), WithPrometheus(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := c.Compare(context.Background(), Request{Address: "Tel Aviv", RadiusKM: 3, ListText: "milk"}); err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if got := testutil.ToFloat64(c.obs.metrics.runs.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok runs = %v, want 1", got)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != "pricecheck_sdk_compare_stores" {
			continue
		}
		h := f.GetMetric()[0].GetHistogram()
		if h.GetSampleCount() != 1 || h.GetSampleSum() != 2 {
			t.Errorf("stores histogram count=%d sum=%v, want 1 and 2", h.GetSampleCount(), h.GetSampleSum())
		}
		return
	}
	t.Error("pricecheck_sdk_compare_stores not gathered")
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}
	WithOpenAI("sk", "gpt-4o-mini").apply(cfg)
	WithOpenAICompatible("nebius", "https://api.studio.nebius.ai/v1/", "nk", "llama").apply(cfg)
	WithGemini("gk", "").apply(cfg)
	if len(cfg.providers) != 3 {
		t.Fatalf("providers = %d, want 3", len(cfg.providers))
	}
	if p := cfg.providers[1]; p.name != "nebius" || p.kind != "openai" || p.baseURL == "" {
		t.Errorf("unexpected compatible provider: %+v", p)
	}

	WithStrict().apply(cfg)
	WithTemperature(0.3).apply(cfg)
	WithModelTimeout(time.Minute).apply(cfg)
	WithCurrency("$").apply(cfg)
	WithGenericBrand("Store brand").apply(cfg)
	WithMaxDocs(3).apply(cfg)
	if !cfg.strict || cfg.temperature != 0.3 || cfg.modelTimeout != time.Minute {
		t.Errorf("model options not applied: %+v", cfg)
	}
	if cfg.currency != "$" || cfg.genericBrand != "Store brand" || cfg.maxDocs != 3 {
		t.Errorf("pipeline options not applied: %+v", cfg)
	}

	logger := slog.Default()
	WithLogger(logger).apply(cfg)
	if cfg.logger != logger {
		t.Error("expected logger to be set")
	}

	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg)
	if cfg.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestGeneratorAdapter_Error(t *testing.T) {
	adapter := &generatorAdapter{inner: &mockGenerator{err: errors.New("provider down")}}
	if _, err := adapter.Generate(context.Background(), promptOf("s", "u")); err == nil {
		t.Fatal("expected error from adapter")
	}
}
