package pricecheck

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/pricecheck/internal/domain"
)

// Generator produces the model's raw answer for a system and user prompt.
type Generator interface {
	Generate(ctx context.Context, system, user string) (Generation, error)
}

// Generation carries the raw model text and token usage.
type Generation struct {
	Text        string
	TotalTokens int
}

// Searcher runs one web search.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]SearchHit, error)
}

// Fetcher downloads one page body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// generatorAdapter wraps a public Generator to satisfy internal domain.Generator.
type generatorAdapter struct {
	inner Generator
}

func (a *generatorAdapter) Generate(ctx context.Context, p domain.Prompt) (domain.Generation, error) {
	g, err := a.inner.Generate(ctx, p.System, p.User)
	if err != nil {
		return domain.Generation{}, fmt.Errorf("generate: %w", err)
	}
	return domain.Generation{Text: g.Text, TotalTokens: g.TotalTokens}, nil
}
