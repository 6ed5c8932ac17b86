// Package memory provides in-memory search, fetch, and model capabilities for tests and offline runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/pricecheck/internal/domain"
	"github.com/kailas-cloud/pricecheck/internal/domain/evidence"
)

// Searcher returns canned hits per query.
type Searcher struct {
	mu      sync.Mutex
	Results map[string][]evidence.Hit
	Err     error
	Calls   []string
}

// Search implements the search capability.
func (s *Searcher) Search(_ context.Context, query string, count int) ([]evidence.Hit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = append(s.Calls, query)
	if s.Err != nil {
		return nil, s.Err
	}
	hits := s.Results[query]
	if count > 0 && len(hits) > count {
		hits = hits[:count]
	}
	return hits, nil
}

// Fetcher returns canned page bodies per URL. Unknown URLs fail.
type Fetcher struct {
	mu    sync.Mutex
	Pages map[string]string
	Errs  map[string]error
	Calls []string
}

// Fetch implements the fetch capability.
func (f *Fetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, url)
	if err, ok := f.Errs[url]; ok {
		return nil, err
	}
	page, ok := f.Pages[url]
	if !ok {
		return nil, fmt.Errorf("fetch %s: not found", url)
	}
	return []byte(page), nil
}

// Generator returns a fixed output, or delegates to Respond when set.
type Generator struct {
	mu      sync.Mutex
	Text    string
	Err     error
	Respond func(domain.Prompt) (domain.Generation, error)
	Prompts []domain.Prompt
}

// Generate implements domain.Generator.
func (g *Generator) Generate(_ context.Context, prompt domain.Prompt) (domain.Generation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Prompts = append(g.Prompts, prompt)
	if g.Respond != nil {
		return g.Respond(prompt)
	}
	if g.Err != nil {
		return domain.Generation{}, g.Err
	}
	return domain.Generation{Text: g.Text}, nil
}

// LastPrompt returns the most recent prompt, or the zero value.
func (g *Generator) LastPrompt() domain.Prompt {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.Prompts) == 0 {
		return domain.Prompt{}
	}
	return g.Prompts[len(g.Prompts)-1]
}
