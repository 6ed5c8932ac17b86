// Package generation selects and decorates text-generation providers.
package generation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/pricecheck/internal/domain"
)

// Registry maps provider names to generators.
type Registry struct {
	providers   map[string]domain.Generator
	defaultName string
}

// NewRegistry creates an empty registry with the given default provider name.
func NewRegistry(defaultName string) *Registry {
	return &Registry{
		providers:   make(map[string]domain.Generator),
		defaultName: strings.ToLower(defaultName),
	}
}

// Register adds or replaces a provider.
func (r *Registry) Register(name string, g domain.Generator) {
	r.providers[strings.ToLower(name)] = g
}

// Get returns the named provider; an empty name selects the default.
func (r *Registry) Get(name string) (domain.Generator, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = r.defaultName
	}
	g, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProvider, name)
	}
	return g, nil
}

// Default returns the default provider name.
func (r *Registry) Default() string { return r.defaultName }

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
