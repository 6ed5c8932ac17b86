package compare

import (
	"context"

	"github.com/kailas-cloud/pricecheck/internal/domain"
	"github.com/kailas-cloud/pricecheck/internal/domain/envelope"
	"github.com/kailas-cloud/pricecheck/internal/domain/evidence"
	"github.com/kailas-cloud/pricecheck/internal/domain/store"
	"github.com/kailas-cloud/pricecheck/internal/usecase/prompt"
)

// Gatherer collects web evidence for a list of queries.
type Gatherer interface {
	Gather(ctx context.Context, queries []string) ([]evidence.Document, error)
}

// Providers resolves a model provider by name.
type Providers interface {
	Get(name string) (domain.Generator, error)
}

// Assembler renders the model prompt.
type Assembler interface {
	Assemble(in prompt.Input) domain.Prompt
}

// Validator checks and ranks normalized store results.
type Validator interface {
	Validate(stores []store.Result) envelope.Envelope
}
