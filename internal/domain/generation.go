package domain

import "context"

// Prompt is the system + user message pair sent to a text-generation capability.
type Prompt struct {
	System string
	User   string
}

// Generator is the shared text-generation contract between layers.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (Generation, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Generation carries the raw model output and token usage through the decorator chain.
// In strict mode Text holds the tool-call arguments payload.
type Generation struct {
	Text             string
	ToolCall         bool
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
