package llm

import (
	"context"
	"fmt"

	"github.com/ballpark-labs/preview-service/internal/models"
)

// Options bound a single completion request
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Provider is the capability a chat-completion backend must offer. One
// implementation exists per wire shape; the client selects exactly one at
// construction time so call sites never branch on provider.
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, models.TokenUsage, error)
}

// ProviderError reports an unsupported or misconfigured provider selection.
// It is fatal at construction time and never retried.
type ProviderError struct {
	Provider string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("unsupported LLM provider %q (supported: anthropic, openai)", e.Provider)
}

// tokenRate is the published USD price per million tokens for a model
type tokenRate struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// Published per-token rates used for the running cost estimate. This is an
// approximation for budgeting, not billing-grade accounting.
var modelRates = map[string]tokenRate{
	"claude-sonnet-4-20250514": {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"claude-3-5-haiku-latest":  {InputPerMillion: 0.80, OutputPerMillion: 4.00},
	"gpt-4o":                   {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"gpt-4o-mini":              {InputPerMillion: 0.15, OutputPerMillion: 0.60},
}

var defaultRates = map[string]tokenRate{
	"anthropic": {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"openai":    {InputPerMillion: 2.50, OutputPerMillion: 10.00},
}

// estimateCost converts token usage into an approximate USD cost
func estimateCost(provider, model string, usage models.TokenUsage) float64 {
	rate, ok := modelRates[model]
	if !ok {
		rate = defaultRates[provider]
	}
	return float64(usage.InputTokens)/1e6*rate.InputPerMillion +
		float64(usage.OutputTokens)/1e6*rate.OutputPerMillion
}
