package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ballpark-labs/preview-service/internal/models"
	"github.com/ballpark-labs/preview-service/internal/resilience"
)

// Dependency is the resilience-layer name for the LLM API
const Dependency = "llm"

// Config holds completion client construction parameters
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// Client sends prompts to the configured LLM provider and tracks a running
// request count and cost estimate. Provider selection happens once here;
// nothing downstream branches on the wire shape.
type Client struct {
	provider Provider
	exec     *resilience.Executor
	logger   *logrus.Logger
	defaults Options

	mu           sync.Mutex
	requestCount int
	totalCost    float64
}

// UsageStats is a snapshot of the client's running usage counters
type UsageStats struct {
	Provider              string  `json:"provider"`
	Model                 string  `json:"model"`
	RequestCount          int     `json:"request_count"`
	TotalCost             float64 `json:"total_cost"`
	AverageCostPerRequest float64 `json:"average_cost_per_request"`
}

// NewClient builds a completion client for the configured provider. An
// unknown provider is a construction-time failure.
func NewClient(cfg Config, exec *resilience.Executor, logger *logrus.Logger) (*Client, error) {
	var provider Provider
	switch cfg.Provider {
	case "anthropic":
		provider = newAnthropicProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout)
	case "openai":
		provider = newOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout)
	default:
		return nil, &ProviderError{Provider: cfg.Provider}
	}

	return &Client{
		provider: provider,
		exec:     exec,
		logger:   logger,
		defaults: Options{MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature},
	}, nil
}

// Complete sends the two-part prompt through the resilience layer and
// returns the raw text plus usage metadata.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (*models.CompletionResult, error) {
	return c.CompleteWithOptions(ctx, systemPrompt, userPrompt, c.defaults)
}

// CompleteWithOptions is Complete with per-call overrides
func (c *Client) CompleteWithOptions(ctx context.Context, systemPrompt, userPrompt string, opts Options) (*models.CompletionResult, error) {
	start := time.Now()

	type completion struct {
		text  string
		usage models.TokenUsage
	}

	result, err := c.exec.Call(ctx, Dependency, func() (interface{}, error) {
		text, usage, err := c.provider.Complete(ctx, systemPrompt, userPrompt, opts)
		if err != nil {
			return nil, err
		}
		return completion{text: text, usage: usage}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	done := result.(completion)
	cost := estimateCost(c.provider.Name(), c.provider.Model(), done.usage)
	duration := time.Since(start)

	c.mu.Lock()
	c.requestCount++
	c.totalCost += cost
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"component":     "completion_client",
		"provider":      c.provider.Name(),
		"model":         c.provider.Model(),
		"input_tokens":  done.usage.InputTokens,
		"output_tokens": done.usage.OutputTokens,
		"cost":          cost,
		"duration":      duration.String(),
	}).Debug("Completion request finished")

	return &models.CompletionResult{
		Content:  done.text,
		Usage:    done.usage,
		Cost:     cost,
		Duration: duration,
		Provider: c.provider.Name(),
		Model:    c.provider.Model(),
	}, nil
}

// UsageStats returns the running usage counters
func (c *Client) UsageStats() UsageStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := UsageStats{
		Provider:     c.provider.Name(),
		Model:        c.provider.Model(),
		RequestCount: c.requestCount,
		TotalCost:    c.totalCost,
	}
	if c.requestCount > 0 {
		stats.AverageCostPerRequest = c.totalCost / float64(c.requestCount)
	}
	return stats
}

// ResetUsageStats zeroes the running counters
func (c *Client) ResetUsageStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestCount = 0
	c.totalCost = 0
}
