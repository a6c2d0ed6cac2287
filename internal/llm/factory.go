package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/toptierfs/disputekit/internal/cache"
	"github.com/toptierfs/disputekit/internal/model"
)

// NewCompleter creates a completer based on configuration. An empty
// provider returns nil with no error: completion is disabled and every
// letter uses the deterministic template.
func NewCompleter(config model.LLMConfig) (Completer, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAICompleter(config)

	case "ollama":
		return NewOllamaCompleter(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown completion provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// CachingCompleter wraps a completer with a prompt-hash cache. Identical
// prompts on the same provider/model return the cached text without an
// API call.
type CachingCompleter struct {
	inner Completer
	cache cache.Cache
	model string
	ttl   time.Duration
}

// WithCache wraps a completer with caching. A nil cache or nil completer
// returns the completer unchanged.
func WithCache(inner Completer, c cache.Cache, modelName string, ttl time.Duration) Completer {
	if inner == nil || c == nil {
		return inner
	}
	return &CachingCompleter{inner: inner, cache: c, model: modelName, ttl: ttl}
}

// Name returns the wrapped provider's name
func (c *CachingCompleter) Name() string {
	return c.inner.Name()
}

// IsAvailable defers to the wrapped provider
func (c *CachingCompleter) IsAvailable(ctx context.Context) bool {
	return c.inner.IsAvailable(ctx)
}

// Complete returns a cached response when one exists, otherwise calls the
// wrapped provider and stores the result.
func (c *CachingCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	key := cache.Key(c.inner.Name(), c.model, prompt)
	if data, ok := c.cache.Get(key); ok {
		return string(data), nil
	}

	out, err := c.inner.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	_ = c.cache.Set(key, []byte(out), c.ttl)
	return out, nil
}
