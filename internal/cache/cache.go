// Package cache stores text-completion responses keyed by prompt hash.
// Re-generating a letter with identical inputs builds an identical prompt,
// so a cache hit skips a paid API call. Evidence validation results are
// never cached here or anywhere else.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for completion-response caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a fully built prompt. The provider and
// model are part of the key: the same prompt on a different model is a
// different completion.
func Key(provider, model, prompt string) string {
	hash := sha256.Sum256([]byte(provider + "\x00" + model + "\x00" + prompt))
	return "disputekit:v1:" + hex.EncodeToString(hash[:])
}
