// Package furnisher classifies creditor names as original creditors or
// third-party collection agencies.
package furnisher

import (
	"strings"

	"github.com/toptierfs/disputekit/internal/model"
)

// MatchKind says which curated list a furnisher name matched
type MatchKind string

const (
	MatchCollector        MatchKind = "collector"
	MatchOriginalCreditor MatchKind = "original_creditor"
	MatchNone             MatchKind = "none"
)

// Classifier matches furnisher names against curated fragment lists.
// The lists are injected configuration data, not code: operators extend
// them without a rebuild, and tests run with fixture lists.
type Classifier struct {
	collectorFragments []string
	originalFragments  []string
}

// NewClassifier creates a classifier from the configured fragment lists.
// A nil config falls back to the built-in defaults.
func NewClassifier(config *model.ClassifierConfig) *Classifier {
	collectors := model.DefaultCollectorFragments()
	originals := model.DefaultOriginalCreditorFragments()
	if config != nil {
		if len(config.CollectorFragments) > 0 {
			collectors = config.CollectorFragments
		}
		if len(config.OriginalCreditorFragments) > 0 {
			originals = config.OriginalCreditorFragments
		}
	}

	c := &Classifier{
		collectorFragments: make([]string, 0, len(collectors)),
		originalFragments:  make([]string, 0, len(originals)),
	}
	for _, f := range collectors {
		c.collectorFragments = append(c.collectorFragments, strings.ToLower(f))
	}
	for _, f := range originals {
		c.originalFragments = append(c.originalFragments, strings.ToLower(f))
	}

	return c
}

// IsLikelyCollector reports whether the furnisher name looks like a
// third-party collection agency.
//
// The unmatched default is false (assume original creditor). Failing to
// flag a collector costs one dispute angle; flagging a legitimate
// furnisher as a collector fabricates a missing-original-creditor claim.
func (c *Classifier) IsLikelyCollector(name string) bool {
	_, kind := c.Match(name)
	return kind == MatchCollector
}

// Match returns the fragment and list a furnisher name matched, for
// traceability in analysis notes. Collector fragments are checked first.
func (c *Classifier) Match(name string) (string, MatchKind) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return "", MatchNone
	}

	for _, fragment := range c.collectorFragments {
		if strings.Contains(lower, fragment) {
			return fragment, MatchCollector
		}
	}

	for _, fragment := range c.originalFragments {
		if strings.Contains(lower, fragment) {
			return fragment, MatchOriginalCreditor
		}
	}

	return "", MatchNone
}
