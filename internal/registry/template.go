package registry

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/toptierfs/disputekit/internal/model"
)

// placeholderPattern matches {snake_case} placeholders in template text
var placeholderPattern = regexp.MustCompile(`\{([a-z0-9_]+)\}`)

// PromptTemplate is a parameterized letter/prompt template for one
// methodology, with optional per-round and per-recipient framing text.
type PromptTemplate struct {
	Methodology model.MethodologyCode `yaml:"methodology"`
	Text        string                `yaml:"text"`

	// Required placeholders must appear in Text; verified at load time so
	// registry corruption fails fast instead of emitting a letter with
	// literal unfilled placeholders.
	Required []string `yaml:"required"`

	// RoundFraming and RecipientFraming are substituted into the
	// round_framing / recipient_framing placeholders when present.
	RoundFraming     map[int]string                 `yaml:"round_framing,omitempty"`
	RecipientFraming map[model.RecipientType]string `yaml:"recipient_framing,omitempty"`
}

// Placeholders returns the distinct placeholder names in the template text,
// in first-appearance order
func (t *PromptTemplate) Placeholders() []string {
	matches := placeholderPattern.FindAllStringSubmatch(t.Text, -1)
	seen := make(map[string]bool, len(matches))
	var names []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Validate checks the template at load time: every required placeholder
// must appear in the text.
func (t *PromptTemplate) Validate() error {
	present := make(map[string]bool)
	for _, name := range t.Placeholders() {
		present[name] = true
	}
	for _, required := range t.Required {
		if !present[required] {
			return fmt.Errorf("template %q: required placeholder {%s} missing from text", t.Methodology, required)
		}
	}
	return nil
}

// Render substitutes every placeholder with the named value. Rendering
// fails if any placeholder in the text has no value: a letter with a
// literal {placeholder} must never leave the engine.
func (t *PromptTemplate) Render(values map[string]string, round int, recipient model.RecipientType) (string, error) {
	merged := make(map[string]string, len(values)+2)
	for k, v := range values {
		merged[k] = v
	}
	if _, ok := merged["round_framing"]; !ok {
		merged["round_framing"] = t.RoundFraming[framingRound(t.RoundFraming, round)]
	}
	if _, ok := merged["recipient_framing"]; !ok {
		merged["recipient_framing"] = t.RecipientFraming[recipient]
	}

	var missing []string
	rendered := placeholderPattern.ReplaceAllStringFunc(t.Text, func(token string) string {
		name := token[1 : len(token)-1]
		value, ok := merged[name]
		if !ok {
			missing = append(missing, name)
			return token
		}
		return value
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("template %q: no value for placeholder(s) {%s}", t.Methodology, strings.Join(missing, "}, {"))
	}

	return rendered, nil
}

// framingRound picks the highest defined framing round not exceeding the
// requested round, so round 5 reuses the round-3 framing.
func framingRound(framings map[int]string, round int) int {
	best := 0
	for r := range framings {
		if r <= round && r > best {
			best = r
		}
	}
	return best
}
