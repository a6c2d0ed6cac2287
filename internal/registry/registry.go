// Package registry is the read-only configuration store for methodologies,
// reason codes, letter templates, style guidance, and bureau addressing.
// A Registry is built once at startup and never mutated; concurrent reads
// need no locking.
package registry

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/toptierfs/disputekit/internal/model"
)

// ErrNotFound is returned for lookups of unknown codes. Callers fall back
// to the deterministic template instead of failing the operation.
var ErrNotFound = errors.New("registry: not found")

// StyleGuide is per-methodology writing guidance injected into prompts
type StyleGuide struct {
	Tone         string   `yaml:"tone"`
	ReadingLevel string   `yaml:"reading_level"`
	Avoid        []string `yaml:"avoid,omitempty"`
	MustInclude  []string `yaml:"must_include,omitempty"`
}

// BureauAddress is the postal address block for a credit bureau
type BureauAddress struct {
	Name  string   `yaml:"name"`
	Lines []string `yaml:"lines"`
}

// Catalog is the registry's raw configuration source, either compiled-in
// defaults or an operator-edited YAML overlay.
type Catalog struct {
	Methodologies []model.Methodology                  `yaml:"methodologies"`
	ReasonCodes   []model.ReasonCode                   `yaml:"reason_codes"`
	Templates     []PromptTemplate                     `yaml:"templates"`
	Styles        map[model.MethodologyCode]StyleGuide `yaml:"styles"`
	Bureaus       map[model.Bureau]BureauAddress       `yaml:"bureaus"`
}

// Registry is the immutable lookup built from a Catalog
type Registry struct {
	methodologies map[model.MethodologyCode]model.Methodology
	reasonCodes   map[string]model.ReasonCode
	templates     map[model.MethodologyCode]PromptTemplate
	styles        map[model.MethodologyCode]StyleGuide
	bureaus       map[model.Bureau]BureauAddress
}

// New builds a registry from a catalog, validating every template at load
// time. A corrupted catalog fails construction, never composition.
func New(catalog Catalog) (*Registry, error) {
	r := &Registry{
		methodologies: make(map[model.MethodologyCode]model.Methodology, len(catalog.Methodologies)),
		reasonCodes:   make(map[string]model.ReasonCode, len(catalog.ReasonCodes)),
		templates:     make(map[model.MethodologyCode]PromptTemplate, len(catalog.Templates)),
		styles:        catalog.Styles,
		bureaus:       catalog.Bureaus,
	}
	if r.styles == nil {
		r.styles = map[model.MethodologyCode]StyleGuide{}
	}
	if r.bureaus == nil {
		r.bureaus = map[model.Bureau]BureauAddress{}
	}

	for _, m := range catalog.Methodologies {
		if m.Code == "" {
			return nil, fmt.Errorf("registry: methodology with empty code")
		}
		r.methodologies[m.Code] = m
	}

	for _, rc := range catalog.ReasonCodes {
		if rc.Code == "" {
			return nil, fmt.Errorf("registry: reason code with empty code")
		}
		if model.OwnershipClaimCodes[rc.Code] && len(rc.RequiredEvidence) == 0 {
			return nil, fmt.Errorf("registry: ownership-claim reason %q has no required evidence", rc.Code)
		}
		r.reasonCodes[rc.Code] = rc
	}

	for _, t := range catalog.Templates {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("registry: %w", err)
		}
		if _, ok := r.methodologies[t.Methodology]; !ok {
			return nil, fmt.Errorf("registry: template references unknown methodology %q", t.Methodology)
		}
		r.templates[t.Methodology] = t
	}

	return r, nil
}

// NewDefault builds a registry from the compiled-in catalog
func NewDefault() (*Registry, error) {
	return New(DefaultCatalog())
}

// Load builds a registry from the compiled-in catalog overlaid with a YAML
// file. Overlay entries replace defaults with the same code; lists the file
// omits keep their defaults.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}

	var overlay Catalog
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("registry: parse %s: %w", path, err)
	}

	return New(mergeCatalogs(DefaultCatalog(), overlay))
}

// Methodology looks up a methodology definition by code
func (r *Registry) Methodology(code model.MethodologyCode) (model.Methodology, bool) {
	m, ok := r.methodologies[code]
	return m, ok
}

// ReasonCode looks up a reason-code definition
func (r *Registry) ReasonCode(code string) (model.ReasonCode, bool) {
	rc, ok := r.reasonCodes[code]
	return rc, ok
}

// Template looks up the prompt template for a methodology
func (r *Registry) Template(code model.MethodologyCode) (PromptTemplate, bool) {
	t, ok := r.templates[code]
	return t, ok
}

// Style looks up the writing-style guidance for a methodology
func (r *Registry) Style(code model.MethodologyCode) (StyleGuide, bool) {
	s, ok := r.styles[code]
	return s, ok
}

// BureauAddress looks up the postal address block for a bureau
func (r *Registry) BureauAddress(bureau model.Bureau) (BureauAddress, bool) {
	a, ok := r.bureaus[bureau]
	return a, ok
}

// RequiredEvidence returns the evidence categories required by a reason
// code, or nil when the code has none (or is unknown).
func (r *Registry) RequiredEvidence(code string) []model.EvidenceCategory {
	rc, ok := r.reasonCodes[code]
	if !ok {
		return nil
	}
	return rc.RequiredEvidence
}

func mergeCatalogs(base, overlay Catalog) Catalog {
	merged := base

	if len(overlay.Methodologies) > 0 {
		merged.Methodologies = mergeByKey(base.Methodologies, overlay.Methodologies,
			func(m model.Methodology) string { return string(m.Code) })
	}
	if len(overlay.ReasonCodes) > 0 {
		merged.ReasonCodes = mergeByKey(base.ReasonCodes, overlay.ReasonCodes,
			func(rc model.ReasonCode) string { return rc.Code })
	}
	if len(overlay.Templates) > 0 {
		merged.Templates = mergeByKey(base.Templates, overlay.Templates,
			func(t PromptTemplate) string { return string(t.Methodology) })
	}
	if len(overlay.Styles) > 0 {
		styles := make(map[model.MethodologyCode]StyleGuide, len(base.Styles))
		for k, v := range base.Styles {
			styles[k] = v
		}
		for k, v := range overlay.Styles {
			styles[k] = v
		}
		merged.Styles = styles
	}
	if len(overlay.Bureaus) > 0 {
		bureaus := make(map[model.Bureau]BureauAddress, len(base.Bureaus))
		for k, v := range base.Bureaus {
			bureaus[k] = v
		}
		for k, v := range overlay.Bureaus {
			bureaus[k] = v
		}
		merged.Bureaus = bureaus
	}

	return merged
}

func mergeByKey[T any](base, overlay []T, key func(T) string) []T {
	replaced := make(map[string]T, len(overlay))
	for _, item := range overlay {
		replaced[key(item)] = item
	}

	merged := make([]T, 0, len(base)+len(overlay))
	seen := make(map[string]bool, len(base))
	for _, item := range base {
		k := key(item)
		if repl, ok := replaced[k]; ok {
			merged = append(merged, repl)
		} else {
			merged = append(merged, item)
		}
		seen[k] = true
	}
	for _, item := range overlay {
		if !seen[key(item)] {
			merged = append(merged, item)
		}
	}

	return merged
}
