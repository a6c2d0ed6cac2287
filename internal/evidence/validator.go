// Package evidence enforces the documentation policy for ownership-claim
// disputes: a reason code asserting the client does not own an account may
// only reach a letter when a qualifying document is attached, or when an
// operator explicitly overrides with a recorded acknowledgment.
package evidence

import (
	"fmt"

	"github.com/toptierfs/disputekit/internal/model"
	"github.com/toptierfs/disputekit/internal/registry"
)

// Validator checks reason codes against attached evidence documents
type Validator struct {
	registry *registry.Registry
}

// NewValidator creates a validator backed by the registry's reason-code
// catalog
func NewValidator(reg *registry.Registry) *Validator {
	return &Validator{registry: reg}
}

// Validate computes the evidence check for one generation attempt. Results
// are never cached: reason-code selection can change between attempts.
//
// The override flag does not erase the failure: a failed-but-overridden
// result keeps IsValid false and its blocking reasons, with Overridden set,
// so the caller can log the human acknowledgment.
func (v *Validator) Validate(reasonCodes []string, docs []model.EvidenceDocument, override bool) model.EvidenceValidationResult {
	attached := make(map[model.EvidenceCategory]bool, len(docs))
	for _, doc := range docs {
		attached[doc.Category] = true
	}

	result := model.EvidenceValidationResult{IsValid: true}

	for _, code := range reasonCodes {
		rc, ok := v.registry.ReasonCode(code)
		if ok && rc.Tier != model.TierOwnershipClaim {
			continue
		}

		required := rc.RequiredEvidence
		if !ok {
			// Unknown codes in the ownership set still gate; anything
			// else unknown passes through as a factual demand.
			if !model.OwnershipClaimCodes[code] {
				continue
			}
		}
		if len(required) == 0 {
			result.IsValid = false
			result.Unmet = append(result.Unmet, model.UnmetRequirement{ReasonCode: code})
			result.BlockingReasons = append(result.BlockingReasons,
				fmt.Sprintf("reason %q requires client-confirmed documentation but no evidence policy is defined for it", code))
			continue
		}

		if !anyAttached(attached, required) {
			result.IsValid = false
			result.Unmet = append(result.Unmet, model.UnmetRequirement{
				ReasonCode: code,
				Accepted:   required,
			})
			result.BlockingReasons = append(result.BlockingReasons,
				fmt.Sprintf("reason %q requires one of %s; none attached", code, categoryList(required)))
		}
	}

	result.Overridden = override && !result.IsValid
	return result
}

func anyAttached(attached map[model.EvidenceCategory]bool, required []model.EvidenceCategory) bool {
	for _, cat := range required {
		if attached[cat] {
			return true
		}
	}
	return false
}

func categoryList(categories []model.EvidenceCategory) string {
	out := ""
	for i, c := range categories {
		if i > 0 {
			out += ", "
		}
		out += string(c)
	}
	return out
}
