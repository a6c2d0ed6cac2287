package model

// UnmetRequirement names an evidence gap blocking letter generation
type UnmetRequirement struct {
	ReasonCode string `json:"reason_code"`
	// Accepted lists the document categories, any one of which would
	// satisfy the requirement.
	Accepted []EvidenceCategory `json:"accepted"`
}

// EvidenceValidationResult is the outcome of the evidence policy check.
// Computed fresh on every generation attempt; reason-code selection can
// change between attempts, so results are never cached.
type EvidenceValidationResult struct {
	IsValid bool               `json:"is_valid"`
	Unmet   []UnmetRequirement `json:"unmet,omitempty"`
	// BlockingReasons are human-readable explanations suitable for
	// showing the operator.
	BlockingReasons []string `json:"blocking_reasons,omitempty"`
	// Overridden records that the caller forced generation past a failed
	// check. Both the override and its absence stay observable so callers
	// can log the acknowledgment.
	Overridden bool `json:"overridden"`
}

// Blocks reports whether generation must be withheld
func (r *EvidenceValidationResult) Blocks() bool {
	return !r.IsValid && !r.Overridden
}
