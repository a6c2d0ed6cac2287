package model

// MethodologyCode names a dispute strategy
type MethodologyCode string

const (
	MethodologyFactual        MethodologyCode = "factual"
	MethodologyMetro2         MethodologyCode = "metro2_compliance"
	MethodologyDebtValidation MethodologyCode = "debt_validation"
	MethodologyMOV            MethodologyCode = "method_of_verification"
	MethodologyConsumerLaw    MethodologyCode = "consumer_law"
)

// methodologyPriority is the fixed selection order for batch aggregation.
// Higher wins; ties favor the higher-priority code.
var methodologyPriority = map[MethodologyCode]int{
	MethodologyFactual:        1,
	MethodologyMetro2:         2,
	MethodologyDebtValidation: 3,
	MethodologyMOV:            4,
	MethodologyConsumerLaw:    5,
}

// Priority returns the methodology's rank in the fixed selection order.
// Unknown codes rank below every known methodology.
func (m MethodologyCode) Priority() int {
	return methodologyPriority[m]
}

// RecipientType identifies who a dispute letter is addressed to
type RecipientType string

const (
	RecipientBureau    RecipientType = "bureau"
	RecipientCreditor  RecipientType = "creditor"
	RecipientCollector RecipientType = "collector"
	RecipientFurnisher RecipientType = "furnisher"
)

// Methodology is a dispute strategy definition from the registry
type Methodology struct {
	Code        MethodologyCode `json:"code" yaml:"code"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`

	// MinRound/MaxRound bound the rounds the methodology is valid for
	// (inclusive). MaxRound 0 means no upper bound.
	MinRound int `json:"min_round" yaml:"min_round"`
	MaxRound int `json:"max_round" yaml:"max_round"`

	Recipients []RecipientType `json:"recipients" yaml:"recipients"`

	// PrimaryCitation is always included in letters; SecondaryCitations
	// are added when the round or findings warrant them.
	PrimaryCitation    string   `json:"primary_citation" yaml:"primary_citation"`
	SecondaryCitations []string `json:"secondary_citations,omitempty" yaml:"secondary_citations,omitempty"`

	// EscalationTriggers maps a dispute outcome (e.g. "verified",
	// "no_response") to the suggested next action.
	EscalationTriggers map[string]string `json:"escalation_triggers,omitempty" yaml:"escalation_triggers,omitempty"`

	SuccessIndicators []string `json:"success_indicators,omitempty" yaml:"success_indicators,omitempty"`
}

// ValidForRound reports whether the methodology may be used in the round
func (m *Methodology) ValidForRound(round int) bool {
	if round < m.MinRound {
		return false
	}
	if m.MaxRound > 0 && round > m.MaxRound {
		return false
	}
	return true
}

// AllowsRecipient reports whether the methodology may target the recipient
func (m *Methodology) AllowsRecipient(r RecipientType) bool {
	for _, allowed := range m.Recipients {
		if allowed == r {
			return true
		}
	}
	return false
}

// ReasonTier partitions reason codes by how much proof they demand
type ReasonTier string

const (
	// TierFactual covers factual and Metro-2 codes, safe to auto-select.
	TierFactual ReasonTier = "factual"
	// TierSituational codes are valid only under specific item conditions.
	TierSituational ReasonTier = "situational"
	// TierOwnershipClaim codes assert the client does not own the account.
	// The engine never auto-selects these; they require explicit client
	// confirmation and pass through the evidence validator.
	TierOwnershipClaim ReasonTier = "ownership_claim"
)

// DisputeStrength grades how strong a dispute ground a reason code is
type DisputeStrength string

const (
	StrengthWeak     DisputeStrength = "weak"
	StrengthModerate DisputeStrength = "moderate"
	StrengthStrong   DisputeStrength = "strong"
)

// ReasonCode is a dispute ground from the registry catalog
type ReasonCode struct {
	Code          string            `json:"code" yaml:"code"`
	Label         string            `json:"label" yaml:"label"`
	LetterText    string            `json:"letter_text" yaml:"letter_text"` // Injected into letter bodies
	Tier          ReasonTier        `json:"tier" yaml:"tier"`
	Strength      DisputeStrength   `json:"strength" yaml:"strength"`
	Methodologies []MethodologyCode `json:"methodologies,omitempty" yaml:"methodologies,omitempty"`

	// RequiredEvidence lists document categories, any one of which
	// satisfies the requirement. Only ownership-claim codes carry these.
	RequiredEvidence []EvidenceCategory `json:"required_evidence,omitempty" yaml:"required_evidence,omitempty"`
}

// Reason code identifiers used across the engine
const (
	ReasonVerificationRequired = "verification_required"
	ReasonObsolete             = "obsolete"
	ReasonIncompleteData       = "incomplete_data"
	ReasonMetro2Violation      = "metro2_violation"
	ReasonUnauthorizedInquiry  = "unauthorized_inquiry"
	ReasonUnverifiedDebt       = "unverified_debt"

	// Ownership-claim tier. Never emitted by the analyzer.
	ReasonNotMine       = "not_mine"
	ReasonIdentityTheft = "identity_theft"
	ReasonNeverLate     = "never_late"
	ReasonMixedFile     = "mixed_file"
)

// OwnershipClaimCodes are the reason codes the analyzer must never emit
var OwnershipClaimCodes = map[string]bool{
	ReasonNotMine:       true,
	ReasonIdentityTheft: true,
	ReasonNeverLate:     true,
	ReasonMixedFile:     true,
}
