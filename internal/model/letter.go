package model

import "time"

// Letter is a composed dispute letter plus the structured metadata a caller
// needs to persist a dispute record.
type Letter struct {
	ID   string `json:"id"`
	Text string `json:"text"` // Plain text, no markup

	Methodology MethodologyCode `json:"methodology"`
	ReasonCodes []string        `json:"reason_codes"`
	Round       int             `json:"round"`
	Recipient   RecipientType   `json:"recipient"`
	Bureau      Bureau          `json:"bureau,omitempty"`
	ItemIDs     []string        `json:"item_ids"`

	Confidence float64 `json:"confidence"`

	// UsedFallback is true when the deterministic template produced the
	// text because the completion service was unavailable or failed.
	// Non-fatal: the letter is still valid.
	UsedFallback bool `json:"used_fallback"`

	GeneratedAt time.Time `json:"generated_at"`
	// ResponseDeadline is GeneratedAt + 30 days, the FCRA investigation
	// window the recipient is held to.
	ResponseDeadline time.Time `json:"response_deadline"`
}
