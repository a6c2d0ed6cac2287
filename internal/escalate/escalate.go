// Package escalate holds the round progression rules for multi-round
// disputes. Pure functions of the round number; the caller persists which
// round a dispute is on.
package escalate

import "github.com/toptierfs/disputekit/internal/model"

// RecipientForRound returns the default letter target for a round:
// round 1 goes to the bureau, round 2 direct to the creditor, round 3 and
// beyond to the collector with legal escalation framing.
func RecipientForRound(round int) model.RecipientType {
	switch {
	case round <= 1:
		return model.RecipientBureau
	case round == 2:
		return model.RecipientCreditor
	default:
		return model.RecipientCollector
	}
}

// MethodologyForRound returns the default methodology for a round.
// Round 1 uses the category default. Round 2 overrides to method of
// verification: after a prior response the consumer is entitled to demand
// how the furnisher verified. Round 3+ overrides to consumer-law framing.
func MethodologyForRound(round int, categoryDefault model.MethodologyCode) model.MethodologyCode {
	switch {
	case round >= 3:
		return model.MethodologyConsumerLaw
	case round == 2:
		return model.MethodologyMOV
	default:
		return categoryDefault
	}
}
