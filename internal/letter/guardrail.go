package letter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/toptierfs/disputekit/internal/model"
)

// ErrGuardrailViolation means composed text is missing mandatory content
// or asserts something the reason codes do not support. A hard failure of
// the compose step, never a warning.
var ErrGuardrailViolation = errors.New("letter guardrail violation")

// ownershipPhrases is language that asserts the client does not own the
// account. Permitted only when the reason-code set explicitly confirms
// that scenario; in a default dispute it would turn a verification demand
// into a false ownership denial.
var ownershipPhrases = []string{
	"does not belong to",
	"do not belong to",
	"never opened",
	"did not open",
	"identity theft",
	"identity thief",
	"is not my account",
	"are not my accounts",
	"fraudulent account",
}

// checkGuardrails verifies the mandatory content invariants of a finished
// letter: the 30-day FCRA deadline, the deletion (not correction) demand,
// and the ownership-language restriction.
func checkGuardrails(text string, reasonCodes []string) error {
	lower := strings.ToLower(text)

	if !strings.Contains(lower, "30 day") && !strings.Contains(lower, "30-day") &&
		!strings.Contains(lower, "thirty (30) day") && !strings.Contains(lower, "thirty days") {
		return fmt.Errorf("%w: missing 30-day investigation deadline", ErrGuardrailViolation)
	}

	if !strings.Contains(lower, "delete") {
		return fmt.Errorf("%w: missing deletion demand", ErrGuardrailViolation)
	}

	if !ownershipLanguageAllowed(reasonCodes) {
		for _, phrase := range ownershipPhrases {
			if strings.Contains(lower, phrase) {
				return fmt.Errorf("%w: unconfirmed ownership denial (%q)", ErrGuardrailViolation, phrase)
			}
		}
	}

	return nil
}

// ownershipLanguageAllowed reports whether the reason-code set explicitly
// includes a confirmed ownership claim.
func ownershipLanguageAllowed(reasonCodes []string) bool {
	for _, code := range reasonCodes {
		if model.OwnershipClaimCodes[code] {
			return true
		}
	}
	return false
}
