package registry

import "github.com/toptierfs/disputekit/internal/model"

// DefaultCatalog returns the compiled-in registry configuration. Operators
// overlay it with a YAML file (engine.registry_file) to adjust wording or
// add entries without a rebuild.
func DefaultCatalog() Catalog {
	return Catalog{
		Methodologies: defaultMethodologies(),
		ReasonCodes:   defaultReasonCodes(),
		Templates:     defaultTemplates(),
		Styles:        defaultStyles(),
		Bureaus:       defaultBureaus(),
	}
}

func defaultMethodologies() []model.Methodology {
	return []model.Methodology{
		{
			Code:        model.MethodologyFactual,
			Name:        "Factual Dispute",
			Description: "Challenges the accuracy of specific reported fields and demands reinvestigation.",
			MinRound:    1,
			MaxRound:    0,
			Recipients:  []model.RecipientType{model.RecipientBureau, model.RecipientFurnisher},
			PrimaryCitation: "FCRA Section 611 [15 U.S.C. 1681i] - reinvestigation of disputed information",
			SecondaryCitations: []string{
				"FCRA Section 607(b) [15 U.S.C. 1681e] - maximum possible accuracy",
			},
			EscalationTriggers: map[string]string{
				"verified":    "escalate to method_of_verification",
				"no_response": "escalate to consumer_law",
			},
			SuccessIndicators: []string{"item deleted", "item updated to positive status"},
		},
		{
			Code:        model.MethodologyMetro2,
			Name:        "Metro 2 Compliance Dispute",
			Description: "Cites incomplete or inconsistent Metro 2 fields as grounds for deletion.",
			MinRound:    1,
			MaxRound:    0,
			Recipients:  []model.RecipientType{model.RecipientBureau, model.RecipientFurnisher},
			PrimaryCitation: "FCRA Section 623(a) [15 U.S.C. 1681s-2(a)] - furnisher duty to report complete and accurate information",
			SecondaryCitations: []string{
				"CDIA Metro 2 Format - standardized tradeline reporting requirements",
			},
			EscalationTriggers: map[string]string{
				"verified": "escalate to method_of_verification",
			},
			SuccessIndicators: []string{"item deleted", "fields corrected and re-aged"},
		},
		{
			Code:        model.MethodologyDebtValidation,
			Name:        "Debt Validation",
			Description: "Demands the collector prove it owns the debt and can validate the amount.",
			MinRound:    1,
			MaxRound:    2,
			Recipients:  []model.RecipientType{model.RecipientCollector, model.RecipientBureau},
			PrimaryCitation: "FDCPA Section 809 [15 U.S.C. 1692g] - validation of debts",
			SecondaryCitations: []string{
				"FCRA Section 623(b) [15 U.S.C. 1681s-2(b)] - furnisher investigation duties",
			},
			EscalationTriggers: map[string]string{
				"validated":   "escalate to method_of_verification",
				"no_response": "demand deletion for failure to validate",
			},
			SuccessIndicators: []string{"collector ceases reporting", "item deleted"},
		},
		{
			Code:        model.MethodologyMOV,
			Name:        "Method of Verification",
			Description: "Demands the bureau disclose how a previously disputed item was verified.",
			MinRound:    2,
			MaxRound:    0,
			Recipients: []model.RecipientType{
				model.RecipientBureau, model.RecipientCreditor, model.RecipientFurnisher,
			},
			PrimaryCitation: "FCRA Section 611(a)(6)(B)(iii) [15 U.S.C. 1681i] - description of reinvestigation procedure",
			SecondaryCitations: []string{
				"FCRA Section 611(a)(7) [15 U.S.C. 1681i] - method of verification on request",
			},
			EscalationTriggers: map[string]string{
				"inadequate_response": "escalate to consumer_law",
			},
			SuccessIndicators: []string{"item deleted after MOV demand", "bureau unable to document verification"},
		},
		{
			Code:        model.MethodologyConsumerLaw,
			Name:        "Consumer Law Escalation",
			Description: "Frames continued reporting as willful noncompliance with statutory duties.",
			MinRound:    3,
			MaxRound:    0,
			Recipients: []model.RecipientType{
				model.RecipientBureau, model.RecipientCreditor, model.RecipientCollector, model.RecipientFurnisher,
			},
			PrimaryCitation: "FCRA Section 616 [15 U.S.C. 1681n] - civil liability for willful noncompliance",
			SecondaryCitations: []string{
				"FCRA Section 617 [15 U.S.C. 1681o] - civil liability for negligent noncompliance",
				"FCRA Section 621 [15 U.S.C. 1681s] - administrative enforcement",
			},
			EscalationTriggers: map[string]string{
				"no_response": "refer for attorney review",
			},
			SuccessIndicators: []string{"item deleted", "settlement offer received"},
		},
	}
}

func defaultReasonCodes() []model.ReasonCode {
	return []model.ReasonCode{
		{
			Code:       model.ReasonVerificationRequired,
			Label:      "Verification Required",
			LetterText: "I dispute the accuracy of this item and demand that it be verified with the furnisher as required by law.",
			Tier:       model.TierFactual,
			Strength:   model.StrengthModerate,
			Methodologies: []model.MethodologyCode{
				model.MethodologyFactual, model.MethodologyMetro2,
				model.MethodologyDebtValidation, model.MethodologyMOV, model.MethodologyConsumerLaw,
			},
		},
		{
			Code:       model.ReasonObsolete,
			Label:      "Obsolete Item",
			LetterText: "This item has exceeded the maximum reporting period permitted by the Fair Credit Reporting Act and must be deleted.",
			Tier:       model.TierFactual,
			Strength:   model.StrengthStrong,
			Methodologies: []model.MethodologyCode{
				model.MethodologyFactual, model.MethodologyConsumerLaw,
			},
		},
		{
			Code:       model.ReasonIncompleteData,
			Label:      "Incomplete Data",
			LetterText: "This item is missing information required for complete and accurate reporting, including the identity of the original creditor.",
			Tier:       model.TierFactual,
			Strength:   model.StrengthModerate,
			Methodologies: []model.MethodologyCode{
				model.MethodologyMetro2, model.MethodologyDebtValidation,
			},
		},
		{
			Code:       model.ReasonMetro2Violation,
			Label:      "Metro 2 Reporting Violation",
			LetterText: "The reported fields for this item are inconsistent with the Metro 2 reporting format and cannot be considered accurate.",
			Tier:       model.TierFactual,
			Strength:   model.StrengthModerate,
			Methodologies: []model.MethodologyCode{
				model.MethodologyMetro2, model.MethodologyFactual,
			},
		},
		{
			Code:       model.ReasonUnverifiedDebt,
			Label:      "Unverified Debt",
			LetterText: "The collector reporting this item has not validated the debt as required by the Fair Debt Collection Practices Act.",
			Tier:       model.TierSituational,
			Strength:   model.StrengthStrong,
			Methodologies: []model.MethodologyCode{
				model.MethodologyDebtValidation, model.MethodologyMOV,
			},
		},
		{
			Code:       model.ReasonUnauthorizedInquiry,
			Label:      "Inquiry Without Permissible Purpose",
			LetterText: "I did not authorize this inquiry and am aware of no permissible purpose for it under FCRA Section 604.",
			Tier:       model.TierSituational,
			Strength:   model.StrengthModerate,
			Methodologies: []model.MethodologyCode{
				model.MethodologyFactual, model.MethodologyConsumerLaw,
			},
		},

		// Ownership-claim tier. Auto-selection is forbidden; each code
		// gates letter generation on documentary evidence.
		{
			Code:       model.ReasonNotMine,
			Label:      "Account Not Mine",
			LetterText: "This account does not belong to me. I have never opened or authorized an account with this furnisher.",
			Tier:       model.TierOwnershipClaim,
			Strength:   model.StrengthStrong,
			RequiredEvidence: []model.EvidenceCategory{
				model.EvidenceIdentityDocument, model.EvidenceCreditReportCopy,
			},
		},
		{
			Code:       model.ReasonIdentityTheft,
			Label:      "Identity Theft",
			LetterText: "This account was opened as a result of identity theft, as documented in the attached report.",
			Tier:       model.TierOwnershipClaim,
			Strength:   model.StrengthStrong,
			RequiredEvidence: []model.EvidenceCategory{
				model.EvidencePoliceReport, model.EvidenceFTCReport,
			},
		},
		{
			Code:       model.ReasonNeverLate,
			Label:      "Never Late",
			LetterText: "The payment history reported for this account is inaccurate; the attached records show the disputed payments were made on time.",
			Tier:       model.TierOwnershipClaim,
			Strength:   model.StrengthModerate,
			RequiredEvidence: []model.EvidenceCategory{
				model.EvidencePaymentRecord, model.EvidenceBankStatement,
			},
		},
		{
			Code:       model.ReasonMixedFile,
			Label:      "Mixed Credit File",
			LetterText: "This item belongs to another consumer and has been mixed into my file in error.",
			Tier:       model.TierOwnershipClaim,
			Strength:   model.StrengthStrong,
			RequiredEvidence: []model.EvidenceCategory{
				model.EvidenceCreditReportCopy, model.EvidenceIdentityDocument,
			},
		},
	}
}

// letterPromptSkeleton is shared by every methodology template; the
// methodology-specific parts arrive through placeholders.
const letterPromptSkeleton = `You are drafting a consumer credit dispute letter on behalf of {client_name}.

STRICT RULES:
1. Frame every dispute as a demand for verification and accuracy. NEVER state or imply the account does not belong to the consumer, was never opened, or resulted from identity theft, unless that exact language appears in the dispute reasons below.
2. Demand DELETION of unverifiable items, never correction.
3. State that the recipient has 30 days under FCRA Section 611 to complete its investigation.
4. Cite only the statutes listed below. Do not invent citations.
5. Output plain text only: no markdown, no placeholders, no commentary.

Letter date: {current_date}

Consumer:
{client_name}
{client_address}

Recipient:
{recipient_block}

{round_framing}
{recipient_framing}

Dispute reasons to incorporate verbatim in substance:
{reason_text}

Accounts in dispute:
{items_detail}

Reporting violations identified:
{violations}

Supporting documents enclosed:
{evidence_refs}

Legal basis to cite:
{legal_citations}

Style: {style_guidance}

Write the complete letter, ending with a signature block for {client_name}.`

var letterPromptRequired = []string{
	"client_name", "client_address", "recipient_block", "current_date",
	"reason_text", "items_detail", "legal_citations", "round_framing",
}

func defaultTemplates() []PromptTemplate {
	roundFramings := map[model.MethodologyCode]map[int]string{
		model.MethodologyFactual: {
			1: "This is the consumer's initial dispute of the items below.",
			2: "This is a follow-up dispute; the prior investigation did not resolve the inaccuracies.",
		},
		model.MethodologyMetro2: {
			1: "This dispute identifies specific Metro 2 format violations in the reported data.",
		},
		model.MethodologyDebtValidation: {
			1: "This is a timely demand for validation of the alleged debts below.",
			2: "Validation was previously demanded and has not been provided; continued reporting is improper.",
		},
		model.MethodologyMOV: {
			2: "A prior dispute was answered with 'verified'. The consumer now demands the method of verification, as is their right under FCRA Section 611(a)(7).",
			3: "Repeated requests for the method of verification have gone unanswered; this letter renews the demand before escalation.",
		},
		model.MethodologyConsumerLaw: {
			3: "Multiple dispute rounds have failed to produce a lawful investigation. Continued reporting of these items now constitutes willful noncompliance.",
		},
	}

	recipientFramings := map[model.RecipientType]string{
		model.RecipientBureau:    "Address the letter to the credit bureau's dispute department.",
		model.RecipientCreditor:  "Address the letter directly to the creditor's credit dispute department.",
		model.RecipientCollector: "Address the letter to the collection agency. Note that collection activity on an unvalidated debt must cease.",
		model.RecipientFurnisher: "Address the letter to the data furnisher's compliance department.",
	}

	var templates []PromptTemplate
	for _, m := range defaultMethodologies() {
		templates = append(templates, PromptTemplate{
			Methodology:      m.Code,
			Text:             letterPromptSkeleton,
			Required:         letterPromptRequired,
			RoundFraming:     roundFramings[m.Code],
			RecipientFraming: recipientFramings,
		})
	}
	return templates
}

func defaultStyles() map[model.MethodologyCode]StyleGuide {
	base := StyleGuide{
		Tone:         "firm, formal, factual",
		ReadingLevel: "plain business English",
		Avoid: []string{
			"threats of immediate litigation",
			"emotional language",
			"admissions that the debt is owed",
			"requests to 'correct' or 'update' instead of delete",
		},
		MustInclude: []string{
			"30-day investigation deadline",
			"demand for deletion of unverifiable items",
			"request for an updated copy of the report",
		},
	}

	escalated := base
	escalated.Tone = "formal, assertive, citing statutory liability"
	escalated.MustInclude = append([]string{
		"reference to willful noncompliance and statutory damages",
	}, base.MustInclude...)

	return map[model.MethodologyCode]StyleGuide{
		model.MethodologyFactual:        base,
		model.MethodologyMetro2:         base,
		model.MethodologyDebtValidation: base,
		model.MethodologyMOV:            base,
		model.MethodologyConsumerLaw:    escalated,
	}
}

func defaultBureaus() map[model.Bureau]BureauAddress {
	return map[model.Bureau]BureauAddress{
		model.BureauExperian: {
			Name:  "Experian",
			Lines: []string{"Experian", "P.O. Box 4500", "Allen, TX 75013"},
		},
		model.BureauEquifax: {
			Name:  "Equifax",
			Lines: []string{"Equifax Information Services LLC", "P.O. Box 740256", "Atlanta, GA 30374"},
		},
		model.BureauTransUnion: {
			Name:  "TransUnion",
			Lines: []string{"TransUnion Consumer Solutions", "P.O. Box 2000", "Chester, PA 19016"},
		},
	}
}
