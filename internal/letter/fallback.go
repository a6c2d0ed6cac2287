package letter

import (
	"fmt"
	"strings"

	"github.com/toptierfs/disputekit/internal/model"
)

// fallbackLetter assembles the deterministic letter used when the
// completion service is unavailable or no template resolves. Fixed
// structure, no external dependencies, byte-stable for identical inputs
// and date.
func fallbackLetter(d *letterData) string {
	var b strings.Builder

	b.WriteString(d.currentDate)
	b.WriteString("\n\n")

	b.WriteString(d.clientName)
	b.WriteString("\n")
	b.WriteString(d.clientAddress)
	if d.ssnLast4 != "" {
		fmt.Fprintf(&b, "\nSSN (last four): %s", d.ssnLast4)
	}
	b.WriteString("\n\n")

	b.WriteString(d.recipientBlock)
	b.WriteString("\n\n")

	if len(d.items) == 1 {
		b.WriteString("RE: Formal dispute of inaccurate account information\n\n")
	} else {
		fmt.Fprintf(&b, "RE: Formal dispute of %d inaccurate accounts\n\n", len(d.items))
	}

	b.WriteString("To Whom It May Concern:\n\n")
	b.WriteString("I am writing to dispute the following ")
	if len(d.items) == 1 {
		b.WriteString("item on my credit report. ")
	} else {
		b.WriteString("items on my credit report. ")
	}
	b.WriteString("I demand verification of every field reported, as is my right under the Fair Credit Reporting Act.\n\n")

	for i, item := range d.items {
		fmt.Fprintf(&b, "Account %d:\n", i+1)
		fmt.Fprintf(&b, "  Furnisher: %s\n", item.FurnisherName)
		if item.OriginalCreditor != "" {
			fmt.Fprintf(&b, "  Original creditor: %s\n", item.OriginalCreditor)
		}
		fmt.Fprintf(&b, "  Reported as: %s\n", item.Category)
		if item.Amount != nil {
			fmt.Fprintf(&b, "  Reported balance: $%.2f\n", *item.Amount)
		}
		if item.DateReported != nil {
			fmt.Fprintf(&b, "  Date reported: %s\n", item.DateReported.Format("January 2, 2006"))
		}
		b.WriteString("\n")
	}

	if len(d.reasonText) > 0 {
		b.WriteString("Grounds for this dispute:\n")
		for _, line := range d.reasonText {
			fmt.Fprintf(&b, "  - %s\n", line)
		}
		b.WriteString("\n")
	}

	if len(d.violations) > 0 {
		b.WriteString("Specific reporting violations identified:\n")
		for _, v := range d.violations {
			fmt.Fprintf(&b, "  - %s\n", v)
		}
		b.WriteString("\n")
	}

	if len(d.citations) > 0 {
		b.WriteString("Regulatory basis:\n")
		for _, c := range d.citations {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
		b.WriteString("\n")
	}

	b.WriteString("I demand that you:\n")
	b.WriteString("  1. Conduct a full investigation of each disputed item;\n")
	b.WriteString("  2. Contact each furnisher and obtain documentation of the reported data;\n")
	b.WriteString("  3. Provide me copies of any documents used to verify these accounts;\n")
	if len(d.items) > 1 {
		b.WriteString("  4. DELETE ALL listed accounts that cannot be fully verified. Partial correction is not acceptable.\n\n")
	} else {
		b.WriteString("  4. DELETE the account if it cannot be fully verified. Partial correction is not acceptable.\n\n")
	}

	if len(d.evidenceRefs) > 0 {
		b.WriteString("Enclosed supporting documents:\n")
		for _, ref := range d.evidenceRefs {
			fmt.Fprintf(&b, "  - %s\n", ref)
		}
		b.WriteString("\n")
	}

	b.WriteString("Under FCRA Section 611 [15 U.S.C. 1681i], you must complete your investigation within 30 days of receiving this dispute. ")
	b.WriteString("If any item cannot be verified, it must be deleted from my file and an updated copy of my report sent to me.\n\n")

	b.WriteString("Sincerely,\n\n\n")
	b.WriteString(d.clientName)
	b.WriteString("\n")

	return b.String()
}

// recipientBlock builds the address block for the letter target. Bureau
// targets use the registry's postal table; creditor and collector targets
// get a generic dispute-department block since their mailing addresses
// live outside the engine.
func (c *Composer) recipientBlock(recipient model.RecipientType, bureau model.Bureau, recipientName string) string {
	if recipient == model.RecipientBureau {
		if addr, ok := c.registry.BureauAddress(bureau); ok {
			return strings.Join(addr.Lines, "\n")
		}
	}

	name := recipientName
	if name == "" {
		name = "Credit Reporting Department"
	}
	return name + "\nCredit Dispute Department"
}
