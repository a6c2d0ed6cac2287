package model

import "time"

// ItemCategory classifies a negative tradeline on a credit report
type ItemCategory string

const (
	CategoryCollection   ItemCategory = "collection"   // Third-party collection account
	CategoryChargeOff    ItemCategory = "charge_off"   // Creditor wrote the debt off
	CategoryLatePayment  ItemCategory = "late_payment" // 30/60/90+ day late marks
	CategoryRepossession ItemCategory = "repossession"
	CategoryForeclosure  ItemCategory = "foreclosure"
	CategoryBankruptcy   ItemCategory = "bankruptcy"
	CategoryJudgment     ItemCategory = "judgment"
	CategoryTaxLien      ItemCategory = "tax_lien"
	CategoryInquiry      ItemCategory = "inquiry" // Hard inquiry
	CategoryOther        ItemCategory = "other"
)

// Bureau identifies a consumer credit reporting agency
type Bureau string

const (
	BureauExperian   Bureau = "experian"
	BureauEquifax    Bureau = "equifax"
	BureauTransUnion Bureau = "transunion"
)

// NegativeItem is a single negative entry pulled from a client's credit
// report. Immutable per analysis: the analyzer reads it and never writes back.
type NegativeItem struct {
	ID               string       `json:"id" validate:"required"`
	FurnisherName    string       `json:"furnisher_name" validate:"required"`
	OriginalCreditor string       `json:"original_creditor,omitempty"`
	Category         ItemCategory `json:"category" validate:"required"`
	Amount           *float64     `json:"amount,omitempty"`
	DateReported     *time.Time   `json:"date_reported,omitempty"`
	DateLastActivity *time.Time   `json:"date_last_activity,omitempty"`
	Bureau           Bureau       `json:"bureau,omitempty"`
	// Bureaus lists every bureau the item appears on, when known.
	// Combined letters use it to exclude items not reported to the target.
	Bureaus       []Bureau `json:"bureaus,omitempty"`
	AccountStatus string   `json:"account_status,omitempty"`
	PaymentStatus string   `json:"payment_status,omitempty"`
}

// ReportedTo reports whether the item appears on the given bureau's file.
// An item with no bureau information is assumed present everywhere, which
// matches how imported reports without per-bureau flags behave.
func (n *NegativeItem) ReportedTo(bureau Bureau) bool {
	if len(n.Bureaus) == 0 {
		return n.Bureau == "" || n.Bureau == bureau
	}
	for _, b := range n.Bureaus {
		if b == bureau {
			return true
		}
	}
	return false
}

// Known reports whether the category is one the analyzer has a dedicated
// policy branch for. Unknown categories run the generic
// verification-required branch.
func (c ItemCategory) Known() bool {
	switch c {
	case CategoryCollection, CategoryChargeOff, CategoryLatePayment,
		CategoryRepossession, CategoryForeclosure, CategoryBankruptcy,
		CategoryJudgment, CategoryTaxLien, CategoryInquiry:
		return true
	}
	return false
}
