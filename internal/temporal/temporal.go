// Package temporal computes regulatory-age facts for negative items.
// Everything here is a pure function of (category, dates, now).
package temporal

import (
	"time"

	"github.com/toptierfs/disputekit/internal/model"
)

// Reporting-period limits in years, per FCRA §605 (15 U.S.C. §1681c)
const (
	LimitDerogatoryYears = 7.0
	LimitBankruptcyYears = 10.0
	LimitInquiryYears    = 2.0
)

const hoursPerYear = 24 * 365.25

// Finding is the temporal assessment of a single item
type Finding struct {
	// HasDate is false when the item carries no usable date. No temporal
	// claim may be made from a dateless item: silence, not a false
	// positive.
	HasDate bool

	ElapsedYears float64
	LimitYears   float64
	PastLimit    bool

	// ApproachingLimit is set within one year of the limit. Non-blocking:
	// it only produces an advisory note, never a reason code.
	ApproachingLimit bool

	Citation string
}

// LimitFor returns the reporting-period limit in years for a category
func LimitFor(category model.ItemCategory) float64 {
	switch category {
	case model.CategoryBankruptcy:
		return LimitBankruptcyYears
	case model.CategoryInquiry:
		return LimitInquiryYears
	default:
		return LimitDerogatoryYears
	}
}

// CitationFor returns the regulatory citation backing the category's limit
func CitationFor(category model.ItemCategory) string {
	switch category {
	case model.CategoryBankruptcy:
		return "FCRA Section 605(a)(1) [15 U.S.C. 1681c] - bankruptcies may not be reported beyond 10 years"
	case model.CategoryInquiry:
		return "FCRA Section 605(a)(5) [15 U.S.C. 1681c] - inquiries may not be reported beyond 2 years"
	default:
		return "FCRA Section 605(a) [15 U.S.C. 1681c] - adverse items may not be reported beyond 7 years"
	}
}

// Evaluate assesses an item's reporting age against its category limit.
// The reference date is preferred over last activity; with neither present
// the finding reports HasDate false and nothing else.
func Evaluate(category model.ItemCategory, reported, lastActivity *time.Time, now time.Time) Finding {
	date := reported
	if date == nil {
		date = lastActivity
	}
	if date == nil {
		return Finding{}
	}

	elapsed := YearsBetween(*date, now)
	limit := LimitFor(category)

	f := Finding{
		HasDate:      true,
		ElapsedYears: elapsed,
		LimitYears:   limit,
		PastLimit:    elapsed >= limit,
		Citation:     CitationFor(category),
	}

	if !f.PastLimit && elapsed >= limit-1 {
		f.ApproachingLimit = true
	}

	return f
}

// YearsBetween returns the elapsed years between two instants as a float.
// Negative when from is after to; callers treat future dates as zero age.
func YearsBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / hoursPerYear
}
