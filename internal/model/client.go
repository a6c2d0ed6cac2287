package model

// Client is the identity record a letter is written on behalf of.
// Supplied by the identity/storage collaborator; the engine only reads it.
type Client struct {
	ID          string `json:"id" validate:"required"`
	FullName    string `json:"full_name" validate:"required"`
	AddressLine string `json:"address_line" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	ZipCode     string `json:"zip_code" validate:"required"`
	SSNLast4    string `json:"ssn_last4,omitempty" validate:"omitempty,len=4,numeric"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

// EvidenceCategory classifies a supporting document
type EvidenceCategory string

const (
	EvidencePoliceReport     EvidenceCategory = "police_report"
	EvidenceFTCReport        EvidenceCategory = "ftc_identity_theft_report" // FTC identity theft affidavit
	EvidenceIdentityDocument EvidenceCategory = "identity_document"
	EvidencePaymentRecord    EvidenceCategory = "payment_record"
	EvidenceBankStatement    EvidenceCategory = "bank_statement"
	EvidenceCreditReportCopy EvidenceCategory = "credit_report_copy"
	EvidenceBillingStatement EvidenceCategory = "billing_statement"
	EvidenceOther            EvidenceCategory = "other"
)

// EvidenceDocument is a reference to an uploaded supporting document.
// The engine never reads file contents, only the category.
type EvidenceDocument struct {
	ID       string           `json:"id"`
	Category EvidenceCategory `json:"category"`
	Label    string           `json:"label,omitempty"`
}
