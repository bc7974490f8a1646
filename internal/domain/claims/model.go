package claims

import (
	"time"

	"github.com/google/uuid"
)

// Claim lifecycle statuses. Transitions are single-directional; a
// resubmission creates a new claim that references the original through
// ResubmissionOf rather than rewinding status.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusPaid      = "paid"
	StatusDenied    = "denied"
)

// Address is a postal address block. All fields optional; the 837P N3/N4
// segments are only emitted when Line1 is set.
type Address struct {
	Line1 *string `db:"line1" json:"line1,omitempty"`
	Line2 *string `db:"line2" json:"line2,omitempty"`
	City  *string `db:"city" json:"city,omitempty"`
	State *string `db:"state" json:"state,omitempty"`
	Zip   *string `db:"zip" json:"zip,omitempty"`
}

// PatientInfo is the patient identity/demographics block (CMS-1500 boxes 2-5).
type PatientInfo struct {
	FirstName     string     `db:"patient_first_name" json:"first_name"`
	LastName      string     `db:"patient_last_name" json:"last_name"`
	MiddleInitial *string    `db:"patient_middle_initial" json:"middle_initial,omitempty"`
	DOB           *time.Time `db:"patient_dob" json:"dob,omitempty"`
	Sex           string     `db:"patient_sex" json:"sex"`
	AccountNumber string     `db:"patient_account_number" json:"account_number"`
	Address       *Address   `json:"address,omitempty"`
	Phone         *string    `db:"patient_phone" json:"phone,omitempty"`
}

// SubscriberInfo is the insured/subscriber block. When the patient is the
// subscriber, RelationshipToInsured is "Self" and the name fields mirror
// the patient's.
type SubscriberInfo struct {
	MemberID              string     `db:"subscriber_member_id" json:"member_id"`
	FirstName             string     `db:"subscriber_first_name" json:"first_name"`
	LastName              string     `db:"subscriber_last_name" json:"last_name"`
	DOB                   *time.Time `db:"subscriber_dob" json:"dob,omitempty"`
	Sex                   *string    `db:"subscriber_sex" json:"sex,omitempty"`
	RelationshipToInsured string     `db:"relationship_to_insured" json:"relationship_to_insured"`
	GroupNumber           *string    `db:"group_number" json:"group_number,omitempty"`
	PlanName              *string    `db:"plan_name" json:"plan_name,omitempty"`
	PayerName             string     `db:"payer_name" json:"payer_name"`
	PayerID               string     `db:"payer_id" json:"payer_id"`
}

// SecondaryInsurance captures the optional other-coverage block (boxes 9a-9d).
type SecondaryInsurance struct {
	PayerName   string  `json:"payer_name"`
	MemberID    string  `json:"member_id"`
	GroupNumber *string `json:"group_number,omitempty"`
}

// ProviderInfo is a billing or rendering provider block.
type ProviderInfo struct {
	Name    string   `db:"name" json:"name"`
	NPI     string   `db:"npi" json:"npi"`
	TaxID   string   `db:"tax_id" json:"tax_id"`
	Address *Address `json:"address,omitempty"`
	Phone   *string  `db:"phone" json:"phone,omitempty"`
}

// FacilityInfo is the service facility block (box 32).
type FacilityInfo struct {
	Name    string   `json:"name"`
	NPI     *string  `json:"npi,omitempty"`
	Address *Address `json:"address,omitempty"`
}

// DiagnosisEntry is one ICD-10 diagnosis on the claim. Pointer letters are
// assigned strictly by list position ('A' for index 0) and are what service
// lines reference.
type DiagnosisEntry struct {
	Code        string `db:"code" json:"code"`
	Description string `db:"description" json:"description,omitempty"`
	Pointer     string `db:"pointer" json:"pointer"`
}

// ServiceLine is one billed procedure. Lines are immutable once the claim
// leaves draft; a correction replaces the line rather than mutating it.
type ServiceLine struct {
	LineNumber        int        `db:"line_number" json:"line_number"`
	FromDate          *time.Time `db:"from_date" json:"from_date,omitempty"`
	ToDate            *time.Time `db:"to_date" json:"to_date,omitempty"`
	PlaceOfService    string     `db:"place_of_service" json:"place_of_service"`
	CPTCode           string     `db:"cpt_code" json:"cpt_code"`
	Modifiers         []string   `db:"modifiers" json:"modifiers,omitempty"`
	DiagnosisPointers []int      `db:"diagnosis_pointers" json:"diagnosis_pointers"`
	Charge            float64    `db:"charge" json:"charge"`
	Units             int        `db:"units" json:"units"`
	NDCCode           *string    `db:"ndc_code" json:"ndc_code,omitempty"`
	NDCQuantity       *float64   `db:"ndc_quantity" json:"ndc_quantity,omitempty"`
	NDCUnit           *string    `db:"ndc_unit" json:"ndc_unit,omitempty"`
}

// Claim is the canonical normalized claim record (the logical CMS-1500).
// TotalCharge is derived from the service lines and is never settable by
// callers.
type Claim struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	ClaimNumber     string     `db:"claim_number" json:"claim_number"`
	Status          string     `db:"status" json:"status"`
	ResubmissionOf  *uuid.UUID `db:"resubmission_of" json:"resubmission_of,omitempty"`
	PayerType       string     `db:"payer_type" json:"payer_type"`
	PriorAuthNumber *string    `db:"prior_auth_number" json:"prior_auth_number,omitempty"`

	Patient    PatientInfo         `json:"patient"`
	Subscriber SubscriberInfo      `json:"subscriber"`
	Secondary  *SecondaryInsurance `json:"secondary_insurance,omitempty"`

	BillingProvider   ProviderInfo  `json:"billing_provider"`
	RenderingProvider *ProviderInfo `json:"rendering_provider,omitempty"`
	Facility          *FacilityInfo `json:"facility,omitempty"`

	Diagnoses    []DiagnosisEntry `json:"diagnoses"`
	ServiceLines []ServiceLine    `json:"service_lines"`
	TotalCharge  float64          `db:"total_charge" json:"total_charge"`

	// Optional CMS-1500 condition boxes. Absence is distinct from an
	// explicit false/zero, hence pointers.
	AutoAccident        *bool      `db:"auto_accident" json:"auto_accident,omitempty"`
	OtherAccident       *bool      `db:"other_accident" json:"other_accident,omitempty"`
	AccidentState       *string    `db:"accident_state" json:"accident_state,omitempty"`
	HospitalizationFrom *time.Time `db:"hospitalization_from" json:"hospitalization_from,omitempty"`
	HospitalizationTo   *time.Time `db:"hospitalization_to" json:"hospitalization_to,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Issue is one structured validation finding.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationReport is the immutable result of one validation pass. Valid is
// true iff Errors is empty; warnings never affect validity.
type ValidationReport struct {
	ClaimNumber string  `json:"claim_number"`
	Valid       bool    `json:"valid"`
	Errors      []Issue `json:"errors"`
	Warnings    []Issue `json:"warnings"`
}

// PointerLetter maps a 1-based diagnosis pointer index to its letter:
// 1 -> "A", 2 -> "B", ... Indexes outside 1..26 return "".
func PointerLetter(index int) string {
	if index < 1 || index > 26 {
		return ""
	}
	return string(rune('A' + index - 1))
}
