package claims

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxDiagnoses is the 837P ceiling on diagnoses per claim. The builder
// truncates anything beyond it; the encoder would otherwise emit pointer
// letters no payer accepts.
const MaxDiagnoses = 12

// DiagnosisInput is one diagnosis from the encounter.
type DiagnosisInput struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// ProcedureInput is one procedure from the encounter. Charge overrides the
// fee-schedule Fee when present.
type ProcedureInput struct {
	Code              string     `json:"code"`
	Modifiers         []string   `json:"modifiers,omitempty"`
	Charge            *float64   `json:"charge,omitempty"`
	Fee               float64    `json:"fee"`
	Units             int        `json:"units,omitempty"`
	FromDate          *time.Time `json:"from_date,omitempty"`
	ToDate            *time.Time `json:"to_date,omitempty"`
	PlaceOfService    *string    `json:"place_of_service,omitempty"`
	DiagnosisPointers []int      `json:"diagnosis_pointers,omitempty"`
	NDCCode           *string    `json:"ndc_code,omitempty"`
	NDCQuantity       *float64   `json:"ndc_quantity,omitempty"`
	NDCUnit           *string    `json:"ndc_unit,omitempty"`
}

// EncounterInput is the clinical side of the claim.
type EncounterInput struct {
	Date                *time.Time       `json:"date,omitempty"`
	ChiefComplaint      *string          `json:"chief_complaint,omitempty"`
	Diagnoses           []DiagnosisInput `json:"diagnoses"`
	Procedures          []ProcedureInput `json:"procedures"`
	AutoAccident        *bool            `json:"auto_accident,omitempty"`
	OtherAccident       *bool            `json:"other_accident,omitempty"`
	AccidentState       *string          `json:"accident_state,omitempty"`
	HospitalizationFrom *time.Time       `json:"hospitalization_from,omitempty"`
	HospitalizationTo   *time.Time       `json:"hospitalization_to,omitempty"`
}

// PatientInput is the registration side of the claim.
type PatientInput struct {
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	MiddleInitial *string    `json:"middle_initial,omitempty"`
	DOB           *time.Time `json:"dob,omitempty"`
	Sex           string     `json:"sex"`
	AccountNumber string     `json:"account_number"`
	Address       *Address   `json:"address,omitempty"`
	Phone         *string    `json:"phone,omitempty"`
}

// SubscriberInput describes the insured when the patient is not the
// subscriber.
type SubscriberInput struct {
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	DOB       *time.Time `json:"dob,omitempty"`
	Sex       *string    `json:"sex,omitempty"`
}

// InsuranceInput is the coverage side of the claim.
type InsuranceInput struct {
	PayerName             string              `json:"payer_name"`
	PayerID               string              `json:"payer_id"`
	PayerType             string              `json:"payer_type"`
	MemberID              string              `json:"member_id"`
	GroupNumber           *string             `json:"group_number,omitempty"`
	PlanName              *string             `json:"plan_name,omitempty"`
	RelationshipToInsured string              `json:"relationship_to_insured"`
	Subscriber            *SubscriberInput    `json:"subscriber,omitempty"`
	PriorAuthNumber       *string             `json:"prior_auth_number,omitempty"`
	Secondary             *SecondaryInsurance `json:"secondary_insurance,omitempty"`
}

// ProviderInput is the billing/rendering/facility side of the claim.
type ProviderInput struct {
	Name      string        `json:"name"`
	NPI       string        `json:"npi"`
	TaxID     string        `json:"tax_id"`
	Address   *Address      `json:"address,omitempty"`
	Phone     *string       `json:"phone,omitempty"`
	Rendering *ProviderInfo `json:"rendering,omitempty"`
	Facility  *FacilityInfo `json:"facility,omitempty"`
}

// Builder maps raw encounter/patient/insurance/provider records into a
// canonical Claim. Build never validates and never fails: incomplete input
// produces a draft that the validator will flag later. That separation lets
// drafts be persisted before they are complete.
type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

// Build assembles a draft claim. Field mapping is deterministic apart from
// the generated claim number and timestamps.
func (b *Builder) Build(enc EncounterInput, pat PatientInput, ins InsuranceInput, prov ProviderInput) *Claim {
	now := time.Now().UTC()

	c := &Claim{
		ID:          uuid.New(),
		ClaimNumber: newClaimNumber(now),
		Status:      StatusDraft,
		PayerType:   ins.PayerType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	c.Patient = PatientInfo{
		FirstName:     pat.FirstName,
		LastName:      pat.LastName,
		MiddleInitial: pat.MiddleInitial,
		DOB:           pat.DOB,
		Sex:           pat.Sex,
		AccountNumber: pat.AccountNumber,
		Address:       pat.Address,
		Phone:         pat.Phone,
	}

	c.Subscriber = buildSubscriber(pat, ins)
	c.Secondary = ins.Secondary
	c.PriorAuthNumber = ins.PriorAuthNumber

	c.BillingProvider = ProviderInfo{
		Name:    prov.Name,
		NPI:     prov.NPI,
		TaxID:   prov.TaxID,
		Address: prov.Address,
		Phone:   prov.Phone,
	}
	c.RenderingProvider = prov.Rendering
	c.Facility = prov.Facility

	diags := enc.Diagnoses
	if len(diags) > MaxDiagnoses {
		diags = diags[:MaxDiagnoses]
	}
	for i, d := range diags {
		c.Diagnoses = append(c.Diagnoses, DiagnosisEntry{
			Code:        d.Code,
			Description: d.Description,
			Pointer:     PointerLetter(i + 1),
		})
	}

	for i, p := range enc.Procedures {
		c.ServiceLines = append(c.ServiceLines, buildServiceLine(i, p, enc.Date))
	}
	c.TotalCharge = sumCharges(c.ServiceLines)

	c.AutoAccident = enc.AutoAccident
	c.OtherAccident = enc.OtherAccident
	c.AccidentState = enc.AccidentState
	c.HospitalizationFrom = enc.HospitalizationFrom
	c.HospitalizationTo = enc.HospitalizationTo

	return c
}

func buildSubscriber(pat PatientInput, ins InsuranceInput) SubscriberInfo {
	sub := SubscriberInfo{
		MemberID:              ins.MemberID,
		RelationshipToInsured: ins.RelationshipToInsured,
		GroupNumber:           ins.GroupNumber,
		PlanName:              ins.PlanName,
		PayerName:             ins.PayerName,
		PayerID:               ins.PayerID,
	}
	if sub.RelationshipToInsured == "" {
		sub.RelationshipToInsured = "Self"
	}
	if ins.Subscriber != nil {
		sub.FirstName = ins.Subscriber.FirstName
		sub.LastName = ins.Subscriber.LastName
		sub.DOB = ins.Subscriber.DOB
		sub.Sex = ins.Subscriber.Sex
	} else {
		sub.FirstName = pat.FirstName
		sub.LastName = pat.LastName
		sub.DOB = pat.DOB
		if pat.Sex != "" {
			sex := pat.Sex
			sub.Sex = &sex
		}
	}
	return sub
}

func buildServiceLine(index int, p ProcedureInput, encounterDate *time.Time) ServiceLine {
	line := ServiceLine{
		LineNumber:        index + 1,
		FromDate:          p.FromDate,
		ToDate:            p.ToDate,
		CPTCode:           p.Code,
		Modifiers:         p.Modifiers,
		DiagnosisPointers: p.DiagnosisPointers,
		Units:             p.Units,
		NDCCode:           p.NDCCode,
		NDCQuantity:       p.NDCQuantity,
		NDCUnit:           p.NDCUnit,
	}
	if line.FromDate == nil {
		line.FromDate = encounterDate
	}
	if line.ToDate == nil {
		line.ToDate = line.FromDate
	}
	if p.PlaceOfService != nil {
		line.PlaceOfService = *p.PlaceOfService
	} else {
		line.PlaceOfService = "11" // office
	}
	if len(line.Modifiers) > 4 {
		line.Modifiers = line.Modifiers[:4]
	}
	// Default to the first diagnosis. This is a billing policy default,
	// not a computed value; downstream systems expect it.
	if len(line.DiagnosisPointers) == 0 {
		line.DiagnosisPointers = []int{1}
	}
	if p.Charge != nil {
		line.Charge = *p.Charge
	} else {
		line.Charge = p.Fee
	}
	if line.Units < 1 {
		line.Units = 1
	}
	return line
}

func sumCharges(lines []ServiceLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Charge
	}
	return total
}

// newClaimNumber builds a best-effort unique human-facing identifier from
// the creation time and a random suffix. Not a security token.
func newClaimNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("CLM-%d-%s", now.UnixMilli(), suffix)
}
