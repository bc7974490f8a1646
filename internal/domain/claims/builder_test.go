package claims

import (
	"strings"
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string     { return &s }
func timePtr(t time.Time) *time.Time {
	return &t
}

func testInputs() (EncounterInput, PatientInput, InsuranceInput, ProviderInput) {
	dob := time.Date(1980, 6, 15, 0, 0, 0, 0, time.UTC)
	enc := EncounterInput{
		Date: timePtr(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)),
		Diagnoses: []DiagnosisInput{
			{Code: "I10", Description: "Essential hypertension"},
		},
		Procedures: []ProcedureInput{
			{Code: "99213", Fee: 120},
		},
	}
	pat := PatientInput{
		FirstName:     "Jane",
		LastName:      "Doe",
		DOB:           &dob,
		Sex:           "F",
		AccountNumber: "ACCT-1001",
	}
	ins := InsuranceInput{
		PayerName:             "Acme Health",
		PayerID:               "60054",
		PayerType:             "commercial",
		MemberID:              "W123456789",
		RelationshipToInsured: "Self",
	}
	prov := ProviderInput{
		Name:  "Main Street Clinic",
		NPI:   "1234567890",
		TaxID: "123456789",
	}
	return enc, pat, ins, prov
}

func TestBuildComputesTotalCharge(t *testing.T) {
	enc, pat, ins, prov := testInputs()
	enc.Procedures = []ProcedureInput{
		{Code: "99213", Fee: 120},
		{Code: "81002", Fee: 15, Charge: floatPtr(12.5)},
	}

	c := NewBuilder().Build(enc, pat, ins, prov)

	if c.TotalCharge != 132.5 {
		t.Errorf("expected total charge 132.5, got %v", c.TotalCharge)
	}
	if c.ServiceLines[0].Charge != 120 {
		t.Errorf("expected fee fallback 120, got %v", c.ServiceLines[0].Charge)
	}
	if c.ServiceLines[1].Charge != 12.5 {
		t.Errorf("expected explicit charge to win, got %v", c.ServiceLines[1].Charge)
	}
}

func TestBuildDefaults(t *testing.T) {
	enc, pat, ins, prov := testInputs()
	c := NewBuilder().Build(enc, pat, ins, prov)

	if c.Status != StatusDraft {
		t.Errorf("expected draft status, got %s", c.Status)
	}
	if !strings.HasPrefix(c.ClaimNumber, "CLM-") {
		t.Errorf("unexpected claim number format: %s", c.ClaimNumber)
	}
	line := c.ServiceLines[0]
	if line.LineNumber != 1 {
		t.Errorf("expected line number 1, got %d", line.LineNumber)
	}
	if line.Units != 1 {
		t.Errorf("expected default 1 unit, got %d", line.Units)
	}
	if line.PlaceOfService != "11" {
		t.Errorf("expected default place of service 11, got %s", line.PlaceOfService)
	}
	if len(line.DiagnosisPointers) != 1 || line.DiagnosisPointers[0] != 1 {
		t.Errorf("expected default pointer [1], got %v", line.DiagnosisPointers)
	}
	if line.FromDate == nil || !line.FromDate.Equal(*enc.Date) {
		t.Errorf("expected line date to default to encounter date")
	}
	if c.Secondary != nil || c.AutoAccident != nil || c.HospitalizationFrom != nil {
		t.Errorf("expected absent optional boxes to stay nil")
	}
}

func TestBuildPointerLetters(t *testing.T) {
	enc, pat, ins, prov := testInputs()
	enc.Diagnoses = []DiagnosisInput{
		{Code: "I10"}, {Code: "E11.9"}, {Code: "Z79.4"},
	}

	c := NewBuilder().Build(enc, pat, ins, prov)

	want := []string{"A", "B", "C"}
	for i, d := range c.Diagnoses {
		if d.Pointer != want[i] {
			t.Errorf("diagnosis %d: expected pointer %s, got %s", i, want[i], d.Pointer)
		}
	}
}

func TestBuildTruncatesDiagnosesAtTwelve(t *testing.T) {
	enc, pat, ins, prov := testInputs()
	enc.Diagnoses = nil
	for i := 0; i < 15; i++ {
		enc.Diagnoses = append(enc.Diagnoses, DiagnosisInput{Code: "I10"})
	}

	c := NewBuilder().Build(enc, pat, ins, prov)

	if len(c.Diagnoses) != MaxDiagnoses {
		t.Errorf("expected %d diagnoses, got %d", MaxDiagnoses, len(c.Diagnoses))
	}
	if c.Diagnoses[11].Pointer != "L" {
		t.Errorf("expected last pointer L, got %s", c.Diagnoses[11].Pointer)
	}
}

func TestBuildSubscriberDefaultsToPatient(t *testing.T) {
	enc, pat, ins, prov := testInputs()
	c := NewBuilder().Build(enc, pat, ins, prov)

	if c.Subscriber.FirstName != "Jane" || c.Subscriber.LastName != "Doe" {
		t.Errorf("expected subscriber to mirror patient, got %s %s",
			c.Subscriber.FirstName, c.Subscriber.LastName)
	}
	if c.Subscriber.RelationshipToInsured != "Self" {
		t.Errorf("expected Self relationship, got %s", c.Subscriber.RelationshipToInsured)
	}
}

func TestBuildSeparateSubscriber(t *testing.T) {
	enc, pat, ins, prov := testInputs()
	ins.RelationshipToInsured = "Child"
	ins.Subscriber = &SubscriberInput{FirstName: "John", LastName: "Doe"}

	c := NewBuilder().Build(enc, pat, ins, prov)

	if c.Subscriber.FirstName != "John" {
		t.Errorf("expected subscriber John, got %s", c.Subscriber.FirstName)
	}
	if c.Patient.FirstName != "Jane" {
		t.Errorf("patient block should be untouched, got %s", c.Patient.FirstName)
	}
}

func TestBuildNeverFails(t *testing.T) {
	// Empty input still produces a draft; the validator flags it later.
	c := NewBuilder().Build(EncounterInput{}, PatientInput{}, InsuranceInput{}, ProviderInput{})
	if c == nil {
		t.Fatal("expected a claim from empty input")
	}
	if c.TotalCharge != 0 {
		t.Errorf("expected zero total, got %v", c.TotalCharge)
	}
	if c.Status != StatusDraft {
		t.Errorf("expected draft, got %s", c.Status)
	}
}
