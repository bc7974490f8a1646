package claims

import (
	"reflect"
	"testing"
)

func validClaim() *Claim {
	enc, pat, ins, prov := testInputs()
	return NewBuilder().Build(enc, pat, ins, prov)
}

func hasIssue(issues []Issue, field string) bool {
	for _, i := range issues {
		if i.Field == field {
			return true
		}
	}
	return false
}

func TestValidateCleanClaim(t *testing.T) {
	r := NewValidator().Validate(validClaim())
	if !r.Valid {
		t.Fatalf("expected valid claim, got errors: %+v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", r.Warnings)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	c := validClaim()
	c.Subscriber.MemberID = ""
	c.Patient.FirstName = ""
	c.Patient.DOB = nil
	c.Patient.Sex = ""
	c.Diagnoses = nil
	c.ServiceLines = nil
	c.BillingProvider.NPI = ""
	c.BillingProvider.TaxID = ""

	r := NewValidator().Validate(c)

	if r.Valid {
		t.Fatal("expected invalid claim")
	}
	for _, field := range []string{
		"subscriberId", "patientName", "patientDOB", "patientSex",
		"diagnoses", "serviceLines", "billingNPI", "federalTaxId",
	} {
		if !hasIssue(r.Errors, field) {
			t.Errorf("expected error for %s", field)
		}
	}
}

func TestValidateServiceLineErrors(t *testing.T) {
	c := validClaim()
	c.ServiceLines = append(c.ServiceLines, ServiceLine{
		LineNumber:        2,
		DiagnosisPointers: nil,
		Charge:            0,
	})

	r := NewValidator().Validate(c)

	if r.Valid {
		t.Fatal("expected invalid claim")
	}
	for _, field := range []string{
		"serviceLines[2].cptCode",
		"serviceLines[2].diagnosisPointers",
		"serviceLines[2].charge",
	} {
		if !hasIssue(r.Errors, field) {
			t.Errorf("expected error for %s", field)
		}
	}
	if hasIssue(r.Errors, "serviceLines[1].cptCode") {
		t.Error("first line should be clean")
	}
}

func TestValidateDrugCodeWarning(t *testing.T) {
	c := validClaim()
	c.ServiceLines[0].CPTCode = "J1100"

	r := NewValidator().Validate(c)

	if !hasIssue(r.Warnings, "serviceLines[1].ndcCode") {
		t.Error("expected NDC warning for J-code without NDC")
	}
	if !r.Valid {
		t.Error("warnings must not affect validity")
	}

	c.ServiceLines[0].NDCCode = strPtr("00002-7510-01")
	r = NewValidator().Validate(c)
	if hasIssue(r.Warnings, "serviceLines[1].ndcCode") {
		t.Error("no warning expected once NDC is present")
	}
}

func TestValidatePriorAuthWarning(t *testing.T) {
	c := validClaim()
	c.ServiceLines[0].CPTCode = "70553"

	r := NewValidator().Validate(c)
	if !hasIssue(r.Warnings, "serviceLines[1].cptCode") {
		t.Error("expected prior auth warning for high-cost code")
	}

	c.PriorAuthNumber = strPtr("AUTH-42")
	r = NewValidator().Validate(c)
	if hasIssue(r.Warnings, "serviceLines[1].cptCode") {
		t.Error("no warning expected with prior auth on file")
	}
}

func TestValidateWarningsIndependentOfErrors(t *testing.T) {
	c := validClaim()
	c.Patient.DOB = nil
	c.ServiceLines[0].CPTCode = "J1885"

	r := NewValidator().Validate(c)

	if r.Valid {
		t.Fatal("expected invalid claim")
	}
	if !hasIssue(r.Errors, "patientDOB") {
		t.Error("expected patientDOB error")
	}
	if !hasIssue(r.Warnings, "serviceLines[1].ndcCode") {
		t.Error("warning should still be computed on an invalid claim")
	}
}

func TestValidateIdempotent(t *testing.T) {
	c := validClaim()
	c.Patient.Sex = ""
	c.ServiceLines[0].CPTCode = "J1885"

	first := NewValidator().Validate(c)
	second := NewValidator().Validate(c)

	if !reflect.DeepEqual(first.Errors, second.Errors) {
		t.Error("errors differ between passes")
	}
	if !reflect.DeepEqual(first.Warnings, second.Warnings) {
		t.Error("warnings differ between passes")
	}
}

func TestValidateCustomHighCostSet(t *testing.T) {
	v := NewValidatorWithHighCostCodes(map[string]bool{"99213": true})
	r := v.Validate(validClaim())
	if !hasIssue(r.Warnings, "serviceLines[1].cptCode") {
		t.Error("expected warning from injected high-cost set")
	}
}
