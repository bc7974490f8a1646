package claims

import (
	"fmt"
	"strings"
)

// DefaultHighCostCodes are procedures that payers routinely deny without a
// prior authorization on file (advanced imaging, joint replacement,
// endoscopy).
var DefaultHighCostCodes = map[string]bool{
	"70553": true,
	"72148": true,
	"27447": true,
	"43239": true,
}

// Validator runs payer and regulatory rule checks over a claim. It is pure
// and stateless; calling Validate repeatedly on the same claim yields the
// same report.
type Validator struct {
	highCostCodes map[string]bool
}

// NewValidator builds a validator with the default high-cost procedure set.
func NewValidator() *Validator {
	return &Validator{highCostCodes: DefaultHighCostCodes}
}

// NewValidatorWithHighCostCodes builds a validator with a custom high-cost
// procedure set. Used by tests and payer-specific configurations.
func NewValidatorWithHighCostCodes(codes map[string]bool) *Validator {
	return &Validator{highCostCodes: codes}
}

// Validate runs every check and reports all findings in one pass. Checks
// never short-circuit; a claim missing its patient block still gets its
// service line findings.
func (v *Validator) Validate(c *Claim) *ValidationReport {
	r := &ValidationReport{ClaimNumber: c.ClaimNumber}

	v.checkRequiredFields(c, r)
	v.checkServiceLines(c, r)
	v.checkPriorAuth(c, r)

	r.Valid = len(r.Errors) == 0
	return r
}

func (v *Validator) checkRequiredFields(c *Claim, r *ValidationReport) {
	if c.Subscriber.MemberID == "" {
		r.addError("subscriberId", "subscriber member ID is required")
	}
	if c.Patient.FirstName == "" || c.Patient.LastName == "" {
		r.addError("patientName", "patient first and last name are required")
	}
	if c.Patient.DOB == nil {
		r.addError("patientDOB", "patient date of birth is required")
	}
	if c.Patient.Sex == "" {
		r.addError("patientSex", "patient sex is required")
	}
	if len(c.Diagnoses) == 0 {
		r.addError("diagnoses", "at least one diagnosis is required")
	}
	if len(c.ServiceLines) == 0 {
		r.addError("serviceLines", "at least one service line is required")
	}
	if c.BillingProvider.NPI == "" {
		r.addError("billingNPI", "billing provider NPI is required")
	}
	if c.BillingProvider.TaxID == "" {
		r.addError("federalTaxId", "billing provider federal tax ID is required")
	}
}

func (v *Validator) checkServiceLines(c *Claim, r *ValidationReport) {
	for i, line := range c.ServiceLines {
		field := fmt.Sprintf("serviceLines[%d]", i+1)
		if line.CPTCode == "" {
			r.addError(field+".cptCode", fmt.Sprintf("service line %d is missing a CPT code", i+1))
		}
		if len(line.DiagnosisPointers) == 0 {
			r.addError(field+".diagnosisPointers", fmt.Sprintf("service line %d has no diagnosis pointers", i+1))
		}
		if line.Charge <= 0 {
			r.addError(field+".charge", fmt.Sprintf("service line %d has a missing or non-positive charge", i+1))
		}
		// Drug HCPCS codes (J-series) need an NDC for most payers.
		if strings.HasPrefix(line.CPTCode, "J") && line.NDCCode == nil {
			r.addWarning(field+".ndcCode", fmt.Sprintf("service line %d bills drug code %s without an NDC", i+1, line.CPTCode))
		}
	}
}

func (v *Validator) checkPriorAuth(c *Claim, r *ValidationReport) {
	if c.PriorAuthNumber != nil && *c.PriorAuthNumber != "" {
		return
	}
	for i, line := range c.ServiceLines {
		if v.highCostCodes[line.CPTCode] {
			r.addWarning(fmt.Sprintf("serviceLines[%d].cptCode", i+1),
				fmt.Sprintf("procedure %s typically requires prior authorization", line.CPTCode))
		}
	}
}

func (r *ValidationReport) addError(field, message string) {
	r.Errors = append(r.Errors, Issue{Field: field, Message: message})
}

func (r *ValidationReport) addWarning(field, message string) {
	r.Warnings = append(r.Warnings, Issue{Field: field, Message: message})
}
