package denials

// Per-category work checklists. Four concrete steps per known category; an
// unclassified denial gets one generic triage item.
var categoryActions = map[Category][]string{
	CategoryEligibility: {
		"Verify coverage dates with the payer portal",
		"Confirm member ID and plan enrollment",
		"Check for a replacement or secondary policy",
		"Rebill with corrected coverage information",
	},
	CategoryCoding: {
		"Review CPT and ICD-10 pairing against coding guidelines",
		"Check modifier usage and bundling edits",
		"Query the provider for documentation if needed",
		"Submit a corrected claim",
	},
	CategoryMedicalNecessity: {
		"Pull clinical documentation for the service",
		"Compare against the payer medical policy",
		"Draft an appeal letter with supporting records",
		"Submit the appeal before the filing deadline",
	},
	CategoryAuthorization: {
		"Check whether an authorization exists for the service date",
		"Request a retro-authorization if the payer allows it",
		"Attach the authorization number and rebill",
		"Appeal with clinical documentation if retro-auth is denied",
	},
	CategoryBilling: {
		"Confirm the claim is not a true duplicate",
		"Verify coordination of benefits ordering",
		"Check the timely filing date and waiver options",
		"Rebill or appeal with proof of timely submission",
	},
	CategoryDemographics: {
		"Verify patient name, DOB and sex against registration",
		"Correct the member ID or subscriber linkage",
		"Update the registration record",
		"Resubmit with corrected demographics",
	},
	CategoryContractual: {
		"Compare the allowed amount to the fee schedule",
		"Verify contract rates for the billed code",
		"Post the contractual adjustment if correct",
		"Dispute with the payer if the rate is wrong",
	},
}

var genericActions = []string{
	"Review the denial and route to the appropriate team",
}

func recommendedActions(cat Category) []string {
	if actions, ok := categoryActions[cat]; ok {
		out := make([]string, len(actions))
		copy(out, actions)
		return out
	}
	out := make([]string, len(genericActions))
	copy(out, genericActions)
	return out
}
