package denials

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultRules is the standard routing table. Order is load-bearing: the
// first rule whose code set contains the reason code wins, so overlapping
// codes (18 appears under both coding and billing) resolve to the earlier
// rule.
var DefaultRules = []CategoryRule{
	{Category: CategoryEligibility, Codes: []string{"26", "27", "31", "32", "33", "200"},
		Department: "Eligibility", Priority: "high", SLAHours: 24},
	{Category: CategoryCoding, Codes: []string{"4", "11", "16", "18", "97", "181"},
		Department: "Coding", Priority: "medium", SLAHours: 48},
	{Category: CategoryMedicalNecessity, Codes: []string{"50", "55", "56", "167"},
		Department: "Clinical Review", Priority: "high", SLAHours: 48},
	{Category: CategoryAuthorization, Codes: []string{"15", "62", "197", "198"},
		Department: "Authorizations", Priority: "high", SLAHours: 24},
	{Category: CategoryBilling, Codes: []string{"18", "22", "23", "29", "109", "B7"},
		Department: "Billing", Priority: "medium", SLAHours: 72},
	{Category: CategoryDemographics, Codes: []string{"6", "8", "9", "10", "13", "140"},
		Department: "Patient Access", Priority: "low", SLAHours: 72},
	{Category: CategoryContractual, Codes: []string{"45", "59", "94", "104"},
		Department: "Contracting", Priority: "low", SLAHours: 96},
}

// DefaultDescriptions maps CARC codes to human-readable reason text.
var DefaultDescriptions = map[string]string{
	"4":   "Procedure code inconsistent with modifier",
	"6":   "Procedure/revenue code inconsistent with patient age",
	"8":   "Procedure code inconsistent with provider type",
	"9":   "Diagnosis inconsistent with patient age",
	"10":  "Diagnosis inconsistent with patient gender",
	"11":  "Diagnosis inconsistent with procedure",
	"13":  "Date of death precedes date of service",
	"15":  "Authorization number missing or invalid",
	"16":  "Claim lacks information needed for adjudication",
	"18":  "Exact duplicate claim or service",
	"22":  "Care may be covered by another payer",
	"23":  "Impact of prior payer adjudication",
	"26":  "Expenses incurred prior to coverage",
	"27":  "Expenses incurred after coverage terminated",
	"29":  "Time limit for filing has expired",
	"31":  "Patient cannot be identified as our insured",
	"32":  "Our records indicate patient is not an eligible dependent",
	"33":  "Insured has no dependent coverage",
	"45":  "Charge exceeds fee schedule or contracted rate",
	"50":  "Non-covered service, not deemed a medical necessity",
	"55":  "Procedure deemed experimental or investigational",
	"56":  "Procedure not proven effective by the payer",
	"59":  "Processed based on multiple or concurrent procedure rules",
	"62":  "Procedure requires prior authorization",
	"94":  "Processed in excess of charges",
	"97":  "Benefit included in payment for another service",
	"104": "Managed care withholding",
	"109": "Claim not covered by this payer or contractor",
	"140": "Patient/insured health identification number mismatch",
	"167": "Diagnosis not covered",
	"181": "Procedure code invalid on date of service",
	"197": "Precertification/authorization absent",
	"198": "Precertification/authorization exceeded",
	"200": "Expenses incurred during lapse in coverage",
	"B7":  "Provider not certified/eligible for this service",
}

// unclassified fallback routing.
const (
	fallbackDepartment = "Billing"
	fallbackPriority   = "medium"
	fallbackSLAHours   = 48
	unknownReasonText  = "Unknown reason code"
)

// Classifier routes denials against an ordered rule table. Rules and
// descriptions are injected at construction so alternate payer tables can
// be tested without touching package state.
type Classifier struct {
	rules        []CategoryRule
	descriptions map[string]string
	now          func() time.Time
}

// NewClassifier builds a classifier over the default rule and description
// tables.
func NewClassifier() *Classifier {
	return NewClassifierWithRules(DefaultRules, DefaultDescriptions)
}

func NewClassifierWithRules(rules []CategoryRule, descriptions map[string]string) *Classifier {
	return &Classifier{rules: rules, descriptions: descriptions, now: time.Now}
}

// Route classifies a single denial. It is total: an unknown reason code
// falls back to the unclassified category rather than failing.
func (c *Classifier) Route(d RawDenial) *RoutedDenial {
	now := c.now().UTC()
	denialDate := now
	if d.DenialDate != nil {
		denialDate = *d.DenialDate
	}

	routed := &RoutedDenial{
		ID:          uuid.New(),
		ReasonCode:  d.ReasonCode,
		ClaimNumber: d.ClaimNumber,
		PatientName: d.PatientName,
		Amount:      d.Amount,
		DenialDate:  denialDate,
		Status:      DenialStatusNew,
		CreatedAt:   now,
	}

	rule, ok := c.match(d.ReasonCode)
	if ok {
		routed.Category = rule.Category
		routed.Department = rule.Department
		routed.Priority = rule.Priority
		routed.SLAHours = rule.SLAHours
	} else {
		routed.Category = CategoryUnclassified
		routed.Department = fallbackDepartment
		routed.Priority = fallbackPriority
		routed.SLAHours = fallbackSLAHours
	}

	routed.DueDate = addHours(denialDate, routed.SLAHours)

	if desc, ok := c.descriptions[d.ReasonCode]; ok {
		routed.ReasonDescription = desc
	} else {
		routed.ReasonDescription = unknownReasonText
	}

	return routed
}

func (c *Classifier) match(code string) (CategoryRule, bool) {
	for _, rule := range c.rules {
		for _, rc := range rule.Codes {
			if rc == code {
				return rule, true
			}
		}
	}
	return CategoryRule{}, false
}

// BatchRoute routes every denial, preserving input order in All, and rolls
// up per-department counts, amounts and high-priority counters.
func (c *Classifier) BatchRoute(ds []RawDenial) *BatchResult {
	result := &BatchResult{
		ByDepartment: make(map[string]*DepartmentBucket),
		All:          make([]*RoutedDenial, 0, len(ds)),
	}
	for _, d := range ds {
		routed := c.Route(d)
		result.All = append(result.All, routed)

		bucket := result.ByDepartment[routed.Department]
		if bucket == nil {
			bucket = &DepartmentBucket{}
			result.ByDepartment[routed.Department] = bucket
		}
		bucket.Count++
		bucket.TotalAmount += routed.Amount
		if routed.Priority == "high" {
			bucket.HighPriority++
		}

		result.Summary.TotalCount++
		result.Summary.TotalAmount += routed.Amount
	}
	result.Summary.DepartmentCount = len(result.ByDepartment)
	return result
}

// Statistics summarizes routed denials as of now. A denial counts as
// overdue only while still new; resolving it clears it from the overdue
// count even when the due date has long passed.
func (c *Classifier) Statistics(ds []*RoutedDenial) *Stats {
	now := c.now().UTC()
	stats := &Stats{
		ByDepartment: make(map[string]DepartmentStats),
		ByPriority:   map[string]int{"high": 0, "medium": 0, "low": 0},
		ByCategory:   make(map[string]int),
	}
	for _, d := range ds {
		stats.TotalCount++
		stats.TotalAmount += d.Amount

		dept := stats.ByDepartment[d.Department]
		dept.Count++
		dept.TotalAmount += d.Amount
		stats.ByDepartment[d.Department] = dept

		stats.ByPriority[d.Priority]++
		stats.ByCategory[string(d.Category)]++

		if d.Status == DenialStatusNew && d.DueDate.Before(now) {
			stats.Overdue++
		}
	}
	return stats
}

// CreateTask derives a worklist task from a routed denial.
func (c *Classifier) CreateTask(d *RoutedDenial) *Task {
	now := c.now().UTC()
	return &Task{
		ID:         uuid.New(),
		DenialID:   d.ID,
		TaskNumber: newTaskNumber(now),
		Title:      fmt.Sprintf("Work denial %s: %s", d.ClaimNumber, d.ReasonDescription),
		Description: fmt.Sprintf("Claim %s for %s denied with reason code %s ($%s). Route to %s.",
			d.ClaimNumber, d.PatientName, d.ReasonCode, formatAmount(d.Amount), d.Department),
		Department:         d.Department,
		Priority:           d.Priority,
		PriorityOrder:      priorityOrder(d.Priority),
		DueDate:            d.DueDate,
		Status:             TaskStatusOpen,
		RecommendedActions: recommendedActions(d.Category),
		Notes:              []string{},
		CreatedAt:          now,
	}
}

// addHours advances a civil timestamp by whole hours. time.Date normalizes
// across DST transitions where a flat Duration multiply would drift.
func addHours(t time.Time, hours int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+hours,
		t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func priorityOrder(priority string) int {
	switch priority {
	case "high":
		return 1
	case "medium":
		return 2
	case "low":
		return 3
	default:
		return 2
	}
}

func formatAmount(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func newTaskNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("TSK-%d-%s", now.UnixMilli(), suffix)
}
