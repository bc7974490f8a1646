package denials

import (
	"time"

	"github.com/google/uuid"
)

// Denial categories. The classifier matches against an ordered rule list,
// so the category set is closed; adding a category means adding a rule with
// its department, priority, SLA and action checklist.
type Category string

const (
	CategoryEligibility      Category = "eligibility"
	CategoryCoding           Category = "coding"
	CategoryMedicalNecessity Category = "medicalNecessity"
	CategoryAuthorization    Category = "authorization"
	CategoryBilling          Category = "billing"
	CategoryDemographics     Category = "demographics"
	CategoryContractual      Category = "contractual"
	CategoryUnclassified     Category = "unclassified"
)

// Denial statuses.
const (
	DenialStatusNew        = "new"
	DenialStatusInProgress = "in-progress"
	DenialStatusResolved   = "resolved"
	DenialStatusEscalated  = "escalated"
)

// Task statuses. Completion is terminal; a reopened issue gets a new task.
const (
	TaskStatusOpen       = "open"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
)

// CategoryRule binds a set of CARC reason codes to a routing outcome. Rules
// are evaluated in slice order and the first match wins; a code may appear
// in more than one rule, with the earlier rule taking precedence.
type CategoryRule struct {
	Category   Category `json:"category"`
	Codes      []string `json:"codes"`
	Department string   `json:"department"`
	Priority   string   `json:"priority"`
	SLAHours   int      `json:"sla_hours"`
}

// RawDenial is a denial as received from a remittance feed. Reason codes
// stay strings; "18" and "B7" live in the same code space.
type RawDenial struct {
	ReasonCode  string     `json:"reason_code"`
	ClaimNumber string     `json:"claim_number"`
	PatientName string     `json:"patient_name"`
	Amount      float64    `json:"amount"`
	DenialDate  *time.Time `json:"denial_date,omitempty"`
}

// RoutedDenial is a RawDenial enriched with its classification outcome.
type RoutedDenial struct {
	ID                uuid.UUID `db:"id" json:"id"`
	ReasonCode        string    `db:"reason_code" json:"reason_code"`
	ReasonDescription string    `db:"reason_description" json:"reason_description"`
	ClaimNumber       string    `db:"claim_number" json:"claim_number"`
	PatientName       string    `db:"patient_name" json:"patient_name"`
	Amount            float64   `db:"amount" json:"amount"`
	DenialDate        time.Time `db:"denial_date" json:"denial_date"`
	Category          Category  `db:"category" json:"category"`
	Department        string    `db:"department" json:"department"`
	Priority          string    `db:"priority" json:"priority"`
	SLAHours          int       `db:"sla_hours" json:"sla_hours"`
	DueDate           time.Time `db:"due_date" json:"due_date"`
	Status            string    `db:"status" json:"status"`
	Assignee          *string   `db:"assignee" json:"assignee,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// Task is a worklist item derived from a routed denial. It copies the
// fields it needs so later edits (status, notes, assignee) never touch the
// originating denial record.
type Task struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	DenialID           uuid.UUID  `db:"denial_id" json:"denial_id"`
	TaskNumber         string     `db:"task_number" json:"task_number"`
	Title              string     `db:"title" json:"title"`
	Description        string     `db:"description" json:"description"`
	Department         string     `db:"department" json:"department"`
	Priority           string     `db:"priority" json:"priority"`
	PriorityOrder      int        `db:"priority_order" json:"priority_order"`
	DueDate            time.Time  `db:"due_date" json:"due_date"`
	Status             string     `db:"status" json:"status"`
	Assignee           *string    `db:"assignee" json:"assignee,omitempty"`
	RecommendedActions []string   `db:"recommended_actions" json:"recommended_actions"`
	Notes              []string   `db:"notes" json:"notes"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	CompletedAt        *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// DepartmentBucket accumulates one department's share of a batch.
type DepartmentBucket struct {
	Count        int     `json:"count"`
	TotalAmount  float64 `json:"total_amount"`
	HighPriority int     `json:"high_priority"`
}

// BatchSummary is the top-line rollup of one batch routing pass.
type BatchSummary struct {
	TotalCount      int     `json:"total_count"`
	TotalAmount     float64 `json:"total_amount"`
	DepartmentCount int     `json:"department_count"`
}

// BatchResult is the full outcome of BatchRoute. All preserves input order;
// the bucket map does not.
type BatchResult struct {
	Summary      BatchSummary                 `json:"summary"`
	ByDepartment map[string]*DepartmentBucket `json:"by_department"`
	All          []*RoutedDenial              `json:"all"`
}

// DepartmentStats is one department's slice of the statistics rollup.
type DepartmentStats struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// Stats summarizes a set of routed denials for dashboard consumption.
// ByPriority always carries the high/medium/low keys, zeroed when empty.
type Stats struct {
	TotalCount   int                        `json:"total_count"`
	TotalAmount  float64                    `json:"total_amount"`
	ByDepartment map[string]DepartmentStats `json:"by_department"`
	ByPriority   map[string]int             `json:"by_priority"`
	ByCategory   map[string]int             `json:"by_category"`
	Overdue      int                        `json:"overdue"`
}
