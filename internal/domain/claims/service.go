package claims

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Legal status transitions. Resubmission is not a transition; it creates a
// new claim referencing the original.
var validTransitions = map[string][]string{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusAccepted, StatusRejected},
	StatusAccepted:  {StatusPaid, StatusDenied},
}

// TxRunner executes fn atomically. The server wires db.WithTx bound to the
// connection pool; a nil runner executes fn directly.
type TxRunner func(ctx context.Context, fn func(context.Context) error) error

type Service struct {
	repo      Repository
	builder   *Builder
	validator *Validator
	encoder   *Encoder
	tx        TxRunner
}

func NewService(repo Repository, validator *Validator, encoder *Encoder, tx TxRunner) *Service {
	return &Service{repo: repo, builder: NewBuilder(), validator: validator, encoder: encoder, tx: tx}
}

func (s *Service) atomic(ctx context.Context, fn func(context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx(ctx, fn)
}

// BuildClaim assembles a draft claim from raw encounter data and persists
// it. Drafts may be incomplete; validation happens separately. The claim row
// and its diagnosis and service line rows commit together.
func (s *Service) BuildClaim(ctx context.Context, enc EncounterInput, pat PatientInput, ins InsuranceInput, prov ProviderInput) (*Claim, error) {
	c := s.builder.Build(enc, pat, ins, prov)
	if err := s.atomic(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, c)
	}); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetClaim(ctx context.Context, id uuid.UUID) (*Claim, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetClaimByNumber(ctx context.Context, claimNumber string) (*Claim, error) {
	return s.repo.GetByClaimNumber(ctx, claimNumber)
}

func (s *Service) ListClaims(ctx context.Context, status string, limit, offset int) ([]*Claim, int, error) {
	if status != "" && !knownStatus(status) {
		return nil, 0, fmt.Errorf("invalid claim status: %s", status)
	}
	return s.repo.List(ctx, status, limit, offset)
}

// ValidateClaim runs the rule battery against a stored claim.
func (s *Service) ValidateClaim(ctx context.Context, id uuid.UUID) (*ValidationReport, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.validator.Validate(c), nil
}

// ExportEDI renders a stored claim as an 837P transaction. Export does not
// require the claim to be valid; callers previewing a draft see exactly
// what would go over the wire.
func (s *Service) ExportEDI(ctx context.Context, id uuid.UUID) (string, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.encoder.Encode(c), nil
}

// SubmitClaim moves a draft to submitted. Submission is gated on a clean
// validation pass; the report is returned either way so callers can show
// what blocked it.
func (s *Service) SubmitClaim(ctx context.Context, id uuid.UUID) (*Claim, *ValidationReport, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if c.Status != StatusDraft {
		return nil, nil, fmt.Errorf("claim %s is %s, only draft claims can be submitted", c.ClaimNumber, c.Status)
	}
	report := s.validator.Validate(c)
	if !report.Valid {
		return c, report, fmt.Errorf("claim %s failed validation with %d error(s)", c.ClaimNumber, len(report.Errors))
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusSubmitted); err != nil {
		return nil, nil, err
	}
	c.Status = StatusSubmitted
	return c, report, nil
}

// UpdateStatus applies a payer-driven lifecycle transition.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Claim, error) {
	if !knownStatus(status) {
		return nil, fmt.Errorf("invalid claim status: %s", status)
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(c.Status, status) {
		return nil, fmt.Errorf("cannot move claim %s from %s to %s", c.ClaimNumber, c.Status, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	c.Status = status
	return c, nil
}

// ResubmitClaim clones a rejected or denied claim into a fresh draft that
// references the original. The original keeps its terminal status.
func (s *Service) ResubmitClaim(ctx context.Context, id uuid.UUID) (*Claim, error) {
	orig, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if orig.Status != StatusRejected && orig.Status != StatusDenied {
		return nil, fmt.Errorf("claim %s is %s, only rejected or denied claims can be resubmitted", orig.ClaimNumber, orig.Status)
	}

	clone := *orig
	clone.ID = uuid.New()
	clone.ClaimNumber = newClaimNumber(time.Now().UTC())
	clone.Status = StatusDraft
	origID := orig.ID
	clone.ResubmissionOf = &origID
	clone.Diagnoses = append([]DiagnosisEntry(nil), orig.Diagnoses...)
	clone.ServiceLines = append([]ServiceLine(nil), orig.ServiceLines...)

	if err := s.atomic(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, &clone)
	}); err != nil {
		return nil, err
	}
	return &clone, nil
}

func knownStatus(status string) bool {
	switch status {
	case StatusDraft, StatusSubmitted, StatusAccepted, StatusRejected, StatusPaid, StatusDenied:
		return true
	}
	return false
}

func transitionAllowed(from, to string) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
