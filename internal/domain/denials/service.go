package denials

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Legal denial status transitions. Assignment is orthogonal; a denial can
// be assigned in any non-terminal state.
var validTransitions = map[string][]string{
	DenialStatusNew:        {DenialStatusInProgress},
	DenialStatusInProgress: {DenialStatusResolved, DenialStatusEscalated},
}

// Legal task status transitions, mirroring the denial map.
var validTaskTransitions = map[string][]string{
	TaskStatusOpen:       {TaskStatusInProgress},
	TaskStatusInProgress: {TaskStatusCompleted},
}

// TxRunner executes fn atomically. The server wires db.WithTx bound to the
// connection pool; a nil runner executes fn directly.
type TxRunner func(ctx context.Context, fn func(context.Context) error) error

type Service struct {
	denials    DenialRepository
	tasks      TaskRepository
	classifier *Classifier
	tx         TxRunner
}

func NewService(denials DenialRepository, tasks TaskRepository, classifier *Classifier, tx TxRunner) *Service {
	return &Service{denials: denials, tasks: tasks, classifier: classifier, tx: tx}
}

func (s *Service) atomic(ctx context.Context, fn func(context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx(ctx, fn)
}

// RouteDenial classifies one denial, persists it and spawns its worklist
// task. Denial and task commit together; a denial never lands without its
// task.
func (s *Service) RouteDenial(ctx context.Context, raw RawDenial) (*RoutedDenial, *Task, error) {
	if raw.ReasonCode == "" {
		return nil, nil, fmt.Errorf("reason_code is required")
	}
	routed := s.classifier.Route(raw)
	task := s.classifier.CreateTask(routed)
	if err := s.atomic(ctx, func(ctx context.Context) error {
		if err := s.denials.Create(ctx, routed); err != nil {
			return err
		}
		return s.tasks.Create(ctx, task)
	}); err != nil {
		return nil, nil, err
	}
	return routed, task, nil
}

// BatchRoute classifies and persists a remittance batch in one transaction;
// a failing row rolls the whole batch back. The returned result preserves
// input order in All.
func (s *Service) BatchRoute(ctx context.Context, raws []RawDenial) (*BatchResult, error) {
	for i, raw := range raws {
		if raw.ReasonCode == "" {
			return nil, fmt.Errorf("denial %d: reason_code is required", i+1)
		}
	}
	result := s.classifier.BatchRoute(raws)
	if err := s.atomic(ctx, func(ctx context.Context) error {
		for _, routed := range result.All {
			if err := s.denials.Create(ctx, routed); err != nil {
				return err
			}
			if err := s.tasks.Create(ctx, s.classifier.CreateTask(routed)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) GetDenial(ctx context.Context, id uuid.UUID) (*RoutedDenial, error) {
	return s.denials.GetByID(ctx, id)
}

func (s *Service) ListDenials(ctx context.Context, status, department string, limit, offset int) ([]*RoutedDenial, int, error) {
	return s.denials.List(ctx, status, department, limit, offset)
}

// Statistics summarizes every stored denial as of now.
func (s *Service) Statistics(ctx context.Context) (*Stats, error) {
	all, err := s.denials.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.classifier.Statistics(all), nil
}

func (s *Service) UpdateDenialStatus(ctx context.Context, id uuid.UUID, status string) (*RoutedDenial, error) {
	d, err := s.denials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(d.Status, status) {
		return nil, fmt.Errorf("cannot move denial from %s to %s", d.Status, status)
	}
	if err := s.denials.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	d.Status = status
	return d, nil
}

func (s *Service) AssignDenial(ctx context.Context, id uuid.UUID, assignee string) (*RoutedDenial, error) {
	if assignee == "" {
		return nil, fmt.Errorf("assignee is required")
	}
	d, err := s.denials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status == DenialStatusResolved {
		return nil, fmt.Errorf("resolved denials cannot be reassigned")
	}
	if err := s.denials.Assign(ctx, id, assignee); err != nil {
		return nil, err
	}
	d.Assignee = &assignee
	return d, nil
}

func (s *Service) GetTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *Service) ListTasks(ctx context.Context, department string, limit, offset int) ([]*Task, int, error) {
	return s.tasks.List(ctx, department, limit, offset)
}

func (s *Service) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status string) (*Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !taskTransitionAllowed(task.Status, status) {
		return nil, fmt.Errorf("cannot move task from %s to %s", task.Status, status)
	}
	if err := s.tasks.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, id)
}

func (s *Service) AddTaskNote(ctx context.Context, id uuid.UUID, note string) (*Task, error) {
	if note == "" {
		return nil, fmt.Errorf("note is required")
	}
	if err := s.tasks.AddNote(ctx, id, note); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, id)
}

func transitionAllowed(from, to string) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func taskTransitionAllowed(from, to string) bool {
	for _, s := range validTaskTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
