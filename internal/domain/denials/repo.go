package denials

import (
	"context"

	"github.com/google/uuid"
)

type DenialRepository interface {
	Create(ctx context.Context, d *RoutedDenial) error
	GetByID(ctx context.Context, id uuid.UUID) (*RoutedDenial, error)
	List(ctx context.Context, status, department string, limit, offset int) ([]*RoutedDenial, int, error)
	ListAll(ctx context.Context) ([]*RoutedDenial, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Assign(ctx context.Context, id uuid.UUID, assignee string) error
}

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	List(ctx context.Context, department string, limit, offset int) ([]*Task, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	AddNote(ctx context.Context, id uuid.UUID, note string) error
}
