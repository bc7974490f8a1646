package denials

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saiharsha61/RCM-Billing-sub001/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Denial Repository ===========

type denialRepoPG struct{ pool *pgxpool.Pool }

func NewDenialRepoPG(pool *pgxpool.Pool) DenialRepository { return &denialRepoPG{pool: pool} }

func (r *denialRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const denialCols = `id, reason_code, reason_description, claim_number, patient_name,
	amount, denial_date, category, department, priority, sla_hours,
	due_date, status, assignee, created_at`

func (r *denialRepoPG) scanDenial(row pgx.Row) (*RoutedDenial, error) {
	var d RoutedDenial
	err := row.Scan(&d.ID, &d.ReasonCode, &d.ReasonDescription, &d.ClaimNumber, &d.PatientName,
		&d.Amount, &d.DenialDate, &d.Category, &d.Department, &d.Priority, &d.SLAHours,
		&d.DueDate, &d.Status, &d.Assignee, &d.CreatedAt)
	return &d, err
}

func (r *denialRepoPG) Create(ctx context.Context, d *RoutedDenial) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO denial (id, reason_code, reason_description, claim_number, patient_name,
			amount, denial_date, category, department, priority, sla_hours,
			due_date, status, assignee)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		d.ID, d.ReasonCode, d.ReasonDescription, d.ClaimNumber, d.PatientName,
		d.Amount, d.DenialDate, d.Category, d.Department, d.Priority, d.SLAHours,
		d.DueDate, d.Status, d.Assignee)
	return err
}

func (r *denialRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*RoutedDenial, error) {
	return r.scanDenial(r.conn(ctx).QueryRow(ctx, `SELECT `+denialCols+` FROM denial WHERE id = $1`, id))
}

func (r *denialRepoPG) List(ctx context.Context, status, department string, limit, offset int) ([]*RoutedDenial, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	if status != "" {
		args = append(args, status)
		where += ` AND status = $1`
	}
	if department != "" {
		args = append(args, department)
		if len(args) == 1 {
			where += ` AND department = $1`
		} else {
			where += ` AND department = $2`
		}
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM denial`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := `SELECT ` + denialCols + ` FROM denial` + where +
		` ORDER BY due_date ASC LIMIT $` + itoa(n+1) + ` OFFSET $` + itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*RoutedDenial
	for rows.Next() {
		d, err := r.scanDenial(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

func (r *denialRepoPG) ListAll(ctx context.Context) ([]*RoutedDenial, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+denialCols+` FROM denial ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*RoutedDenial
	for rows.Next() {
		d, err := r.scanDenial(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *denialRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE denial SET status = $2 WHERE id = $1`, id, status)
	return err
}

func (r *denialRepoPG) Assign(ctx context.Context, id uuid.UUID, assignee string) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE denial SET assignee = $2 WHERE id = $1`, id, assignee)
	return err
}

// =========== Task Repository ===========

type taskRepoPG struct{ pool *pgxpool.Pool }

func NewTaskRepoPG(pool *pgxpool.Pool) TaskRepository { return &taskRepoPG{pool: pool} }

func (r *taskRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const taskCols = `id, denial_id, task_number, title, description, department,
	priority, priority_order, due_date, status, assignee,
	recommended_actions, notes, created_at, completed_at`

func (r *taskRepoPG) scanTask(row pgx.Row) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.DenialID, &t.TaskNumber, &t.Title, &t.Description, &t.Department,
		&t.Priority, &t.PriorityOrder, &t.DueDate, &t.Status, &t.Assignee,
		&t.RecommendedActions, &t.Notes, &t.CreatedAt, &t.CompletedAt)
	return &t, err
}

func (r *taskRepoPG) Create(ctx context.Context, t *Task) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO denial_task (id, denial_id, task_number, title, description, department,
			priority, priority_order, due_date, status, assignee, recommended_actions, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		t.ID, t.DenialID, t.TaskNumber, t.Title, t.Description, t.Department,
		t.Priority, t.PriorityOrder, t.DueDate, t.Status, t.Assignee, t.RecommendedActions, t.Notes)
	return err
}

func (r *taskRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	return r.scanTask(r.conn(ctx).QueryRow(ctx, `SELECT `+taskCols+` FROM denial_task WHERE id = $1`, id))
}

func (r *taskRepoPG) List(ctx context.Context, department string, limit, offset int) ([]*Task, int, error) {
	where := ``
	args := []interface{}{}
	if department != "" {
		where = ` WHERE department = $1`
		args = append(args, department)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM denial_task`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := `SELECT ` + taskCols + ` FROM denial_task` + where +
		` ORDER BY priority_order ASC, due_date ASC LIMIT $` + itoa(n+1) + ` OFFSET $` + itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Task
	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

func (r *taskRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if status == "completed" {
		_, err := r.conn(ctx).Exec(ctx,
			`UPDATE denial_task SET status = $2, completed_at = NOW() WHERE id = $1`, id, status)
		return err
	}
	_, err := r.conn(ctx).Exec(ctx, `UPDATE denial_task SET status = $2 WHERE id = $1`, id, status)
	return err
}

func (r *taskRepoPG) AddNote(ctx context.Context, id uuid.UUID, note string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE denial_task SET notes = array_append(notes, $2) WHERE id = $1`, id, note)
	return err
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
