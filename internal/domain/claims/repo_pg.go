package claims

import (
	"context"

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

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const claimCols = `id, claim_number, status, resubmission_of, payer_type, prior_auth_number,
	patient, subscriber, secondary_insurance,
	billing_provider, rendering_provider, facility,
	total_charge, auto_accident, other_accident, accident_state,
	hospitalization_from, hospitalization_to, created_at, updated_at`

func (r *repoPG) scanClaim(row pgx.Row) (*Claim, error) {
	var c Claim
	err := row.Scan(&c.ID, &c.ClaimNumber, &c.Status, &c.ResubmissionOf, &c.PayerType, &c.PriorAuthNumber,
		&c.Patient, &c.Subscriber, &c.Secondary,
		&c.BillingProvider, &c.RenderingProvider, &c.Facility,
		&c.TotalCharge, &c.AutoAccident, &c.OtherAccident, &c.AccidentState,
		&c.HospitalizationFrom, &c.HospitalizationTo, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, c *Claim) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO claim (id, claim_number, status, resubmission_of, payer_type, prior_auth_number,
			patient, subscriber, secondary_insurance,
			billing_provider, rendering_provider, facility,
			total_charge, auto_accident, other_accident, accident_state,
			hospitalization_from, hospitalization_to)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		c.ID, c.ClaimNumber, c.Status, c.ResubmissionOf, c.PayerType, c.PriorAuthNumber,
		c.Patient, c.Subscriber, c.Secondary,
		c.BillingProvider, c.RenderingProvider, c.Facility,
		c.TotalCharge, c.AutoAccident, c.OtherAccident, c.AccidentState,
		c.HospitalizationFrom, c.HospitalizationTo)
	if err != nil {
		return err
	}
	for _, d := range c.Diagnoses {
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO claim_diagnosis (id, claim_id, code, description, pointer)
			VALUES ($1,$2,$3,$4,$5)`,
			uuid.New(), c.ID, d.Code, d.Description, d.Pointer); err != nil {
			return err
		}
	}
	for _, l := range c.ServiceLines {
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO claim_service_line (id, claim_id, line_number, from_date, to_date,
				place_of_service, cpt_code, modifiers, diagnosis_pointers,
				charge, units, ndc_code, ndc_quantity, ndc_unit)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
			uuid.New(), c.ID, l.LineNumber, l.FromDate, l.ToDate,
			l.PlaceOfService, l.CPTCode, l.Modifiers, l.DiagnosisPointers,
			l.Charge, l.Units, l.NDCCode, l.NDCQuantity, l.NDCUnit); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Claim, error) {
	c, err := r.scanClaim(r.conn(ctx).QueryRow(ctx, `SELECT `+claimCols+` FROM claim WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	return r.loadChildren(ctx, c)
}

func (r *repoPG) GetByClaimNumber(ctx context.Context, claimNumber string) (*Claim, error) {
	c, err := r.scanClaim(r.conn(ctx).QueryRow(ctx, `SELECT `+claimCols+` FROM claim WHERE claim_number = $1`, claimNumber))
	if err != nil {
		return nil, err
	}
	return r.loadChildren(ctx, c)
}

func (r *repoPG) loadChildren(ctx context.Context, c *Claim) (*Claim, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT code, description, pointer
		FROM claim_diagnosis WHERE claim_id = $1 ORDER BY pointer`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var d DiagnosisEntry
		if err := rows.Scan(&d.Code, &d.Description, &d.Pointer); err != nil {
			return nil, err
		}
		c.Diagnoses = append(c.Diagnoses, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lineRows, err := r.conn(ctx).Query(ctx, `
		SELECT line_number, from_date, to_date, place_of_service, cpt_code,
			modifiers, diagnosis_pointers, charge, units, ndc_code, ndc_quantity, ndc_unit
		FROM claim_service_line WHERE claim_id = $1 ORDER BY line_number`, c.ID)
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var l ServiceLine
		if err := lineRows.Scan(&l.LineNumber, &l.FromDate, &l.ToDate, &l.PlaceOfService, &l.CPTCode,
			&l.Modifiers, &l.DiagnosisPointers, &l.Charge, &l.Units, &l.NDCCode, &l.NDCQuantity, &l.NDCUnit); err != nil {
			return nil, err
		}
		c.ServiceLines = append(c.ServiceLines, l)
	}
	return c, lineRows.Err()
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE claim SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

func (r *repoPG) List(ctx context.Context, status string, limit, offset int) ([]*Claim, int, error) {
	where := ""
	args := []interface{}{}
	if status != "" {
		where = ` WHERE status = $1`
		args = append(args, status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM claim`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + claimCols + ` FROM claim` + where + ` ORDER BY created_at DESC`
	if status != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Claim
	for rows.Next() {
		c, err := r.scanClaim(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}
