package record

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinica/clinica/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type formRecordRepoPG struct{ pool *pgxpool.Pool }

func NewFormRecordRepoPG(pool *pgxpool.Pool) FormRecordRepository {
	return &formRecordRepoPG{pool: pool}
}

func (r *formRecordRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

// "values" is reserved in SQL and must stay quoted.
const formRecordCols = `id, patient_id, form_type, "values", created_at, updated_at`

func (r *formRecordRepoPG) scan(row pgx.Row) (*FormRecord, error) {
	var rec FormRecord
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.FormType, &rec.Values, &rec.CreatedAt, &rec.UpdatedAt)
	return &rec, err
}

func (r *formRecordRepoPG) GetByPatientAndType(ctx context.Context, patientID uuid.UUID, formType string) (*FormRecord, error) {
	rec, err := r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+formRecordCols+` FROM form_record WHERE patient_id = $1 AND form_type = $2`,
		patientID, formType))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *formRecordRepoPG) Upsert(ctx context.Context, rec *FormRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO form_record (id, patient_id, form_type, "values")
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (patient_id, form_type)
		DO UPDATE SET "values" = EXCLUDED."values", updated_at = NOW()`,
		rec.ID, rec.PatientID, rec.FormType, rec.Values)
	return err
}

func (r *formRecordRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*FormRecord, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+formRecordCols+` FROM form_record WHERE patient_id = $1 ORDER BY form_type`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*FormRecord
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, nil
}

func (r *formRecordRepoPG) Delete(ctx context.Context, patientID uuid.UUID, formType string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM form_record WHERE patient_id = $1 AND form_type = $2`, patientID, formType)
	return err
}
