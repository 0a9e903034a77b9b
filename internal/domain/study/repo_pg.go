package study

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

// =========== Study Repository ===========

type studyRepoPG struct{ pool *pgxpool.Pool }

func NewStudyRepoPG(pool *pgxpool.Pool) StudyRepository {
	return &studyRepoPG{pool: pool}
}

func (r *studyRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const studyCols = `id, patient_id, kind, payload, created_at, updated_at`

func (r *studyRepoPG) scan(row pgx.Row) (*Study, error) {
	var s Study
	err := row.Scan(&s.ID, &s.PatientID, &s.Kind, &s.Payload, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *studyRepoPG) Create(ctx context.Context, s *Study) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO study (id, patient_id, kind, payload)
		VALUES ($1,$2,$3,$4)`,
		s.ID, s.PatientID, s.Kind, s.Payload)
	return err
}

func (r *studyRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Study, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+studyCols+` FROM study WHERE id = $1`, id))
}

func (r *studyRepoPG) PatchPayload(ctx context.Context, id uuid.UUID, payload map[string]any) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE study SET payload = $2, updated_at = NOW() WHERE id = $1`, id, payload)
	return err
}

func (r *studyRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Study, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM study WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+studyCols+` FROM study WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Study
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, nil
}

func (r *studyRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM study WHERE id = $1`, id)
	return err
}

// =========== Result Repository ===========

type resultRepoPG struct{ pool *pgxpool.Pool }

func NewResultRepoPG(pool *pgxpool.Pool) ResultRepository {
	return &resultRepoPG{pool: pool}
}

func (r *resultRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const resultCols = `id, study_id, result_type, data, created_at, updated_at`

func (r *resultRepoPG) scan(row pgx.Row) (*StudyResult, error) {
	var res StudyResult
	err := row.Scan(&res.ID, &res.StudyID, &res.ResultType, &res.Data, &res.CreatedAt, &res.UpdatedAt)
	return &res, err
}

func (r *resultRepoPG) FindByStudyAndType(ctx context.Context, studyID uuid.UUID, resultType string) (*StudyResult, error) {
	res, err := r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+resultCols+` FROM study_result WHERE study_id = $1 AND result_type = $2`,
		studyID, resultType))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Create relies on the unique index on (study_id, result_type): the
// find-then-create of the upsert phase is not atomic, and the constraint
// turns a concurrent double-create into an update of the existing row.
func (r *resultRepoPG) Create(ctx context.Context, res *StudyResult) error {
	res.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO study_result (id, study_id, result_type, data)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (study_id, result_type)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		res.ID, res.StudyID, res.ResultType, res.Data)
	return err
}

func (r *resultRepoPG) PatchData(ctx context.Context, id uuid.UUID, data map[string]any) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE study_result SET data = $2, updated_at = NOW() WHERE id = $1`, id, data)
	return err
}

func (r *resultRepoPG) ListByStudy(ctx context.Context, studyID uuid.UUID) ([]*StudyResult, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+resultCols+` FROM study_result WHERE study_id = $1 ORDER BY result_type`, studyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*StudyResult
	for rows.Next() {
		res, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, res)
	}
	return items, nil
}
