package terminology

import (
	"context"

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

type codeRepoPG struct{ pool *pgxpool.Pool }

func NewCodeRepoPG(pool *pgxpool.Pool) CodeRepository {
	return &codeRepoPG{pool: pool}
}

func (r *codeRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const codeCols = `id, system, code, display, parent_id, created_at`

func (r *codeRepoPG) scan(row pgx.Row) (*Code, error) {
	var c Code
	err := row.Scan(&c.ID, &c.System, &c.Code, &c.Display, &c.ParentID, &c.CreatedAt)
	return &c, err
}

func (r *codeRepoPG) Create(ctx context.Context, c *Code) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO terminology_code (id, system, code, display, parent_id)
		VALUES ($1,$2,$3,$4,$5)`,
		c.ID, c.System, c.Code, c.Display, c.ParentID)
	return err
}

func (r *codeRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Code, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+codeCols+` FROM terminology_code WHERE id = $1`, id))
}

func (r *codeRepoPG) GetBySystemAndCode(ctx context.Context, system, code string) (*Code, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+codeCols+` FROM terminology_code WHERE system = $1 AND code = $2`, system, code))
}

func (r *codeRepoPG) Search(ctx context.Context, system, term string, limit int) ([]*Code, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+codeCols+` FROM terminology_code
		WHERE system = $1 AND (display ILIKE '%' || $2 || '%' OR code ILIKE $2 || '%')
		ORDER BY display LIMIT $3`,
		system, term, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Code
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, nil
}

func (r *codeRepoPG) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*Code, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+codeCols+` FROM terminology_code WHERE parent_id = $1 ORDER BY display`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Code
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, nil
}
