package db

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	DBConnKey contextKey = "db_conn"
	DBTxKey   contextKey = "db_tx"
)

// ConnMiddleware acquires one pooled connection per request and stores it on
// the request context, so every repository call within a request shares the
// same session.
func ConnMiddleware(pool *pgxpool.Pool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			conn, err := pool.Acquire(ctx)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
			defer conn.Release()

			ctx = context.WithValue(ctx, DBConnKey, conn)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// ConnFromContext retrieves the request-scoped database connection.
func ConnFromContext(ctx context.Context) *pgxpool.Conn {
	conn, _ := ctx.Value(DBConnKey).(*pgxpool.Conn)
	return conn
}

// TxFromContext retrieves the transaction opened by WithTx, if any.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(DBTxKey).(pgx.Tx)
	return tx
}

// WithTx begins a transaction on the request's connection and returns a
// derived context carrying it; repositories pick it up automatically. The
// caller owns commit/rollback.
func WithTx(ctx context.Context) (pgx.Tx, context.Context, error) {
	conn := ConnFromContext(ctx)
	if conn == nil {
		return nil, ctx, fmt.Errorf("no database connection in context")
	}
	tx, err := conn.Begin(ctx)
	if err != nil {
		return nil, ctx, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, context.WithValue(ctx, DBTxKey, tx), nil
}
