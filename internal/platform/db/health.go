package db

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// PoolStats is the pool snapshot served by the database health endpoint.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
	Healthy         bool   `json:"healthy"`
}

// Status reports the probe verdict derived from the snapshot. An empty pool
// means the database went away after startup, since NewPool only returns
// once the first ping succeeded.
func (s *PoolStats) Status() string {
	if s.Healthy {
		return "healthy"
	}
	return "unhealthy"
}

// Snapshot captures the pool counters for the health payload.
func Snapshot(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
		Healthy:         stat.TotalConns() > 0,
	}
}

type healthResponse struct {
	Status string     `json:"status"`
	Error  string     `json:"error,omitempty"`
	Pool   *PoolStats `json:"pool"`
}

// HealthHandler serves the readiness probe for the form store. A failed ping
// answers 503 so the load balancer stops routing writes here.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
		defer cancel()

		stats := Snapshot(pool)
		if err := pool.Ping(ctx); err != nil {
			stats.Healthy = false
			return c.JSON(http.StatusServiceUnavailable, healthResponse{
				Status: stats.Status(),
				Error:  err.Error(),
				Pool:   stats,
			})
		}

		return c.JSON(http.StatusOK, healthResponse{
			Status: stats.Status(),
			Pool:   stats,
		})
	}
}
