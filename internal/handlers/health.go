package handlers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthChecker reports connectivity for one dependency.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RedisHealthChecker adapts a redis client to HealthChecker.
type RedisHealthChecker struct {
	client *redis.Client
}

// NewRedisHealthChecker creates a Redis health checker.
func NewRedisHealthChecker(client *redis.Client) *RedisHealthChecker {
	return &RedisHealthChecker{client: client}
}

func (r *RedisHealthChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// PostgresHealthChecker adapts a pgx pool to HealthChecker.
type PostgresHealthChecker struct {
	pool *pgxpool.Pool
}

// NewPostgresHealthChecker creates a Postgres health checker.
func NewPostgresHealthChecker(pool *pgxpool.Pool) *PostgresHealthChecker {
	return &PostgresHealthChecker{pool: pool}
}

func (p *PostgresHealthChecker) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// HealthHandler reports readiness of the service and its backends.
type HealthHandler struct {
	redis    HealthChecker
	postgres HealthChecker
}

// NewHealthHandler creates a health handler. Either checker may be nil
// when that backend is not configured.
func NewHealthHandler(redis, postgres HealthChecker) *HealthHandler {
	return &HealthHandler{
		redis:    redis,
		postgres: postgres,
	}
}

// Check reports the health of the application and its dependencies.
func (h *HealthHandler) Check(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
	resp := &HealthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Redis = h.check(ctx, h.redis, &resp.Body.Status)
	resp.Body.Postgres = h.check(ctx, h.postgres, &resp.Body.Status)

	return resp, nil
}

func (h *HealthHandler) check(ctx context.Context, checker HealthChecker, status *string) string {
	if checker == nil {
		return "disabled"
	}

	if err := checker.Ping(ctx); err != nil {
		*status = "degraded"

		return "unhealthy"
	}

	return "healthy"
}
