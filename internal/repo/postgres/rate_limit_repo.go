package postgres

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RateLimitRepo interface {
	// Hit records one request against key and returns the count inside the
	// current fixed window.
	Hit(ctx context.Context, key string, window time.Duration) (int, error)
	CleanupExpired(ctx context.Context) (int64, error)
}

type RateLimitRepoImpl struct{ store }

func NewRateLimitRepo(pool *pgxpool.Pool, timeout time.Duration) *RateLimitRepoImpl {
	return &RateLimitRepoImpl{newStore(pool, timeout)}
}

func (r *RateLimitRepoImpl) Hit(ctx context.Context, key string, window time.Duration) (int, error) {
	// keys carry client addresses; only the digest is stored
	hashedKey := fmt.Sprintf("%x", sha256.Sum256([]byte(key)))

	ctx, cancel := r.bound(ctx)
	defer cancel()

	now := time.Now()
	const q = `
		INSERT INTO rate_limits (rl_key, count, window_start, expires_at)
		VALUES ($1, 1, $2, $4)
		ON CONFLICT (rl_key) DO UPDATE SET
			count = CASE
				WHEN rate_limits.window_start < $3 THEN 1
				ELSE rate_limits.count + 1
			END,
			window_start = CASE
				WHEN rate_limits.window_start < $3 THEN $2
				ELSE rate_limits.window_start
			END,
			expires_at = $4
		RETURNING count`

	var count int
	err := r.pool.QueryRow(ctx, q, hashedKey, now, now.Add(-window), now.Add(window)).Scan(&count)
	return count, err
}

func (r *RateLimitRepoImpl) CleanupExpired(ctx context.Context) (int64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	result, err := r.pool.Exec(ctx, `DELETE FROM rate_limits WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
