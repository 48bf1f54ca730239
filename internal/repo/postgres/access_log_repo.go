package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/founder-playbook/internal/domain"
)

type AccessLogRepo interface {
	Append(ctx context.Context, entry *domain.AccessLog) error
	Recent(ctx context.Context, limit int) ([]domain.AccessLog, error)
	Clear(ctx context.Context) (int64, error)
}

type AccessLogRepoImpl struct{ store }

func NewAccessLogRepo(pool *pgxpool.Pool, timeout time.Duration) *AccessLogRepoImpl {
	return &AccessLogRepoImpl{newStore(pool, timeout)}
}

func (r *AccessLogRepoImpl) Append(ctx context.Context, e *domain.AccessLog) error {
	const q = `INSERT INTO access_logs (access_code_id, code_used, customer_name, ip_address, user_agent, success)
  VALUES ($1,$2,$3,$4,$5,$6)
  RETURNING id, logged_at`
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return r.pool.QueryRow(ctx, q,
		e.AccessCodeID, e.CodeUsed, e.CustomerName, e.IPAddress, e.UserAgent, e.Success,
	).Scan(&e.ID, &e.Timestamp)
}

func (r *AccessLogRepoImpl) Recent(ctx context.Context, limit int) ([]domain.AccessLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const q = `SELECT id, logged_at, access_code_id, code_used, customer_name, ip_address, user_agent, success
  FROM access_logs ORDER BY logged_at DESC, id DESC LIMIT $1`
	ctx, cancel := r.bound(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.AccessLog, 0, limit)
	for rows.Next() {
		var e domain.AccessLog
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.AccessCodeID, &e.CodeUsed, &e.CustomerName,
			&e.IPAddress, &e.UserAgent, &e.Success); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *AccessLogRepoImpl) Clear(ctx context.Context) (int64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	ct, err := r.pool.Exec(ctx, `DELETE FROM access_logs`)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
