package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/founder-playbook/internal/domain"
)

type AccessCodeRepo interface {
	List(ctx context.Context) ([]domain.AccessCode, error)
	GetByID(ctx context.Context, id int64) (*domain.AccessCode, error)
	GetByCode(ctx context.Context, code string) (*domain.AccessCode, error)
	Create(ctx context.Context, c *domain.AccessCode) (*domain.AccessCode, error)
	Update(ctx context.Context, c *domain.AccessCode) (*domain.AccessCode, error)
	Toggle(ctx context.Context, id int64) (*domain.AccessCode, error)
	Delete(ctx context.Context, id int64) error
	// TryConsume increments usage only while the code is still valid. It
	// returns ok=false when the guard rejected the update.
	TryConsume(ctx context.Context, id int64) (c *domain.AccessCode, ok bool, err error)
	Counts(ctx context.Context) (total, active int64, err error)
}

type AccessCodeRepoImpl struct{ store }

func NewAccessCodeRepo(pool *pgxpool.Pool, timeout time.Duration) *AccessCodeRepoImpl {
	return &AccessCodeRepoImpl{newStore(pool, timeout)}
}

const accessCodeCols = `id, code, customer_name, customer_phone, customer_email, notes,
is_active, usage_count, max_usage, last_used_at, expires_at, created_at`

func scanAccessCode(row pgx.Row) (*domain.AccessCode, error) {
	var c domain.AccessCode
	err := row.Scan(
		&c.ID, &c.Code, &c.CustomerName, &c.CustomerPhone, &c.CustomerEmail, &c.Notes,
		&c.IsActive, &c.UsageCount, &c.MaxUsage, &c.LastUsedAt, &c.ExpiresAt, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *AccessCodeRepoImpl) List(ctx context.Context) ([]domain.AccessCode, error) {
	const q = `SELECT ` + accessCodeCols + ` FROM access_codes ORDER BY created_at DESC, id DESC`
	ctx, cancel := r.bound(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.AccessCode{}
	for rows.Next() {
		c, err := scanAccessCode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *AccessCodeRepoImpl) GetByID(ctx context.Context, id int64) (*domain.AccessCode, error) {
	const q = `SELECT ` + accessCodeCols + ` FROM access_codes WHERE id=$1`
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return scanAccessCode(r.pool.QueryRow(ctx, q, id))
}

func (r *AccessCodeRepoImpl) GetByCode(ctx context.Context, code string) (*domain.AccessCode, error) {
	const q = `SELECT ` + accessCodeCols + ` FROM access_codes WHERE code=$1`
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return scanAccessCode(r.pool.QueryRow(ctx, q, code))
}

func (r *AccessCodeRepoImpl) Create(ctx context.Context, c *domain.AccessCode) (*domain.AccessCode, error) {
	const q = `INSERT INTO access_codes (
    code, customer_name, customer_phone, customer_email, notes, is_active, max_usage, expires_at
  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  RETURNING ` + accessCodeCols
	ctx, cancel := r.bound(ctx)
	defer cancel()

	out, err := scanAccessCode(r.pool.QueryRow(ctx, q,
		c.Code, c.CustomerName, c.CustomerPhone, c.CustomerEmail, c.Notes, c.IsActive, c.MaxUsage, c.ExpiresAt,
	))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("access code %q: %w", c.Code, domain.ErrConflict)
	}
	return out, err
}

// Update writes the admin-editable fields. usage_count and last_used_at are
// owned by TryConsume.
func (r *AccessCodeRepoImpl) Update(ctx context.Context, c *domain.AccessCode) (*domain.AccessCode, error) {
	const q = `UPDATE access_codes SET
    customer_name=$2, customer_phone=$3, customer_email=$4, notes=$5,
    is_active=$6, max_usage=$7, expires_at=$8
  WHERE id=$1
  RETURNING ` + accessCodeCols
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return scanAccessCode(r.pool.QueryRow(ctx, q,
		c.ID, c.CustomerName, c.CustomerPhone, c.CustomerEmail, c.Notes, c.IsActive, c.MaxUsage, c.ExpiresAt,
	))
}

func (r *AccessCodeRepoImpl) Toggle(ctx context.Context, id int64) (*domain.AccessCode, error) {
	const q = `UPDATE access_codes SET is_active = NOT is_active WHERE id=$1 RETURNING ` + accessCodeCols
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return scanAccessCode(r.pool.QueryRow(ctx, q, id))
}

func (r *AccessCodeRepoImpl) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM access_codes WHERE id=$1`
	ctx, cancel := r.bound(ctx)
	defer cancel()
	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AccessCodeRepoImpl) TryConsume(ctx context.Context, id int64) (*domain.AccessCode, bool, error) {
	const q = `UPDATE access_codes
  SET usage_count = usage_count + 1, last_used_at = now()
  WHERE id = $1
    AND is_active
    AND (expires_at IS NULL OR now() <= expires_at)
    AND (max_usage = 0 OR usage_count < max_usage)
  RETURNING ` + accessCodeCols
	ctx, cancel := r.bound(ctx)
	defer cancel()

	c, err := scanAccessCode(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

func (r *AccessCodeRepoImpl) Counts(ctx context.Context) (int64, int64, error) {
	const q = `SELECT count(*), count(*) FILTER (WHERE is_active) FROM access_codes`
	ctx, cancel := r.bound(ctx)
	defer cancel()
	var total, active int64
	err := r.pool.QueryRow(ctx, q).Scan(&total, &active)
	return total, active, err
}
