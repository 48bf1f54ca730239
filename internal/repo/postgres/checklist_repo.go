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

type ChecklistRepo interface {
	List(ctx context.Context) ([]domain.Checklist, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Checklist, error)
	GetByID(ctx context.Context, id int64) (*domain.Checklist, error)
	Create(ctx context.Context, c *domain.Checklist) (*domain.Checklist, error)
	Update(ctx context.Context, c *domain.Checklist) (*domain.Checklist, error)
	Delete(ctx context.Context, id int64) error
}

type ChecklistRepoImpl struct{ store }

func NewChecklistRepo(pool *pgxpool.Pool, timeout time.Duration) *ChecklistRepoImpl {
	return &ChecklistRepoImpl{newStore(pool, timeout)}
}

const checklistCols = `id, title, slug, items, sort_order, created_at, updated_at`

func scanChecklist(row pgx.Row) (*domain.Checklist, error) {
	var c domain.Checklist
	err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.Items, &c.Order, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if c.Items == nil {
		c.Items = []domain.ChecklistItem{}
	}
	return &c, nil
}

func (r *ChecklistRepoImpl) List(ctx context.Context) ([]domain.Checklist, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT `+checklistCols+` FROM checklists ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Checklist{}
	for rows.Next() {
		c, err := scanChecklist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *ChecklistRepoImpl) GetBySlug(ctx context.Context, slug string) (*domain.Checklist, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return scanChecklist(r.pool.QueryRow(ctx, `SELECT `+checklistCols+` FROM checklists WHERE slug=$1`, slug))
}

func (r *ChecklistRepoImpl) GetByID(ctx context.Context, id int64) (*domain.Checklist, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return scanChecklist(r.pool.QueryRow(ctx, `SELECT `+checklistCols+` FROM checklists WHERE id=$1`, id))
}

func (r *ChecklistRepoImpl) Create(ctx context.Context, c *domain.Checklist) (*domain.Checklist, error) {
	const q = `INSERT INTO checklists (title, slug, items, sort_order) VALUES ($1,$2,$3,$4) RETURNING ` + checklistCols
	ctx, cancel := r.bound(ctx)
	defer cancel()

	out, err := scanChecklist(r.pool.QueryRow(ctx, q, c.Title, c.Slug, c.Items, c.Order))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("checklist slug %q: %w", c.Slug, domain.ErrConflict)
	}
	return out, err
}

func (r *ChecklistRepoImpl) Update(ctx context.Context, c *domain.Checklist) (*domain.Checklist, error) {
	const q = `UPDATE checklists SET title=$2, items=$3, sort_order=$4, updated_at=now()
  WHERE id=$1 RETURNING ` + checklistCols
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return scanChecklist(r.pool.QueryRow(ctx, q, c.ID, c.Title, c.Items, c.Order))
}

func (r *ChecklistRepoImpl) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	ct, err := r.pool.Exec(ctx, `DELETE FROM checklists WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
