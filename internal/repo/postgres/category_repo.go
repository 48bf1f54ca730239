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

type CategoryRepo interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	// Update changes name and order. The slug is fixed at creation.
	Update(ctx context.Context, c *domain.Category) (*domain.Category, error)
	// Delete fails with *domain.CategoryInUseError while providers reference the category.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type CategoryRepoImpl struct{ store }

func NewCategoryRepo(pool *pgxpool.Pool, timeout time.Duration) *CategoryRepoImpl {
	return &CategoryRepoImpl{newStore(pool, timeout)}
}

const categoryCols = `id, name, slug, sort_order, created_at`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Order, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepoImpl) List(ctx context.Context) ([]domain.Category, error) {
	const q = `SELECT ` + categoryCols + ` FROM categories ORDER BY sort_order, id`
	ctx, cancel := r.bound(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CategoryRepoImpl) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	const q = `SELECT ` + categoryCols + ` FROM categories WHERE id=$1`
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return scanCategory(r.pool.QueryRow(ctx, q, id))
}

func (r *CategoryRepoImpl) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	const q = `INSERT INTO categories (name, slug, sort_order) VALUES ($1,$2,$3) RETURNING ` + categoryCols
	ctx, cancel := r.bound(ctx)
	defer cancel()

	out, err := scanCategory(r.pool.QueryRow(ctx, q, c.Name, c.Slug, c.Order))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("category slug %q: %w", c.Slug, domain.ErrConflict)
	}
	return out, err
}

func (r *CategoryRepoImpl) Update(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	const q = `UPDATE categories SET name=$2, sort_order=$3 WHERE id=$1 RETURNING ` + categoryCols
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return scanCategory(r.pool.QueryRow(ctx, q, c.ID, c.Name, c.Order))
}

func (r *CategoryRepoImpl) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	return r.inTx(ctx, func(tx pgx.Tx) error {
		// lock the row so a concurrent provider write can't slip in a reference
		var locked int64
		err := tx.QueryRow(ctx, `SELECT id FROM categories WHERE id=$1 FOR UPDATE`, id).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		var refs int64
		if err := tx.QueryRow(ctx, `SELECT count(DISTINCT provider_id) FROM provider_categories WHERE category_id=$1`, id).Scan(&refs); err != nil {
			return err
		}
		if refs > 0 {
			return &domain.CategoryInUseError{CategoryID: id, Providers: refs}
		}

		_, err = tx.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
		if isForeignKeyViolation(err) {
			return &domain.CategoryInUseError{CategoryID: id, Providers: 1}
		}
		return err
	})
}

func (r *CategoryRepoImpl) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM categories`).Scan(&n)
	return n, err
}
