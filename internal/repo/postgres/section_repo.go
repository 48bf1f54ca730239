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

type SectionRepo interface {
	List(ctx context.Context, publishedOnly bool) ([]domain.Section, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.Section, error)
	GetByID(ctx context.Context, id int64) (*domain.Section, error)
	Create(ctx context.Context, s *domain.Section) (*domain.Section, error)
	Update(ctx context.Context, s *domain.Section) (*domain.Section, error)
	Delete(ctx context.Context, id int64) error
}

type SectionRepoImpl struct{ store }

func NewSectionRepo(pool *pgxpool.Pool, timeout time.Duration) *SectionRepoImpl {
	return &SectionRepoImpl{newStore(pool, timeout)}
}

const sectionCols = `id, title, slug, icon, sort_order, content, status, created_at, updated_at`

func scanSection(row pgx.Row) (*domain.Section, error) {
	var s domain.Section
	var status string
	err := row.Scan(&s.ID, &s.Title, &s.Slug, &s.Icon, &s.Order, &s.Content, &status, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.Status = domain.SectionStatus(status)
	return &s, nil
}

func (r *SectionRepoImpl) List(ctx context.Context, publishedOnly bool) ([]domain.Section, error) {
	const q = `SELECT ` + sectionCols + ` FROM playbook_sections
  WHERE ($1 = false OR status = 'published')
  ORDER BY sort_order, id`
	ctx, cancel := r.bound(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, publishedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Section{}
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *SectionRepoImpl) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.Section, error) {
	const q = `SELECT ` + sectionCols + ` FROM playbook_sections
  WHERE slug=$1 AND ($2 = false OR status = 'published')`
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return scanSection(r.pool.QueryRow(ctx, q, slug, publishedOnly))
}

func (r *SectionRepoImpl) GetByID(ctx context.Context, id int64) (*domain.Section, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return scanSection(r.pool.QueryRow(ctx, `SELECT `+sectionCols+` FROM playbook_sections WHERE id=$1`, id))
}

func (r *SectionRepoImpl) Create(ctx context.Context, s *domain.Section) (*domain.Section, error) {
	const q = `INSERT INTO playbook_sections (title, slug, icon, sort_order, content, status)
  VALUES ($1,$2,$3,$4,$5,$6) RETURNING ` + sectionCols
	ctx, cancel := r.bound(ctx)
	defer cancel()

	out, err := scanSection(r.pool.QueryRow(ctx, q, s.Title, s.Slug, s.Icon, s.Order, s.Content, string(s.Status)))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("section slug %q: %w", s.Slug, domain.ErrConflict)
	}
	return out, err
}

func (r *SectionRepoImpl) Update(ctx context.Context, s *domain.Section) (*domain.Section, error) {
	const q = `UPDATE playbook_sections SET
    title=$2, icon=$3, sort_order=$4, content=$5, status=$6, updated_at=now()
  WHERE id=$1 RETURNING ` + sectionCols
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return scanSection(r.pool.QueryRow(ctx, q, s.ID, s.Title, s.Icon, s.Order, s.Content, string(s.Status)))
}

func (r *SectionRepoImpl) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	ct, err := r.pool.Exec(ctx, `DELETE FROM playbook_sections WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
