package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/founder-playbook/internal/catalog"
	"github.com/diagnosis/founder-playbook/internal/domain"
)

type ProviderRepo interface {
	catalog.Source
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
	// ListAll is the admin listing, newest first, featured not promoted.
	ListAll(ctx context.Context) ([]domain.Provider, error)
	Create(ctx context.Context, p *domain.Provider) (*domain.Provider, error)
	Update(ctx context.Context, p *domain.Provider) (*domain.Provider, error)
	Delete(ctx context.Context, id int64) error
	CountAll(ctx context.Context) (int64, error)
}

type ProviderRepoImpl struct{ store }

func NewProviderRepo(pool *pgxpool.Pool, timeout time.Duration) *ProviderRepoImpl {
	return &ProviderRepoImpl{newStore(pool, timeout)}
}

const providerCols = `p.id, p.name, p.description, p.logo, p.price_range, p.best_for,
p.contact_whatsapp, p.contact_instagram, p.contact_website, p.practical_notes,
p.featured, p.created_at, p.updated_at,
COALESCE((SELECT array_agg(pc.category_id ORDER BY pc.position)
          FROM provider_categories pc WHERE pc.provider_id = p.id), '{}') AS category_ids`

const rankOrder = `p.featured DESC, p.created_at DESC, p.id ASC`

func scanProvider(row pgx.Row) (*domain.Provider, error) {
	var p domain.Provider
	var price string
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Logo, &price, &p.BestFor,
		&p.ContactWhatsApp, &p.ContactInstagram, &p.ContactWebsite, &p.PracticalNotes,
		&p.Featured, &p.CreatedAt, &p.UpdatedAt, &p.CategoryIDs,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.PriceRange = domain.PriceRange(price)
	return &p, nil
}

func (r *ProviderRepoImpl) query(ctx context.Context, q string, args ...any) ([]domain.Provider, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Provider{}
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProviderRepoImpl) Count(ctx context.Context, pred catalog.Predicate) (int64, error) {
	where, args := catalog.Where(pred)
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM providers p WHERE `+where, args...).Scan(&n)
	return n, err
}

func (r *ProviderRepoImpl) Recent(ctx context.Context, pred catalog.Predicate, limit, skip int) ([]domain.Provider, error) {
	where, args := catalog.Where(pred)
	q := `SELECT ` + providerCols + ` FROM providers p WHERE ` + where + ` ORDER BY ` + rankOrder
	if limit > 0 {
		args = append(args, limit)
		q += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if skip > 0 {
		args = append(args, skip)
		q += ` OFFSET $` + strconv.Itoa(len(args))
	}
	return r.query(ctx, q, args...)
}

func (r *ProviderRepoImpl) RankKeys(ctx context.Context, pred catalog.Predicate) ([]catalog.RankKey, error) {
	where, args := catalog.Where(pred)
	ctx, cancel := r.bound(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT p.id, p.featured, p.created_at FROM providers p WHERE `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := []catalog.RankKey{}
	for rows.Next() {
		var k catalog.RankKey
		if err := rows.Scan(&k.ID, &k.Featured, &k.CreatedAt); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (r *ProviderRepoImpl) ByIDs(ctx context.Context, ids []int64) ([]domain.Provider, error) {
	if len(ids) == 0 {
		return []domain.Provider{}, nil
	}
	return r.query(ctx, `SELECT `+providerCols+` FROM providers p WHERE p.id = ANY($1)`, ids)
}

func (r *ProviderRepoImpl) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return scanProvider(r.pool.QueryRow(ctx, `SELECT `+providerCols+` FROM providers p WHERE p.id=$1`, id))
}

func (r *ProviderRepoImpl) ListAll(ctx context.Context) ([]domain.Provider, error) {
	return r.query(ctx, `SELECT `+providerCols+` FROM providers p ORDER BY p.created_at DESC, p.id DESC`)
}

func (r *ProviderRepoImpl) Create(ctx context.Context, p *domain.Provider) (*domain.Provider, error) {
	const q = `INSERT INTO providers (
    name, description, logo, price_range, best_for,
    contact_whatsapp, contact_instagram, contact_website, practical_notes, featured
  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
  RETURNING id`
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var id int64
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, q,
			p.Name, p.Description, p.Logo, string(p.PriceRange), bestFor(p.BestFor),
			p.ContactWhatsApp, p.ContactInstagram, p.ContactWebsite, p.PracticalNotes, p.Featured,
		).Scan(&id); err != nil {
			return err
		}
		return replaceCategories(ctx, tx, id, p.CategoryIDs)
	})
	if err != nil {
		return nil, err
	}
	return scanProvider(r.pool.QueryRow(ctx, `SELECT `+providerCols+` FROM providers p WHERE p.id=$1`, id))
}

func (r *ProviderRepoImpl) Update(ctx context.Context, p *domain.Provider) (*domain.Provider, error) {
	const q = `UPDATE providers SET
    name=$2, description=$3, logo=$4, price_range=$5, best_for=$6,
    contact_whatsapp=$7, contact_instagram=$8, contact_website=$9, practical_notes=$10,
    featured=$11, updated_at=now()
  WHERE id=$1`
	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, q, p.ID,
			p.Name, p.Description, p.Logo, string(p.PriceRange), bestFor(p.BestFor),
			p.ContactWhatsApp, p.ContactInstagram, p.ContactWebsite, p.PracticalNotes, p.Featured,
		)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return replaceCategories(ctx, tx, p.ID, p.CategoryIDs)
	})
	if err != nil {
		return nil, err
	}
	return scanProvider(r.pool.QueryRow(ctx, `SELECT `+providerCols+` FROM providers p WHERE p.id=$1`, p.ID))
}

// replaceCategories rewrites the relation rows; position keeps the caller's order.
func replaceCategories(ctx context.Context, tx pgx.Tx, providerID int64, ids []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM provider_categories WHERE provider_id=$1`, providerID); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `INSERT INTO provider_categories (provider_id, category_id, position)
  SELECT $1, c.id, c.ord - 1 FROM unnest($2::bigint[]) WITH ORDINALITY AS c(id, ord)`, providerID, ids)
	if isForeignKeyViolation(err) {
		return domain.NewValidation("unknown category")
	}
	if err != nil {
		return fmt.Errorf("link categories: %w", err)
	}
	return nil
}

func (r *ProviderRepoImpl) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	ct, err := r.pool.Exec(ctx, `DELETE FROM providers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProviderRepoImpl) CountAll(ctx context.Context) (int64, error) {
	return r.Count(ctx, catalog.And{})
}

func bestFor(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
