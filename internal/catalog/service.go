package catalog

import (
	"context"
	"fmt"

	"github.com/google/go-querystring/query"
	"golang.org/x/sync/errgroup"

	"github.com/diagnosis/founder-playbook/internal/domain"
)

// Source is the provider store as the listing pipeline sees it.
type Source interface {
	Count(ctx context.Context, pred Predicate) (int64, error)
	// Recent returns one page in featured, newest-first order. limit 0 means no limit.
	Recent(ctx context.Context, pred Predicate, limit, skip int) ([]domain.Provider, error)
	RankKeys(ctx context.Context, pred Predicate) ([]RankKey, error)
	ByIDs(ctx context.Context, ids []int64) ([]domain.Provider, error)
}

type Page struct {
	Providers []domain.Provider
	Total     int64
	HasMore   bool
	// Next is the encoded query for the following page, empty on the last page.
	Next string
}

type Service interface {
	List(ctx context.Context, q Query) (*Page, error)
}

type service struct {
	src Source
}

func NewService(src Source) Service {
	return &service{src: src}
}

func (s *service) List(ctx context.Context, q Query) (*Page, error) {
	var (
		page *Page
		err  error
	)
	if q.Seeded() {
		page, err = s.seeded(ctx, q)
	} else {
		page, err = s.recent(ctx, q)
	}
	if err != nil {
		return nil, err
	}

	page.HasMore = HasMore(page.Total, q.Limit, q.Skip)
	if page.HasMore {
		next := q.params
		next.Skip = q.Skip + q.Limit
		v, err := query.Values(next)
		if err != nil {
			return nil, fmt.Errorf("encode next page: %w", err)
		}
		page.Next = v.Encode()
	}
	return page, nil
}

// recent pushes ordering and paging into the store and counts alongside.
func (s *service) recent(ctx context.Context, q Query) (*Page, error) {
	page := &Page{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.src.Count(gctx, q.Filter)
		if err != nil {
			return fmt.Errorf("count providers: %w", err)
		}
		page.Total = n
		return nil
	})
	g.Go(func() error {
		ps, err := s.src.Recent(gctx, q.Filter, q.Limit, q.Skip)
		if err != nil {
			return fmt.Errorf("list providers: %w", err)
		}
		page.Providers = ps
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if page.Providers == nil {
		page.Providers = []domain.Provider{}
	}
	return page, nil
}

// seeded ranks lightweight keys in memory, then loads only the page rows.
// The total comes from the same key scan, so count and slice agree.
func (s *service) seeded(ctx context.Context, q Query) (*Page, error) {
	keys, err := s.src.RankKeys(ctx, q.Filter)
	if err != nil {
		return nil, fmt.Errorf("rank providers: %w", err)
	}
	SortSeeded(keys, q.Seed)

	page := &Page{Total: int64(len(keys)), Providers: []domain.Provider{}}
	start, end := Window(len(keys), q.Limit, q.Skip)
	if start == end {
		return page, nil
	}

	ids := make([]int64, 0, end-start)
	for _, k := range keys[start:end] {
		ids = append(ids, k.ID)
	}
	rows, err := s.src.ByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load provider page: %w", err)
	}

	byID := make(map[int64]domain.Provider, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	// rows deleted between the two reads are skipped
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			page.Providers = append(page.Providers, p)
		}
	}
	return page, nil
}
