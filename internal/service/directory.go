package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diagnosis/founder-playbook/internal/catalog"
	"github.com/diagnosis/founder-playbook/internal/domain"
	"github.com/diagnosis/founder-playbook/internal/repo/postgres"
	"github.com/diagnosis/founder-playbook/internal/utils"
	"github.com/diagnosis/founder-playbook/pkg/events"
)

type ProviderPage struct {
	Providers []domain.ProviderView `json:"providers"`
	Total     int64                 `json:"total"`
	HasMore   bool                  `json:"hasMore"`
	Next      string                `json:"next,omitempty"`
}

// DirectoryService serves the provider directory and its categories.
type DirectoryService interface {
	ListProviders(ctx context.Context, q catalog.Query) (*ProviderPage, error)
	GetProvider(ctx context.Context, id int64) (*domain.ProviderView, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)

	AdminListProviders(ctx context.Context) ([]domain.ProviderView, error)
	CreateProvider(ctx context.Context, f domain.ProviderFields) (*domain.ProviderView, error)
	UpdateProvider(ctx context.Context, id int64, f domain.ProviderFields) (*domain.ProviderView, error)
	DeleteProvider(ctx context.Context, id int64) error

	CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type directoryService struct {
	providers  postgres.ProviderRepo
	categories postgres.CategoryRepo
	listing    catalog.Service
	bus        events.Publisher
}

func NewDirectoryService(providers postgres.ProviderRepo, categories postgres.CategoryRepo, bus events.Publisher) DirectoryService {
	return &directoryService{
		providers:  providers,
		categories: categories,
		listing:    catalog.NewService(providers),
		bus:        bus,
	}
}

func (s *directoryService) categoryIndex(ctx context.Context) (map[int64]domain.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return domain.CategoriesByID(cats), nil
}

func (s *directoryService) views(ctx context.Context, ps []domain.Provider) ([]domain.ProviderView, error) {
	idx, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProviderView, len(ps))
	for i := range ps {
		out[i] = ps[i].View(idx)
	}
	return out, nil
}

func (s *directoryService) view(ctx context.Context, p *domain.Provider) (*domain.ProviderView, error) {
	vs, err := s.views(ctx, []domain.Provider{*p})
	if err != nil {
		return nil, err
	}
	return &vs[0], nil
}

func (s *directoryService) ListProviders(ctx context.Context, q catalog.Query) (*ProviderPage, error) {
	page, err := s.listing.List(ctx, q)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, page.Providers)
	if err != nil {
		return nil, err
	}
	return &ProviderPage{
		Providers: views,
		Total:     page.Total,
		HasMore:   page.HasMore,
		Next:      page.Next,
	}, nil
}

func (s *directoryService) GetProvider(ctx context.Context, id int64) (*domain.ProviderView, error) {
	p, err := s.providers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get provider %d: %w", id, err)
	}
	return s.view(ctx, p)
}

func (s *directoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *directoryService) AdminListProviders(ctx context.Context) ([]domain.ProviderView, error) {
	ps, err := s.providers.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return s.views(ctx, ps)
}

func (s *directoryService) CreateProvider(ctx context.Context, f domain.ProviderFields) (*domain.ProviderView, error) {
	p := &domain.Provider{PriceRange: domain.PriceMid, BestFor: []string{}, CategoryIDs: []int64{}}
	if err := f.Apply(p); err != nil {
		return nil, err
	}
	created, err := s.providers.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	s.changed(ctx, "provider", created.ID, "created")
	return s.view(ctx, created)
}

func (s *directoryService) UpdateProvider(ctx context.Context, id int64, f domain.ProviderFields) (*domain.ProviderView, error) {
	p, err := s.providers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get provider %d: %w", id, err)
	}
	if err := f.Apply(p); err != nil {
		return nil, err
	}
	updated, err := s.providers.Update(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update provider %d: %w", id, err)
	}
	s.changed(ctx, "provider", id, "updated")
	return s.view(ctx, updated)
}

func (s *directoryService) DeleteProvider(ctx context.Context, id int64) error {
	if err := s.providers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete provider %d: %w", id, err)
	}
	s.changed(ctx, "provider", id, "deleted")
	return nil
}

func (s *directoryService) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, domain.NewValidation("name is required")
	}
	c := &domain.Category{Name: strings.TrimSpace(*in.Name)}
	c.Slug = utils.Slugify(c.Name)
	if c.Slug == "" {
		return nil, domain.NewValidation("name must contain letters or digits")
	}
	if in.Order != nil {
		c.Order = *in.Order
	}
	created, err := s.categories.Create(ctx, c)
	if errors.Is(err, domain.ErrConflict) {
		return nil, domain.NewConflict("A category named %q already exists", c.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.changed(ctx, "category", created.ID, "created")
	return created, nil
}

func (s *directoryService) UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidation("name is required")
		}
		c.Name = name
	}
	if in.Order != nil {
		c.Order = *in.Order
	}
	updated, err := s.categories.Update(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("update category %d: %w", id, err)
	}
	s.changed(ctx, "category", id, "updated")
	return updated, nil
}

func (s *directoryService) DeleteCategory(ctx context.Context, id int64) error {
	err := s.categories.Delete(ctx, id)
	var inUse *domain.CategoryInUseError
	if errors.As(err, &inUse) {
		return err
	}
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	s.changed(ctx, "category", id, "deleted")
	return nil
}

func (s *directoryService) changed(ctx context.Context, entity string, id int64, action string) {
	subject := events.ContentChanged
	if entity == "provider" {
		subject = events.ProviderChanged
	}
	publishChange(ctx, s.bus, subject, entity, id, action)
}
