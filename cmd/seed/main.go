package main

import (
	"context"
	"errors"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/diagnosis/founder-playbook/internal/domain"
	"github.com/diagnosis/founder-playbook/internal/repo/postgres"
	"github.com/diagnosis/founder-playbook/pkg/config"
	"github.com/diagnosis/founder-playbook/pkg/database"
	"github.com/diagnosis/founder-playbook/pkg/logger"
)

const demoCode = "DEMO1"

// seed inserts the starter content. Rows whose slug or code already exists are
// skipped, so running it twice is harmless.
type seed struct {
	codes      postgres.AccessCodeRepo
	providers  postgres.ProviderRepo
	categories postgres.CategoryRepo
	sections   postgres.SectionRepo
	checklists postgres.ChecklistRepo
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Error("Failed to apply migrations", "error", err)
		os.Exit(1)
	}

	timeout := cfg.Database.StoreTimeout
	s := &seed{
		codes:      postgres.NewAccessCodeRepo(pool, timeout),
		providers:  postgres.NewProviderRepo(pool, timeout),
		categories: postgres.NewCategoryRepo(pool, timeout),
		sections:   postgres.NewSectionRepo(pool, timeout),
		checklists: postgres.NewChecklistRepo(pool, timeout),
	}
	if err := s.run(ctx); err != nil {
		logger.Error("Seed failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Seed completed")
}

func (s *seed) run(ctx context.Context) error {
	created := 0
	for _, sec := range seedSections {
		sec.Status = domain.SectionPublished
		ok, err := skipConflict(s.sections.Create(ctx, &sec))
		if err != nil {
			return err
		}
		if ok {
			created++
		}
	}
	logger.Info("Seeded playbook sections", "created", created)

	created = 0
	for _, cat := range seedCategories {
		ok, err := skipConflict(s.categories.Create(ctx, &cat))
		if err != nil {
			return err
		}
		if ok {
			created++
		}
	}
	logger.Info("Seeded categories", "created", created)

	created = 0
	for _, sc := range seedChecklists {
		cl := domain.Checklist{Title: sc.Title, Slug: sc.Slug, Order: sc.Order}
		for i, text := range sc.Items {
			cl.Items = append(cl.Items, domain.ChecklistItem{ID: uuid.NewString(), Text: text, Order: i})
		}
		ok, err := skipConflict(s.checklists.Create(ctx, &cl))
		if err != nil {
			return err
		}
		if ok {
			created++
		}
	}
	logger.Info("Seeded checklists", "created", created)

	if err := s.seedProviders(ctx); err != nil {
		return err
	}

	ok, err := skipConflict(s.codes.Create(ctx, &domain.AccessCode{
		Code:         demoCode,
		CustomerName: "Demo User",
		Notes:        "Seeded demo code",
		IsActive:     true,
	}))
	if err != nil {
		return err
	}
	if ok {
		logger.Info("Created demo access code", "code", demoCode)
	}
	return nil
}

// seedProviders only runs against an empty catalog; providers have no natural key.
func (s *seed) seedProviders(ctx context.Context) error {
	n, err := s.providers.CountAll(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info("Providers already present, skipping", "count", n)
		return nil
	}

	cats, err := s.categories.List(ctx)
	if err != nil {
		return err
	}
	bySlug := make(map[string]int64, len(cats))
	for _, c := range cats {
		bySlug[c.Slug] = c.ID
	}

	for _, sp := range seedProviders {
		p := sp.Provider
		if id, ok := bySlug[sp.CategorySlug]; ok {
			p.CategoryIDs = []int64{id}
		}
		if _, err := s.providers.Create(ctx, &p); err != nil {
			return err
		}
	}
	logger.Info("Seeded sample providers", "created", len(seedProviders))
	return nil
}

func skipConflict[T any](_ T, err error) (bool, error) {
	if errors.Is(err, domain.ErrConflict) {
		return false, nil
	}
	return err == nil, err
}
