package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/founder-playbook/internal/domain"
	"github.com/diagnosis/founder-playbook/pkg/config"
	"github.com/diagnosis/founder-playbook/pkg/database"
)

// testPool connects to TEST_DATABASE_URL and applies migrations. Tests skip
// when it is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := database.Connect(ctx, config.DatabaseConfig{URL: url, MinConns: 1, MaxConns: 10, MaxLifetime: time.Hour})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func TestAccessCodeRepo_TryConsumeGuard(t *testing.T) {
	pool := testPool(t)
	repo := NewAccessCodeRepo(pool, 3*time.Second)
	ctx := context.Background()

	ac, err := repo.Create(ctx, &domain.AccessCode{Code: "T-" + uuid.NewString()[:8], IsActive: true, MaxUsage: 1})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = repo.Delete(context.Background(), ac.ID) })

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := repo.TryConsume(ctx, ac.ID)
			if err != nil {
				t.Error(err)
				return
			}
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one successful use, got %d", wins)
	}
	got, err := repo.GetByID(ctx, ac.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.UsageCount != 1 || got.LastUsedAt == nil {
		t.Fatalf("unexpected usage state %+v", got)
	}
}

func TestAccessCodeRepo_TryConsumeRejectsInactiveAndExpired(t *testing.T) {
	pool := testPool(t)
	repo := NewAccessCodeRepo(pool, 3*time.Second)
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)

	for _, c := range []domain.AccessCode{
		{Code: "T-" + uuid.NewString()[:8], IsActive: false},
		{Code: "T-" + uuid.NewString()[:8], IsActive: true, ExpiresAt: &past},
	} {
		ac, err := repo.Create(ctx, &c)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = repo.Delete(context.Background(), ac.ID) })

		if _, ok, err := repo.TryConsume(ctx, ac.ID); err != nil || ok {
			t.Fatalf("code %+v: expected no use, got ok=%v err=%v", c, ok, err)
		}
	}
}

func TestCategoryRepo_DeleteCountsReferences(t *testing.T) {
	pool := testPool(t)
	cats := NewCategoryRepo(pool, 3*time.Second)
	providers := NewProviderRepo(pool, 3*time.Second)
	ctx := context.Background()

	cat, err := cats.Create(ctx, &domain.Category{Name: "Test", Slug: "test-" + uuid.NewString()[:8], Order: 1})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = cats.Delete(context.Background(), cat.ID) })

	var ids []int64
	for _, name := range []string{"One", "Two"} {
		p, err := providers.Create(ctx, &domain.Provider{Name: name, PriceRange: domain.PriceMid, CategoryIDs: []int64{cat.ID}})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, p.ID)
	}

	var inUse *domain.CategoryInUseError
	if err := cats.Delete(ctx, cat.ID); !errors.As(err, &inUse) || inUse.Providers != 2 {
		t.Fatalf("expected in-use error with 2 providers, got %v", err)
	}

	for _, id := range ids {
		if err := providers.Delete(ctx, id); err != nil {
			t.Fatal(err)
		}
	}
	if err := cats.Delete(ctx, cat.ID); err != nil {
		t.Fatalf("unreferenced category should delete, got %v", err)
	}
	if err := cats.Delete(ctx, cat.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
