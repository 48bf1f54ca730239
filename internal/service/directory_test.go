package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/diagnosis/founder-playbook/internal/catalog"
	"github.com/diagnosis/founder-playbook/internal/domain"
	"github.com/diagnosis/founder-playbook/pkg/events"
)

func strp(s string) *string { return &s }

func newDirectoryFixture() (*directoryService, *fakeProviders, *fakeCategories, *fakeBus) {
	cats := newFakeCategories(
		domain.Category{ID: 1, Name: "Legal", Slug: "legal", Order: 1},
		domain.Category{ID: 2, Name: "Accounting", Slug: "accounting", Order: 2},
	)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	provs := newFakeProviders(
		domain.Provider{ID: 1, Name: "Lex & Co", CategoryIDs: []int64{1}, PriceRange: domain.PricePremium, CreatedAt: base},
		domain.Provider{ID: 2, Name: "Ledger Pros", CategoryIDs: []int64{2, 1}, PriceRange: domain.PriceBudget, CreatedAt: base.Add(time.Hour)},
		domain.Provider{ID: 3, Name: "Tally", CategoryIDs: []int64{2}, PriceRange: domain.PriceMid, Featured: true, CreatedAt: base.Add(-time.Hour)},
	)
	bus := &fakeBus{}
	svc := NewDirectoryService(provs, cats, bus).(*directoryService)
	return svc, provs, cats, bus
}

func TestListProviders_FilterAndLegacyCategory(t *testing.T) {
	svc, _, _, _ := newDirectoryFixture()

	page, err := svc.ListProviders(context.Background(), catalog.Compile(url.Values{"category": {"1"}}))
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 || len(page.Providers) != 2 || page.HasMore {
		t.Fatalf("unexpected page %+v", page)
	}
	// Recent order: newest first, no featured provider in this category.
	if page.Providers[0].ID != 2 || page.Providers[1].ID != 1 {
		t.Fatalf("unexpected order %d, %d", page.Providers[0].ID, page.Providers[1].ID)
	}
	v := page.Providers[0]
	if v.Category == nil || v.Category.ID != 2 || len(v.Categories) != 2 {
		t.Fatalf("expected legacy category to be the first listed, got %+v", v)
	}
}

func TestListProviders_FeaturedFirst(t *testing.T) {
	svc, _, _, _ := newDirectoryFixture()

	page, err := svc.ListProviders(context.Background(), catalog.Compile(url.Values{}))
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 || page.Providers[0].ID != 3 {
		t.Fatalf("expected featured provider first, got %+v", page.Providers)
	}
}

func TestCreateProvider_ValidatesAndPublishes(t *testing.T) {
	svc, _, _, bus := newDirectoryFixture()
	ctx := context.Background()

	if _, err := svc.CreateProvider(ctx, domain.ProviderFields{Name: strp("  ")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	ids := []int64{2, 2, 1}
	v, err := svc.CreateProvider(ctx, domain.ProviderFields{Name: strp("New Co"), CategoryIDs: &ids})
	if err != nil {
		t.Fatal(err)
	}
	if v.PriceRange != domain.PriceMid {
		t.Fatalf("expected default price range mid, got %q", v.PriceRange)
	}
	if len(v.Categories) != 2 || v.Category.ID != 2 {
		t.Fatalf("unexpected categories %+v", v.Categories)
	}
	if got := bus.subjects(); len(got) != 1 || got[0] != events.ProviderChanged {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestUpdateProvider_ClearingCategoriesClearsLegacyField(t *testing.T) {
	svc, _, _, _ := newDirectoryFixture()

	empty := []int64{}
	v, err := svc.UpdateProvider(context.Background(), 1, domain.ProviderFields{CategoryIDs: &empty})
	if err != nil {
		t.Fatal(err)
	}
	if v.Category != nil || len(v.Categories) != 0 {
		t.Fatalf("expected no categories, got %+v", v)
	}
	if v.Name != "Lex & Co" {
		t.Fatalf("untouched field changed: %q", v.Name)
	}
}

func TestUpdateProvider_NotFound(t *testing.T) {
	svc, _, _, _ := newDirectoryFixture()
	_, err := svc.UpdateProvider(context.Background(), 99, domain.ProviderFields{Name: strp("x")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	svc, _, cats, bus := newDirectoryFixture()
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, domain.CategoryInput{Name: strp(" Tax & Payroll ")})
	if err != nil {
		t.Fatal(err)
	}
	if c.Slug != "tax-payroll" || c.Name != "Tax & Payroll" {
		t.Fatalf("unexpected category %+v", c)
	}

	_, err = svc.CreateCategory(ctx, domain.CategoryInput{Name: strp("tax payroll")})
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}

	order := 7
	up, err := svc.UpdateCategory(ctx, c.ID, domain.CategoryInput{Name: strp("Taxes"), Order: &order})
	if err != nil {
		t.Fatal(err)
	}
	if up.Slug != "tax-payroll" || up.Name != "Taxes" || up.Order != 7 {
		t.Fatalf("slug must stay fixed on rename, got %+v", up)
	}

	cats.refs[c.ID] = 3
	err = svc.DeleteCategory(ctx, c.ID)
	var inUse *domain.CategoryInUseError
	if !errors.As(err, &inUse) || inUse.Providers != 3 {
		t.Fatalf("expected in-use error, got %v", err)
	}
	if err.Error() != "Cannot delete category. 3 provider(s) are using it." {
		t.Fatalf("unexpected message %q", err.Error())
	}

	cats.refs[c.ID] = 0
	if err := svc.DeleteCategory(ctx, c.ID); err != nil {
		t.Fatal(err)
	}

	want := []string{events.ContentChanged, events.ContentChanged, events.ContentChanged}
	got := bus.subjects()
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), got)
	}
}
