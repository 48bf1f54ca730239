package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestAccessCodeRejection(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		code AccessCode
		want error
	}{
		{"valid unlimited", AccessCode{IsActive: true}, nil},
		{"valid under limit", AccessCode{IsActive: true, UsageCount: 1, MaxUsage: 2, ExpiresAt: &future}, nil},
		{"expiry boundary is inclusive", AccessCode{IsActive: true, ExpiresAt: &now}, nil},
		{"inactive", AccessCode{IsActive: false}, ErrDeactivated},
		{"inactive beats expired and exhausted", AccessCode{IsActive: false, ExpiresAt: &past, UsageCount: 5, MaxUsage: 5}, ErrDeactivated},
		{"expired", AccessCode{IsActive: true, ExpiresAt: &past}, ErrExpired},
		{"expired beats exhausted", AccessCode{IsActive: true, ExpiresAt: &past, UsageCount: 2, MaxUsage: 2}, ErrExpired},
		{"exhausted", AccessCode{IsActive: true, UsageCount: 2, MaxUsage: 2}, ErrUsageLimitReached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.code.Rejection(now)
			if !errors.Is(got, tt.want) && !(got == nil && tt.want == nil) {
				t.Fatalf("Rejection() = %v, want %v", got, tt.want)
			}
			if tt.code.IsValid(now) != (tt.want == nil) {
				t.Fatalf("IsValid() disagrees with Rejection()")
			}
		})
	}
}

func TestAccessCodePatch_ExpiresAtTriState(t *testing.T) {
	exp := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	base := func() AccessCode { return AccessCode{IsActive: true, ExpiresAt: &exp} }

	var absent AccessCodePatch
	if err := json.Unmarshal([]byte(`{"notes":" hi "}`), &absent); err != nil {
		t.Fatal(err)
	}
	c := base()
	absent.Apply(&c)
	if c.ExpiresAt == nil || c.Notes != "hi" {
		t.Fatalf("absent expiresAt must be left alone, got %+v", c)
	}

	var cleared AccessCodePatch
	if err := json.Unmarshal([]byte(`{"expiresAt":null}`), &cleared); err != nil {
		t.Fatal(err)
	}
	c = base()
	cleared.Apply(&c)
	if c.ExpiresAt != nil {
		t.Fatal("explicit null must clear expiresAt")
	}
}

func TestProviderView_LegacyCategoryProjection(t *testing.T) {
	cats := CategoriesByID([]Category{{ID: 1, Name: "Legal"}, {ID: 2, Name: "Banking"}})

	p := Provider{ID: 9, Name: "Acme", CategoryIDs: []int64{2, 1}}
	v := p.View(cats)
	if v.Category == nil || v.Category.ID != 2 {
		t.Fatalf("legacy category should be the first category, got %+v", v.Category)
	}
	if len(v.Categories) != 2 || v.Categories[1].ID != 1 {
		t.Fatalf("unexpected categories %+v", v.Categories)
	}

	p.CategoryIDs = nil
	v = p.View(cats)
	if v.Category != nil || len(v.Categories) != 0 {
		t.Fatal("clearing categories must clear the legacy field")
	}
}

func TestProviderFieldsApply(t *testing.T) {
	name := "  Acme  "
	ids := []int64{3, 1, 3}
	price := "PREMIUM"
	tags := []string{" seed ", "", "series a"}

	p := Provider{PriceRange: PriceMid}
	err := ProviderFields{Name: &name, CategoryIDs: &ids, PriceRange: &price, BestFor: &tags}.Apply(&p)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Acme" || p.PriceRange != PricePremium {
		t.Fatalf("unexpected provider %+v", p)
	}
	if len(p.CategoryIDs) != 2 || p.CategoryIDs[0] != 3 {
		t.Fatalf("expected deduped ids [3 1], got %v", p.CategoryIDs)
	}
	if len(p.BestFor) != 2 {
		t.Fatalf("expected empty tags dropped, got %v", p.BestFor)
	}

	bad := "luxury"
	if err := (ProviderFields{PriceRange: &bad}).Apply(&p); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSessionAdminWindowIsFixed(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Session{IsAdmin: true, AdminAuthenticatedAt: &at}

	if !s.AdminActive(at.Add(23*time.Hour), 24*time.Hour) {
		t.Fatal("admin should be active inside the window")
	}
	if s.AdminActive(at.Add(24*time.Hour), 24*time.Hour) {
		t.Fatal("admin must lapse 24h after login")
	}
	if caps := (*Session)(nil).Capabilities(at, time.Hour); caps.Visitor || caps.Admin {
		t.Fatal("nil session has no capabilities")
	}
}

func TestCategoryInUseIsConflict(t *testing.T) {
	err := error(&CategoryInUseError{CategoryID: 1, Providers: 3})
	if !errors.Is(err, ErrConflict) {
		t.Fatal("expected conflict")
	}
	if err.Error() != "Cannot delete category. 3 provider(s) are using it." {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
