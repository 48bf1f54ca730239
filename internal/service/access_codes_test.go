package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diagnosis/founder-playbook/internal/domain"
	"github.com/diagnosis/founder-playbook/pkg/events"
)

type adminFixture struct {
	svc   *adminService
	codes *fakeCodes
	logs  *fakeLogs
	mail  *fakeMailer
	bus   *fakeBus
}

func newAdminFixture(codes ...domain.AccessCode) *adminFixture {
	now := func() time.Time { return fixedNow }
	f := &adminFixture{
		codes: newFakeCodes(now, codes...),
		logs:  &fakeLogs{},
		mail:  &fakeMailer{},
		bus:   &fakeBus{},
	}
	provs := newFakeProviders(domain.Provider{ID: 1, Name: "A"}, domain.Provider{ID: 2, Name: "B"})
	cats := newFakeCategories(domain.Category{ID: 1, Name: "Legal", Slug: "legal"})
	f.svc = NewAdminService(f.codes, f.logs, provs, cats, f.mail, f.bus, "https://playbook.example.com").(*adminService)
	return f
}

func TestCreateCode(t *testing.T) {
	f := newAdminFixture(domain.AccessCode{Code: "TAKEN", IsActive: true})
	ctx := context.Background()

	c, err := f.svc.CreateCode(ctx, domain.AccessCodeInput{Code: "  VIP2026 ", CustomerName: " Ana ", CustomerEmail: "ANA@Example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Code != "VIP2026" || c.CustomerName != "Ana" || c.CustomerEmail != "ana@example.com" || !c.IsActive {
		t.Fatalf("unexpected code %+v", c)
	}
	if len(f.mail.sent) != 0 {
		t.Fatal("email sent without sendEmail")
	}

	_, err = f.svc.CreateCode(ctx, domain.AccessCodeInput{Code: "TAKEN"})
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) || conflict.Msg != "This access code already exists" {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}

	if _, err := f.svc.CreateCode(ctx, domain.AccessCodeInput{Code: " "}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.svc.CreateCode(ctx, domain.AccessCodeInput{Code: "NEG", MaxUsage: -1}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for negative max usage, got %v", err)
	}
}

func TestGenerateCode_RetriesOnCollision(t *testing.T) {
	f := newAdminFixture(domain.AccessCode{Code: "AAAAAAAA", IsActive: true})
	queue := []string{"AAAAAAAA", "BBBBBBBB"}
	f.svc.generate = func() (string, error) {
		c := queue[0]
		queue = queue[1:]
		return c, nil
	}

	c, err := f.svc.GenerateCode(context.Background(), domain.AccessCodeInput{CustomerName: "Bo", MaxUsage: 3})
	if err != nil {
		t.Fatal(err)
	}
	if c.Code != "BBBBBBBB" || c.MaxUsage != 3 {
		t.Fatalf("unexpected generated code %+v", c)
	}
}

func TestGenerateCode_GivesUp(t *testing.T) {
	f := newAdminFixture(domain.AccessCode{Code: "AAAAAAAA", IsActive: true})
	f.svc.generate = func() (string, error) { return "AAAAAAAA", nil }

	if _, err := f.svc.GenerateCode(context.Background(), domain.AccessCodeInput{}); err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
}

func TestRandomCode_Alphabet(t *testing.T) {
	for i := 0; i < 50; i++ {
		c, err := randomCode()
		if err != nil {
			t.Fatal(err)
		}
		if len(c) != generatedCodeLen {
			t.Fatalf("unexpected length %q", c)
		}
		for _, r := range c {
			if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
				t.Fatalf("unexpected rune %q in %q", r, c)
			}
		}
	}
}

func TestCreateCode_SendsEmail(t *testing.T) {
	f := newAdminFixture()
	exp := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.CreateCode(context.Background(), domain.AccessCodeInput{
		Code: "MAIL1", CustomerName: "Ana", CustomerEmail: "ana@example.com", ExpiresAt: &exp, SendEmail: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(f.mail.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(f.mail.sent))
	}
	m := f.mail.sent[0]
	if m.Code != "MAIL1" || m.ToEmail != "ana@example.com" || m.PortalURL != "https://playbook.example.com" || m.ExpiresAt != "December 31, 2026" {
		t.Fatalf("unexpected mail %+v", m)
	}
}

func TestCreateCode_EmailFailureIsNotFatal(t *testing.T) {
	f := newAdminFixture()
	f.mail.err = errors.New("smtp down")

	c, err := f.svc.CreateCode(context.Background(), domain.AccessCodeInput{Code: "MAIL2", CustomerEmail: "bo@example.com", SendEmail: true})
	if err != nil || c == nil {
		t.Fatalf("expected code to be created despite mail failure, got %v", err)
	}
}

func TestUpdateCode_PatchSemantics(t *testing.T) {
	exp := fixedNow.Add(24 * time.Hour)
	f := newAdminFixture(domain.AccessCode{Code: "X1", CustomerName: "Ana", Notes: "vip", IsActive: true, MaxUsage: 5, ExpiresAt: &exp})
	ctx := context.Background()

	c, err := f.svc.UpdateCode(ctx, 1, domain.AccessCodePatch{Notes: strp("")})
	if err != nil {
		t.Fatal(err)
	}
	if c.Notes != "" || c.CustomerName != "Ana" || c.MaxUsage != 5 || c.ExpiresAt == nil {
		t.Fatalf("absent fields must stay untouched, got %+v", c)
	}

	c, err = f.svc.UpdateCode(ctx, 1, domain.AccessCodePatch{ExpiresAt: domain.NullableTime{Set: true}})
	if err != nil {
		t.Fatal(err)
	}
	if c.ExpiresAt != nil {
		t.Fatal("explicit null should clear expiry")
	}

	if _, err := f.svc.UpdateCode(ctx, 99, domain.AccessCodePatch{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if got := f.bus.subjects(); len(got) != 2 || got[0] != events.AccessCodeUpdated {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestToggleAndDeleteCode(t *testing.T) {
	f := newAdminFixture(domain.AccessCode{Code: "T1", IsActive: true})
	ctx := context.Background()

	c, err := f.svc.ToggleCode(ctx, 1)
	if err != nil || c.IsActive {
		t.Fatalf("expected deactivated code, got %+v, %v", c, err)
	}
	c, _ = f.svc.ToggleCode(ctx, 1)
	if !c.IsActive {
		t.Fatal("expected reactivated code")
	}

	if err := f.svc.DeleteCode(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.DeleteCode(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestStats(t *testing.T) {
	f := newAdminFixture(
		domain.AccessCode{Code: "A", IsActive: true},
		domain.AccessCode{Code: "B", IsActive: false},
		domain.AccessCode{Code: "C", IsActive: true},
	)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		_ = f.logs.Append(ctx, &domain.AccessLog{CodeUsed: "A", Success: true})
	}

	st, err := f.svc.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.ProvidersCount != 2 || st.CategoriesCount != 1 || st.AccessCodesCount != 3 || st.ActiveCodesCount != 2 {
		t.Fatalf("unexpected counts %+v", st)
	}
	if len(st.RecentLogs) != statsRecentLogsLimit {
		t.Fatalf("expected %d recent logs, got %d", statsRecentLogsLimit, len(st.RecentLogs))
	}

	n, err := f.svc.ClearAccessLog(ctx)
	if err != nil || n != 12 {
		t.Fatalf("unexpected clear result %d, %v", n, err)
	}
	logs, _ := f.svc.AccessLog(ctx)
	if len(logs) != 0 {
		t.Fatalf("expected empty log, got %d", len(logs))
	}
}
