package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diagnosis/founder-playbook/internal/platform/auth"
)

func TestCookies_WriteThenRead(t *testing.T) {
	c := Cookies{Name: "playbook.sid", Codec: auth.NewTokenCodec("s", time.Hour)}

	rec := httptest.NewRecorder()
	if err := c.Write(rec, "abc"); err != nil {
		t.Fatal(err)
	}
	res := rec.Result()
	cookies := res.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if !ck.HttpOnly || ck.Secure || ck.SameSite != http.SameSiteLaxMode || ck.MaxAge != 3600 {
		t.Fatalf("unexpected dev cookie attributes %+v", ck)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	sid, ok := c.Read(req)
	if !ok || sid != "abc" {
		t.Fatalf("got %q %v", sid, ok)
	}
}

func TestCookies_ProductionAttributes(t *testing.T) {
	c := Cookies{Name: "playbook.sid", Secure: true, Codec: auth.NewTokenCodec("s", time.Hour)}
	rec := httptest.NewRecorder()
	_ = c.Write(rec, "abc")
	ck := rec.Result().Cookies()[0]
	if !ck.Secure || ck.SameSite != http.SameSiteNoneMode {
		t.Fatalf("production cookie must be Secure and SameSite=None, got %+v", ck)
	}
}

func TestCookies_TamperedReadsAsAbsent(t *testing.T) {
	c := Cookies{Name: "playbook.sid", Codec: auth.NewTokenCodec("s", time.Hour)}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "playbook.sid", Value: "forged"})
	if _, ok := c.Read(req); ok {
		t.Fatal("forged cookie must not resolve")
	}
}

func TestCookies_Clear(t *testing.T) {
	c := Cookies{Name: "playbook.sid", Codec: auth.NewTokenCodec("s", time.Hour)}
	rec := httptest.NewRecorder()
	c.Clear(rec)
	ck := rec.Result().Cookies()[0]
	if ck.MaxAge >= 0 || ck.Value != "" {
		t.Fatalf("expected deletion cookie, got %+v", ck)
	}
}
