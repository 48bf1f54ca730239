package session

import (
	"net/http"

	"github.com/diagnosis/founder-playbook/internal/platform/auth"
)

// Cookies reads and writes the signed session cookie.
type Cookies struct {
	Name   string
	Secure bool
	Codec  *auth.TokenCodec
}

func (c Cookies) sameSite() http.SameSite {
	if c.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// Read returns the session id from a valid cookie. Tampered or expired
// cookies read as absent.
func (c Cookies) Read(r *http.Request) (string, bool) {
	ck, err := r.Cookie(c.Name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	sid, err := c.Codec.Parse(ck.Value)
	if err != nil {
		return "", false
	}
	return sid, true
}

// Write issues a fresh token for sid, restarting the rolling window.
func (c Cookies) Write(w http.ResponseWriter, sid string) error {
	tok, err := c.Codec.Issue(sid)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(c.Codec.TTL().Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
	})
	return nil
}

func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
	})
}
