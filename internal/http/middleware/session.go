package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/diagnosis/founder-playbook/internal/domain"
	"github.com/diagnosis/founder-playbook/internal/http/response"
	"github.com/diagnosis/founder-playbook/internal/platform/session"
	"github.com/diagnosis/founder-playbook/pkg/logger"
)

type ctxKey string

const (
	ctxSession      ctxKey = "session"
	ctxCapabilities ctxKey = "capabilities"
)

// Sessions resolves the session cookie once per request.
type Sessions struct {
	Store       session.Store
	Cookies     session.Cookies
	TTL         time.Duration
	AdminWindow time.Duration
	Now         func() time.Time
}

func (s *Sessions) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Load attaches the session and its capabilities to the request context. A
// missing, tampered or expired cookie leaves the request anonymous. Known
// sessions get their TTL and cookie renewed.
func (s *Sessions) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var sess *domain.Session

		if sid, ok := s.Cookies.Read(r); ok {
			found, err := s.Store.Get(ctx, sid)
			switch {
			case err == nil:
				sess = found
				if err := s.Store.Touch(ctx, sid, s.TTL); err != nil {
					logger.WarnContext(ctx, "Failed to extend session", "error", err)
				}
				if err := s.Cookies.Write(w, sid); err != nil {
					logger.WarnContext(ctx, "Failed to re-issue session cookie", "error", err)
				}
			case errors.Is(err, domain.ErrNotFound):
				s.Cookies.Clear(w)
			default:
				logger.ErrorContext(ctx, "Session lookup failed", "error", err)
			}
		}

		caps := sess.Capabilities(s.now(), s.AdminWindow)
		ctx = context.WithValue(ctx, ctxSession, sess)
		ctx = context.WithValue(ctx, ctxCapabilities, caps)
		if sess != nil {
			ctx = context.WithValue(ctx, logger.SessionIDKey, sess.ID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Session returns the request's session, or nil for anonymous callers.
func Session(r *http.Request) *domain.Session {
	if v, ok := r.Context().Value(ctxSession).(*domain.Session); ok {
		return v
	}
	return nil
}

func Capabilities(r *http.Request) domain.Capabilities {
	if v, ok := r.Context().Value(ctxCapabilities).(domain.Capabilities); ok {
		return v
	}
	return domain.Capabilities{}
}

// WithSession is what Load does for a known session; handler tests use it directly.
func WithSession(ctx context.Context, sess *domain.Session, caps domain.Capabilities) context.Context {
	ctx = context.WithValue(ctx, ctxSession, sess)
	return context.WithValue(ctx, ctxCapabilities, caps)
}

func RequireVisitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !Capabilities(r).Visitor {
			response.Unauthorized(w, "Unauthorized. Please log in.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !Capabilities(r).Admin {
			response.Unauthorized(w, "Admin access required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
