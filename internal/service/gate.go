package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/diagnosis/founder-playbook/internal/domain"
	"github.com/diagnosis/founder-playbook/internal/platform/auth"
	"github.com/diagnosis/founder-playbook/internal/platform/session"
	"github.com/diagnosis/founder-playbook/internal/repo/postgres"
	"github.com/diagnosis/founder-playbook/pkg/events"
	"github.com/diagnosis/founder-playbook/pkg/logger"
)

// GateObserver receives gate outcomes for metrics.
type GateObserver interface {
	ObserveAccessAttempt(outcome string)
	ObserveAdminLogin(success bool)
}

type Attempt struct {
	Code      string
	IP        string
	UserAgent string
}

type GateService interface {
	// SubmitCode validates an access code and, on success, marks sess as an
	// authenticated visitor. sess may be nil for a first visit.
	SubmitCode(ctx context.Context, sess *domain.Session, a Attempt) (*domain.Session, error)
	Logout(ctx context.Context, sess *domain.Session) error
	AdminLogin(ctx context.Context, sess *domain.Session, password string) (*domain.Session, error)
	AdminLogout(ctx context.Context, sess *domain.Session) error
}

type GateConfig struct {
	SessionTTL time.Duration
}

type gateService struct {
	codes    postgres.AccessCodeRepo
	logs     postgres.AccessLogRepo
	sessions session.Store
	admin    *auth.AdminSecret
	bus      events.Publisher
	observer GateObserver
	cfg      GateConfig
	now      func() time.Time
}

func NewGateService(
	codes postgres.AccessCodeRepo,
	logs postgres.AccessLogRepo,
	sessions session.Store,
	admin *auth.AdminSecret,
	bus events.Publisher,
	observer GateObserver,
	cfg GateConfig,
) GateService {
	return &gateService{
		codes:    codes,
		logs:     logs,
		sessions: sessions,
		admin:    admin,
		bus:      bus,
		observer: observer,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *gateService) SubmitCode(ctx context.Context, sess *domain.Session, a Attempt) (*domain.Session, error) {
	code := strings.TrimSpace(a.Code)
	if code == "" {
		return nil, domain.NewValidation("Password is required")
	}

	entry := &domain.AccessLog{
		CodeUsed:  code,
		IPAddress: a.IP,
		UserAgent: a.UserAgent,
	}

	ac, err := s.codes.GetByCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, s.deny(ctx, entry, domain.ErrInvalidCredential)
	}
	if err != nil {
		return nil, s.fail(ctx, entry, fmt.Errorf("lookup access code: %w", err))
	}

	entry.AccessCodeID = &ac.ID
	entry.CustomerName = ac.CustomerName

	if rej := ac.Rejection(s.now()); rej != nil {
		return nil, s.deny(ctx, entry, rej)
	}

	consumed, ok, err := s.codes.TryConsume(ctx, ac.ID)
	if err != nil {
		return nil, s.fail(ctx, entry, fmt.Errorf("record usage: %w", err))
	}
	if !ok {
		// lost a race: another request used, disabled or deleted the code in between
		return nil, s.deny(ctx, entry, s.reclassify(ctx, ac.ID))
	}

	entry.Success = true
	entry.CustomerName = consumed.CustomerName
	if err := s.logs.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("write access log: %w", err)
	}

	now := s.now()
	sess, retired := s.elevate(sess, now)
	sess.IsAuthenticated = true
	sess.AuthenticatedAt = &now
	sess.AccessCodeID = &consumed.ID
	sess.CustomerName = consumed.CustomerName
	if err := s.sessions.Save(ctx, sess, s.cfg.SessionTTL); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.retire(ctx, retired)

	s.observe("granted")
	publish(ctx, s.bus, events.AccessGranted, events.AccessAttemptEvent{
		AccessCodeID: &consumed.ID,
		CustomerName: consumed.CustomerName,
		Outcome:      "granted",
		IPAddress:    a.IP,
		At:           now,
	})
	logger.InfoContext(ctx, "Access granted", "access_code_id", consumed.ID, "usage_count", consumed.UsageCount)
	return sess, nil
}

// reclassify re-reads a code whose guarded increment matched no row.
func (s *gateService) reclassify(ctx context.Context, id int64) error {
	fresh, err := s.codes.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.WarnContext(ctx, "Re-read after lost usage race failed", "error", err, "access_code_id", id)
		}
		return domain.ErrInvalidCredential
	}
	if rej := fresh.Rejection(s.now()); rej != nil {
		return rej
	}
	return domain.ErrInvalidCredential
}

// deny persists the failure entry and returns outcome, unless persisting fails.
func (s *gateService) deny(ctx context.Context, entry *domain.AccessLog, outcome error) error {
	if err := s.logs.Append(ctx, entry); err != nil {
		return fmt.Errorf("write access log: %w", err)
	}
	label := outcomeLabel(outcome)
	s.observe(label)
	publish(ctx, s.bus, events.AccessDenied, events.AccessAttemptEvent{
		AccessCodeID: entry.AccessCodeID,
		CustomerName: entry.CustomerName,
		Outcome:      label,
		IPAddress:    entry.IPAddress,
		At:           s.now(),
	})
	return outcome
}

// fail records the attempt on a best-effort basis and returns the store error.
func (s *gateService) fail(ctx context.Context, entry *domain.AccessLog, cause error) error {
	if err := s.logs.Append(ctx, entry); err != nil {
		logger.ErrorContext(ctx, "Failed to write access log", "error", err)
	}
	s.observe("error")
	return cause
}

func (s *gateService) Logout(ctx context.Context, sess *domain.Session) error {
	if sess == nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *gateService) AdminLogin(ctx context.Context, sess *domain.Session, password string) (*domain.Session, error) {
	if !s.admin.Configured() {
		logger.ErrorContext(ctx, "ADMIN_PASSWORD is not set")
		return nil, domain.ErrAdminNotConfigured
	}

	ok, err := s.admin.Verify(password)
	if err != nil {
		return nil, fmt.Errorf("verify admin password: %w", err)
	}
	if s.observer != nil {
		s.observer.ObserveAdminLogin(ok)
	}
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	now := s.now()
	sess, retired := s.elevate(sess, now)
	sess.IsAdmin = true
	sess.AdminAuthenticatedAt = &now
	if err := s.sessions.Save(ctx, sess, s.cfg.SessionTTL); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.retire(ctx, retired)
	publish(ctx, s.bus, events.AdminLogin, map[string]any{"at": now})
	return sess, nil
}

// AdminLogout drops only the admin capability; a visitor login survives.
func (s *gateService) AdminLogout(ctx context.Context, sess *domain.Session) error {
	if sess == nil {
		return nil
	}
	sess.IsAdmin = false
	sess.AdminAuthenticatedAt = nil
	if err := s.sessions.Save(ctx, sess, s.cfg.SessionTTL); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// elevate copies sess under a fresh id before a capability is raised, so an id
// known before login never carries the login. retired is the id to drop.
func (s *gateService) elevate(sess *domain.Session, now time.Time) (next *domain.Session, retired string) {
	id := uuid.NewString()
	if sess == nil {
		return &domain.Session{ID: id, ProgressKey: id, CreatedAt: now}, ""
	}
	cp := *sess
	cp.ID = id
	if cp.ProgressKey == "" {
		cp.ProgressKey = sess.ID
	}
	return &cp, sess.ID
}

// retire removes the pre-login record. It never held the raised capability,
// so a failed delete only leaves it to expire.
func (s *gateService) retire(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		logger.WarnContext(ctx, "Failed to delete pre-login session", "error", err)
	}
}

func (s *gateService) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveAccessAttempt(outcome)
	}
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrDeactivated):
		return "deactivated"
	case errors.Is(err, domain.ErrExpired):
		return "expired"
	case errors.Is(err, domain.ErrUsageLimitReached):
		return "usage_limit"
	default:
		return "invalid"
	}
}
