package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/diagnosis/founder-playbook/internal/domain"
	"github.com/diagnosis/founder-playbook/internal/platform/mailer"
	"github.com/diagnosis/founder-playbook/internal/repo/postgres"
	"github.com/diagnosis/founder-playbook/internal/utils"
	"github.com/diagnosis/founder-playbook/pkg/events"
	"github.com/diagnosis/founder-playbook/pkg/logger"
)

const (
	generatedCodeLen     = 8
	generateAttempts     = 10
	accessLogPageSize    = 100
	statsRecentLogsLimit = 10
	codeAlphabet         = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// AdminService is the admin dashboard surface: access codes, the access log
// and dashboard counters.
type AdminService interface {
	ListCodes(ctx context.Context) ([]domain.AccessCode, error)
	CreateCode(ctx context.Context, in domain.AccessCodeInput) (*domain.AccessCode, error)
	GenerateCode(ctx context.Context, in domain.AccessCodeInput) (*domain.AccessCode, error)
	UpdateCode(ctx context.Context, id int64, patch domain.AccessCodePatch) (*domain.AccessCode, error)
	ToggleCode(ctx context.Context, id int64) (*domain.AccessCode, error)
	DeleteCode(ctx context.Context, id int64) error

	AccessLog(ctx context.Context) ([]domain.AccessLog, error)
	ClearAccessLog(ctx context.Context) (int64, error)

	Stats(ctx context.Context) (*domain.AdminStats, error)
}

type adminService struct {
	codes      postgres.AccessCodeRepo
	logs       postgres.AccessLogRepo
	providers  postgres.ProviderRepo
	categories postgres.CategoryRepo
	mail       mailer.Service
	bus        events.Publisher
	portalURL  string
	generate   func() (string, error)
}

func NewAdminService(
	codes postgres.AccessCodeRepo,
	logs postgres.AccessLogRepo,
	providers postgres.ProviderRepo,
	categories postgres.CategoryRepo,
	mail mailer.Service,
	bus events.Publisher,
	portalURL string,
) AdminService {
	return &adminService{
		codes:      codes,
		logs:       logs,
		providers:  providers,
		categories: categories,
		mail:       mail,
		bus:        bus,
		portalURL:  portalURL,
		generate:   randomCode,
	}
}

func (s *adminService) ListCodes(ctx context.Context) ([]domain.AccessCode, error) {
	out, err := s.codes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list access codes: %w", err)
	}
	return out, nil
}

func (s *adminService) CreateCode(ctx context.Context, in domain.AccessCodeInput) (*domain.AccessCode, error) {
	code := utils.NormalizeString(in.Code)
	if code == "" {
		return nil, domain.NewValidation("code is required")
	}
	c, err := newAccessCode(code, in)
	if err != nil {
		return nil, err
	}
	created, err := s.codes.Create(ctx, c)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewConflict("This access code already exists")
		}
		return nil, fmt.Errorf("create access code: %w", err)
	}
	s.afterCreate(ctx, created, in.SendEmail)
	return created, nil
}

// GenerateCode retries on collisions; the unique index decides.
func (s *adminService) GenerateCode(ctx context.Context, in domain.AccessCodeInput) (*domain.AccessCode, error) {
	for i := 0; i < generateAttempts; i++ {
		code, err := s.generate()
		if err != nil {
			return nil, fmt.Errorf("generate access code: %w", err)
		}
		c, err := newAccessCode(code, in)
		if err != nil {
			return nil, err
		}
		created, err := s.codes.Create(ctx, c)
		if errors.Is(err, domain.ErrConflict) {
			logger.DebugContext(ctx, "Generated access code collided, retrying", "attempt", i+1)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create access code: %w", err)
		}
		s.afterCreate(ctx, created, in.SendEmail)
		return created, nil
	}
	return nil, fmt.Errorf("generate access code: no unique code after %d attempts", generateAttempts)
}

func (s *adminService) UpdateCode(ctx context.Context, id int64, patch domain.AccessCodePatch) (*domain.AccessCode, error) {
	c, err := s.codes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get access code %d: %w", id, err)
	}
	patch.Apply(c)
	if c.MaxUsage < 0 {
		return nil, domain.NewValidation("maxUsage cannot be negative")
	}
	if c.CustomerEmail != "" && !utils.IsValidEmail(c.CustomerEmail) {
		return nil, domain.NewValidation("customerEmail is not a valid email address")
	}
	updated, err := s.codes.Update(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("update access code %d: %w", id, err)
	}
	s.publishCode(ctx, events.AccessCodeUpdated, updated, "updated")
	return updated, nil
}

func (s *adminService) ToggleCode(ctx context.Context, id int64) (*domain.AccessCode, error) {
	c, err := s.codes.Toggle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("toggle access code %d: %w", id, err)
	}
	action := "deactivated"
	if c.IsActive {
		action = "activated"
	}
	s.publishCode(ctx, events.AccessCodeUpdated, c, action)
	return c, nil
}

func (s *adminService) DeleteCode(ctx context.Context, id int64) error {
	if err := s.codes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete access code %d: %w", id, err)
	}
	publish(ctx, s.bus, events.AccessCodeDeleted, events.AccessCodeEvent{
		AccessCodeID: id,
		Action:       "deleted",
		At:           time.Now(),
	})
	return nil
}

func (s *adminService) AccessLog(ctx context.Context) ([]domain.AccessLog, error) {
	out, err := s.logs.Recent(ctx, accessLogPageSize)
	if err != nil {
		return nil, fmt.Errorf("list access log: %w", err)
	}
	return out, nil
}

func (s *adminService) ClearAccessLog(ctx context.Context) (int64, error) {
	n, err := s.logs.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear access log: %w", err)
	}
	logger.InfoContext(ctx, "Access log cleared", "deleted", n)
	return n, nil
}

func (s *adminService) Stats(ctx context.Context) (*domain.AdminStats, error) {
	var st domain.AdminStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.ProvidersCount, err = s.providers.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.CategoriesCount, err = s.categories.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.AccessCodesCount, st.ActiveCodesCount, err = s.codes.Counts(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.RecentLogs, err = s.logs.Recent(gctx, statsRecentLogsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("admin stats: %w", err)
	}
	return &st, nil
}

func (s *adminService) afterCreate(ctx context.Context, c *domain.AccessCode, sendEmail bool) {
	s.publishCode(ctx, events.AccessCodeCreated, c, "created")
	if !sendEmail {
		return
	}
	if !utils.IsValidEmail(c.CustomerEmail) {
		logger.WarnContext(ctx, "Access code email skipped, no valid customer email", "access_code_id", c.ID)
		return
	}
	m := mailer.AccessCodeMail{
		ToEmail:   c.CustomerEmail,
		ToName:    c.CustomerName,
		Code:      c.Code,
		PortalURL: s.portalURL,
	}
	if c.ExpiresAt != nil {
		m.ExpiresAt = c.ExpiresAt.Format("January 2, 2006")
	}
	if err := s.mail.SendAccessCode(ctx, m); err != nil {
		logger.ErrorContext(ctx, "Failed to email access code", "access_code_id", c.ID, "error", err)
	}
}

func (s *adminService) publishCode(ctx context.Context, subject string, c *domain.AccessCode, action string) {
	publish(ctx, s.bus, subject, events.AccessCodeEvent{
		AccessCodeID: c.ID,
		Code:         c.Code,
		Action:       action,
		At:           time.Now(),
	})
}

func newAccessCode(code string, in domain.AccessCodeInput) (*domain.AccessCode, error) {
	if in.MaxUsage < 0 {
		return nil, domain.NewValidation("maxUsage cannot be negative")
	}
	email := utils.NormalizeEmail(in.CustomerEmail)
	if email != "" && !utils.IsValidEmail(email) {
		return nil, domain.NewValidation("customerEmail is not a valid email address")
	}
	return &domain.AccessCode{
		Code:          code,
		CustomerName:  utils.NormalizeString(in.CustomerName),
		CustomerPhone: utils.NormalizeString(in.CustomerPhone),
		CustomerEmail: email,
		Notes:         utils.NormalizeString(in.Notes),
		IsActive:      true,
		MaxUsage:      in.MaxUsage,
		ExpiresAt:     in.ExpiresAt,
	}, nil
}

func randomCode() (string, error) {
	buf := make([]byte, generatedCodeLen)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
