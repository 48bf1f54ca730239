package mailer

import (
	"context"

	"github.com/diagnosis/founder-playbook/pkg/logger"
)

// DevMailer logs instead of sending. Used when MailerSend isn't configured.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendAccessCode(ctx context.Context, m AccessCodeMail) error {
	logger.InfoContext(ctx, "[DEV MAIL] Access code email",
		"to", m.ToEmail,
		"name", m.ToName,
		"code", m.Code,
		"portal_url", m.PortalURL,
		"expires_at", m.ExpiresAt,
	)
	return nil
}
