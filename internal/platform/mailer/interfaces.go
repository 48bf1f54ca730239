package mailer

import "context"

// AccessCodeMail is what a customer receives when an admin issues them a code.
type AccessCodeMail struct {
	ToEmail   string
	ToName    string
	Code      string
	PortalURL string
	ExpiresAt string
}

type Service interface {
	SendAccessCode(ctx context.Context, m AccessCodeMail) error
}
