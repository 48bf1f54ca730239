package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type Mailer struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	Enabled bool
}

func NewMailer(apiKey, fromName, fromEmail string) *Mailer {
	m := &Mailer{
		Enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}
	if m.Enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}
	return m
}

func (m *Mailer) Send(ctx context.Context, toEmail, toName, subject, text, htmlBody string) (string, error) {
	if !m.Enabled {
		return "", errors.New("mailer disabled (missing MAILERSEND_API_KEY or MAILER_FROM)")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(htmlBody) != "" {
		msg.SetHTML(htmlBody)
	}

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	// MailerSend uses X-Message-Id
	return res.Header.Get("X-Message-Id"), nil
}

func (m *Mailer) SendAccessCode(ctx context.Context, am AccessCodeMail) error {
	subject := "Your Founder Playbook access code"
	text := fmt.Sprintf("Your access code is %s. Sign in at %s", am.Code, am.PortalURL)
	if am.ExpiresAt != "" {
		text += fmt.Sprintf("\nThe code is valid until %s.", am.ExpiresAt)
	}
	body := fmt.Sprintf(`<p>Your access code is <b>%s</b></p><p>Sign in at <a href="%s">%s</a></p>`,
		html.EscapeString(am.Code), html.EscapeString(am.PortalURL), html.EscapeString(am.PortalURL))
	if am.ExpiresAt != "" {
		body += fmt.Sprintf(`<p>The code is valid until %s.</p>`, html.EscapeString(am.ExpiresAt))
	}
	_, err := m.Send(ctx, am.ToEmail, am.ToName, subject, text, body)
	return err
}
