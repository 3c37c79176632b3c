// Package mailer sends transactional email through Mailjet.
package mailer

import (
	"context"
	"fmt"

	"github.com/mailjet/mailjet-apiv3-go"
	"go.uber.org/zap"

	"TRAVBUD_BACK-END/internal/config"
	"TRAVBUD_BACK-END/internal/logger"
)

type Mailjet struct {
	client *mailjet.Client
	from   mailjet.RecipientV31
}

func NewMailjet(cfg config.MailjetConfig) *Mailjet {
	return &Mailjet{
		client: mailjet.NewMailjetClient(cfg.APIKeyPublic, cfg.APIKeyPrivate),
		from:   mailjet.RecipientV31{Email: cfg.FromEmail, Name: cfg.FromName},
	}
}

// SendWelcome greets a new newsletter subscriber.
func (m *Mailjet) SendWelcome(ctx context.Context, email string) error {
	subject, text, html := welcomeMessage(m.from.Name)
	return m.send(ctx, email, subject, text, html)
}

func (m *Mailjet) send(ctx context.Context, to, subject, text, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	from := m.from
	messages := mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{{
		From:     &from,
		To:       &mailjet.RecipientsV31{{Email: to}},
		Subject:  subject,
		TextPart: text,
		HTMLPart: html,
	}}}

	res, err := m.client.SendMailV31(&messages)
	if err != nil {
		return fmt.Errorf("mailjet send to %s: %w", to, err)
	}
	for _, r := range res.ResultsV31 {
		if r.Status != "success" {
			return fmt.Errorf("mailjet send to %s: status %s", to, r.Status)
		}
	}
	logger.FromContext(ctx).Debug("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func welcomeMessage(team string) (subject, text, html string) {
	subject = "Welcome to TravBud!"
	text = fmt.Sprintf(`Hello,

Thanks for subscribing to the TravBud newsletter. We will send you new trips,
travel buddies and destination ideas.

Happy travels,
%s`, team)
	html = fmt.Sprintf(`<h3>Welcome to TravBud!</h3>
<p>Thanks for subscribing to the TravBud newsletter. We will send you new trips, travel buddies and destination ideas.</p>
<p>Happy travels,<br/>%s</p>`, team)
	return subject, text, html
}

// Nop drops every message. It is used when Mailjet is not configured.
type Nop struct{}

func (Nop) SendWelcome(ctx context.Context, email string) error {
	logger.FromContext(ctx).Debug("Mailjet not configured, skipping welcome email", zap.String("to", email))
	return nil
}
