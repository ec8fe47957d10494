package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"massobook/models"
	"massobook/utils"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var ErrMissingAPIKey = errors.New("email provider api key is not configured")

type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridMailer sends confirmations through SendGrid's v3 mail API.
type SendGridMailer struct {
	client   sendClient
	from     *mail.Email
	provider string
}

type SendGridConfig struct {
	APIKey       string
	From         string
	FromName     string
	ProviderName string
}

// NewSendGridMailer never fails: a missing key surfaces on each send as a configuration error.
func NewSendGridMailer(cfg SendGridConfig) *SendGridMailer {
	m := &SendGridMailer{
		from:     mail.NewEmail(cfg.FromName, cfg.From),
		provider: cfg.ProviderName,
	}
	if strings.TrimSpace(cfg.APIKey) != "" {
		m.client = sendgrid.NewSendClient(cfg.APIKey)
	}
	return m
}

func (m *SendGridMailer) SendConfirmation(ctx context.Context, p models.ConfirmationPayload) error {
	if m.client == nil {
		return utils.NewConfigurationError("email provider unavailable", ErrMissingAPIKey)
	}
	if m.from.Address == "" {
		return utils.NewConfigurationError("email sender unavailable", errors.New("MAIL_FROM is not configured"))
	}

	html, plain, err := renderConfirmation(p, m.provider)
	if err != nil {
		return err
	}
	to := mail.NewEmail(strings.TrimSpace(p.Name+" "+p.Surname), p.To)
	message := mail.NewSingleEmail(m.from, confirmationSubject, to, plain, html)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return utils.NewUpstreamError("email provider failed", err)
	}
	if resp.StatusCode >= 400 {
		return utils.NewUpstreamError("email provider rejected message",
			fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body))
	}
	return nil
}
