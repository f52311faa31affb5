package email

import (
	"context"

	"github.com/resend/resend-go/v2"
	"github.com/shopbridge/mollie-gateway/internal/config"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
)

// Client wraps the resend client
type Client struct {
	client      *resend.Client
	enabled     bool
	fromAddress string
	replyTo     string
}

func NewClient(cfg *config.Configuration) *Client {
	if !cfg.Email.Enabled || cfg.Email.APIKey == "" {
		return &Client{enabled: false}
	}

	return &Client{
		client:      resend.NewClient(cfg.Email.APIKey),
		enabled:     true,
		fromAddress: cfg.Email.FromAddress,
		replyTo:     cfg.Email.ReplyTo,
	}
}

func (c *Client) IsEnabled() bool {
	return c.enabled
}

func (c *Client) FromAddress() string {
	return c.fromAddress
}

// Send delivers a plain text email and returns the provider message id
func (c *Client) Send(ctx context.Context, from, to, subject, text string) (string, error) {
	if !c.enabled {
		return "", ierr.NewError("email client is disabled").
			Mark(ierr.ErrInvalidOperation)
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		Text:    text,
	}
	if c.replyTo != "" {
		params.ReplyTo = c.replyTo
	}

	sent, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to send email").
			Mark(ierr.ErrHTTPClient)
	}
	return sent.Id, nil
}
