package email

import (
	"context"
	"strings"

	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/logger"
)

// Sender delivers customer notifications
type Sender interface {
	Send(ctx context.Context, msg Message) (*SendResult, error)
}

type Email struct {
	client *Client
	logger *logger.Logger
}

func NewEmail(client *Client, logger *logger.Logger) Sender {
	return &Email{
		client: client,
		logger: logger,
	}
}

func (s *Email) Send(ctx context.Context, msg Message) (*SendResult, error) {
	if !s.client.IsEnabled() {
		s.logger.Warnw("email client is disabled, skipping email send",
			"to", msg.ToAddress,
			"subject", msg.Subject,
		)
		return &SendResult{Sent: false}, nil
	}

	messageID, err := s.client.Send(ctx, s.client.FromAddress(), msg.ToAddress, msg.Subject, msg.Text)
	if err != nil {
		s.logger.Errorw("failed to send email",
			"error", err,
			"to", msg.ToAddress,
			"subject", msg.Subject,
		)
		return nil, err
	}

	s.logger.Infow("email sent successfully",
		"message_id", messageID,
		"to", msg.ToAddress,
		"subject", msg.Subject,
	)
	return &SendResult{MessageID: messageID, Sent: true}, nil
}

// Render replaces {key} placeholders in both parts of a store template
func Render(tmpl config.EmailTemplate, to string, data map[string]string) Message {
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	r := strings.NewReplacer(pairs...)

	return Message{
		ToAddress: to,
		Subject:   r.Replace(tmpl.Subject),
		Text:      r.Replace(tmpl.Body),
	}
}
