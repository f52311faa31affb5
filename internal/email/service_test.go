package email

import (
	"context"
	"testing"

	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tmpl := config.EmailTemplate{
		Subject: "{store_name} order {order_id}",
		Body:    "Dear {firstname} {lastname}, next payment {next_payment}. {unknown}",
	}

	msg := Render(tmpl, "jan@example.com", map[string]string{
		"store_name":   "Shop",
		"order_id":     "12",
		"firstname":    "Jan",
		"lastname":     "Jansen",
		"next_payment": "01-06-2026",
	})

	assert.Equal(t, "jan@example.com", msg.ToAddress)
	assert.Equal(t, "Shop order 12", msg.Subject)
	assert.Equal(t, "Dear Jan Jansen, next payment 01-06-2026. {unknown}", msg.Text)
}

func TestSendSkipsWhenDisabled(t *testing.T) {
	sender := NewEmail(NewClient(config.GetDefaultConfig()), logger.NewNoopLogger())

	res, err := sender.Send(context.Background(), Message{ToAddress: "a@b.c", Subject: "s", Text: "t"})
	require.NoError(t, err)
	assert.False(t, res.Sent)
}
