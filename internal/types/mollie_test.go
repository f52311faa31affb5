package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebhookResourceFromID(t *testing.T) {
	assert.Equal(t, WebhookResourceOrder, WebhookResourceFromID("ord_kEn1PlbGa"))
	assert.Equal(t, WebhookResourcePayment, WebhookResourceFromID("tr_7UhSN1zuXS"))
	assert.Equal(t, WebhookResourcePaymentLink, WebhookResourceFromID("pl_4Y0eZitmBnQ6IDoMqZQKh"))
	assert.Equal(t, WebhookResourcePaymentLink, WebhookResourceFromID("unknown"))
}

func TestPaymentStatusIsSuccessful(t *testing.T) {
	assert.True(t, PaymentStatusPaid.IsSuccessful())
	assert.True(t, PaymentStatusAuthorized.IsSuccessful())
	assert.False(t, PaymentStatusOpen.IsSuccessful())
	assert.False(t, PaymentStatusCanceled.IsSuccessful())
}
