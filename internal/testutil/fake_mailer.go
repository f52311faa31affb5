package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopbridge/mollie-gateway/internal/email"
)

// FakeMailer records messages instead of sending them
type FakeMailer struct {
	mu       sync.Mutex
	Messages []email.Message
	Err      error
}

func NewFakeMailer() *FakeMailer {
	return &FakeMailer{}
}

func (m *FakeMailer) Send(_ context.Context, msg email.Message) (*email.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.Messages = append(m.Messages, msg)
	return &email.SendResult{MessageID: fmt.Sprintf("msg_%d", len(m.Messages)), Sent: true}, nil
}

func (m *FakeMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = nil
	m.Err = nil
}

var _ email.Sender = (*FakeMailer)(nil)
