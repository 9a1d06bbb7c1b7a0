package services

import (
	"context"
	"sync"
)

// MockMailer records sent messages for testing
type MockMailer struct {
	sent []EmailMessage
	err  error
	mu   sync.Mutex
}

// NewMockMailer creates a mock mailer
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// FailWith makes every Send return err (nil restores success)
func (m *MockMailer) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Send records msg or returns the configured error
func (m *MockMailer) Send(ctx context.Context, msg EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a copy of the recorded messages
func (m *MockMailer) Sent() []EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EmailMessage(nil), m.sent...)
}
