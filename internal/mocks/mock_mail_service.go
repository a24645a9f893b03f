package mocks

import (
	"context"
	"sync"

	"github.com/Sadman95/bike-island-server/domain"
)

// SentMail is a message captured by MockMailService
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// MockMailService implements domain.MailService interface for testing
type MockMailService struct {
	SendFunc func(ctx context.Context, to, subject, htmlBody string) error

	mu   sync.Mutex
	sent []SentMail
}

// NewMockMailService creates a new MockMailService with default behaviors
func NewMockMailService() *MockMailService {
	return &MockMailService{}
}

// Send records the message and returns SendFunc's result
func (m *MockMailService) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, to, subject, htmlBody); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// Sent returns every successfully sent message (test helper)
func (m *MockMailService) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

// Compile-time interface compliance verification
var _ domain.MailService = (*MockMailService)(nil)
