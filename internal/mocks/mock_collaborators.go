package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/Sadman95/bike-island-server/domain"
)

// MockIdentityProvider implements domain.IdentityProvider interface for testing
type MockIdentityProvider struct {
	ExchangeFunc func(ctx context.Context, code string) (string, error)
}

// Exchange returns ExchangeFunc's result or ErrIdentityProvider
func (m *MockIdentityProvider) Exchange(ctx context.Context, code string) (string, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	return "", domain.ErrIdentityProvider
}

// MockAuditLogger implements domain.AuditLogger and keeps every event
type MockAuditLogger struct {
	mu     sync.Mutex
	events []*domain.AuditEvent
}

func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

// LogEvent records the event
func (m *MockAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Types returns the recorded event types in order (test helper)
func (m *MockAuditLogger) Types() []domain.AuditEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditEventType, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.EventType)
	}
	return out
}

// MockLocker implements domain.Locker interface for testing
type MockLocker struct {
	TryLockFunc func(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// TryLock returns TryLockFunc's result; by default the lock is granted
func (m *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if m.TryLockFunc != nil {
		return m.TryLockFunc(ctx, key, ttl)
	}
	return true, nil
}

// MockRateLimiter implements domain.RateLimiter interface for testing
type MockRateLimiter struct {
	AllowFunc func(ctx context.Context, key string) (bool, time.Duration, error)
}

// Allow returns AllowFunc's result; by default every request is allowed
func (m *MockRateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key)
	}
	return true, 0, nil
}

// Compile-time interface compliance verification
var (
	_ domain.IdentityProvider = (*MockIdentityProvider)(nil)
	_ domain.AuditLogger      = (*MockAuditLogger)(nil)
	_ domain.Locker           = (*MockLocker)(nil)
	_ domain.RateLimiter      = (*MockRateLimiter)(nil)
)
