package mocks

import (
	"context"

	"github.com/Sadman95/bike-island-server/domain"
)

// MockPasswordResetService implements domain.PasswordResetService interface for testing
type MockPasswordResetService struct {
	RequestResetFunc func(ctx context.Context, userID uint, email, username string) (*domain.PasswordReset, error)
	ConsumeResetFunc func(ctx context.Context, token, newPassword string) error
	PurgeExpiredFunc func(ctx context.Context) (int64, error)
}

// NewMockPasswordResetService creates a new MockPasswordResetService with default behaviors
func NewMockPasswordResetService() *MockPasswordResetService {
	return &MockPasswordResetService{}
}

// RequestReset starts a password reset
func (m *MockPasswordResetService) RequestReset(ctx context.Context, userID uint, email, username string) (*domain.PasswordReset, error) {
	if m.RequestResetFunc != nil {
		return m.RequestResetFunc(ctx, userID, email, username)
	}
	return &domain.PasswordReset{UserID: userID}, nil
}

// ConsumeReset completes a password reset
func (m *MockPasswordResetService) ConsumeReset(ctx context.Context, token, newPassword string) error {
	if m.ConsumeResetFunc != nil {
		return m.ConsumeResetFunc(ctx, token, newPassword)
	}
	return nil
}

// PurgeExpired removes expired resets
func (m *MockPasswordResetService) PurgeExpired(ctx context.Context) (int64, error) {
	if m.PurgeExpiredFunc != nil {
		return m.PurgeExpiredFunc(ctx)
	}
	return 0, nil
}

// Compile-time interface compliance verification
var _ domain.PasswordResetService = (*MockPasswordResetService)(nil)
