package mocks

import (
	"context"
	"time"

	"github.com/Sadman95/bike-island-server/domain"
)

// MockPasswordResetRepository implements domain.PasswordResetRepository interface for testing
type MockPasswordResetRepository struct {
	CreateFunc               func(ctx context.Context, reset *domain.PasswordReset) error
	FindByUserFunc           func(ctx context.Context, userID uint) (*domain.PasswordReset, error)
	FindByTokenFunc          func(ctx context.Context, encoded string) (*domain.PasswordReset, error)
	DeleteByUserAndTokenFunc func(ctx context.Context, userID uint, encoded string) error
	DeleteFunc               func(ctx context.Context, id uint) error
	DeleteExpiredFunc        func(ctx context.Context, now time.Time) (int64, error)
}

// NewMockPasswordResetRepository creates a new MockPasswordResetRepository with default behaviors
func NewMockPasswordResetRepository() *MockPasswordResetRepository {
	return &MockPasswordResetRepository{}
}

// Create stores a reset record
func (m *MockPasswordResetRepository) Create(ctx context.Context, reset *domain.PasswordReset) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, reset)
	}
	return nil
}

// FindByUser finds the user's pending reset
func (m *MockPasswordResetRepository) FindByUser(ctx context.Context, userID uint) (*domain.PasswordReset, error) {
	if m.FindByUserFunc != nil {
		return m.FindByUserFunc(ctx, userID)
	}
	return nil, domain.ErrResetTokenInvalid
}

// FindByToken finds a reset by encoded token
func (m *MockPasswordResetRepository) FindByToken(ctx context.Context, encoded string) (*domain.PasswordReset, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(ctx, encoded)
	}
	return nil, domain.ErrResetTokenInvalid
}

// DeleteByUserAndToken removes a consumed reset
func (m *MockPasswordResetRepository) DeleteByUserAndToken(ctx context.Context, userID uint, encoded string) error {
	if m.DeleteByUserAndTokenFunc != nil {
		return m.DeleteByUserAndTokenFunc(ctx, userID, encoded)
	}
	return nil
}

// Delete removes a reset record
func (m *MockPasswordResetRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// DeleteExpired removes expired resets
func (m *MockPasswordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx, now)
	}
	return 0, nil
}

// Compile-time interface compliance verification
var _ domain.PasswordResetRepository = (*MockPasswordResetRepository)(nil)
