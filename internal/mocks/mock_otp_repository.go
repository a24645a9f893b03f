package mocks

import (
	"context"
	"time"

	"github.com/Sadman95/bike-island-server/domain"
)

// MockOTPRepository implements domain.OTPRepository interface for testing
type MockOTPRepository struct {
	CreateFunc            func(ctx context.Context, record *domain.OTPRecord) error
	FindByUserFunc        func(ctx context.Context, userID uint) (*domain.OTPRecord, error)
	FindByUserAndCodeFunc func(ctx context.Context, userID uint, encoded string) (*domain.OTPRecord, error)
	DeleteFunc            func(ctx context.Context, id uint) error
	DeleteExpiredFunc     func(ctx context.Context, now time.Time) (int64, error)
}

// NewMockOTPRepository creates a new MockOTPRepository with default behaviors
func NewMockOTPRepository() *MockOTPRepository {
	return &MockOTPRepository{}
}

// Create stores an OTP record
func (m *MockOTPRepository) Create(ctx context.Context, record *domain.OTPRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, record)
	}
	return nil
}

// FindByUser finds the user's OTP record
func (m *MockOTPRepository) FindByUser(ctx context.Context, userID uint) (*domain.OTPRecord, error) {
	if m.FindByUserFunc != nil {
		return m.FindByUserFunc(ctx, userID)
	}
	return nil, domain.ErrOTPNotFound
}

// FindByUserAndCode finds the user's OTP record with the given encoded code
func (m *MockOTPRepository) FindByUserAndCode(ctx context.Context, userID uint, encoded string) (*domain.OTPRecord, error) {
	if m.FindByUserAndCodeFunc != nil {
		return m.FindByUserAndCodeFunc(ctx, userID, encoded)
	}
	return nil, domain.ErrOTPNotFound
}

// Delete removes an OTP record
func (m *MockOTPRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// DeleteExpired removes expired OTP records
func (m *MockOTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx, now)
	}
	return 0, nil
}

// Compile-time interface compliance verification
var _ domain.OTPRepository = (*MockOTPRepository)(nil)
