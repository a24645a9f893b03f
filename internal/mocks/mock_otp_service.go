package mocks

import (
	"context"
	"time"

	"github.com/Sadman95/bike-island-server/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	IssueFunc        func(ctx context.Context, userID uint, email string) (*domain.OTPIssue, error)
	FetchOwnFunc     func(ctx context.Context, userID uint) (*domain.OTPIssue, error)
	VerifyFunc       func(ctx context.Context, userID uint, code string) error
	PurgeExpiredFunc func(ctx context.Context) (int64, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Issue issues a new OTP
func (m *MockOTPService) Issue(ctx context.Context, userID uint, email string) (*domain.OTPIssue, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, userID, email)
	}
	// Default behavior: issued, valid for an hour
	return &domain.OTPIssue{Email: email, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// FetchOwn returns the caller's live OTP
func (m *MockOTPService) FetchOwn(ctx context.Context, userID uint) (*domain.OTPIssue, error) {
	if m.FetchOwnFunc != nil {
		return m.FetchOwnFunc(ctx, userID)
	}
	return nil, domain.ErrOTPNotFound
}

// Verify checks an OTP
func (m *MockOTPService) Verify(ctx context.Context, userID uint, code string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, userID, code)
	}
	// Default behavior: accept "123456"
	if code == "123456" {
		return nil
	}
	return domain.ErrOTPNotFound
}

// PurgeExpired removes expired OTPs
func (m *MockOTPService) PurgeExpired(ctx context.Context) (int64, error) {
	if m.PurgeExpiredFunc != nil {
		return m.PurgeExpiredFunc(ctx)
	}
	return 0, nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
