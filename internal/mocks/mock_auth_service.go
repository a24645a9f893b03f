package mocks

import (
	"context"

	"github.com/Sadman95/bike-island-server/domain"
)

// MockAuthService implements domain.AuthService interface for testing.
// Unset functions fail with domain.ErrUserNotFound unless noted.
type MockAuthService struct {
	SignUpFunc         func(ctx context.Context, input domain.SignUpInput) (*domain.SignUpResult, error)
	LoginFunc          func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	GoogleLoginFunc    func(ctx context.Context, code string) (*domain.AuthResult, error)
	RefreshFunc        func(ctx context.Context, refreshCookie string) (*domain.AuthResult, error)
	LogoutFunc         func(ctx context.Context, userID uint) error
	ChangePasswordFunc func(ctx context.Context, userID uint, oldPassword, newPassword string) error
	ForgotPasswordFunc func(ctx context.Context, email string) error
	ResetPasswordFunc  func(ctx context.Context, token, password string) error
	GetUserProfileFunc func(ctx context.Context, userID uint) (*domain.User, error)
	ChangeRoleFunc     func(ctx context.Context, userID uint, role string) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// SignUp creates an account
func (m *MockAuthService) SignUp(ctx context.Context, input domain.SignUpInput) (*domain.SignUpResult, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, input)
	}
	return nil, domain.ErrUserAlreadyExists
}

// Login authenticates with email and password
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, domain.ErrUserNotFound
}

// GoogleLogin authenticates with a Google authorization code
func (m *MockAuthService) GoogleLogin(ctx context.Context, code string) (*domain.AuthResult, error) {
	if m.GoogleLoginFunc != nil {
		return m.GoogleLoginFunc(ctx, code)
	}
	return nil, domain.ErrUserNotFound
}

// Refresh issues a new access token from a refresh cookie
func (m *MockAuthService) Refresh(ctx context.Context, refreshCookie string) (*domain.AuthResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshCookie)
	}
	return nil, domain.ErrForbidden
}

// Logout ends the session; succeeds by default
func (m *MockAuthService) Logout(ctx context.Context, userID uint) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, userID)
	}
	return nil
}

// ChangePassword changes the password; succeeds by default
func (m *MockAuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, userID, oldPassword, newPassword)
	}
	return nil
}

// ForgotPassword starts a reset; succeeds by default
func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return nil
}

// ResetPassword completes a reset; succeeds by default
func (m *MockAuthService) ResetPassword(ctx context.Context, token, password string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, password)
	}
	return nil
}

// GetUserProfile returns the user
func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

// ChangeRole updates the user's role
func (m *MockAuthService) ChangeRole(ctx context.Context, userID uint, role string) (*domain.User, error) {
	if m.ChangeRoleFunc != nil {
		return m.ChangeRoleFunc(ctx, userID, role)
	}
	return nil, domain.ErrUserNotFound
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
