package mocks

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Sadman95/bike-island-server/domain"
)

// MockTokenService implements domain.TokenService interface for testing.
// Default tokens look like "access:<id>:<role>" and verify back into claims.
type MockTokenService struct {
	GenerateAccessTokenFunc  func(claims domain.TokenClaims) (string, error)
	GenerateRefreshTokenFunc func(claims domain.TokenClaims) (string, error)
	VerifyFunc               func(token string, kind domain.TokenKind) (*domain.TokenClaims, error)
	RefreshTTLValue          time.Duration
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{RefreshTTLValue: 7 * 24 * time.Hour}
}

// GenerateAccessToken generates an access token for the user
func (m *MockTokenService) GenerateAccessToken(claims domain.TokenClaims) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(claims)
	}
	return fmt.Sprintf("access:%d:%s", claims.UserID, claims.Role), nil
}

// GenerateRefreshToken generates a refresh token for the user
func (m *MockTokenService) GenerateRefreshToken(claims domain.TokenClaims) (string, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(claims)
	}
	return fmt.Sprintf("refresh:%d:%s", claims.UserID, claims.Role), nil
}

// Verify parses tokens produced by the default generators
func (m *MockTokenService) Verify(token string, kind domain.TokenKind) (*domain.TokenClaims, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token, kind)
	}
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != kind.String() {
		return nil, domain.ErrTokenInvalid
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.TokenClaims{UserID: uint(id), Role: parts[2]}, nil
}

// RefreshTTL returns the configured refresh lifetime
func (m *MockTokenService) RefreshTTL() time.Duration {
	return m.RefreshTTLValue
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
