package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sadman95/bike-island-server/domain"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	codec       domain.SecretCodec
	otpSvc      domain.OTPService
	resetSvc    domain.PasswordResetService
	identity    domain.IdentityProvider
	audit       domain.AuditLogger
}

// NewAuthService creates a new auth service. identity may be nil when Google login is not configured.
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	codec domain.SecretCodec,
	otpSvc domain.OTPService,
	resetSvc domain.PasswordResetService,
	identity domain.IdentityProvider,
	audit domain.AuditLogger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		codec:       codec,
		otpSvc:      otpSvc,
		resetSvc:    resetSvc,
		identity:    identity,
		audit:       audit,
	}
}

// SignUp implements domain.AuthService
func (s *AuthServiceImpl) SignUp(ctx context.Context, input domain.SignUpInput) (*domain.SignUpResult, error) {
	_, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, domain.ErrUserAlreadyExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user := &domain.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		ContactNo: input.ContactNo,
		Role:      domain.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user, input.Password); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserSignUpEvent, user.ID).WithEmail(user.Email))

	issue, err := s.otpSvc.Issue(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &domain.SignUpResult{User: user, OTP: issue}, nil
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.logLoginFailure(ctx, user, domain.ErrPasswordMismatch)
		return nil, domain.ErrPasswordMismatch
	}

	if !user.IsVerified {
		s.logLoginFailure(ctx, user, domain.ErrUserNotVerified)
		return nil, domain.ErrUserNotVerified
	}

	result, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).WithEmail(user.Email))
	return result, nil
}

// GoogleLogin implements domain.AuthService
func (s *AuthServiceImpl) GoogleLogin(ctx context.Context, code string) (*domain.AuthResult, error) {
	if s.identity == nil {
		return nil, fmt.Errorf("%w: google login is not configured", domain.ErrIdentityProvider)
	}

	email, err := s.identity.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	result, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).
		WithEmail(user.Email).
		WithMetadata("provider", "google"))
	return result, nil
}

// Refresh implements domain.AuthService. Any problem with the cookie itself is
// reported as domain.ErrForbidden; only the new access token is issued.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshCookie string) (*domain.AuthResult, error) {
	if refreshCookie == "" {
		return nil, domain.ErrForbidden
	}

	raw, err := s.codec.Decode(refreshCookie)
	if err != nil {
		return nil, domain.ErrForbidden
	}

	claims, err := s.tokenSvc.Verify(raw, domain.RefreshToken)
	if err != nil {
		return nil, domain.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(domain.ClaimsFor(user))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &domain.AuthResult{User: user, AccessToken: accessToken}, nil
}

// Logout implements domain.AuthService. Tokens are stateless, so this only
// confirms the account still exists.
func (s *AuthServiceImpl) Logout(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return err
	}
	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLogoutEvent, userID))
	return nil
}

// ChangePassword implements domain.AuthService. A new password equal to the
// old one is accepted.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.passwordSvc.Verify(user.PasswordHash, oldPassword) {
		return domain.ErrPasswordMismatch
	}

	if _, err := s.userRepo.UpdateByID(ctx, userID, domain.UserPatch{Password: &newPassword}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.PasswordChangedEvent, userID))
	return nil
}

// ForgotPassword implements domain.AuthService. The mail greets the user by first name.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	_, err = s.resetSvc.RequestReset(ctx, user.ID, user.Email, user.FirstName)
	return err
}

// ResetPassword implements domain.AuthService
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, token, password string) error {
	return s.resetSvc.ConsumeReset(ctx, token, password)
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// ChangeRole implements domain.AuthService
func (s *AuthServiceImpl) ChangeRole(ctx context.Context, userID uint, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{
			Path:    "role",
			Message: "must be one of user, admin, manager, super-admin",
		}}}
	}

	user, err := s.userRepo.UpdateByID(ctx, userID, domain.UserPatch{Role: &role})
	if err != nil {
		return nil, err
	}

	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserRoleChangedEvent, userID).WithMetadata("role", role))
	return user, nil
}

// issueTokens signs an access/refresh pair and encodes the refresh token for the cookie
func (s *AuthServiceImpl) issueTokens(user *domain.User) (*domain.AuthResult, error) {
	claims := domain.ClaimsFor(user)

	accessToken, err := s.tokenSvc.GenerateAccessToken(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokenSvc.GenerateRefreshToken(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.AuthResult{
		User:          user,
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		RefreshCookie: s.codec.Encode(refreshToken),
	}, nil
}

func (s *AuthServiceImpl) logLoginFailure(ctx context.Context, user *domain.User, err error) {
	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, user.ID).
		WithEmail(user.Email).
		WithError(err))
}
