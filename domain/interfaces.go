package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	// Create hashes password and inserts user, filling ID and timestamps
	Create(ctx context.Context, user *User, password string) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	// UpdateByID applies patch and returns the updated user
	UpdateByID(ctx context.Context, id uint, patch UserPatch) (*User, error)
}

// OTPRepository defines OTP record data access operations
type OTPRepository interface {
	Create(ctx context.Context, record *OTPRecord) error
	FindByUser(ctx context.Context, userID uint) (*OTPRecord, error)
	FindByUserAndCode(ctx context.Context, userID uint, encoded string) (*OTPRecord, error)
	Delete(ctx context.Context, id uint) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PasswordResetRepository defines password reset data access operations
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *PasswordReset) error
	FindByUser(ctx context.Context, userID uint) (*PasswordReset, error)
	FindByToken(ctx context.Context, encoded string) (*PasswordReset, error)
	DeleteByUserAndToken(ctx context.Context, userID uint, encoded string) error
	Delete(ctx context.Context, id uint) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// AuthService defines authentication business logic
type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*SignUpResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GoogleLogin(ctx context.Context, code string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshCookie string) (*AuthResult, error)
	Logout(ctx context.Context, userID uint) error
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	GetUserProfile(ctx context.Context, userID uint) (*User, error)
	ChangeRole(ctx context.Context, userID uint, role string) (*User, error)
}

// OTPService defines OTP lifecycle operations
type OTPService interface {
	Issue(ctx context.Context, userID uint, email string) (*OTPIssue, error)
	FetchOwn(ctx context.Context, userID uint) (*OTPIssue, error)
	Verify(ctx context.Context, userID uint, code string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

// PasswordResetService defines password reset lifecycle operations
type PasswordResetService interface {
	RequestReset(ctx context.Context, userID uint, email, username string) (*PasswordReset, error)
	ConsumeReset(ctx context.Context, token, newPassword string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// SecretCodec obfuscates short secrets before they are stored or sent as cookies
type SecretCodec interface {
	Encode(plain string) string
	Decode(encoded string) (string, error)
}

// TokenService defines token operations
type TokenService interface {
	GenerateAccessToken(claims TokenClaims) (string, error)
	GenerateRefreshToken(claims TokenClaims) (string, error)
	Verify(token string, kind TokenKind) (*TokenClaims, error)
	RefreshTTL() time.Duration
}

// MailService sends transactional email
type MailService interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// IdentityProvider exchanges an external authorization code for a verified email
type IdentityProvider interface {
	Exchange(ctx context.Context, code string) (string, error)
}

// Locker grants a short exclusive lease across replicas
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RateLimiter counts hits per key inside a fixed window
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
