package domain

import (
	"strings"
	"time"
)

// Roles
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleSuperAdmin = "super-admin"
)

// DefaultAvatar is assigned to accounts created without a picture
const DefaultAvatar = "avatar/dummy-avatar.png"

// User represents a customer or staff account
type User struct {
	ID           uint
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	IsVerified   bool
	IsTeamMember bool
	ContactNo    string
	Avatar       string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name for mail greetings
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// ValidRole reports whether role is one of the known roles
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleManager, RoleSuperAdmin:
		return true
	}
	return false
}

// PolicySubject maps a role to its authorization subject
func PolicySubject(role string) string {
	return "role_" + strings.TrimPrefix(role, "role_")
}

// UserPatch carries a partial user update. Nil fields are left untouched.
// Password is plaintext and gets hashed by the store.
type UserPatch struct {
	FirstName  *string
	LastName   *string
	ContactNo  *string
	Avatar     *string
	Role       *string
	IsVerified *bool
	Password   *string
}

// SignUpInput is the data required to create an account
type SignUpInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	ContactNo string
}

// OTPRecord is a pending email verification code. OTP holds the codec-encoded value.
type OTPRecord struct {
	ID        uint
	UserID    uint
	OTP       string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Live reports whether the record can still be used at now
func (o *OTPRecord) Live(now time.Time) bool {
	return !now.After(o.ExpiresAt)
}

// PasswordReset is a pending password reset. Token holds the codec-encoded value.
type PasswordReset struct {
	ID        uint
	UserID    uint
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Live reports whether the reset can still be consumed at now
func (p *PasswordReset) Live(now time.Time) bool {
	return !now.After(p.ExpiresAt)
}

// OTPIssue describes an issued OTP. Code is only filled for the account owner.
type OTPIssue struct {
	Code      string    `json:"otp,omitempty"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SignUpResult is returned after account creation
type SignUpResult struct {
	User *User
	OTP  *OTPIssue
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User          *User
	AccessToken   string
	RefreshToken  string
	RefreshCookie string
}

// TokenKind selects the signing secret of a token
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

func (k TokenKind) String() string {
	if k == RefreshToken {
		return "refresh"
	}
	return "access"
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID    uint   `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
}

// ClaimsFor builds token claims for user
func ClaimsFor(u *User) TokenClaims {
	return TokenClaims{UserID: u.ID, Email: u.Email, Role: u.Role}
}
