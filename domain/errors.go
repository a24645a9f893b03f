package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Account errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrPasswordMismatch  = errors.New("password doesn't match")
	ErrUserNotVerified   = errors.New("user isn't verified")
)

// OTP errors
var (
	ErrOTPNotFound = errors.New("otp doesn't exist")
	ErrOTPExpired  = errors.New("otp is expired")
	ErrOTPMismatch = errors.New("invalid otp")
	ErrOTPTooSoon  = errors.New("otp requested too soon")
)

// Password reset errors
var (
	ErrResetAlreadyPending = errors.New("a password token is already in use")
	ErrResetTokenInvalid   = errors.New("token is invalid or has expired")
)

// Token errors
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
	ErrForbidden    = errors.New("invalid refresh token")
)

// Codec errors
var (
	ErrCodecMalformed = errors.New("malformed encoded value")
)

// Authorization errors
var (
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrInsufficientRole = errors.New("insufficient role permissions")
	ErrTooManyRequests  = errors.New("too many requests")
)

// Collaborator errors
var (
	ErrMailDelivery     = errors.New("mail delivery failed")
	ErrIdentityProvider = errors.New("identity provider exchange failed")
)

// TooSoonError is returned when a live OTP already exists for the user
type TooSoonError struct {
	Remaining time.Duration
}

func (e *TooSoonError) Error() string {
	return "Please request for new OTP after " + HumanizeRemaining(e.Remaining)
}

// Is makes errors.Is(err, ErrOTPTooSoon) hold
func (e *TooSoonError) Is(target error) bool {
	return target == ErrOTPTooSoon
}

// HumanizeRemaining renders d as "42 minutes"
func HumanizeRemaining(d time.Duration) string {
	if d < time.Second {
		d = time.Second
	}
	now := time.Now()
	return strings.TrimSpace(humanize.RelTime(now, now.Add(d), "", ""))
}

// FieldError describes one invalid input field
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError wraps request validation failures
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	return fmt.Sprintf("validation error: %s %s", e.Fields[0].Path, e.Fields[0].Message)
}
