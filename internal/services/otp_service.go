package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Sadman95/bike-island-server/domain"
	"github.com/Sadman95/bike-island-server/internal/infrastructure/notifications"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// OTPServiceImpl implements domain.OTPService on top of a persistent OTP store
type OTPServiceImpl struct {
	otpRepo  domain.OTPRepository
	userRepo domain.UserRepository
	mailSvc  domain.MailService
	codec    domain.SecretCodec
	audit    domain.AuditLogger
	config   OTPConfig
	now      func() time.Time
}

type OTPConfig struct {
	TTL time.Duration
}

// NewOTPService creates a new OTP service
func NewOTPService(
	otpRepo domain.OTPRepository,
	userRepo domain.UserRepository,
	mailSvc domain.MailService,
	codec domain.SecretCodec,
	audit domain.AuditLogger,
	config OTPConfig,
) domain.OTPService {
	return &OTPServiceImpl{
		otpRepo:  otpRepo,
		userRepo: userRepo,
		mailSvc:  mailSvc,
		codec:    codec,
		audit:    audit,
		config:   config,
		now:      time.Now,
	}
}

// Issue implements domain.OTPService. The code is mailed before it is stored,
// so a failed delivery leaves no record behind.
func (s *OTPServiceImpl) Issue(ctx context.Context, userID uint, email string) (*domain.OTPIssue, error) {
	now := s.now()

	existing, err := s.otpRepo.FindByUser(ctx, userID)
	switch {
	case err == nil:
		if existing.Live(now) {
			return nil, &domain.TooSoonError{Remaining: existing.ExpiresAt.Sub(now)}
		}
		if err := s.otpRepo.Delete(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete stale OTP: %w", err)
		}
	case errors.Is(err, domain.ErrOTPNotFound):
	default:
		return nil, fmt.Errorf("failed to look up OTP: %w", err)
	}

	code, err := generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}
	expiresAt := now.Add(s.config.TTL)

	body, err := notifications.RenderOTPMail(code, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to render OTP mail: %w", err)
	}
	if err := s.mailSvc.Send(ctx, email, notifications.VerifyEmailSubject, body); err != nil {
		return nil, mailError(err)
	}

	record := &domain.OTPRecord{
		UserID:    userID,
		OTP:       s.codec.Encode(code),
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.otpRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.EmailOTPIssuedEvent, userID).WithEmail(email))

	return &domain.OTPIssue{Email: email, ExpiresAt: expiresAt}, nil
}

// FetchOwn implements domain.OTPService
func (s *OTPServiceImpl) FetchOwn(ctx context.Context, userID uint) (*domain.OTPIssue, error) {
	record, err := s.otpRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !record.Live(s.now()) {
		return nil, domain.ErrOTPNotFound
	}

	code, err := s.codec.Decode(record.OTP)
	if err != nil {
		return nil, fmt.Errorf("failed to decode OTP: %w", err)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.OTPIssue{Code: code, Email: user.Email, ExpiresAt: record.ExpiresAt}, nil
}

// Verify implements domain.OTPService. The user is marked verified before the
// record is deleted; a crash in between leaves a verified user with a stale record.
func (s *OTPServiceImpl) Verify(ctx context.Context, userID uint, code string) error {
	record, err := s.otpRepo.FindByUserAndCode(ctx, userID, s.codec.Encode(code))
	if err != nil {
		s.logFailure(ctx, userID, err)
		return err
	}

	if !record.Live(s.now()) {
		s.logFailure(ctx, userID, domain.ErrOTPExpired)
		return domain.ErrOTPExpired
	}

	stored, err := s.codec.Decode(record.OTP)
	if err != nil || subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		s.logFailure(ctx, userID, domain.ErrOTPMismatch)
		return domain.ErrOTPMismatch
	}

	verified := true
	if _, err := s.userRepo.UpdateByID(ctx, userID, domain.UserPatch{IsVerified: &verified}); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	if err := s.otpRepo.Delete(ctx, record.ID); err != nil {
		return fmt.Errorf("failed to delete used OTP: %w", err)
	}

	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.EmailOTPVerifiedEvent, userID))
	return nil
}

// PurgeExpired implements domain.OTPService
func (s *OTPServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	return s.otpRepo.DeleteExpired(ctx, s.now())
}

func (s *OTPServiceImpl) logFailure(ctx context.Context, userID uint, err error) {
	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.EmailOTPFailureEvent, userID).WithError(err))
}

// generateSecureCode draws a uniform six digit code from crypto/rand
func generateSecureCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+otpMin), nil
}

func mailError(err error) error {
	if errors.Is(err, domain.ErrMailDelivery) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrMailDelivery, err)
}
