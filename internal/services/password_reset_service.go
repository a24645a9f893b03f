package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Sadman95/bike-island-server/domain"
	"github.com/Sadman95/bike-island-server/internal/infrastructure/notifications"
)

const resetTokenBytes = 32

// PasswordResetServiceImpl implements domain.PasswordResetService
type PasswordResetServiceImpl struct {
	resetRepo domain.PasswordResetRepository
	userRepo  domain.UserRepository
	mailSvc   domain.MailService
	codec     domain.SecretCodec
	audit     domain.AuditLogger
	config    PasswordResetConfig
	now       func() time.Time
}

type PasswordResetConfig struct {
	TTL       time.Duration
	ClientURL string
}

// NewPasswordResetService creates a new password reset service
func NewPasswordResetService(
	resetRepo domain.PasswordResetRepository,
	userRepo domain.UserRepository,
	mailSvc domain.MailService,
	codec domain.SecretCodec,
	audit domain.AuditLogger,
	config PasswordResetConfig,
) domain.PasswordResetService {
	return &PasswordResetServiceImpl{
		resetRepo: resetRepo,
		userRepo:  userRepo,
		mailSvc:   mailSvc,
		codec:     codec,
		audit:     audit,
		config:    config,
		now:       time.Now,
	}
}

// RequestReset implements domain.PasswordResetService. The link is mailed
// before the token is stored.
func (s *PasswordResetServiceImpl) RequestReset(ctx context.Context, userID uint, email, username string) (*domain.PasswordReset, error) {
	now := s.now()

	existing, err := s.resetRepo.FindByUser(ctx, userID)
	switch {
	case err == nil:
		if existing.Live(now) {
			return nil, domain.ErrResetAlreadyPending
		}
		if err := s.resetRepo.Delete(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete stale reset: %w", err)
		}
	case errors.Is(err, domain.ErrResetTokenInvalid):
	default:
		return nil, fmt.Errorf("failed to look up reset: %w", err)
	}

	token, err := generateResetToken()
	if err != nil {
		return nil, err
	}

	link := notifications.ResetLink(s.config.ClientURL, token)
	body, err := notifications.RenderResetMail(username, link, s.config.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to render reset mail: %w", err)
	}
	if err := s.mailSvc.Send(ctx, email, notifications.ResetPasswordSubject, body); err != nil {
		return nil, mailError(err)
	}

	reset := &domain.PasswordReset{
		UserID:    userID,
		Token:     s.codec.Encode(token),
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.TTL),
	}
	if err := s.resetRepo.Create(ctx, reset); err != nil {
		return nil, err
	}

	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.PasswordResetMailEvent, userID).WithEmail(email))
	return reset, nil
}

// ConsumeReset implements domain.PasswordResetService. The password is written
// before the reset record is deleted.
func (s *PasswordResetServiceImpl) ConsumeReset(ctx context.Context, token, newPassword string) error {
	encoded := s.codec.Encode(token)
	reset, err := s.resetRepo.FindByToken(ctx, encoded)
	if err != nil {
		return err
	}
	if !reset.Live(s.now()) {
		return domain.ErrResetTokenInvalid
	}

	if _, err := s.userRepo.FindByID(ctx, reset.UserID); err != nil {
		return err
	}
	if _, err := s.userRepo.UpdateByID(ctx, reset.UserID, domain.UserPatch{Password: &newPassword}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.resetRepo.DeleteByUserAndToken(ctx, reset.UserID, encoded); err != nil {
		return fmt.Errorf("failed to delete used reset: %w", err)
	}

	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.PasswordResetEvent, reset.UserID))
	return nil
}

// PurgeExpired implements domain.PasswordResetService
func (s *PasswordResetServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	return s.resetRepo.DeleteExpired(ctx, s.now())
}

func generateResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
