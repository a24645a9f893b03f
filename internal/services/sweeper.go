package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Sadman95/bike-island-server/domain"
)

const sweepLockKey = "sweep:expired-records"

// ExpirySweeper periodically removes expired OTP and password reset records.
// Only the replica holding the lock sweeps on a given tick.
type ExpirySweeper struct {
	otpSvc   domain.OTPService
	resetSvc domain.PasswordResetService
	locker   domain.Locker
	interval time.Duration
	logger   *slog.Logger
}

func NewExpirySweeper(otpSvc domain.OTPService, resetSvc domain.PasswordResetService, locker domain.Locker, interval time.Duration, logger *slog.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		otpSvc:   otpSvc,
		resetSvc: resetSvc,
		locker:   locker,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps once immediately and then every interval until ctx is done
func (s *ExpirySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, _, err := s.SweepOnce(ctx); err != nil {
			s.logger.ErrorContext(ctx, "expired record sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// SweepOnce purges expired records if the lock can be taken.
// It returns the number of OTP and reset records removed.
func (s *ExpirySweeper) SweepOnce(ctx context.Context) (int64, int64, error) {
	if s.locker != nil {
		ok, err := s.locker.TryLock(ctx, sweepLockKey, s.interval)
		if err != nil {
			return 0, 0, err
		}
		if !ok {
			s.logger.DebugContext(ctx, "expired record sweep skipped, lock held elsewhere")
			return 0, 0, nil
		}
	}

	otps, err := s.otpSvc.PurgeExpired(ctx)
	if err != nil {
		return 0, 0, err
	}
	resets, err := s.resetSvc.PurgeExpired(ctx)
	if err != nil {
		return otps, 0, err
	}

	if otps > 0 || resets > 0 {
		s.logger.InfoContext(ctx, "expired records purged", "otps", otps, "password_resets", resets)
	}
	return otps, resets, nil
}
