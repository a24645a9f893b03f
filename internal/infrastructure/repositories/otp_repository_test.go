package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sadman95/bike-island-server/domain"
)

func TestOTPRepositoryImpl_CreateAndFind(t *testing.T) {
	repo := NewOTPRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	record := &domain.OTPRecord{UserID: 1, OTP: "323130373635", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, record))
	assert.NotZero(t, record.ID)

	found, err := repo.FindByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)
	assert.Equal(t, "323130373635", found.OTP)
	assert.True(t, found.ExpiresAt.Equal(now.Add(time.Hour)))

	found, err = repo.FindByUserAndCode(ctx, 1, "323130373635")
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)

	_, err = repo.FindByUserAndCode(ctx, 1, "000000000000")
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)

	_, err = repo.FindByUserAndCode(ctx, 2, "323130373635")
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestOTPRepositoryImpl_OneRecordPerUser(t *testing.T) {
	repo := NewOTPRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &domain.OTPRecord{UserID: 7, OTP: "a", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))
	err := repo.Create(ctx, &domain.OTPRecord{UserID: 7, OTP: "b", CreatedAt: now, ExpiresAt: now.Add(time.Hour)})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrOTPTooSoon), "expected too soon, got %v", err)
	var tooSoon *domain.TooSoonError
	require.ErrorAs(t, err, &tooSoon)
	assert.Equal(t, time.Hour, tooSoon.Remaining)
}

func TestOTPRepositoryImpl_DeleteAndPurge(t *testing.T) {
	repo := NewOTPRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now()

	live := &domain.OTPRecord{UserID: 1, OTP: "live", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	stale := &domain.OTPRecord{UserID: 2, OTP: "stale", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	gone := &domain.OTPRecord{UserID: 3, OTP: "gone", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	for _, r := range []*domain.OTPRecord{live, stale, gone} {
		require.NoError(t, repo.Create(ctx, r))
	}

	require.NoError(t, repo.Delete(ctx, gone.ID))
	_, err := repo.FindByUser(ctx, 3)
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.FindByUser(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
	_, err = repo.FindByUser(ctx, 1)
	assert.NoError(t, err)
}

func TestPasswordResetRepositoryImpl(t *testing.T) {
	repo := NewPasswordResetRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now()

	reset := &domain.PasswordReset{UserID: 5, Token: "enc-token", CreatedAt: now, ExpiresAt: now.Add(24 * time.Hour)}
	require.NoError(t, repo.Create(ctx, reset))

	byUser, err := repo.FindByUser(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, reset.ID, byUser.ID)

	byToken, err := repo.FindByToken(ctx, "enc-token")
	require.NoError(t, err)
	assert.Equal(t, uint(5), byToken.UserID)

	_, err = repo.FindByToken(ctx, "other")
	assert.ErrorIs(t, err, domain.ErrResetTokenInvalid)

	t.Run("second pending reset for the same user is rejected", func(t *testing.T) {
		err := repo.Create(ctx, &domain.PasswordReset{UserID: 5, Token: "enc-other", CreatedAt: now, ExpiresAt: now.Add(time.Hour)})
		assert.ErrorIs(t, err, domain.ErrResetAlreadyPending)
	})

	t.Run("tokens are unique across users", func(t *testing.T) {
		err := repo.Create(ctx, &domain.PasswordReset{UserID: 6, Token: "enc-token", CreatedAt: now, ExpiresAt: now.Add(time.Hour)})
		assert.ErrorIs(t, err, domain.ErrResetAlreadyPending)
	})

	t.Run("delete requires matching user and token", func(t *testing.T) {
		require.NoError(t, repo.DeleteByUserAndToken(ctx, 99, "enc-token"))
		_, err := repo.FindByToken(ctx, "enc-token")
		require.NoError(t, err)

		require.NoError(t, repo.DeleteByUserAndToken(ctx, 5, "enc-token"))
		_, err = repo.FindByToken(ctx, "enc-token")
		assert.ErrorIs(t, err, domain.ErrResetTokenInvalid)
	})

	t.Run("purge removes only expired", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &domain.PasswordReset{UserID: 8, Token: "old", CreatedAt: now.Add(-48 * time.Hour), ExpiresAt: now.Add(-24 * time.Hour)}))
		require.NoError(t, repo.Create(ctx, &domain.PasswordReset{UserID: 9, Token: "new", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))

		n, err := repo.DeleteExpired(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		stillThere, err := repo.FindByUser(ctx, 9)
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, stillThere.ID))
		_, err = repo.FindByUser(ctx, 9)
		assert.ErrorIs(t, err, domain.ErrResetTokenInvalid)
	})
}
