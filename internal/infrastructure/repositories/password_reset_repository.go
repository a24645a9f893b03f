package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Sadman95/bike-island-server/domain"
)

// PasswordResetRepositoryImpl implements domain.PasswordResetRepository using GORM
type PasswordResetRepositoryImpl struct {
	db *gorm.DB
}

// NewPasswordResetRepository creates a new password reset repository
func NewPasswordResetRepository(db *gorm.DB) domain.PasswordResetRepository {
	return &PasswordResetRepositoryImpl{db: db}
}

// Create implements domain.PasswordResetRepository. A second pending reset for
// the same user, or a reused token, is rejected with domain.ErrResetAlreadyPending.
func (r *PasswordResetRepositoryImpl) Create(ctx context.Context, reset *domain.PasswordReset) error {
	row := &DBPasswordReset{
		UserID:    reset.UserID,
		Token:     reset.Token,
		CreatedAt: reset.CreatedAt,
		ExpiresAt: reset.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrResetAlreadyPending
		}
		return err
	}
	reset.ID = row.ID
	return nil
}

// FindByUser implements domain.PasswordResetRepository
func (r *PasswordResetRepositoryImpl) FindByUser(ctx context.Context, userID uint) (*domain.PasswordReset, error) {
	return r.first(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// FindByToken implements domain.PasswordResetRepository
func (r *PasswordResetRepositoryImpl) FindByToken(ctx context.Context, encoded string) (*domain.PasswordReset, error) {
	return r.first(r.db.WithContext(ctx).Where("token = ?", encoded))
}

// DeleteByUserAndToken implements domain.PasswordResetRepository
func (r *PasswordResetRepositoryImpl) DeleteByUserAndToken(ctx context.Context, userID uint, encoded string) error {
	return r.db.WithContext(ctx).Where("user_id = ? AND token = ?", userID, encoded).Delete(&DBPasswordReset{}).Error
}

// Delete implements domain.PasswordResetRepository
func (r *PasswordResetRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&DBPasswordReset{}, id).Error
}

// DeleteExpired implements domain.PasswordResetRepository
func (r *PasswordResetRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&DBPasswordReset{})
	return res.RowsAffected, res.Error
}

func (r *PasswordResetRepositoryImpl) first(q *gorm.DB) (*domain.PasswordReset, error) {
	var row DBPasswordReset
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrResetTokenInvalid
		}
		return nil, err
	}
	return &domain.PasswordReset{
		ID:        row.ID,
		UserID:    row.UserID,
		Token:     row.Token,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
	}, nil
}
