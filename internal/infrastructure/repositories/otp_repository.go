package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Sadman95/bike-island-server/domain"
)

// OTPRepositoryImpl implements domain.OTPRepository using GORM
type OTPRepositoryImpl struct {
	db *gorm.DB
}

// NewOTPRepository creates a new OTP repository
func NewOTPRepository(db *gorm.DB) domain.OTPRepository {
	return &OTPRepositoryImpl{db: db}
}

// Create implements domain.OTPRepository. A second record for the same user
// is rejected with a *domain.TooSoonError covering the new record's lifetime.
func (r *OTPRepositoryImpl) Create(ctx context.Context, record *domain.OTPRecord) error {
	row := &DBOTP{
		UserID:    record.UserID,
		OTP:       record.OTP,
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &domain.TooSoonError{Remaining: record.ExpiresAt.Sub(record.CreatedAt)}
		}
		return err
	}
	record.ID = row.ID
	return nil
}

// FindByUser implements domain.OTPRepository
func (r *OTPRepositoryImpl) FindByUser(ctx context.Context, userID uint) (*domain.OTPRecord, error) {
	return r.first(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// FindByUserAndCode implements domain.OTPRepository
func (r *OTPRepositoryImpl) FindByUserAndCode(ctx context.Context, userID uint, encoded string) (*domain.OTPRecord, error) {
	return r.first(r.db.WithContext(ctx).Where("user_id = ? AND otp = ?", userID, encoded))
}

// Delete implements domain.OTPRepository
func (r *OTPRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&DBOTP{}, id).Error
}

// DeleteExpired implements domain.OTPRepository
func (r *OTPRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&DBOTP{})
	return res.RowsAffected, res.Error
}

func (r *OTPRepositoryImpl) first(q *gorm.DB) (*domain.OTPRecord, error) {
	var row DBOTP
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOTPNotFound
		}
		return nil, err
	}
	return &domain.OTPRecord{
		ID:        row.ID,
		UserID:    row.UserID,
		OTP:       row.OTP,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
	}, nil
}
