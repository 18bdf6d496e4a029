package repositories

import (
	"context"
	"time"

	"github.com/nextbloom/nextbloom-api/app/models"
	"gorm.io/gorm"
)

type OTPRepositoryImpl interface {
	Replace(ctx context.Context, otp *models.PasswordResetOTP) error
	Consume(ctx context.Context, phone, code string) (bool, error)
}

type otpRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) OTPRepositoryImpl {
	return &otpRepository{db}
}

// Replace deletes every unused code for the phone number and inserts
// the new one in a single transaction, so at most one unused code per
// number is ever issued.
func (r *otpRepository) Replace(ctx context.Context, otp *models.PasswordResetOTP) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("phone_number = ? AND is_used = ?", otp.PhoneNumber, false).
			Delete(&models.PasswordResetOTP{}).Error; err != nil {
			return err
		}
		return tx.Create(otp).Error
	})
}

// Consume flips the used flag with one conditional UPDATE; the row
// guard (unused and unexpired) makes concurrent resets race-safe: the
// code is accepted at most once.
func (r *otpRepository) Consume(ctx context.Context, phone, code string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.PasswordResetOTP{}).
		Where("phone_number = ? AND otp = ? AND is_used = ? AND expires_at > ?", phone, code, false, time.Now()).
		Update("is_used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
