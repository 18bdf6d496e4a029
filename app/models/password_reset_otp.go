package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PasswordResetOTP struct {
	ID          string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	PhoneNumber string    `gorm:"size:15;not null;index:idx_otp_phone_code" json:"phone_number"`
	OTP         string    `gorm:"size:6;not null;index:idx_otp_phone_code" json:"-"`
	IsUsed      bool      `gorm:"default:false" json:"is_used"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (o *PasswordResetOTP) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}
