package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID              string  `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Username        string  `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email           *string `gorm:"size:100;uniqueIndex;null" json:"email"`
	PhoneNumber     string  `gorm:"size:15;not null;uniqueIndex" json:"phone_number"`
	Password        string  `gorm:"size:255;not null" json:"-"`
	FirstName       string  `gorm:"size:100" json:"first_name"`
	LastName        string  `gorm:"size:100" json:"last_name"`
	Address         string  `gorm:"type:text" json:"address"`
	City            string  `gorm:"size:100" json:"city"`
	State           string  `gorm:"size:100" json:"state"`
	ZipCode         string  `gorm:"size:10" json:"zip_code"`
	IsEmailVerified bool    `gorm:"default:false" json:"is_email_verified"`
	IsPhoneVerified bool    `gorm:"default:false" json:"is_phone_verified"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// FullName falls back to the e-mail address the way the courier
// consignee field expects a non-empty name.
func (u *User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" && u.Email != nil {
		return *u.Email
	}
	return name
}
