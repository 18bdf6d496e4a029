package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartItem struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	CartID    string    `gorm:"size:36;not null;index:idx_cart_product,unique" json:"cart_id"`
	Cart      *Cart     `gorm:"foreignKey:CartID" json:"-"`
	ProductID string    `gorm:"size:36;not null;index:idx_cart_product,unique" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product"`
	Qty       int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) (err error) {
	if ci.ID == "" {
		ci.ID = uuid.New().String()
	}
	return
}

func (ci *CartItem) Subtotal() decimal.Decimal {
	if ci.Product == nil {
		return decimal.Zero
	}
	return ci.Product.FinalPrice().Mul(decimal.NewFromInt(int64(ci.Qty)))
}
