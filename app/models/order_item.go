package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem snapshots the product and its price at purchase time; later
// catalog price changes never touch it.
type OrderItem struct {
	ID        string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderID   string          `gorm:"size:36;not null;index" json:"order_id"`
	Order     Order           `gorm:"foreignKey:OrderID" json:"-"`
	ProductID string          `gorm:"size:36;not null;index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product"`
	Qty       int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price"`
	Total     decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if oi.ID == "" {
		oi.ID = uuid.New().String()
	}
	return
}
