package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Cart struct {
	ID        string     `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID    string     `gorm:"size:36;not null;uniqueIndex" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
	CartItems []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// TotalItems sums line quantities. Derived on every read, never stored.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.CartItems {
		total += item.Qty
	}
	return total
}

// TotalPrice sums qty x final price over the lines. Requires the items'
// products to be preloaded.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.CartItems {
		total = total.Add(item.Subtotal())
	}
	return total
}
