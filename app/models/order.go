package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

const (
	PaymentMethodCOD      = "cod"
	PaymentMethodRazorpay = "razorpay"
)

// DeliveryStatusManualEntry marks orders whose courier shipment could
// not be created; checkout still succeeds and the shipment is entered
// by hand later.
const DeliveryStatusManualEntry = "Pending Manual Entry"

type Order struct {
	ID          string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderNumber string `gorm:"size:32;not null;uniqueIndex" json:"order_number"`
	UserID      string `gorm:"size:36;not null;index" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID" json:"-"`

	Status        string `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaymentStatus string `gorm:"size:20;not null;default:'pending'" json:"payment_status"`
	PaymentMethod string `gorm:"size:20;not null" json:"payment_method"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"subtotal"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"shipping_cost"`
	Total        decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"total"`

	ShippingAddress string `gorm:"type:text;not null" json:"shipping_address"`
	ShippingCity    string `gorm:"size:100;not null" json:"shipping_city"`
	ShippingState   string `gorm:"size:100;not null" json:"shipping_state"`
	ShippingZipCode string `gorm:"size:10;not null" json:"shipping_zip_code"`
	ShippingPhone   string `gorm:"size:15;not null" json:"shipping_phone"`

	RazorpayOrderID   string `gorm:"size:100;index" json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string `gorm:"size:100" json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string `gorm:"size:255" json:"-"`

	DeliveryPartnerOrderID string `gorm:"size:100" json:"delivery_partner_order_id,omitempty"`
	DeliveryTrackingID     string `gorm:"size:100" json:"delivery_tracking_id,omitempty"`
	DeliveryStatus         string `gorm:"size:100" json:"delivery_status,omitempty"`

	Notes string `gorm:"type:text" json:"notes"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}

// CanBeCancelled: cancellation is only meaningful before the shipment
// leaves the warehouse.
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}
