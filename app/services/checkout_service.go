package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nextbloom/nextbloom-api/app/helpers"
	"github.com/nextbloom/nextbloom-api/app/models"
	"github.com/nextbloom/nextbloom-api/app/repositories"
)

var (
	ErrCartEmpty           = errors.New("cart is empty")
	ErrOrderNotFound       = errors.New("order not found")
	ErrPaymentInit         = errors.New("failed to initiate payment")
	ErrPaymentVerification = errors.New("payment verification failed")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrNotRazorpayOrder    = errors.New("order was not placed with razorpay")
)

type CheckoutInput struct {
	ShippingAddress string
	ShippingCity    string
	ShippingState   string
	ShippingZipCode string
	ShippingPhone   string
	PaymentMethod   string
	Notes           string
}

// CheckoutResult carries the placed order plus, for gateway payments,
// everything the client needs to open the payment UI.
type CheckoutResult struct {
	Order         *models.Order `json:"order"`
	Payment       *PaymentOrder `json:"payment,omitempty"`
	RazorpayKeyID string        `json:"razorpay_key_id,omitempty"`
}

type VerifyPaymentInput struct {
	OrderID           string
	RazorpayPaymentID string
	RazorpaySignature string
}

type CheckoutService struct {
	orderRepo     repositories.OrderRepositoryImpl
	orderItemRepo repositories.OrderItemRepositoryImpl
	cartRepo      repositories.CartRepositoryImpl
	cartItemRepo  repositories.CartItemRepositoryImpl
	productRepo   repositories.ProductRepositoryImpl
	userRepo      repositories.UserRepositoryImpl
	payment       PaymentGateway
	delivery      DeliveryGateway
	mailer        *Mailer
	txm           repositories.TxManager
	shippingFee   decimal.Decimal
	currency      string
}

func NewCheckoutService(
	orderRepo repositories.OrderRepositoryImpl,
	orderItemRepo repositories.OrderItemRepositoryImpl,
	cartRepo repositories.CartRepositoryImpl,
	cartItemRepo repositories.CartItemRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	userRepo repositories.UserRepositoryImpl,
	payment PaymentGateway,
	delivery DeliveryGateway,
	mailer *Mailer,
	txm repositories.TxManager,
	shippingFee decimal.Decimal,
	currency string,
) *CheckoutService {
	return &CheckoutService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		cartRepo:      cartRepo,
		cartItemRepo:  cartItemRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		payment:       payment,
		delivery:      delivery,
		mailer:        mailer,
		txm:           txm,
		shippingFee:   shippingFee,
		currency:      currency,
	}
}

// PlaceOrder runs checkout in two phases. Phase one is transactional:
// the order, its line items, and the conditional stock decrements either
// all land or none do. Phase two talks to the payment gateway and the
// courier; a payment init failure rolls the order back, while a courier
// failure only flags the order for manual shipment entry.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string, input CheckoutInput) (*CheckoutResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	cart, err := s.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cart.CartItems) == 0 {
		return nil, ErrCartEmpty
	}

	phone, err := helpers.NormalizePhoneNumber(input.ShippingPhone)
	if err != nil {
		return nil, err
	}

	subtotal := cart.TotalPrice()
	total := subtotal.Add(s.shippingFee)

	order := &models.Order{
		OrderNumber:     helpers.GenerateOrderNumber(),
		UserID:          userID,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   input.PaymentMethod,
		Subtotal:        subtotal,
		ShippingCost:    s.shippingFee,
		Total:           total,
		ShippingAddress: input.ShippingAddress,
		ShippingCity:    input.ShippingCity,
		ShippingState:   input.ShippingState,
		ShippingZipCode: input.ShippingZipCode,
		ShippingPhone:   phone,
		Notes:           input.Notes,
	}

	err = s.txm.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items := make([]models.OrderItem, 0, len(cart.CartItems))
		for _, ci := range cart.CartItems {
			if ci.Product == nil {
				return ErrProductNotFound
			}
			if err := s.productRepo.DecrementStock(ctx, tx, ci.ProductID, ci.Qty); err != nil {
				return err
			}
			price := ci.Product.FinalPrice()
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: ci.ProductID,
				Product:   ci.Product,
				Qty:       ci.Qty,
				Price:     price,
				Total:     price.Mul(decimal.NewFromInt(int64(ci.Qty))),
			})
		}
		if err := s.orderItemRepo.BulkCreate(ctx, tx, items); err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		order.OrderItems = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{Order: order}

	if input.PaymentMethod == models.PaymentMethodRazorpay {
		po := s.payment.CreateOrder(ctx, total, s.currency, order.OrderNumber)
		if po == nil {
			s.rollbackOrder(ctx, order)
			return nil, ErrPaymentInit
		}
		order.RazorpayOrderID = po.ID
		if err := s.orderRepo.Update(ctx, nil, order); err != nil {
			return nil, fmt.Errorf("failed to store gateway order id: %w", err)
		}
		result.Payment = po
		result.RazorpayKeyID = s.payment.KeyID()
	}

	s.createShipment(ctx, user, order)

	if input.PaymentMethod == models.PaymentMethodCOD {
		order.Status = models.OrderStatusProcessing
		if err := s.orderRepo.Update(ctx, nil, order); err != nil {
			return nil, fmt.Errorf("failed to confirm order: %w", err)
		}
		if err := s.cartItemRepo.ClearCartItems(ctx, nil, cart.ID); err != nil {
			return nil, fmt.Errorf("failed to clear cart: %w", err)
		}
		s.sendConfirmationEmail(user, order)
	}

	return result, nil
}

// rollbackOrder undoes phase one after a payment init failure: the
// order and its items go away and every decremented stock count comes
// back.
func (s *CheckoutService) rollbackOrder(ctx context.Context, order *models.Order) {
	err := s.txm.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.OrderItems {
			if err := s.productRepo.RestoreStock(ctx, tx, item.ProductID, item.Qty); err != nil {
				return err
			}
		}
		return s.orderRepo.Delete(ctx, tx, order)
	})
	if err != nil {
		zap.L().Error("failed to roll back order after payment init failure",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}
}

// createShipment is best effort: courier trouble never fails a checkout,
// it only marks the order for manual shipment entry.
func (s *CheckoutService) createShipment(ctx context.Context, user *models.User, order *models.Order) {
	items := make([]ShipmentItem, 0, len(order.OrderItems))
	for _, oi := range order.OrderItems {
		name := oi.ProductID
		if oi.Product != nil {
			name = oi.Product.Name
		}
		items = append(items, ShipmentItem{
			Name:  name,
			Qty:   oi.Qty,
			Price: oi.Price.InexactFloat64(),
		})
	}

	res := s.delivery.CreateShipment(ctx, ShipmentRequest{
		OrderNumber:   order.OrderNumber,
		Address:       order.ShippingAddress,
		City:          order.ShippingCity,
		State:         order.ShippingState,
		Pincode:       order.ShippingZipCode,
		CustomerName:  user.FullName(),
		CustomerPhone: order.ShippingPhone,
		Items:         items,
		TotalAmount:   order.Total.InexactFloat64(),
		PaymentMethod: order.PaymentMethod,
	})

	if res.Success {
		order.DeliveryPartnerOrderID = res.CourierOrderID
		order.DeliveryTrackingID = res.TrackingID
		order.DeliveryStatus = res.Status
	} else {
		order.DeliveryStatus = models.DeliveryStatusManualEntry
		zap.L().Warn("courier shipment creation failed",
			zap.String("order_number", order.OrderNumber),
			zap.String("message", res.Message))
	}

	if err := s.orderRepo.Update(ctx, nil, order); err != nil {
		zap.L().Error("failed to store delivery details",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}
}

func (s *CheckoutService) sendConfirmationEmail(user *models.User, order *models.Order) {
	if user.Email == nil || *user.Email == "" {
		return
	}
	body := BuildOrderConfirmationBody(order)
	subject := fmt.Sprintf("Order %s confirmed", order.OrderNumber)
	if err := s.mailer.SendHTMLEmail(*user.Email, subject, body); err != nil {
		zap.L().Error("failed to send order confirmation email",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}
}

// VerifyPayment settles a Razorpay order after the client-side payment
// flow. Only a valid signature marks the order paid and clears the
// cart; an invalid one records the failure and leaves the cart intact
// for a retry.
func (s *CheckoutService) VerifyPayment(ctx context.Context, userID string, input VerifyPaymentInput) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, input.OrderID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.PaymentMethod != models.PaymentMethodRazorpay || order.RazorpayOrderID == "" {
		return nil, ErrNotRazorpayOrder
	}

	if !s.payment.VerifySignature(order.RazorpayOrderID, input.RazorpayPaymentID, input.RazorpaySignature) {
		order.PaymentStatus = models.PaymentStatusFailed
		if err := s.orderRepo.Update(ctx, nil, order); err != nil {
			zap.L().Error("failed to record payment failure",
				zap.String("order_number", order.OrderNumber),
				zap.Error(err))
		}
		return nil, ErrPaymentVerification
	}

	order.PaymentStatus = models.PaymentStatusPaid
	order.Status = models.OrderStatusProcessing
	order.RazorpayPaymentID = input.RazorpayPaymentID
	order.RazorpaySignature = input.RazorpaySignature
	if err := s.orderRepo.Update(ctx, nil, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	cart, err := s.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err == nil {
		if err := s.cartItemRepo.ClearCartItems(ctx, nil, cart.ID); err != nil {
			zap.L().Error("failed to clear cart after payment",
				zap.String("order_number", order.OrderNumber),
				zap.Error(err))
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err == nil && user != nil {
		s.sendConfirmationEmail(user, order)
	}

	return order, nil
}

// GetOrder returns the order after refreshing its courier status, so
// reads always show the latest tracking state the courier reports.
func (s *CheckoutService) GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	s.refreshDeliveryStatus(ctx, order)
	return order, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.FindByUserID(ctx, userID)
}

func (s *CheckoutService) refreshDeliveryStatus(ctx context.Context, order *models.Order) {
	if order.DeliveryTrackingID == "" {
		return
	}
	if order.Status == models.OrderStatusDelivered || order.Status == models.OrderStatusCancelled {
		return
	}

	status := s.delivery.GetStatus(ctx, order.DeliveryTrackingID)
	if status == nil || status.Status == "" || status.Status == order.DeliveryStatus {
		return
	}

	order.DeliveryStatus = status.Status
	switch status.StatusType {
	case "DL":
		order.Status = models.OrderStatusDelivered
	case "UD":
		if order.Status == models.OrderStatusProcessing {
			order.Status = models.OrderStatusShipped
		}
	}
	if err := s.orderRepo.Update(ctx, nil, order); err != nil {
		zap.L().Error("failed to store refreshed delivery status",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}
}

// CancelOrder cancels an order that has not shipped. The courier
// shipment is cancelled best effort, stock is restored, and a paid
// order is marked refunded.
func (s *CheckoutService) CancelOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.CanBeCancelled() {
		return nil, ErrOrderNotCancellable
	}

	if order.DeliveryTrackingID != "" {
		res := s.delivery.CancelShipment(ctx, order.DeliveryTrackingID)
		if !res.Success {
			zap.L().Warn("courier shipment cancellation failed",
				zap.String("order_number", order.OrderNumber),
				zap.String("message", res.Message))
		}
	}

	err = s.txm.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.OrderItems {
			if err := s.productRepo.RestoreStock(ctx, tx, item.ProductID, item.Qty); err != nil {
				return err
			}
		}
		order.Status = models.OrderStatusCancelled
		if order.PaymentStatus == models.PaymentStatusPaid {
			order.PaymentStatus = models.PaymentStatusRefunded
		}
		return s.orderRepo.Update(ctx, tx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	return order, nil
}
