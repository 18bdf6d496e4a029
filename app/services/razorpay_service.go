package services

import (
	"context"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentOrder is the gateway-side payment intent a checkout hands to
// the client to drive the payment UI.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type PaymentCapture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// PaymentGateway returns nil / false instead of propagating transport
// or configuration failures, so the checkout flow has a single failure
// shape to branch on.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) *PaymentOrder
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
	Capture(ctx context.Context, paymentID string, amount decimal.Decimal) *PaymentCapture
	KeyID() string
}

type RazorpayService struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

// NewRazorpayService builds the adapter once at process start; with
// empty credentials the client stays nil and every call degrades to a
// negative result.
func NewRazorpayService(keyID, keySecret string) *RazorpayService {
	s := &RazorpayService{keyID: keyID, keySecret: keySecret}
	if keyID != "" && keySecret != "" {
		s.client = razorpay.NewClient(keyID, keySecret)
	} else {
		zap.S().Warn("Razorpay client not initialized: RAZORPAY_KEY_ID / RAZORPAY_KEY_SECRET not set")
	}
	return s
}

func (s *RazorpayService) KeyID() string {
	return s.keyID
}

func (s *RazorpayService) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) *PaymentOrder {
	if s.client == nil {
		return nil
	}

	paise := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	data := map[string]interface{}{
		"amount":   paise,
		"currency": currency,
		"receipt":  receipt,
	}

	body, err := s.client.Order.Create(data, nil)
	if err != nil {
		zap.S().Errorw("Razorpay order creation failed", "receipt", receipt, "error", err)
		return nil
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		zap.S().Errorw("Razorpay order response missing id", "receipt", receipt)
		return nil
	}

	return &PaymentOrder{
		ID:       id,
		Amount:   paise,
		Currency: currency,
		Receipt:  receipt,
	}
}

func (s *RazorpayService) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	if s.client == nil {
		return false
	}

	params := map[string]interface{}{
		"razorpay_order_id":   gatewayOrderID,
		"razorpay_payment_id": paymentID,
	}
	return utils.VerifyPaymentSignature(params, signature, s.keySecret)
}

func (s *RazorpayService) Capture(ctx context.Context, paymentID string, amount decimal.Decimal) *PaymentCapture {
	if s.client == nil {
		return nil
	}

	paise := int(amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	body, err := s.client.Payment.Capture(paymentID, paise, nil, nil)
	if err != nil {
		zap.S().Errorw("Razorpay payment capture failed", "payment_id", paymentID, "error", err)
		return nil
	}

	capture := &PaymentCapture{ID: paymentID}
	if id, ok := body["id"].(string); ok {
		capture.ID = id
	}
	if status, ok := body["status"].(string); ok {
		capture.Status = status
	}
	return capture
}
