package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"

	"github.com/nextbloom/nextbloom-api/app/services"
)

type OrderHandler struct {
	render    *render.Render
	checkout  *services.CheckoutService
	payment   services.PaymentGateway
	validator *validator.Validate
}

func NewOrderHandler(r *render.Render, checkout *services.CheckoutService, payment services.PaymentGateway, v *validator.Validate) *OrderHandler {
	return &OrderHandler{render: r, checkout: checkout, payment: payment, validator: v}
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required,min=10"`
	ShippingCity    string `json:"shipping_city" validate:"required,max=100"`
	ShippingState   string `json:"shipping_state" validate:"required,max=100"`
	ShippingZipCode string `json:"shipping_zip_code" validate:"required,min=5,max=10"`
	ShippingPhone   string `json:"shipping_phone" validate:"required,min=10,max=15"`
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=cod razorpay"`
	Notes           string `json:"notes" validate:"omitempty,max=500"`
}

type VerifyPaymentRequest struct {
	OrderID           string `json:"order_id" validate:"required,uuid4"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, req *http.Request) {
	var body CheckoutRequest
	if !decodeAndValidate(h.render, h.validator, w, req, &body) {
		return
	}

	result, err := h.checkout.PlaceOrder(req.Context(), userIDFromContext(req), services.CheckoutInput{
		ShippingAddress: body.ShippingAddress,
		ShippingCity:    body.ShippingCity,
		ShippingState:   body.ShippingState,
		ShippingZipCode: body.ShippingZipCode,
		ShippingPhone:   body.ShippingPhone,
		PaymentMethod:   body.PaymentMethod,
		Notes:           body.Notes,
	})
	if err != nil {
		respondError(h.render, w, err)
		return
	}

	_ = h.render.JSON(w, http.StatusCreated, result)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, req *http.Request) {
	orders, err := h.checkout.ListOrders(req.Context(), userIDFromContext(req))
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, M{"orders": orders})
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, req *http.Request) {
	orderID := mux.Vars(req)["orderID"]
	order, err := h.checkout.GetOrder(req.Context(), userIDFromContext(req), orderID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, M{"order": order})
}

func (h *OrderHandler) VerifyPayment(w http.ResponseWriter, req *http.Request) {
	var body VerifyPaymentRequest
	if !decodeAndValidate(h.render, h.validator, w, req, &body) {
		return
	}

	order, err := h.checkout.VerifyPayment(req.Context(), userIDFromContext(req), services.VerifyPaymentInput{
		OrderID:           body.OrderID,
		RazorpayPaymentID: body.RazorpayPaymentID,
		RazorpaySignature: body.RazorpaySignature,
	})
	if err != nil {
		respondError(h.render, w, err)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, M{"order": order, "message": "payment verified"})
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, req *http.Request) {
	orderID := mux.Vars(req)["orderID"]
	order, err := h.checkout.CancelOrder(req.Context(), userIDFromContext(req), orderID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, M{"order": order, "message": "order cancelled"})
}

// RazorpayKey hands the publishable key id to the client so it can
// mount the payment widget.
func (h *OrderHandler) RazorpayKey(w http.ResponseWriter, req *http.Request) {
	_ = h.render.JSON(w, http.StatusOK, M{"key_id": h.payment.KeyID()})
}
