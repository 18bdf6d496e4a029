package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"

	"github.com/nextbloom/nextbloom-api/app/models"
	"github.com/nextbloom/nextbloom-api/app/services"
)

type CartHandler struct {
	render    *render.Render
	cart      *services.CartService
	validator *validator.Validate
}

func NewCartHandler(r *render.Render, cart *services.CartService, v *validator.Validate) *CartHandler {
	return &CartHandler{render: r, cart: cart, validator: v}
}

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Qty       int    `json:"quantity" validate:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	Qty int `json:"quantity"`
}

func (h *CartHandler) cartResponse(cart *models.Cart) M {
	return M{
		"cart":        cart,
		"total_items": cart.TotalItems(),
		"total_price": cart.TotalPrice(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, req *http.Request) {
	cart, err := h.cart.GetCart(req.Context(), userIDFromContext(req))
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, h.cartResponse(cart))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, req *http.Request) {
	var body AddCartItemRequest
	if !decodeAndValidate(h.render, h.validator, w, req, &body) {
		return
	}

	cart, err := h.cart.AddItem(req.Context(), userIDFromContext(req), body.ProductID, body.Qty)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, h.cartResponse(cart))
}

// UpdateItem accepts quantity zero as removal, so the client can drive
// a stepper without a separate delete call.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, req *http.Request) {
	var body UpdateCartItemRequest
	if !decodeAndValidate(h.render, h.validator, w, req, &body) {
		return
	}

	itemID := mux.Vars(req)["itemID"]
	cart, err := h.cart.UpdateItem(req.Context(), userIDFromContext(req), itemID, body.Qty)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, h.cartResponse(cart))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, req *http.Request) {
	itemID := mux.Vars(req)["itemID"]
	cart, err := h.cart.RemoveItem(req.Context(), userIDFromContext(req), itemID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, h.cartResponse(cart))
}

func (h *CartHandler) Clear(w http.ResponseWriter, req *http.Request) {
	cart, err := h.cart.Clear(req.Context(), userIDFromContext(req))
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, h.cartResponse(cart))
}
