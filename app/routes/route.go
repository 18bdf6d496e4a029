package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"

	"github.com/nextbloom/nextbloom-api/app/handlers"
	"github.com/nextbloom/nextbloom-api/app/middlewares"
	"github.com/nextbloom/nextbloom-api/app/services"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Product *handlers.ProductHandler
	Cart    *handlers.CartHandler
	Order   *handlers.OrderHandler
}

func NewRouter(r *render.Render, tokens *services.TokenService, h Handlers) *mux.Router {
	router := mux.NewRouter()
	router.Use(middlewares.LoggingMiddleware)

	api := router.PathPrefix("/api").Subrouter()
	requireAuth := middlewares.AuthMiddleware(r, tokens)

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/token/refresh", h.Auth.Refresh).Methods(http.MethodPost)
	auth.HandleFunc("/forgot-password", h.Auth.ForgotPassword).Methods(http.MethodPost)
	auth.HandleFunc("/reset-password", h.Auth.ResetPassword).Methods(http.MethodPost)

	profile := api.PathPrefix("/auth").Subrouter()
	profile.Use(requireAuth)
	profile.HandleFunc("/profile", h.Auth.Profile).Methods(http.MethodGet)
	profile.HandleFunc("/profile", h.Auth.UpdateProfile).Methods(http.MethodPut)
	profile.HandleFunc("/change-password", h.Auth.ChangePassword).Methods(http.MethodPost)

	products := api.PathPrefix("/products").Subrouter()
	products.HandleFunc("/categories", h.Product.ListCategories).Methods(http.MethodGet)
	products.HandleFunc("/categories/{id}/products", h.Product.CategoryProducts).Methods(http.MethodGet)
	products.HandleFunc("/featured", h.Product.FeaturedProducts).Methods(http.MethodGet)
	products.HandleFunc("/on_sale", h.Product.OnSaleProducts).Methods(http.MethodGet)
	products.HandleFunc("", h.Product.ListProducts).Methods(http.MethodGet)
	products.HandleFunc("/{slug}", h.Product.GetProduct).Methods(http.MethodGet)

	cart := api.PathPrefix("/cart").Subrouter()
	cart.Use(requireAuth)
	cart.HandleFunc("", h.Cart.GetCart).Methods(http.MethodGet)
	cart.HandleFunc("/add_item", h.Cart.AddItem).Methods(http.MethodPost)
	cart.HandleFunc("/update_item/{itemID}", h.Cart.UpdateItem).Methods(http.MethodPut)
	cart.HandleFunc("/remove_item/{itemID}", h.Cart.RemoveItem).Methods(http.MethodDelete)
	cart.HandleFunc("/clear", h.Cart.Clear).Methods(http.MethodDelete)

	orders := api.PathPrefix("/orders").Subrouter()
	orders.Use(requireAuth)
	orders.HandleFunc("/payment/verify", h.Order.VerifyPayment).Methods(http.MethodPost)
	orders.HandleFunc("/payment/razorpay-key", h.Order.RazorpayKey).Methods(http.MethodGet)
	orders.HandleFunc("", h.Order.Checkout).Methods(http.MethodPost)
	orders.HandleFunc("", h.Order.ListOrders).Methods(http.MethodGet)
	orders.HandleFunc("/{orderID}", h.Order.GetOrder).Methods(http.MethodGet)
	orders.HandleFunc("/{orderID}/cancel", h.Order.CancelOrder).Methods(http.MethodPost)

	return router
}
