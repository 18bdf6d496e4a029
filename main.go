package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
	"go.uber.org/zap"

	"github.com/nextbloom/nextbloom-api/app/cmd"
	"github.com/nextbloom/nextbloom-api/app/configs"
	"github.com/nextbloom/nextbloom-api/app/handlers"
	"github.com/nextbloom/nextbloom-api/app/repositories"
	"github.com/nextbloom/nextbloom-api/app/routes"
	"github.com/nextbloom/nextbloom-api/app/services"
	"github.com/nextbloom/nextbloom-api/app/utils/logger"
)

func main() {
	env := configs.LoadENV

	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	if _, err := logger.Init(env.APP_ENV); err != nil {
		log.Fatal("logger init failed:", err)
	}
	defer func() { _ = zap.L().Sync() }()

	db, err := configs.OpenConnection()
	if err != nil {
		zap.L().Fatal("database connection failed", zap.Error(err))
	}
	zap.L().Info("database connected")

	shippingFee, err := decimal.NewFromString(env.ShippingFee)
	if err != nil {
		zap.L().Fatal("invalid SHIPPING_FEE", zap.String("value", env.ShippingFee), zap.Error(err))
	}

	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	cartItemRepo := repositories.NewCartItemRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	orderItemRepo := repositories.NewOrderItemRepository(db)

	tokens := services.NewTokenService(
		env.JWTSecret,
		time.Duration(env.AccessTokenMinutes)*time.Minute,
		time.Duration(env.RefreshTokenHours)*time.Hour,
	)
	mailer := services.NewMailer(services.MailerConfig{
		Host:     env.EmailHost,
		Port:     env.EmailPort,
		Username: env.EmailUsername,
		Password: env.EmailPassword,
		From:     env.EmailFrom,
	})

	payment := services.NewRazorpayService(env.RazorpayKeyID, env.RazorpayKeySecret)
	delivery := services.NewDelhiveryService(env.DelhiveryEnabled, env.DelhiveryAPIToken, env.DelhiveryBaseURL, services.PickupLocation{
		Name:    env.DelhiveryPickupName,
		Phone:   env.DelhiveryPickupPhone,
		Address: env.DelhiveryPickupAddress,
		City:    env.DelhiveryPickupCity,
		State:   env.DelhiveryPickupState,
		Pincode: env.DelhiveryPickupPincode,
	})

	authService := services.NewAuthService(userRepo, otpRepo, tokens, mailer, env.OTPDebugResponse)
	cartService := services.NewCartService(cartRepo, cartItemRepo, productRepo)
	checkoutService := services.NewCheckoutService(
		orderRepo, orderItemRepo, cartRepo, cartItemRepo, productRepo, userRepo,
		payment, delivery, mailer, db, shippingFee, env.Currency,
	)

	r := render.New()
	v := validator.New()

	router := routes.NewRouter(r, tokens, routes.Handlers{
		Auth:    handlers.NewAuthHandler(r, authService, v),
		Product: handlers.NewProductHandler(r, productRepo, categoryRepo),
		Cart:    handlers.NewCartHandler(r, cartService, v),
		Order:   handlers.NewOrderHandler(r, checkoutService, payment, v),
	})

	port := env.Port
	if port == "" {
		port = "8080"
	}

	server := http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("server listening", zap.String("port", port))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}
