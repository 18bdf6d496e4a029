package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	Port       string

	JWTSecret          string
	AccessTokenMinutes int
	RefreshTokenHours  int

	RazorpayKeyID     string
	RazorpayKeySecret string

	DelhiveryEnabled       bool
	DelhiveryAPIToken      string
	DelhiveryBaseURL       string
	DelhiveryPickupName    string
	DelhiveryPickupPhone   string
	DelhiveryPickupAddress string
	DelhiveryPickupCity    string
	DelhiveryPickupState   string
	DelhiveryPickupPincode string

	EmailHost     string
	EmailPort     string
	EmailUsername string
	EmailPassword string
	EmailFrom     string

	ShippingFee      string
	Currency         string
	OTPDebugResponse bool

	APP_ENV string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		Port:       os.Getenv("APP_PORT"),

		JWTSecret:          os.Getenv("JWT_SECRET"),
		AccessTokenMinutes: envInt("ACCESS_TOKEN_MINUTES", 60),
		RefreshTokenHours:  envInt("REFRESH_TOKEN_HOURS", 24*7),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),

		DelhiveryEnabled:       envBool("DELHIVERY_ENABLED"),
		DelhiveryAPIToken:      os.Getenv("DELHIVERY_API_TOKEN"),
		DelhiveryBaseURL:       envDefault("DELHIVERY_BASE_URL", "https://track.delhivery.com/api"),
		DelhiveryPickupName:    envDefault("DELHIVERY_PICKUP_NAME", "NextBloom"),
		DelhiveryPickupPhone:   envDefault("DELHIVERY_PICKUP_PHONE", "+919876543210"),
		DelhiveryPickupAddress: envDefault("DELHIVERY_PICKUP_ADDRESS", "NextBloom Warehouse, Mumbai"),
		DelhiveryPickupCity:    envDefault("DELHIVERY_PICKUP_CITY", "Mumbai"),
		DelhiveryPickupState:   envDefault("DELHIVERY_PICKUP_STATE", "Maharashtra"),
		DelhiveryPickupPincode: envDefault("DELHIVERY_PICKUP_PINCODE", "400001"),

		EmailHost:     os.Getenv("EMAIL_HOST"),
		EmailPort:     os.Getenv("EMAIL_PORT"),
		EmailUsername: os.Getenv("EMAIL_USERNAME"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:     envDefault("EMAIL_FROM", "noreply@nextbloom.com"),

		ShippingFee:      envDefault("SHIPPING_FEE", "50"),
		Currency:         envDefault("CURRENCY", "INR"),
		OTPDebugResponse: envBool("OTP_DEBUG_RESPONSE"),

		APP_ENV: os.Getenv("APP_ENV"),
	}

}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return false
	}
	return v
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

var LoadENV = LoadEnv()
