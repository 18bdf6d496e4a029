package helpers

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	ContextKeyUserID contextKey = "userID"
)

var ErrInvalidPhoneNumber = errors.New("invalid phone number format")

// NormalizePhoneNumber strips everything except digits and '+', then
// prepends +91 when exactly 10 digits remain and no country code was
// given. Any other shape without a '+' prefix is rejected.
func NormalizePhoneNumber(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	phone := b.String()

	if phone == "" {
		return "", ErrInvalidPhoneNumber
	}
	if strings.HasPrefix(phone, "+") {
		return phone, nil
	}
	if len(phone) == 10 {
		return "+91" + phone, nil
	}
	return "", ErrInvalidPhoneNumber
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// GenerateOTP returns a 6-digit code uniformly drawn from 100000-999999.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// GenerateOrderNumber builds a unique, human-readable order reference,
// e.g. ORD-20250101-4F8A2C19D3. The random suffix carries 40 bits so
// collisions within a day stay negligible at realistic order volumes.
func GenerateOrderNumber() string {
	suffix := make([]byte, 5)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("ORD-%s-%X", time.Now().Format("20060102"), suffix)
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", err.Field())
		case "email":
			errorMessages[field] = fmt.Sprintf("%s must be a valid email address.", err.Field())
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s characters.", err.Field(), err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s characters.", err.Field(), err.Param())
		case "eqfield":
			errorMessages[field] = fmt.Sprintf("%s must match %s.", err.Field(), err.Param())
		case "oneof":
			errorMessages[field] = fmt.Sprintf("%s must be one of: %s.", err.Field(), err.Param())
		case "gt":
			errorMessages[field] = fmt.Sprintf("%s must be greater than %s.", err.Field(), err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s is not valid.", err.Field())
		}
	}
	return errorMessages
}
