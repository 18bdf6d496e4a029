package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nextbloom/nextbloom-api/app/helpers"
	"github.com/nextbloom/nextbloom-api/app/models"
	"github.com/nextbloom/nextbloom-api/app/repositories"
)

const otpExpiryMinutes = 10

var (
	// ErrInvalidCredentials is deliberately shared between the unknown-phone
	// and wrong-password cases so login responses do not reveal which one
	// failed.
	ErrInvalidCredentials = errors.New("invalid phone number or password")

	ErrPhoneAlreadyRegistered = errors.New("phone number is already registered")
	ErrEmailAlreadyRegistered = errors.New("email is already registered")
	ErrUsernameTaken          = errors.New("username is already taken")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidOTP             = errors.New("invalid or expired otp")
	ErrWrongPassword          = errors.New("current password is incorrect")
)

type RegisterInput struct {
	Username    string
	Email       string
	PhoneNumber string
	Password    string
	FirstName   string
	LastName    string
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Address   *string
	City      *string
	State     *string
	ZipCode   *string
}

type AuthService struct {
	userRepo repositories.UserRepositoryImpl
	otpRepo  repositories.OTPRepositoryImpl
	tokens   *TokenService
	mailer   *Mailer
	otpDebug bool
}

func NewAuthService(
	userRepo repositories.UserRepositoryImpl,
	otpRepo repositories.OTPRepositoryImpl,
	tokens *TokenService,
	mailer *Mailer,
	otpDebug bool,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		otpRepo:  otpRepo,
		tokens:   tokens,
		mailer:   mailer,
		otpDebug: otpDebug,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, *TokenPair, error) {
	phone, err := helpers.NormalizePhoneNumber(input.PhoneNumber)
	if err != nil {
		return nil, nil, err
	}

	if existing, err := s.userRepo.FindByPhone(ctx, phone); err != nil {
		return nil, nil, fmt.Errorf("failed to check phone number: %w", err)
	} else if existing != nil {
		return nil, nil, ErrPhoneAlreadyRegistered
	}

	if input.Email != "" {
		if existing, err := s.userRepo.FindByEmail(ctx, input.Email); err != nil {
			return nil, nil, fmt.Errorf("failed to check email: %w", err)
		} else if existing != nil {
			return nil, nil, ErrEmailAlreadyRegistered
		}
	}

	if existing, err := s.userRepo.FindByUsername(ctx, input.Username); err != nil {
		return nil, nil, fmt.Errorf("failed to check username: %w", err)
	} else if existing != nil {
		return nil, nil, ErrUsernameTaken
	}

	hashed, err := helpers.HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		Username:    input.Username,
		PhoneNumber: phone,
		Password:    hashed,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
	}
	if input.Email != "" {
		user.Email = &input.Email
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, phoneNumber, password string) (*models.User, *TokenPair, error) {
	phone, err := helpers.NormalizePhoneNumber(phoneNumber)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !helpers.CheckPassword(user.Password, password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The user row
// is re-checked so tokens for deleted accounts stop working.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return pair, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Username, e-mail, and phone number are identity fields and are not
	// editable here.
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.City != nil {
		user.City = *input.City
	}
	if input.State != nil {
		user.State = *input.State
	}
	if input.ZipCode != nil {
		user.ZipCode = *input.ZipCode
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if !helpers.CheckPassword(user.Password, oldPassword) {
		return ErrWrongPassword
	}

	hashed, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, hashed)
}

// ForgotPassword issues a reset code for the phone number. The returned
// code is non-empty only when debug echo is enabled.
func (s *AuthService) ForgotPassword(ctx context.Context, phoneNumber string) (string, error) {
	phone, err := helpers.NormalizePhoneNumber(phoneNumber)
	if err != nil {
		return "", err
	}

	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	code, err := helpers.GenerateOTP()
	if err != nil {
		return "", err
	}

	otp := &models.PasswordResetOTP{
		PhoneNumber: phone,
		OTP:         code,
		ExpiresAt:   time.Now().Add(otpExpiryMinutes * time.Minute),
	}
	if err := s.otpRepo.Replace(ctx, otp); err != nil {
		return "", fmt.Errorf("failed to store otp: %w", err)
	}

	if user.Email != nil && *user.Email != "" {
		body := BuildOTPEmailBody(code, otpExpiryMinutes)
		if err := s.mailer.SendHTMLEmail(*user.Email, "Your NextBloom password reset code", body); err != nil {
			zap.L().Error("failed to send otp email",
				zap.String("user_id", user.ID),
				zap.Error(err))
		}
	}

	if s.otpDebug {
		return code, nil
	}
	return "", nil
}

func (s *AuthService) ResetPassword(ctx context.Context, phoneNumber, code, newPassword string) error {
	phone, err := helpers.NormalizePhoneNumber(phoneNumber)
	if err != nil {
		return ErrInvalidOTP
	}

	ok, err := s.otpRepo.Consume(ctx, phone, code)
	if err != nil {
		return fmt.Errorf("failed to verify otp: %w", err)
	}
	if !ok {
		return ErrInvalidOTP
	}

	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return ErrInvalidOTP
	}

	hashed, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, hashed)
}
