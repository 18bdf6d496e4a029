package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newAuthFixture(otpDebug bool) (*AuthService, *fakeUserRepo, *fakeOTPRepo) {
	users := newFakeUserRepo()
	otps := &fakeOTPRepo{}
	tokens := NewTokenService("test-secret", time.Hour, 7*24*time.Hour)
	svc := NewAuthService(users, otps, tokens, NewMailer(MailerConfig{}), otpDebug)
	return svc, users, otps
}

func registerInput() RegisterInput {
	return RegisterInput{
		Username:    "asha",
		PhoneNumber: "9876543210",
		Password:    "secret123",
		FirstName:   "Asha",
	}
}

func TestRegisterNormalizesPhone(t *testing.T) {
	svc, _, _ := newAuthFixture(false)

	user, pair, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.PhoneNumber != "+919876543210" {
		t.Errorf("phone = %s, want +919876543210", user.PhoneNumber)
	}
	if pair == nil || pair.Access == "" || pair.Refresh == "" {
		t.Fatalf("token pair = %+v, want both tokens issued", pair)
	}
	if user.Password == "secret123" {
		t.Error("password stored in plain text")
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc, _, _ := newAuthFixture(false)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	input := registerInput()
	input.Username = "other"
	input.PhoneNumber = "+91 98765 43210" // same number, different formatting
	if _, _, err := svc.Register(ctx, input); !errors.Is(err, ErrPhoneAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrPhoneAlreadyRegistered", err)
	}
}

func TestLoginAcceptsAnyPhoneFormatting(t *testing.T) {
	svc, _, _ := newAuthFixture(false)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, phone := range []string{"9876543210", "+919876543210", "98765-43210"} {
		if _, _, err := svc.Login(ctx, phone, "secret123"); err != nil {
			t.Errorf("login with %q: %v", phone, err)
		}
	}
}

func TestLoginGenericError(t *testing.T) {
	svc, _, _ := newAuthFixture(false)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, unknownErr := svc.Login(ctx, "9999999999", "secret123")
	_, _, wrongPassErr := svc.Login(ctx, "9876543210", "wrong")

	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(wrongPassErr, ErrInvalidCredentials) {
		t.Fatalf("unknown=%v wrongPass=%v, want ErrInvalidCredentials for both", unknownErr, wrongPassErr)
	}
	if unknownErr.Error() != wrongPassErr.Error() {
		t.Error("login errors differ between unknown number and wrong password")
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _ := newAuthFixture(false)
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Refresh(ctx, pair.Access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh with access token: err = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.Refresh(ctx, pair.Refresh); err != nil {
		t.Fatalf("refresh with refresh token: %v", err)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, _, otps := newAuthFixture(true)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	code, ferr := svc.ForgotPassword(ctx, "9876543210")
	if ferr != nil {
		t.Fatalf("ForgotPassword: %v", ferr)
	}
	if len(code) != 6 {
		t.Fatalf("debug echo code = %q, want 6 digits", code)
	}
	if otps.stored == nil || otps.stored.PhoneNumber != "+919876543210" {
		t.Fatalf("stored otp = %+v", otps.stored)
	}

	if err := svc.ResetPassword(ctx, "9876543210", code, "newpass456"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, _, err := svc.Login(ctx, "9876543210", "newpass456"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	// The code is single use.
	if err := svc.ResetPassword(ctx, "9876543210", code, "another789"); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("reuse: err = %v, want ErrInvalidOTP", err)
	}
}

func TestForgotPasswordUnknownNumber(t *testing.T) {
	svc, _, otps := newAuthFixture(true)

	code, err := svc.ForgotPassword(context.Background(), "9999999999")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
	if code != "" || otps.stored != nil {
		t.Errorf("unknown number produced code %q, stored %+v; want nothing", code, otps.stored)
	}
}

func TestResetPasswordWrongCode(t *testing.T) {
	svc, _, _ := newAuthFixture(true)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.ForgotPassword(ctx, "9876543210"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}

	if err := svc.ResetPassword(ctx, "9876543210", "000000", "newpass456"); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("err = %v, want ErrInvalidOTP", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newAuthFixture(false)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "wrong", "newpass456"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("err = %v, want ErrWrongPassword", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, "secret123", "newpass456"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, _, err := svc.Login(ctx, "9876543210", "newpass456"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
