package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"

	"github.com/nextbloom/nextbloom-api/app/services"
)

type AuthHandler struct {
	render    *render.Render
	auth      *services.AuthService
	validator *validator.Validate
}

func NewAuthHandler(r *render.Render, auth *services.AuthService, v *validator.Validate) *AuthHandler {
	return &AuthHandler{render: r, auth: auth, validator: v}
}

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"omitempty,email"`
	PhoneNumber     string `json:"phone_number" validate:"required,min=10,max=15"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"required,min=2,max=100"`
	LastName        string `json:"last_name" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Address   *string `json:"address" validate:"omitempty,max=255"`
	City      *string `json:"city" validate:"omitempty,max=100"`
	State     *string `json:"state" validate:"omitempty,max=100"`
	ZipCode   *string `json:"zip_code" validate:"omitempty,max=10"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
	Confirm     string `json:"confirm" validate:"required,eqfield=NewPassword"`
}

type ForgotPasswordRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
}

type ResetPasswordRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	OTP         string `json:"otp" validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
	Confirm     string `json:"confirm" validate:"required,eqfield=NewPassword"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, req *http.Request) {
	var body RegisterRequest
	if !decodeAndValidate(h.render, h.validator, w, req, &body) {
		return
	}

	user, pair, err := h.auth.Register(req.Context(), services.RegisterInput{
		Username:    body.Username,
		Email:       body.Email,
		PhoneNumber: body.PhoneNumber,
		Password:    body.Password,
		FirstName:   body.FirstName,
		LastName:    body.LastName,
	})
	if err != nil {
		respondError(h.render, w, err)
		return
	}

	_ = h.render.JSON(w, http.StatusCreated, M{"user": user, "tokens": pair})
}

func (h *AuthHandler) Login(w http.ResponseWriter, req *http.Request) {
	var body LoginRequest
	if !decodeAndValidate(h.render, h.validator, w, req, &body) {
		return
	}

	user, pair, err := h.auth.Login(req.Context(), body.PhoneNumber, body.Password)
	if err != nil {
		respondError(h.render, w, err)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, M{"user": user, "tokens": pair})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, req *http.Request) {
	var body RefreshRequest
	if !decodeAndValidate(h.render, h.validator, w, req, &body) {
		return
	}

	pair, err := h.auth.Refresh(req.Context(), body.Refresh)
	if err != nil {
		respondError(h.render, w, err)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, M{"tokens": pair})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, req *http.Request) {
	user, err := h.auth.GetProfile(req.Context(), userIDFromContext(req))
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, M{"user": user})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, req *http.Request) {
	var body UpdateProfileRequest
	if !decodeAndValidate(h.render, h.validator, w, req, &body) {
		return
	}

	user, err := h.auth.UpdateProfile(req.Context(), userIDFromContext(req), services.UpdateProfileInput{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Address:   body.Address,
		City:      body.City,
		State:     body.State,
		ZipCode:   body.ZipCode,
	})
	if err != nil {
		respondError(h.render, w, err)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, M{"user": user})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, req *http.Request) {
	var body ChangePasswordRequest
	if !decodeAndValidate(h.render, h.validator, w, req, &body) {
		return
	}

	if err := h.auth.ChangePassword(req.Context(), userIDFromContext(req), body.OldPassword, body.NewPassword); err != nil {
		respondError(h.render, w, err)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, M{"message": "password changed"})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, req *http.Request) {
	var body ForgotPasswordRequest
	if !decodeAndValidate(h.render, h.validator, w, req, &body) {
		return
	}

	code, err := h.auth.ForgotPassword(req.Context(), body.PhoneNumber)
	if err != nil {
		respondError(h.render, w, err)
		return
	}

	resp := M{"message": "a reset code has been sent"}
	if code != "" {
		resp["otp"] = code
	}
	_ = h.render.JSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, req *http.Request) {
	var body ResetPasswordRequest
	if !decodeAndValidate(h.render, h.validator, w, req, &body) {
		return
	}

	if err := h.auth.ResetPassword(req.Context(), body.PhoneNumber, body.OTP, body.NewPassword); err != nil {
		respondError(h.render, w, err)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, M{"message": "password has been reset"})
}
