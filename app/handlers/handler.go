package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"go.uber.org/zap"

	"github.com/nextbloom/nextbloom-api/app/helpers"
	"github.com/nextbloom/nextbloom-api/app/services"
)

type M map[string]interface{}

// decodeAndValidate parses the JSON body into dst and runs the
// validator over its tags. A false return means the response has
// already been written.
func decodeAndValidate(r *render.Render, v *validator.Validate, w http.ResponseWriter, req *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(req.Body).Decode(dst); err != nil {
		_ = r.JSON(w, http.StatusBadRequest, M{"error": "invalid request body"})
		return false
	}
	if err := v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			_ = r.JSON(w, http.StatusBadRequest, M{"errors": helpers.FormatValidationErrors(verrs)})
		} else {
			_ = r.JSON(w, http.StatusBadRequest, M{"error": "invalid request body"})
		}
		return false
	}
	return true
}

func userIDFromContext(req *http.Request) string {
	userID, _ := req.Context().Value(helpers.ContextKeyUserID).(string)
	return userID
}

// respondError maps the service sentinels onto HTTP statuses; anything
// unmatched is logged and reported as a 500 without leaking internals.
func respondError(r *render.Render, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, helpers.ErrInvalidPhoneNumber),
		errors.Is(err, services.ErrCartEmpty),
		errors.Is(err, services.ErrNotRazorpayOrder):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrWrongPassword),
		errors.Is(err, services.ErrInvalidOTP):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrPhoneAlreadyRegistered),
		errors.Is(err, services.ErrEmailAlreadyRegistered),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrOrderNotCancellable):
		status = http.StatusConflict
	case errors.Is(err, services.ErrPaymentVerification):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrPaymentInit):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err))
		_ = r.JSON(w, status, M{"error": "something went wrong"})
		return
	}
	_ = r.JSON(w, status, M{"error": err.Error()})
}
