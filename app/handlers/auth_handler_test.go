package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

func TestPasswordConfirmationMismatchRejected(t *testing.T) {
	h := NewAuthHandler(render.New(), nil, validator.New())

	tests := []struct {
		name      string
		handler   http.HandlerFunc
		body      string
		wantField string
	}{
		{
			name:    "register",
			handler: h.Register,
			body: `{"username":"asha","phone_number":"9876543210","password":"secret123",` +
				`"confirm_password":"different","first_name":"Asha"}`,
			wantField: "confirmpassword",
		},
		{
			name:      "change password",
			handler:   h.ChangePassword,
			body:      `{"old_password":"secret123","new_password":"newpass456","confirm":"different"}`,
			wantField: "confirm",
		},
		{
			name:      "reset password",
			handler:   h.ResetPassword,
			body:      `{"phone_number":"9876543210","otp":"482913","new_password":"newpass456","confirm":"different"}`,
			wantField: "confirm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			tt.handler(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}

			var resp struct {
				Errors map[string]string `json:"errors"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			msg, ok := resp.Errors[tt.wantField]
			if !ok {
				t.Fatalf("errors = %v, want a %q entry", resp.Errors, tt.wantField)
			}
			if !strings.Contains(msg, "must match") {
				t.Errorf("message = %q, want a field-match message", msg)
			}
		})
	}
}

func TestPasswordConfirmationRequired(t *testing.T) {
	h := NewAuthHandler(render.New(), nil, validator.New())

	body := `{"username":"asha","phone_number":"9876543210","password":"secret123","first_name":"Asha"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when confirm_password is missing", rec.Code)
	}
}
