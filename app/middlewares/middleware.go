package middlewares

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/unrolled/render"
	"go.uber.org/zap"

	"github.com/nextbloom/nextbloom-api/app/helpers"
	"github.com/nextbloom/nextbloom-api/app/services"
)

// AuthMiddleware rejects requests without a valid bearer access token
// and stores the authenticated user id on the request context.
func AuthMiddleware(r *render.Render, tokens *services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			header := req.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				_ = r.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authorization header missing or malformed"})
				return
			}

			claims, err := tokens.ValidateAccess(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				_ = r.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
				return
			}

			ctx := context.WithValue(req.Context(), helpers.ContextKeyUserID, claims.UserID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware emits one structured line per request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, req)

		zap.L().Info("http request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_addr", req.RemoteAddr))
	})
}
