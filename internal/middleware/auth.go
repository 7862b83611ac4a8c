package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hoa-backend/internal/domain"
	"hoa-backend/internal/service"
	"hoa-backend/pkg/errors"
	"hoa-backend/pkg/logger"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// ClaimsContextKey is the key for the authenticated resident's claims
	ClaimsContextKey ContextKey = "claims"
	// RequestIDContextKey is the key for request ID in context
	RequestIDContextKey ContextKey = "request_id"
)

// Auth creates an authentication middleware that validates the bearer token
// and places the resident's claims on the request context
func Auth(authService *service.AuthService, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeErrorResponse(w, errors.NewAuthenticationError("Authorization header is required"), logger)
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeErrorResponse(w, errors.NewAuthenticationError("Invalid authorization header format"), logger)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == "" {
				writeErrorResponse(w, errors.NewAuthenticationError("Token is required"), logger)
				return
			}

			claims, err := authService.ValidateToken(token)
			if err != nil {
				logger.WithError(err).Error("Token validation failed")
				writeErrorResponse(w, errors.NewAuthenticationError("Invalid or expired token"), logger)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BoardOnly rejects requests whose claims do not carry the board-member flag.
// Must run after Auth.
func BoardOnly(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeErrorResponse(w, errors.NewAuthenticationError("Authentication required"), logger)
				return
			}
			if !claims.IsBoardMember {
				writeErrorResponse(w, errors.NewAuthorizationError("Board membership required"), logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext extracts the authenticated resident's claims, nil when
// the request is unauthenticated
func ClaimsFromContext(ctx context.Context) *domain.AuthClaims {
	claims, _ := ctx.Value(ClaimsContextKey).(*domain.AuthClaims)
	return claims
}

// RequestID creates a middleware that adds a unique request ID to each request
func RequestID(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := generateRequestID()

			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			r = r.WithContext(ctx)

			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(w, r)
		})
	}
}

// generateRequestID generates a simple request ID
func generateRequestID() string {
	return fmt.Sprintf("%d-%d", time.Now().Unix(), time.Now().Nanosecond())
}

// writeErrorResponse writes an error response to the client
func writeErrorResponse(w http.ResponseWriter, appErr *errors.AppError, logger *logger.Logger) {
	logger.WithError(appErr).Error("Request error")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)

	response := &errors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	_ = json.NewEncoder(w).Encode(response)
}
