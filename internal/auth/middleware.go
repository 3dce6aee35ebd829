// Package auth provides an optional bearer-token gate for the API routes.
// There are no user accounts: tokens are HS256 JWTs signed with the shared
// secret from configuration, and any validly signed, unexpired token is
// accepted.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/captionrelay/backend/internal/errors"
	"github.com/golang-jwt/jwt/v5"
)

// Middleware returns a middleware validating Authorization bearer tokens
// against secret. An empty secret disables the gate entirely.
func Middleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := apperrors.GetRequestID(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apperrors.WriteError(w, requestID, apperrors.Unauthorized("missing authorization header"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				apperrors.WriteError(w, requestID, apperrors.Unauthorized("invalid authorization header format"))
				return
			}

			if err := validateToken(parts[1], key); err != nil {
				apperrors.WriteError(w, requestID, apperrors.Unauthorized(err.Error()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func validateToken(tokenString string, key []byte) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		if strings.Contains(err.Error(), jwt.ErrTokenExpired.Error()) {
			return fmt.Errorf("token has expired")
		}
		return fmt.Errorf("invalid access token")
	}
	if !token.Valid {
		return fmt.Errorf("invalid access token")
	}
	return nil
}
