package main

import (
	"context"
	"net/http"

	"github.com/IannisIP/RideApplicationBackend/internal/response"
	"github.com/IannisIP/RideApplicationBackend/internal/token"
)

type contextKey string

const claimsContextKey contextKey = "session_claims"

// requireToken guards the ride routes. The token travels in the
// x-access-token header, not the Authorization header.
func (app *Config) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("x-access-token")
		if tokenString == "" {
			response.Unauthorized(w, "No token provided")
			return
		}

		claims, err := token.Validate(tokenString, app.JWTSecret)
		if err != nil {
			response.Forbidden(w, "Authentication token expired or invalid")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionClaims returns the claims stored by requireToken, or nil outside it.
func sessionClaims(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*token.Claims)
	return claims
}
