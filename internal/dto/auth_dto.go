package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenRequest exchanges the shared access key for a token.
type TokenRequest struct {
	AccessKey string `json:"access_key" example:"Test@123"`
}

// TokenResponse carries a bearer token for the protected API.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type" example:"Bearer"`
	ExpiresAt   time.Time `json:"expires_at"`
}
