package service

import (
	"context"
	"testing"
	"time"

	"mcq-generator/internal/config"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) AuthService {
	t.Helper()
	svc, err := NewAuthService(config.AuthConfig{
		AccessKey: "Test@123",
		JWTSecret: "testsecretkeydontuseinproduction",
		TokenTTL:  15 * time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func TestNewAuthService_RequiresKeys(t *testing.T) {
	_, err := NewAuthService(config.AuthConfig{JWTSecret: "s"})
	assert.Error(t, err)
	_, err = NewAuthService(config.AuthConfig{AccessKey: "k"})
	assert.Error(t, err)
}

func TestAuthService_IssueAndValidate(t *testing.T) {
	svc := newTestAuthService(t)

	token, expiresAt, err := svc.IssueToken(context.Background(), "Test@123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateJWT(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, "mcq-client", claims.Subject)
}

func TestAuthService_IssueToken_WrongKey(t *testing.T) {
	svc := newTestAuthService(t)

	_, _, err := svc.IssueToken(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeUnauthorized))
	assert.Equal(t, "Wrong Password", err.Error())
}

func TestAuthService_ValidateJWT_Rejects(t *testing.T) {
	svc := newTestAuthService(t)
	secret := []byte("testsecretkeydontuseinproduction")

	sign := func(claims dto.AuthClaims, key []byte) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong secret", sign(dto.AuthClaims{TokenType: "access", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}}, []byte("other"))},
		{"expired", sign(dto.AuthClaims{TokenType: "access", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}}, secret)},
		{"refresh token type", sign(dto.AuthClaims{TokenType: "refresh", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}}, secret)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateJWT(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidJWTToken)
		})
	}
}
