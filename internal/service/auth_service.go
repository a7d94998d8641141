package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"mcq-generator/internal/config"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/dto"
	"mcq-generator/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	tokenTypeAccess = "access"
	tokenSubject    = "mcq-client"
	defaultTokenTTL = 12 * time.Hour
)

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// AuthService exchanges the shared access key for bearer tokens.
type AuthService interface {
	IssueToken(ctx context.Context, accessKey string) (string, time.Time, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

type authServiceImpl struct {
	accessKey []byte
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(cfg config.AuthConfig) (AuthService, error) {
	if cfg.AccessKey == "" {
		return nil, errors.New("auth.access_key is not configured")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is not configured")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &authServiceImpl{
		accessKey: []byte(cfg.AccessKey),
		secret:    []byte(cfg.JWTSecret),
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

func (s *authServiceImpl) IssueToken(ctx context.Context, accessKey string) (string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(accessKey), s.accessKey) != 1 {
		logger.Get().Warn("Rejected token request with wrong access key")
		return "", time.Time{}, domain.NewUnauthorizedError("Wrong Password")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := dto.AuthClaims{
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   tokenSubject,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, domain.NewInternalError("Failed to sign token", err)
	}
	return token, expiresAt, nil
}

func snippet(token string) string {
	return token[:min(len(token), 20)] + "..."
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired", zap.Error(err), zap.String("token_snippet", snippet(tokenString)))
		} else {
			appLogger.Warn("JWT validation failed", zap.Error(err), zap.String("token_snippet", snippet(tokenString)))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidJWTToken
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, fmt.Errorf("%w: not an access token", ErrInvalidJWTToken)
	}
	return claims, nil
}
