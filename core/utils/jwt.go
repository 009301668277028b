package utils

import (
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"calendar-api/core/constants"
	"calendar-api/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type TokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    *string   `json:"email,omitempty"`
	Username *string   `json:"username,omitempty"`
	Scope    string    `json:"scope"`
	jwt.RegisteredClaims
}

type TokenSettings struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

var (
	tokenMu       sync.RWMutex
	tokenSettings = TokenSettings{
		Secret:     "change-me",
		Issuer:     "calendar-api",
		AccessTTL:  time.Hour,
		RefreshTTL: 30 * 24 * time.Hour,
	}
)

// ConfigureTokens sets the signing secret and lifetimes used by GenerateToken.
func ConfigureTokens(settings TokenSettings) {
	tokenMu.Lock()
	defer tokenMu.Unlock()
	if settings.AccessTTL <= 0 {
		settings.AccessTTL = time.Hour
	}
	if settings.RefreshTTL <= 0 {
		settings.RefreshTTL = 30 * 24 * time.Hour
	}
	tokenSettings = settings
}

func currentTokenSettings() TokenSettings {
	tokenMu.RLock()
	defer tokenMu.RUnlock()
	return tokenSettings
}

func AccessTokenTTL() time.Duration {
	return currentTokenSettings().AccessTTL
}

// GenerateToken signs a token for the given scope. An explicit ttl overrides the scope default.
func GenerateToken(userID uuid.UUID, email *string, username *string, scope string, ttl ...time.Duration) (string, error) {
	settings := currentTokenSettings()

	lifetime := settings.AccessTTL
	if scope == constants.ScopeTokenRefresh {
		lifetime = settings.RefreshTTL
	}
	if len(ttl) > 0 && ttl[0] > 0 {
		lifetime = ttl[0]
	}

	now := time.Now()
	claims := TokenClaims{
		UserID:   userID,
		Email:    email,
		Username: username,
		Scope:    scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    settings.Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(settings.Secret))
}

func ValidateAndParseToken(tokenString string) (*TokenClaims, error) {
	settings := currentTokenSettings()

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(settings.Secret), nil
	}, jwt.WithIssuer(settings.Issuer))
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.NewAppError(errors.ErrTokenExpired, "token expired", err)
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid token", err)
	}
	if !token.Valid {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid token", nil)
	}
	return claims, nil
}

// RemainingLifetime is how long the token stays valid; revocation entries live that long.
func (c *TokenClaims) RemainingLifetime(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := c.ExpiresAt.Time.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func GetTokenFromHeader(c echo.Context) (string, error) {
	header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	if header == "" {
		return "", errors.NewAppError(errors.ErrMissingAuthorizationHeader, "missing authorization header", nil)
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid authorization header format", nil)
	}
	return strings.TrimSpace(parts[1]), nil
}
