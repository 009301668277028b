package utils

import (
	"testing"
	"time"

	"calendar-api/core/constants"
	"calendar-api/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configureTestTokens(t *testing.T) {
	t.Helper()
	ConfigureTokens(TokenSettings{Secret: "test-secret", Issuer: "calendar-api-test", AccessTTL: time.Hour})
}

func TestGenerateAndValidateToken(t *testing.T) {
	configureTestTokens(t)
	userID := uuid.New()
	email, username := "alice@example.com", "alice"

	token, err := GenerateToken(userID, &email, &username, constants.ScopeTokenAccess)
	require.NoError(t, err)

	claims, err := ValidateAndParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, constants.ScopeTokenAccess, claims.Scope)
	assert.Equal(t, "alice", *claims.Username)
	assert.NotEmpty(t, claims.ID)

	remaining := claims.RemainingLifetime(time.Now())
	assert.InDelta(t, time.Hour.Seconds(), remaining.Seconds(), 5)
}

func TestRefreshTokenUsesRefreshTTL(t *testing.T) {
	ConfigureTokens(TokenSettings{Secret: "test-secret", Issuer: "calendar-api-test", RefreshTTL: 48 * time.Hour})

	token, err := GenerateToken(uuid.New(), nil, nil, constants.ScopeTokenRefresh)
	require.NoError(t, err)

	claims, err := ValidateAndParseToken(token)
	require.NoError(t, err)
	assert.InDelta(t, (48 * time.Hour).Seconds(), claims.RemainingLifetime(time.Now()).Seconds(), 5)
}

func TestValidateToken_Expired(t *testing.T) {
	configureTestTokens(t)
	past := time.Now().Add(-2 * time.Hour)
	claims := TokenClaims{
		UserID: uuid.New(),
		Scope:  constants.ScopeTokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "calendar-api-test",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ValidateAndParseToken(token)
	assert.True(t, errors.HasCode(err, errors.ErrTokenExpired))
}

func TestValidateToken_Rejects(t *testing.T) {
	configureTestTokens(t)
	token, err := GenerateToken(uuid.New(), nil, nil, constants.ScopeTokenAccess)
	require.NoError(t, err)

	ConfigureTokens(TokenSettings{Secret: "other-secret", Issuer: "calendar-api-test"})
	_, err = ValidateAndParseToken(token)
	assert.True(t, errors.HasCode(err, errors.ErrUnauthorized))

	ConfigureTokens(TokenSettings{Secret: "test-secret", Issuer: "someone-else"})
	_, err = ValidateAndParseToken(token)
	assert.True(t, errors.HasCode(err, errors.ErrUnauthorized))

	_, err = ValidateAndParseToken("not.a.token")
	assert.True(t, errors.HasCode(err, errors.ErrUnauthorized))
}

func TestRemainingLifetime_NeverNegative(t *testing.T) {
	claims := &TokenClaims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}}
	assert.Zero(t, claims.RemainingLifetime(time.Now()))
	assert.Zero(t, (&TokenClaims{}).RemainingLifetime(time.Now()))
}
