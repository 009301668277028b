package middleware

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"calendar-api/core/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsUnauthorized_PlainErrorFailsClosed(t *testing.T) {
	appErr := asUnauthorized(stderrors.New("boom"), "invalid token")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
	assert.Equal(t, "invalid token", appErr.Message)
}

func TestAsUnauthorized_KeepsTypedError(t *testing.T) {
	typed := errors.NewAppError(errors.ErrTokenRevoked, "token has been revoked", nil)
	assert.Same(t, typed, asUnauthorized(typed, "invalid token"))
}

func TestAuthenticate_NeverReturnsNilClaimsWithoutError(t *testing.T) {
	m := NewMiddleware(nil)
	for _, header := range []string{"", "Bearer", "Bearer not.a.jwt", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		c := echo.New().NewContext(req, httptest.NewRecorder())

		claims, _, appErr := m.authenticate(c)
		assert.Nil(t, claims, header)
		require.NotNil(t, appErr, header)
	}
}
