package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"calendar-api/core/constants"
	"calendar-api/core/errors"
	"calendar-api/core/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.ErrorCode
		want int
	}{
		{errors.ErrInvalidInput, http.StatusBadRequest},
		{errors.ErrInvalidRequestData, http.StatusBadRequest},
		{errors.ErrConflict, http.StatusBadRequest},
		{errors.ErrUnauthorized, http.StatusUnauthorized},
		{errors.ErrTokenRevoked, http.StatusUnauthorized},
		{errors.ErrForbidden, http.StatusForbidden},
		{errors.ErrInviteExpired, http.StatusForbidden},
		{errors.ErrProtectedCalendar, http.StatusForbidden},
		{errors.ErrNotFound, http.StatusNotFound},
		{errors.ErrAlreadyExists, http.StatusConflict},
		{errors.ErrLoginBlocked, http.StatusTooManyRequests},
		{errors.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{errors.ErrCreateFailed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.code))
		})
	}
}

func newContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorResponse_AppError(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/")

	err := NewBaseController().ErrorResponse(c, errors.Forbidden("your role does not allow this action"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, StatusError, body.Status)
	assert.Equal(t, errors.ErrForbidden, body.Code)
	assert.Equal(t, "your role does not allow this action", body.Message)
}

func TestErrorResponse_HidesInternalCause(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/")

	appErr := errors.NewAppError(errors.ErrGetFailed, "get calendar failed", fmt.Errorf("connection refused"))
	require.NoError(t, NewBaseController().ErrorResponse(c, appErr))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, errors.ErrGetFailed, body.Code)
	assert.Equal(t, "internal server error", body.Message)
}

func TestErrorResponse_PlainError(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/")

	require.NoError(t, NewBaseController().ErrorResponse(c, fmt.Errorf("boom")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, errors.ErrInternalServer, decode(t, rec).Code)
}

func TestHTTPErrorHandler(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/missing")
	HTTPErrorHandler(echo.ErrNotFound, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errors.ErrNotFound, decode(t, rec).Code)

	c, rec = newContext(http.MethodPost, "/")
	HTTPErrorHandler(NewErrorResponse(http.StatusBadRequest, errors.ErrInvalidInput, "Invalid request data"), c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, errors.ErrInvalidInput, body.Code)
	assert.Equal(t, "Invalid request data", body.Message)
}

func TestCurrentUserID(t *testing.T) {
	base := NewBaseController()

	c, _ := newContext(http.MethodGet, "/")
	_, err := base.CurrentUserID(c)
	assert.True(t, errors.HasCode(err, errors.ErrUnauthorized))

	id := uuid.New()
	c.Set(constants.ContextTokenData, &utils.TokenClaims{UserID: id})
	got, err := base.CurrentUserID(c)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParseUUIDParam(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/")
	c.SetParamNames("id")
	c.SetParamValues("nope")

	_, err := ParseUUIDParam(c, "id")
	assert.True(t, errors.HasCode(err, errors.ErrInvalidRequestData))

	id := uuid.New()
	c.SetParamValues(id.String())
	got, err := ParseUUIDParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
