package middleware

import (
	"net/http"

	"calendar-api/core/cache"
	"calendar-api/core/constants"
	"calendar-api/core/controller"
	"calendar-api/core/errors"
	"calendar-api/core/logger"
	"calendar-api/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	revoker cache.TokenRevoker
}

func NewMiddleware(revoker cache.TokenRevoker) *Middleware {
	return &Middleware{revoker: revoker}
}

// AuthMiddleware accepts access tokens only. Claims are stored under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, raw, appErr := m.authenticate(c)
			if appErr != nil {
				return controller.NewErrorResponse(http.StatusUnauthorized, appErr.Code, appErr.Message)
			}

			c.Set(constants.ContextTokenData, claims)
			c.Set(constants.ContextRawToken, raw)
			return next(c)
		}
	}
}

func (m *Middleware) authenticate(c echo.Context) (*utils.TokenClaims, string, *errors.AppError) {
	token, err := utils.GetTokenFromHeader(c)
	if err != nil {
		return nil, "", asUnauthorized(err, "missing or malformed authorization header")
	}

	claims, err := utils.ValidateAndParseToken(token)
	if err != nil {
		logger.Debug("Middleware:AuthMiddleware:ValidateAndParseToken", "error", err)
		return nil, "", asUnauthorized(err, "invalid token")
	}
	if claims == nil {
		return nil, "", errors.NewAppError(errors.ErrUnauthorized, "invalid token", nil)
	}

	if claims.Scope != constants.ScopeTokenAccess {
		return nil, "", errors.NewAppError(errors.ErrUnauthorized, "access token required", nil)
	}

	if m.revoker != nil {
		revoked, err := m.revoker.IsTokenRevoked(c.Request().Context(), claims.ID)
		if err != nil {
			logger.Error("Middleware:AuthMiddleware:IsTokenRevoked:Error", "error", err)
			return nil, "", errors.NewAppError(errors.ErrUnauthorized, "unable to verify token", err)
		}
		if revoked {
			return nil, "", errors.NewAppError(errors.ErrTokenRevoked, "token has been revoked", nil)
		}
	}

	return claims, token, nil
}

// asUnauthorized keeps a typed auth error and maps anything else to 401.
func asUnauthorized(err error, message string) *errors.AppError {
	if appErr, ok := errors.As(err); ok {
		return appErr
	}
	return errors.NewAppError(errors.ErrUnauthorized, message, err)
}
