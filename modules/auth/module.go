package auth

import (
	"calendar-api/core/cache"
	"calendar-api/core/database"
	"calendar-api/core/middleware"
	"calendar-api/core/utils"
	"calendar-api/modules/auth/controller"
	"calendar-api/modules/auth/repository"
	"calendar-api/modules/auth/router"
	"calendar-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

func Init(g *echo.Group, db database.IDatabase, cache cache.Cache, mw *middleware.Middleware, clock utils.Clock) service.AuthServiceInterface {
	repo := repository.NewAuthRepository(db)
	authService := service.NewAuthService(repo, cache, clock)
	ctrl := controller.NewAuthController(authService)

	router.NewAuthRouter(ctrl).Register(g, mw)

	return authService
}
