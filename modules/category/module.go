package category

import (
	"calendar-api/core/database"
	"calendar-api/core/middleware"
	accessService "calendar-api/modules/access/service"
	"calendar-api/modules/category/controller"
	"calendar-api/modules/category/repository"
	"calendar-api/modules/category/router"
	"calendar-api/modules/category/service"

	"github.com/labstack/echo/v4"
)

func Init(g *echo.Group, db database.IDatabase, mw *middleware.Middleware, access accessService.AccessServiceInterface) *service.CategoryService {
	repo := repository.NewCategoryRepository(db)
	svc := service.NewCategoryService(repo, access)
	ctrl := controller.NewCategoryController(svc)

	router.NewCategoryRouter(ctrl).Register(g, mw)

	return svc
}
