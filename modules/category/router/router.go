package router

import (
	"calendar-api/core/middleware"
	"calendar-api/modules/category/controller"

	"github.com/labstack/echo/v4"
)

type CategoryRouter struct {
	controller *controller.CategoryController
}

func NewCategoryRouter(controller *controller.CategoryController) *CategoryRouter {
	return &CategoryRouter{controller: controller}
}

func (r *CategoryRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	calendars := g.Group("/calendars", mw.AuthMiddleware())
	calendars.POST("/:id/categories", r.controller.Create)
	calendars.GET("/:id/categories", r.controller.List)

	categories := g.Group("/categories", mw.AuthMiddleware())
	categories.PUT("/:id", r.controller.Update)
	categories.DELETE("/:id", r.controller.Delete)
}
