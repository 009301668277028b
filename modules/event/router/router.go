package router

import (
	"calendar-api/core/middleware"
	"calendar-api/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	controller *controller.EventController
}

func NewEventRouter(controller *controller.EventController) *EventRouter {
	return &EventRouter{controller: controller}
}

func (r *EventRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	calendars := g.Group("/calendars", mw.AuthMiddleware())
	calendars.POST("/:id/events", r.controller.Create)
	calendars.GET("/:id/events", r.controller.List)

	events := g.Group("/events", mw.AuthMiddleware())
	events.GET("/:id", r.controller.Get)
	events.PUT("/:id", r.controller.Update)
	events.DELETE("/:id", r.controller.Delete)
	events.GET("/:id/participants", r.controller.ListParticipants)
	events.POST("/:id/confirm", r.controller.Confirm)
	events.DELETE("/:id/leave", r.controller.Leave)
}
