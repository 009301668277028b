package router

import (
	"calendar-api/core/middleware"
	"calendar-api/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{
		controller: controller,
	}
}

func (r *CalendarRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	calendars := g.Group("/calendars", mw.AuthMiddleware())

	calendars.POST("", r.controller.Create)
	calendars.GET("", r.controller.List)
	calendars.GET("/:id", r.controller.Get)
	calendars.PUT("/:id", r.controller.Update)
	calendars.PATCH("/:id/visibility", r.controller.SetVisibility)
	calendars.DELETE("/:id", r.controller.Delete)

	// Participants
	calendars.GET("/:id/participants", r.controller.ListParticipants)
	calendars.PUT("/:id/participants/:userId/role", r.controller.ChangeRole)
	calendars.DELETE("/:id/participants/:userId", r.controller.RemoveParticipant)
	calendars.DELETE("/:id/leave", r.controller.Leave)

	// Export
	calendars.GET("/:id/export", r.controller.Export)
	calendars.POST("/:id/export/publish", r.controller.PublishExport)
}
