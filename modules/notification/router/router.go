package router

import (
	"calendar-api/core/middleware"
	"calendar-api/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

type NotificationRouter struct {
	controller *controller.NotificationController
}

func NewNotificationRouter(controller *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{controller: controller}
}

// Register mounts the caller's notification feed. Every route acts on the authenticated user's rows only.
func (r *NotificationRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	feed := g.Group("/notifications", mw.AuthMiddleware())
	feed.GET("", r.controller.GetMyNotifications)
	feed.GET("/unread-count", r.controller.CountUnread)
	feed.PUT("/read", r.controller.MarkAsRead)
	feed.PUT("/read-all", r.controller.MarkAllAsRead)
	feed.DELETE("/:id", r.controller.Delete)
}
