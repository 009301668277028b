package notification

import (
	"calendar-api/core/database"
	"calendar-api/core/middleware"
	"calendar-api/modules/notification/controller"
	"calendar-api/modules/notification/repository"
	"calendar-api/modules/notification/router"
	"calendar-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.IDatabase, mw *middleware.Middleware) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(e, mw)

	return svc
}
