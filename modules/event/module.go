package event

import (
	"calendar-api/core/database"
	"calendar-api/core/middleware"
	accessService "calendar-api/modules/access/service"
	"calendar-api/modules/event/controller"
	"calendar-api/modules/event/repository"
	"calendar-api/modules/event/router"
	"calendar-api/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init wires the event module. The repository is returned for calendar export.
func Init(g *echo.Group, db database.IDatabase, mw *middleware.Middleware, access accessService.AccessServiceInterface) (*service.EventService, repository.EventRepository) {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, access)
	ctrl := controller.NewEventController(svc)

	router.NewEventRouter(ctrl).Register(g, mw)

	return svc, repo
}
