package calendar

import (
	"calendar-api/core/database"
	"calendar-api/core/middleware"
	"calendar-api/core/storage"
	"calendar-api/core/utils"
	accessService "calendar-api/modules/access/service"
	"calendar-api/modules/calendar/controller"
	"calendar-api/modules/calendar/repository"
	"calendar-api/modules/calendar/router"
	"calendar-api/modules/calendar/service"
	notifService "calendar-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

type Options struct {
	Access   accessService.AccessServiceInterface
	Events   service.EventLister
	Notifier notifService.Notifier
	Store    storage.ObjectStore
	Clock    utils.Clock
}

func Init(g *echo.Group, db database.IDatabase, mw *middleware.Middleware, opts Options) *service.CalendarService {
	calendarService := service.NewCalendarService(service.Dependencies{
		Calendars:    repository.NewCalendarRepository(db),
		Participants: repository.NewParticipantRepository(db),
		Access:       opts.Access,
		Events:       opts.Events,
		Notifier:     opts.Notifier,
		Store:        opts.Store,
		Clock:        opts.Clock,
	})
	calendarController := controller.NewCalendarController(calendarService)

	router.NewCalendarRouter(calendarController).Register(g, mw)

	return calendarService
}
