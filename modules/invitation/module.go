package invitation

import (
	"calendar-api/core/database"
	"calendar-api/core/middleware"
	"calendar-api/core/queue"
	"calendar-api/core/utils"
	accessService "calendar-api/modules/access/service"
	calendarRepo "calendar-api/modules/calendar/repository"
	eventRepo "calendar-api/modules/event/repository"
	"calendar-api/modules/invitation/controller"
	"calendar-api/modules/invitation/repository"
	"calendar-api/modules/invitation/router"
	"calendar-api/modules/invitation/service"
	notifService "calendar-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

type Options struct {
	Access   accessService.AccessServiceInterface
	Enqueuer queue.Enqueuer
	Notifier notifService.Notifier
	Clock    utils.Clock
	Settings service.Settings
}

// NewService builds the invitation service over the database. The worker uses it without routes.
func NewService(db database.IDatabase, opts Options) *service.InvitationService {
	return service.NewInvitationService(service.Dependencies{
		Repo:         repository.NewInvitationRepository(db),
		Access:       opts.Access,
		Calendars:    calendarRepo.NewCalendarRepository(db),
		Participants: calendarRepo.NewParticipantRepository(db),
		Events:       eventRepo.NewEventRepository(db),
		Enqueuer:     opts.Enqueuer,
		Notifier:     opts.Notifier,
		Clock:        opts.Clock,
		Settings:     opts.Settings,
	})
}

// Init initializes the invitation module and returns the service
func Init(g *echo.Group, db database.IDatabase, mw *middleware.Middleware, opts Options) *service.InvitationService {
	svc := NewService(db, opts)
	ctrl := controller.NewInvitationController(svc)
	router.NewInvitationRouter(ctrl).Register(g, mw)

	return svc
}
