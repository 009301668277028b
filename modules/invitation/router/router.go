package router

import (
	"calendar-api/core/middleware"
	"calendar-api/modules/invitation/controller"

	"github.com/labstack/echo/v4"
)

type InvitationRouter struct {
	controller *controller.InvitationController
}

func NewInvitationRouter(controller *controller.InvitationController) *InvitationRouter {
	return &InvitationRouter{
		controller: controller,
	}
}

func (r *InvitationRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	// Public: the invitee may not have an account yet.
	g.GET("/calendars/email-invite/:token/info", r.controller.GetCalendarEmailInviteInfo)
	g.GET("/events/email-invite/:token/info", r.controller.GetEventEmailInviteInfo)

	auth := mw.AuthMiddleware()

	calendars := g.Group("/calendars", auth)
	calendars.POST("/:id/invite-links", r.controller.CreateInviteLink)
	calendars.GET("/:id/invite-links", r.controller.ListInviteLinks)
	calendars.DELETE("/:id/invite-links/:linkId", r.controller.RevokeInviteLink)
	calendars.POST("/:id/email-invites", r.controller.CreateCalendarEmailInvites)
	calendars.GET("/:id/email-invites", r.controller.ListCalendarEmailInvites)
	calendars.DELETE("/:id/email-invites/:inviteId", r.controller.RevokeCalendarEmailInvite)
	calendars.POST("/email-invite/:token/accept", r.controller.AcceptCalendarEmailInvite)

	invites := g.Group("/calendar-invites", auth)
	invites.GET("/:id", r.controller.GetInviteLinkInfo)
	invites.POST("/:id/accept", r.controller.AcceptInviteLink)

	events := g.Group("/events", auth)
	events.POST("/:id/email-invites", r.controller.CreateEventEmailInvites)
	events.POST("/email-invite/:token/accept", r.controller.AcceptEventEmailInvite)
}
