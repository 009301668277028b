package controller

import (
	"strings"

	"calendar-api/core/controller"
	"calendar-api/core/errors"
	"calendar-api/modules/invitation/dto"
	"calendar-api/modules/invitation/service"
	"calendar-api/modules/invitation/validator"

	"github.com/labstack/echo/v4"
)

type InvitationController struct {
	controller.BaseController
	service *service.InvitationService
}

func NewInvitationController(service *service.InvitationService) *InvitationController {
	return &InvitationController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// ========== Invite links ==========

// CreateInviteLink godoc
// @Summary      Create a shareable invite link for a calendar
// @Tags         invitations
// @Security     BearerAuth
// @Param        id    path      string                       true  "Calendar ID"
// @Param        body  body      dto.CreateInviteLinkRequest  false "Role and expiry"
// @Success      201   {object}  dto.InviteLinkResponse
// @Router       /calendars/{id}/invite-links [post]
func (c *InvitationController) CreateInviteLink(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	req := new(dto.CreateInviteLinkRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}
	if result := validator.ValidateCreateInviteLinkRequest(req); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", result)
	}

	resp, appErr := c.service.CreateInviteLink(ctx.Request().Context(), userID, calendarID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, resp, "Invite link created")
}

func (c *InvitationController) ListInviteLinks(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, appErr := c.service.ListInviteLinks(ctx.Request().Context(), userID, calendarID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Invite links retrieved")
}

func (c *InvitationController) RevokeInviteLink(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	linkID, err := stringParam(ctx, "linkId")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	if appErr := c.service.RevokeInviteLink(ctx.Request().Context(), userID, calendarID, linkID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Invite link revoked")
}

func (c *InvitationController) GetInviteLinkInfo(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	linkID, err := stringParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, appErr := c.service.GetInviteLinkInfo(ctx.Request().Context(), userID, linkID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Invite link retrieved")
}

// AcceptInviteLink godoc
// @Summary      Join a calendar through an invite link
// @Tags         invitations
// @Security     BearerAuth
// @Param        id    path      string                       true  "Invite link ID"
// @Param        body  body      dto.AcceptInviteLinkRequest  false "Optional lower role"
// @Success      200   {object}  dto.AcceptCalendarInviteResponse
// @Router       /calendar-invites/{id}/accept [post]
func (c *InvitationController) AcceptInviteLink(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	linkID, err := stringParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	req := new(dto.AcceptInviteLinkRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}
	if result := validator.ValidateAcceptInviteLinkRequest(req); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", result)
	}

	resp, appErr := c.service.AcceptInviteLink(ctx.Request().Context(), userID, linkID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Invite accepted")
}

// ========== Calendar email invites ==========

func (c *InvitationController) CreateCalendarEmailInvites(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	req := new(dto.CreateCalendarEmailInvitesRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}
	if result := validator.ValidateCreateCalendarEmailInvitesRequest(req); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", result)
	}

	resp, appErr := c.service.CreateCalendarEmailInvites(ctx.Request().Context(), userID, calendarID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, resp, "Email invites sent")
}

func (c *InvitationController) ListCalendarEmailInvites(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, appErr := c.service.ListCalendarEmailInvites(ctx.Request().Context(), userID, calendarID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Email invites retrieved")
}

func (c *InvitationController) RevokeCalendarEmailInvite(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	inviteID, err := controller.ParseUUIDParam(ctx, "inviteId")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	if appErr := c.service.RevokeCalendarEmailInvite(ctx.Request().Context(), userID, calendarID, inviteID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Email invite revoked")
}

func (c *InvitationController) GetCalendarEmailInviteInfo(ctx echo.Context) error {
	token, err := stringParam(ctx, "token")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, appErr := c.service.GetCalendarEmailInviteInfo(ctx.Request().Context(), token)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Invite retrieved")
}

func (c *InvitationController) AcceptCalendarEmailInvite(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	token, err := stringParam(ctx, "token")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, appErr := c.service.AcceptCalendarEmailInvite(ctx.Request().Context(), userID, token)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Invite accepted")
}

// ========== Event email invites ==========

// CreateEventEmailInvites godoc
// @Summary      Invite email addresses to an event
// @Tags         invitations
// @Security     BearerAuth
// @Param        id    path      string                              true  "Event ID"
// @Param        body  body      dto.CreateEventEmailInvitesRequest  true  "Emails"
// @Router       /events/{id}/email-invites [post]
func (c *InvitationController) CreateEventEmailInvites(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	eventID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	req := new(dto.CreateEventEmailInvitesRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}
	if result := validator.ValidateCreateEventEmailInvitesRequest(req); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", result)
	}

	resp, appErr := c.service.CreateEventEmailInvites(ctx.Request().Context(), userID, eventID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, resp, "Event invites sent")
}

func (c *InvitationController) GetEventEmailInviteInfo(ctx echo.Context) error {
	token, err := stringParam(ctx, "token")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, appErr := c.service.GetEventEmailInviteInfo(ctx.Request().Context(), token)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Invite retrieved")
}

func (c *InvitationController) AcceptEventEmailInvite(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	token, err := stringParam(ctx, "token")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, appErr := c.service.AcceptEventEmailInvite(ctx.Request().Context(), userID, token)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Invite accepted")
}

func stringParam(ctx echo.Context, name string) (string, error) {
	value := strings.TrimSpace(ctx.Param(name))
	if value == "" {
		return "", errors.InvalidInput(name + " is required")
	}
	return value, nil
}
