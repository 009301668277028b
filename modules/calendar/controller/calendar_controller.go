package controller

import (
	"net/http"

	"calendar-api/core/constants"
	"calendar-api/core/controller"
	"calendar-api/core/errors"
	accessEntity "calendar-api/modules/access/entity"
	"calendar-api/modules/calendar/dto"
	"calendar-api/modules/calendar/service"
	"calendar-api/modules/calendar/validator"

	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	controller.BaseController
	service *service.CalendarService
}

func NewCalendarController(service *service.CalendarService) *CalendarController {
	return &CalendarController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// Create godoc
// @Summary      Create a calendar owned by the caller
// @Tags         calendars
// @Security     BearerAuth
// @Param        body  body      dto.CreateCalendarRequest  true  "Calendar"
// @Success      201   {object}  dto.CalendarResponse
// @Router       /calendars [post]
func (c *CalendarController) Create(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	req := new(dto.CreateCalendarRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}
	if result := validator.ValidateCreateCalendarRequest(req); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", result)
	}

	resp, appErr := c.service.Create(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, resp, "Calendar created")
}

// List godoc
// @Summary      List owned and shared calendars
// @Tags         calendars
// @Security     BearerAuth
// @Success      200  {array}  dto.CalendarResponse
// @Router       /calendars [get]
func (c *CalendarController) List(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, appErr := c.service.List(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Calendars retrieved")
}

func (c *CalendarController) Get(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, appErr := c.service.Get(ctx.Request().Context(), userID, calendarID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Calendar retrieved")
}

func (c *CalendarController) Update(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	req := new(dto.UpdateCalendarRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}
	if result := validator.ValidateUpdateCalendarRequest(req); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", result)
	}

	resp, appErr := c.service.Update(ctx.Request().Context(), userID, calendarID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Calendar updated")
}

func (c *CalendarController) SetVisibility(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	req := new(dto.SetVisibilityRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}
	if result := validator.ValidateSetVisibilityRequest(req); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", result)
	}

	resp, appErr := c.service.SetVisibility(ctx.Request().Context(), userID, calendarID, *req.IsVisible)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Calendar visibility updated")
}

func (c *CalendarController) Delete(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	if appErr := c.service.Delete(ctx.Request().Context(), userID, calendarID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Calendar deleted")
}

// ========== Participants ==========

// ListParticipants godoc
// @Summary      List the owner and participants of a calendar
// @Tags         participants
// @Security     BearerAuth
// @Param        id   path      string  true  "Calendar ID"
// @Success      200  {object}  dto.ParticipantsResponse
// @Router       /calendars/{id}/participants [get]
func (c *CalendarController) ListParticipants(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, appErr := c.service.ListParticipants(ctx.Request().Context(), userID, calendarID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Participants retrieved")
}

func (c *CalendarController) ChangeRole(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	targetID, err := controller.ParseUUIDParam(ctx, "userId")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	req := new(dto.ChangeRoleRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}
	if result := validator.ValidateChangeRoleRequest(req); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", result)
	}

	role, _ := accessEntity.ParseRole(req.Role)
	if appErr := c.service.ChangeRole(ctx.Request().Context(), userID, calendarID, targetID, role); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, map[string]string{"role": string(role)}, "Participant role updated")
}

func (c *CalendarController) RemoveParticipant(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	targetID, err := controller.ParseUUIDParam(ctx, "userId")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	if appErr := c.service.RemoveParticipant(ctx.Request().Context(), userID, calendarID, targetID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Participant removed")
}

func (c *CalendarController) Leave(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	if appErr := c.service.Leave(ctx.Request().Context(), userID, calendarID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Left calendar")
}

// ========== Export ==========

// Export godoc
// @Summary      Download the calendar as iCalendar
// @Tags         calendars
// @Security     BearerAuth
// @Produce      text/calendar
// @Param        id   path  string  true  "Calendar ID"
// @Router       /calendars/{id}/export [get]
func (c *CalendarController) Export(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	body, fileName, appErr := c.service.Export(ctx.Request().Context(), userID, calendarID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.Blob(http.StatusOK, constants.CalendarExportContentType, body)
}

func (c *CalendarController) PublishExport(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, appErr := c.service.PublishExport(ctx.Request().Context(), userID, calendarID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, resp, "Calendar export published")
}
