package controller

import (
	"time"

	"calendar-api/core/controller"
	"calendar-api/core/errors"
	"calendar-api/modules/event/dto"
	"calendar-api/modules/event/service"
	"calendar-api/modules/event/validator"

	"github.com/labstack/echo/v4"
)

type EventController struct {
	controller.BaseController
	service *service.EventService
}

func NewEventController(service *service.EventService) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// Create godoc
// @Summary      Create an event in a calendar
// @Tags         events
// @Security     BearerAuth
// @Param        id    path  string                  true  "Calendar ID"
// @Param        body  body  dto.CreateEventRequest  true  "Event"
// @Success      201   {object}  dto.EventResponse
// @Router       /calendars/{id}/events [post]
func (c *EventController) Create(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	req := new(dto.CreateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}
	if result := validator.ValidateCreateEventRequest(req); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", result)
	}

	resp, appErr := c.service.Create(ctx.Request().Context(), userID, calendarID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, resp, "Event created")
}

// List godoc
// @Summary      List calendar events, optionally within [from, to)
// @Tags         events
// @Security     BearerAuth
// @Param        id    path   string  true   "Calendar ID"
// @Param        from  query  string  false  "RFC3339 lower bound"
// @Param        to    query  string  false  "RFC3339 upper bound"
// @Router       /calendars/{id}/events [get]
func (c *EventController) List(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	var from, to time.Time
	if err := echo.QueryParamsBinder(ctx).
		Time("from", &from, time.RFC3339).
		Time("to", &to, time.RFC3339).
		BindError(); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "from and to must be RFC3339 timestamps")
	}
	query := &dto.ListEventsQuery{}
	if !from.IsZero() {
		query.From = &from
	}
	if !to.IsZero() {
		query.To = &to
	}
	if result := validator.ValidateListEventsQuery(query); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", result)
	}

	resp, appErr := c.service.List(ctx.Request().Context(), userID, calendarID, query)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Events retrieved")
}

func (c *EventController) Get(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	eventID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, appErr := c.service.Get(ctx.Request().Context(), userID, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Event retrieved")
}

func (c *EventController) Update(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	eventID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	req := new(dto.UpdateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}
	if result := validator.ValidateUpdateEventRequest(req); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", result)
	}

	resp, appErr := c.service.Update(ctx.Request().Context(), userID, eventID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Event updated")
}

func (c *EventController) Delete(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	eventID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	if appErr := c.service.Delete(ctx.Request().Context(), userID, eventID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Event deleted")
}

func (c *EventController) ListParticipants(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	eventID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, appErr := c.service.ListParticipants(ctx.Request().Context(), userID, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Participants retrieved")
}

func (c *EventController) Confirm(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	eventID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	req := new(dto.ConfirmEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}
	confirmed := true
	if req.Confirmed != nil {
		confirmed = *req.Confirmed
	}

	if appErr := c.service.SetConfirmation(ctx.Request().Context(), userID, eventID, confirmed); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, map[string]bool{"has_confirmed": confirmed}, "Attendance updated")
}

func (c *EventController) Leave(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	eventID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	if appErr := c.service.Leave(ctx.Request().Context(), userID, eventID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Left event")
}
